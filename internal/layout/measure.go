package layout

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotReady is returned by a Measurer when the node has not been rendered yet.
	ErrNotReady = errors.New("layout: node not measured yet")
	// ErrMeasurementTimeout is returned by MeasureAll once the retry budget is spent.
	ErrMeasurementTimeout = errors.New("layout: measurement timed out")
)

// Handle identifies a measurable node: a list's first item, or its header.
type Handle struct {
	List   int
	Header bool
}

func (h Handle) String() string {
	if h.Header {
		return fmt.Sprintf("list %d header", h.List)
	}
	return fmt.Sprintf("list %d first item", h.List)
}

// Measurer reports the rendered pixel height of a node.
type Measurer interface {
	Measure(ctx context.Context, h Handle) (float64, error)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(ctx context.Context, h Handle) (float64, error)

func (f MeasurerFunc) Measure(ctx context.Context, h Handle) (float64, error) { return f(ctx, h) }

// RetryPolicy bounds the polling of a Measurer that is not ready yet.
type RetryPolicy struct {
	Interval time.Duration
	// MaxAttempts caps the number of polling rounds; 0 retries until ctx is done.
	MaxAttempts int
}

// DefaultRetryPolicy polls every 200ms for about ten seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Interval: 200 * time.Millisecond, MaxAttempts: 50}
}

// Heights is the measured output of MeasureAll, indexed by list.
type Heights struct {
	Items   []float64
	Headers []float64
}

// MeasureAll measures the first item of every list, and the header of each list whose
// entry in headers is true. Lists whose first item is not ready cause the whole round to
// be retried after p.Interval. A header that is not ready counts as 0.
func MeasureAll(ctx context.Context, m Measurer, lists int, headers []bool, p RetryPolicy) (Heights, error) {
	if p.Interval <= 0 {
		p.Interval = DefaultRetryPolicy().Interval
	}

	for attempt := 1; ; attempt++ {
		out, pending, err := measureRound(ctx, m, lists, headers)
		if err != nil {
			return Heights{}, err
		}
		if pending == nil {
			return out, nil
		}
		if p.MaxAttempts > 0 && attempt >= p.MaxAttempts {
			return Heights{}, fmt.Errorf("%w after %d attempts: %s", ErrMeasurementTimeout, attempt, pending)
		}

		t := time.NewTimer(p.Interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return Heights{}, ctx.Err()
		case <-t.C:
		}
	}
}

func measureRound(ctx context.Context, m Measurer, lists int, headers []bool) (Heights, *Handle, error) {
	out := Heights{
		Items:   make([]float64, lists),
		Headers: make([]float64, lists),
	}
	for i := 0; i < lists; i++ {
		h := Handle{List: i}
		v, err := m.Measure(ctx, h)
		if errors.Is(err, ErrNotReady) {
			return Heights{}, &h, nil
		}
		if err != nil {
			return Heights{}, nil, fmt.Errorf("measure %s: %w", h, err)
		}
		out.Items[i] = v
	}
	for i := 0; i < lists && i < len(headers); i++ {
		if !headers[i] {
			continue
		}
		h := Handle{List: i, Header: true}
		v, err := m.Measure(ctx, h)
		if errors.Is(err, ErrNotReady) {
			continue
		}
		if err != nil {
			return Heights{}, nil, fmt.Errorf("measure %s: %w", h, err)
		}
		out.Headers[i] = v
	}
	return out, nil, nil
}
