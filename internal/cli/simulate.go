package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"dragsort/internal/config"
	"dragsort/internal/engine"
	"dragsort/internal/gesture"
	"dragsort/internal/layout"
	"dragsort/internal/loop"
	"dragsort/internal/reorder"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// script is a gesture replay. Every y is a pointer position relative to the screen, like
// the samples a platform recognizer reports.
type script struct {
	ItemHeight   float64    `yaml:"item_height"`
	HeaderHeight float64    `yaml:"header_height"`
	Viewport     float64    `yaml:"viewport"`
	OffsetTop    float64    `yaml:"offset_top"`
	DebounceMS   *int       `yaml:"debounce_ms"`
	Lists        [][]string `yaml:"lists"`
	Steps        []step     `yaml:"steps"`
}

type step struct {
	LongPress *float64 `yaml:"long_press"`
	Press     *float64 `yaml:"press"`
	Handle    *int     `yaml:"handle"`
	Move      *float64 `yaml:"move"`
	Release   *float64 `yaml:"release"`
	Cancel    *float64 `yaml:"cancel"`
	Scroll    *float64 `yaml:"scroll"`
	Wait      *int     `yaml:"wait"`
	Frame     *int     `yaml:"frame"`
}

// action names the single thing a step does.
func (s step) action() (string, error) {
	var set []string
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{"long_press", s.LongPress != nil},
		{"press", s.Press != nil},
		{"move", s.Move != nil},
		{"release", s.Release != nil},
		{"cancel", s.Cancel != nil},
		{"scroll", s.Scroll != nil},
		{"wait", s.Wait != nil},
		{"frame", s.Frame != nil},
	} {
		if f.ok {
			set = append(set, f.name)
		}
	}
	switch {
	case len(set) == 0:
		return "", errors.New("empty step")
	case len(set) > 1:
		return "", fmt.Errorf("one action per step, got %s", strings.Join(set, ", "))
	case s.Handle != nil && set[0] != "press":
		return "", errors.New("handle only goes with press")
	case set[0] == "press" && s.Handle == nil:
		return "", errors.New("press needs a handle index")
	}
	return set[0], nil
}

type simPublication struct {
	AtMS  int64      `json:"atMs"`
	Lists [][]string `json:"lists"`
}

type simResult struct {
	Publications []simPublication `json:"publications"`
	Final        [][]string       `json:"final"`
	ScrollTop    float64          `json:"scrollTop"`
	State        string           `json:"state"`
	ElapsedMS    int64            `json:"elapsedMs"`
}

func newSimulateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate <script.yaml>",
		Short: "Replay a gesture script against the drag engine (see: dragsort docs simulate)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := readScript(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := runScript(contextOrBackground(cmd.Context()), sc, app.cfg, app.log)
			if err != nil {
				return writeErr(cmd, err)
			}
			if app.Format == "" {
				return writeSimText(cmd.OutOrStdout(), res)
			}
			return writeOut(cmd, app, res)
		},
	}
}

func readScript(path string) (script, error) {
	f, err := os.Open(path)
	if err != nil {
		return script{}, err
	}
	defer f.Close()
	return parseScript(f)
}

func parseScript(r io.Reader) (script, error) {
	var sc script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return script{}, fmt.Errorf("parse script: %w", err)
	}
	switch {
	case len(sc.Lists) == 0:
		return script{}, scriptError{step: -1, msg: "no lists"}
	case sc.ItemHeight <= 0:
		return script{}, scriptError{step: -1, msg: "item_height must be positive"}
	case sc.Viewport <= 0:
		return script{}, scriptError{step: -1, msg: "viewport must be positive"}
	case sc.HeaderHeight < 0:
		return script{}, scriptError{step: -1, msg: "header_height must not be negative"}
	case sc.DebounceMS != nil && *sc.DebounceMS < 0:
		return script{}, scriptError{step: -1, msg: "debounce_ms must not be negative"}
	}
	seen := make(map[string]bool)
	for _, list := range sc.Lists {
		for _, k := range list {
			if seen[k] {
				return script{}, scriptError{step: -1, msg: fmt.Sprintf("duplicate key %q", k)}
			}
			seen[k] = true
		}
	}
	for i, st := range sc.Steps {
		if _, err := st.action(); err != nil {
			return script{}, scriptError{step: i, msg: err.Error()}
		}
	}
	return sc, nil
}

// syncScroller answers every scroll request at once, so auto-scroll runs to completion
// inside the step that started it.
type syncScroller struct {
	list *engine.List[string]
}

func (s *syncScroller) ScrollTo(offset float64) {
	if s.list != nil {
		s.list.HandleScroll(offset)
	}
}

func (s *syncScroller) SetScrollEnabled(bool) {}

// runScript replays sc on an event loop driven by a virtual clock.
func runScript(ctx context.Context, sc script, cfg config.Config, log *slog.Logger) (simResult, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clock := loop.NewManual()
	lp := loop.New(16)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = lp.Run(ctx) }()

	data := reorder.Nested(sc.Lists)
	if len(sc.Lists) == 1 {
		data = reorder.Flat(sc.Lists[0])
	}
	immediate := cfg.DisableDebounce
	debounce := cfg.Debounce()
	if sc.DebounceMS != nil {
		immediate = *sc.DebounceMS == 0
		debounce = time.Duration(*sc.DebounceMS) * time.Millisecond
	}

	res := simResult{Publications: []simPublication{}}
	scroller := &syncScroller{}
	var list *engine.List[string]
	var err error

	if e := lp.Sync(ctx, func() {
		list, err = engine.New(engine.Options[string]{
			Data:         data,
			RenderItem:   []engine.RenderItemFunc[string]{func(p engine.ItemProps[string]) string { return p.Item.Value }},
			KeyExtractor: func(v string, _ int) string { return v },
			OnDragEnd: func(d reorder.Data[string]) {
				res.Publications = append(res.Publications, simPublication{AtMS: clock.Now().Milliseconds(), Lists: d.Lists})
			},
			DisableUpdateListDebounce:  immediate,
			UpdateListDebounceDuration: debounce,
			DisableAutoUpdate:          cfg.DisableAutoUpdate,
			Scroller:                   scroller,
			Scheduler:                  clock,
			Logger:                     log,
			ScrollSpeedScale:           cfg.ScrollSpeedScale,
			TweenDuration:              cfg.TweenDuration(),
		})
		if err != nil {
			return
		}
		scroller.list = list
		list.HandleLayout(measurements(sc))
	}); e != nil {
		return simResult{}, e
	}
	if err != nil {
		return simResult{}, err
	}

	r := replayer{list: list, clock: clock, log: log}
	for i, st := range sc.Steps {
		var stepErr error
		if e := lp.Sync(ctx, func() { stepErr = r.apply(st) }); e != nil {
			return simResult{}, e
		}
		if stepErr != nil {
			return simResult{}, scriptError{step: i, msg: stepErr.Error()}
		}
	}

	if e := lp.Sync(ctx, func() {
		res.Final = list.Data().Lists
		res.ScrollTop = list.ScrollTop()
		res.State = list.State().String()
		res.ElapsedMS = clock.Now().Milliseconds()
		list.Close()
	}); e != nil {
		return simResult{}, e
	}
	return res, nil
}

func measurements(sc script) layout.Measurements {
	m := layout.Measurements{
		ItemHeights:        make([]float64, len(sc.Lists)),
		HeaderHeights:      make([]float64, len(sc.Lists)),
		ContainerHeight:    sc.Viewport,
		ContainerOffsetTop: sc.OffsetTop,
	}
	for i := range sc.Lists {
		m.ItemHeights[i] = sc.ItemHeight
		m.HeaderHeights[i] = sc.HeaderHeight
	}
	return m
}

// replayer turns script steps into recognizer samples, remembering which recognizer
// started the current press.
type replayer struct {
	list  *engine.List[string]
	clock *loop.Manual
	log   *slog.Logger
	press gesture.Recognizer
}

func (r *replayer) apply(st step) error {
	action, err := st.action()
	if err != nil {
		return err
	}
	r.log.Debug("script step", "action", action, "at_ms", r.clock.Now().Milliseconds())

	switch action {
	case "long_press":
		r.press = gesture.LongPress
		r.sample(gesture.LongPress, gesture.Began, *st.LongPress)
		r.sample(gesture.LongPress, gesture.Active, *st.LongPress)
	case "press":
		if err := r.list.StartDrag(*st.Handle); err != nil {
			return err
		}
		r.press = gesture.Tap
		r.sample(gesture.Tap, gesture.Began, *st.Press)
	case "move":
		r.sample(gesture.Pan, gesture.Active, *st.Move)
	case "release":
		r.sample(gesture.Pan, gesture.End, *st.Release)
		r.sample(r.press, gesture.End, *st.Release)
	case "cancel":
		r.sample(gesture.Pan, gesture.Canceled, *st.Cancel)
		if r.press == gesture.LongPress {
			r.sample(gesture.LongPress, gesture.Canceled, *st.Cancel)
		}
	case "scroll":
		r.list.HandleScroll(*st.Scroll)
	case "wait":
		if *st.Wait < 0 {
			return errors.New("wait must not be negative")
		}
		r.clock.Advance(time.Duration(*st.Wait) * time.Millisecond)
	case "frame":
		if *st.Frame < 0 {
			return errors.New("frame must not be negative")
		}
		dt := time.Duration(*st.Frame) * time.Millisecond
		r.clock.Advance(dt)
		r.list.Frame(dt)
	}
	return nil
}

func (r *replayer) sample(rec gesture.Recognizer, state gesture.RecognizerState, y float64) {
	r.list.HandleGesture(gesture.Raw{Recognizer: rec, State: state, AbsoluteY: y})
}

func writeSimText(w io.Writer, res simResult) error {
	for _, p := range res.Publications {
		if _, err := fmt.Fprintf(w, "publish @%dms: %s\n", p.AtMS, joinLists(p.Lists)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "final: %s (scrollTop %g, %s)\n", joinLists(res.Final), res.ScrollTop, res.State)
	return err
}

func joinLists(lists [][]string) string {
	parts := make([]string, len(lists))
	for i, l := range lists {
		parts[i] = strings.Join(l, " ")
	}
	return strings.Join(parts, " | ")
}
