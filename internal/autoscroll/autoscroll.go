// Package autoscroll drives the viewport while a dragged item sits near an edge.
//
// The controller is a loop expressed as steps: each step issues one scroll request and
// awaits it; the await resolves when a scroll sample reaches the target, after which the
// loop condition is checked again. Only one request is in flight at a time.
package autoscroll

import "math"

// Direction of an auto-scroll loop.
type Direction int

const (
	None Direction = iota
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// State is the observable auto-scroll state of a drag session.
type State struct {
	Direction     Direction
	Target        float64
	Started       bool
	TargetReached bool
}

// Input is the per-sample view of the session the controller needs.
type Input struct {
	Dragging             bool
	PointerOutOfViewport bool
	PointerY             float64
	ScrollTop            float64
	ScrollLowerBound     float64
	UpperTrigger         float64
	LowerTrigger         float64
	Speed                float64
}

// Request asks the scroll port to move the viewport to Target.
type Request struct {
	Target    float64
	Direction Direction
}

// Controller is not safe for concurrent use.
type Controller struct {
	state    State
	awaiting bool
	steps    int
}

func (c *Controller) State() State { return c.state }

// Steps returns the number of requests issued since the last Reset.
func (c *Controller) Steps() int { return c.steps }

// Reset stops the loop and clears all state.
func (c *Controller) Reset() {
	*c = Controller{}
}

// Evaluate is called on every pointer sample of a drag. It starts or stops the loop
// depending on the trigger zones and returns a request when a new step must be issued.
func (c *Controller) Evaluate(in Input) (Request, bool) {
	if !in.Dragging {
		c.stop()
		return Request{}, false
	}

	switch c.state.Direction {
	case Down:
		if in.PointerY < in.LowerTrigger {
			c.stop()
		}
	case Up:
		if in.PointerY > in.UpperTrigger {
			c.stop()
		}
	}

	if !c.state.Started {
		switch {
		case in.PointerY > in.LowerTrigger && in.ScrollTop < in.ScrollLowerBound:
			c.state.Started = true
			c.state.Direction = Down
		case in.PointerY < in.UpperTrigger && in.ScrollTop > 0:
			c.state.Started = true
			c.state.Direction = Up
		default:
			return Request{}, false
		}
		if c.awaiting {
			// The in-flight request resolves first and continues in the new direction.
			return Request{}, false
		}
		return c.step(in)
	}
	return Request{}, false
}

// Complete consumes a scroll sample. When the sample resolves the awaited request, the
// loop condition is re-checked and the next request is returned if the loop continues.
func (c *Controller) Complete(scrollTop float64, in Input) (Request, bool) {
	if !c.awaiting {
		return Request{}, false
	}
	if !c.reached(scrollTop) {
		c.state.TargetReached = false
		return Request{}, false
	}
	c.state.TargetReached = true
	c.awaiting = false

	in.ScrollTop = scrollTop
	if !in.Dragging || in.PointerOutOfViewport || !c.inZone(in) {
		c.stop()
		return Request{}, false
	}
	return c.step(in)
}

func (c *Controller) inZone(in Input) bool {
	switch c.state.Direction {
	case Down:
		return in.PointerY > in.LowerTrigger
	case Up:
		return in.PointerY < in.UpperTrigger
	default:
		return false
	}
}

func (c *Controller) reached(scrollTop float64) bool {
	cur := math.Round(scrollTop)
	target := math.Round(c.state.Target)
	switch c.state.Direction {
	case Down:
		return cur >= target
	case Up:
		return cur <= target
	default:
		// Direction cleared while awaiting: any sample resolves the request.
		return true
	}
}

func (c *Controller) step(in Input) (Request, bool) {
	var target float64
	switch {
	case in.Speed <= 0:
		c.stop()
		return Request{}, false
	case c.state.Direction == Down && in.ScrollTop < in.ScrollLowerBound:
		target = math.Round(math.Min(in.ScrollTop+in.Speed, in.ScrollLowerBound))
	case c.state.Direction == Up && in.ScrollTop > 0:
		target = math.Round(math.Max(0, in.ScrollTop-in.Speed))
	default:
		// Reached the extreme.
		c.stop()
		return Request{}, false
	}

	c.state.Target = target
	c.state.TargetReached = false
	c.awaiting = true
	c.steps++
	return Request{Target: target, Direction: c.state.Direction}, true
}

func (c *Controller) stop() {
	c.state.Started = false
	c.state.Direction = None
}
