package anim

import (
	"math"
	"testing"
	"time"
)

func near(a, b float64) bool { return math.Abs(a-b) < 0.5 }

func TestAnimator_ReachesTarget(t *testing.T) {
	t.Parallel()

	a := New(300 * time.Millisecond)
	a.Frame(0, map[string]float64{"k": 100})
	if a.Settled("k") {
		t.Fatalf("expected a running tween")
	}

	// Exact halves avoid float32 drift.
	a.Frame(150*time.Millisecond, map[string]float64{"k": 100})
	if p := a.Position("k"); !near(p, 50) {
		t.Fatalf("midpoint of ease in/out: got %v want ~50", p)
	}
	a.Frame(150*time.Millisecond, map[string]float64{"k": 100})
	if !a.Settled("k") || a.Position("k") != 100 {
		t.Fatalf("expected settled at 100, got %v settled=%v", a.Position("k"), a.Settled("k"))
	}
	if !a.Idle() {
		t.Fatalf("expected idle animator")
	}
}

func TestAnimator_SetSkipsTween(t *testing.T) {
	t.Parallel()

	a := New(300 * time.Millisecond)
	a.Frame(100*time.Millisecond, map[string]float64{"k": 100})
	a.Set("k", 40)
	if a.Position("k") != 40 || !a.Settled("k") || !a.Idle() {
		t.Fatalf("Set should place k at 40 with no tween, got %v settled=%v", a.Position("k"), a.Settled("k"))
	}
	a.Frame(16*time.Millisecond, map[string]float64{"k": 40})
	if a.Position("k") != 40 || !a.Settled("k") {
		t.Fatalf("retarget to the set value should stay put, got %v", a.Position("k"))
	}
}

func TestAnimator_RetargetStartsFromCurrent(t *testing.T) {
	t.Parallel()

	a := New(200 * time.Millisecond)
	a.Frame(100*time.Millisecond, map[string]float64{"k": 100})
	mid := a.Position("k")
	if mid <= 0 || mid >= 100 {
		t.Fatalf("expected in-flight position, got %v", mid)
	}

	a.Frame(0, map[string]float64{"k": -100})
	if p := a.Position("k"); p != mid {
		t.Fatalf("retarget jumped from %v to %v", mid, p)
	}
	a.Frame(200*time.Millisecond, map[string]float64{"k": -100})
	if a.Position("k") != -100 {
		t.Fatalf("got %v want -100", a.Position("k"))
	}
}

func TestAnimator_RebaseShiftsBySlotDelta(t *testing.T) {
	t.Parallel()

	a := New(time.Millisecond)
	a.Frame(time.Second, map[string]float64{"k0": 150, "k1": -50, "k4": 0})
	a.Rebase(map[string]float64{"k0": 150, "k1": -50})

	for _, k := range []string{"k0", "k1", "k4"} {
		if p := a.Position(k); p != 0 {
			t.Fatalf("%s: got %v want 0", k, p)
		}
	}
	// A later idle frame targeting rest does not start a tween.
	a.Frame(0, map[string]float64{"k0": 0, "k1": 0})
	if !a.Idle() {
		t.Fatalf("expected no tween after rebase")
	}
}

func TestAnimator_Retain(t *testing.T) {
	t.Parallel()

	a := New(0)
	a.Frame(time.Second, map[string]float64{"a": 1, "b": 2})
	a.Retain([]string{"b"})
	if a.Position("a") != 0 || a.Position("b") != 2 {
		t.Fatalf("unexpected positions a=%v b=%v", a.Position("a"), a.Position("b"))
	}
}

func TestEdge(t *testing.T) {
	t.Parallel()

	var e Edge[int]
	e.Prime(-1)
	if _, changed := e.Observe(-1); changed {
		t.Fatalf("primed value reported as change")
	}
	prev, changed := e.Observe(3)
	if !changed || prev != -1 {
		t.Fatalf("got prev=%d changed=%v", prev, changed)
	}
	if _, changed := e.Observe(3); changed {
		t.Fatalf("repeat reported as change")
	}
	if e.Last() != 3 {
		t.Fatalf("last: %d", e.Last())
	}
}
