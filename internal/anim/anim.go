// Package anim turns per-item target translations into per-frame positions.
//
// Every item is tracked by its stable key. When an item's target changes a new tween
// starts from wherever the item currently is, so retargeting mid-flight never jumps.
// There is no global clock: the owner calls Frame with the elapsed time.
package anim

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultDuration is the length of one reposition tween.
const DefaultDuration = 300 * time.Millisecond

type track struct {
	pos    float64
	target float64
	tween  *gween.Tween
}

// Animator is not safe for concurrent use.
type Animator struct {
	duration float32
	easing   ease.TweenFunc
	tracks   map[string]*track
}

// New returns an animator using ease.InOutQuad. A non-positive duration uses DefaultDuration.
func New(d time.Duration) *Animator {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Animator{
		duration: float32(d.Seconds()),
		easing:   ease.InOutQuad,
		tracks:   make(map[string]*track),
	}
}

// Frame retargets every key in targets and advances running tweens by dt.
func (a *Animator) Frame(dt time.Duration, targets map[string]float64) {
	for key, target := range targets {
		tr, ok := a.tracks[key]
		if !ok {
			tr = &track{}
			a.tracks[key] = tr
		}
		if target != tr.target || (tr.tween == nil && tr.pos != target) {
			tr.target = target
			tr.tween = gween.New(float32(tr.pos), float32(target), a.duration, a.easing)
		}
	}
	a.advance(dt)
}

// Set places key at v with no tween. Later retargets to v keep it still.
func (a *Animator) Set(key string, v float64) {
	tr, ok := a.tracks[key]
	if !ok {
		tr = &track{}
		a.tracks[key] = tr
	}
	tr.pos, tr.target, tr.tween = v, v, nil
}

func (a *Animator) advance(dt time.Duration) {
	step := float32(dt.Seconds())
	for _, tr := range a.tracks {
		if tr.tween == nil {
			continue
		}
		v, done := tr.tween.Update(step)
		tr.pos = float64(v)
		if done {
			tr.pos = tr.target
			tr.tween = nil
		}
	}
}

// Position is the current translation of key.
func (a *Animator) Position(key string) float64 {
	if tr, ok := a.tracks[key]; ok {
		return tr.pos
	}
	return 0
}

// Settled reports whether key has no tween in flight.
func (a *Animator) Settled(key string) bool {
	tr, ok := a.tracks[key]
	return !ok || tr.tween == nil
}

// Idle reports whether no tween is in flight.
func (a *Animator) Idle() bool {
	for _, tr := range a.tracks {
		if tr.tween != nil {
			return false
		}
	}
	return true
}

// Rebase shifts cached positions after rest positions moved by deltas, so items stay
// where they are on screen. Running tweens are dropped.
func (a *Animator) Rebase(deltas map[string]float64) {
	for key, d := range deltas {
		tr, ok := a.tracks[key]
		if !ok {
			continue
		}
		tr.pos -= d
		tr.target = tr.pos
		tr.tween = nil
	}
}

// Retain forgets every key not in keys.
func (a *Animator) Retain(keys []string) {
	keep := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keep[k] = struct{}{}
	}
	for k := range a.tracks {
		if _, ok := keep[k]; !ok {
			delete(a.tracks, k)
		}
	}
}
