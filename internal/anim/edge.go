package anim

// Edge detects changes of a value between successive observations. The initial value is
// the zero value of V unless Prime is called.
type Edge[V comparable] struct {
	last V
}

// Observe records v and reports the previous value and whether it differs.
func (e *Edge[V]) Observe(v V) (prev V, changed bool) {
	prev = e.last
	e.last = v
	return prev, prev != v
}

// Prime sets the last value without reporting a change.
func (e *Edge[V]) Prime(v V) { e.last = v }

func (e *Edge[V]) Last() V { return e.last }
