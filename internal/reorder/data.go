package reorder

// Data is host data in either shape the engine accepts: one flat list, or several lists
// displayed together. Emitted orders always keep the shape they were given in.
type Data[T any] struct {
	Lists  [][]T
	Nested bool
}

// Flat wraps a single list.
func Flat[T any](items []T) Data[T] {
	return Data[T]{Lists: [][]T{items}}
}

// Nested wraps several lists.
func Nested[T any](lists [][]T) Data[T] {
	return Data[T]{Lists: lists, Nested: true}
}

// Items returns the single list of flat data, or every list concatenated.
func (d Data[T]) Items() []T {
	var out []T
	for _, l := range d.Lists {
		out = append(out, l...)
	}
	return out
}

// Counts returns the number of items per list.
func (d Data[T]) Counts() []int {
	out := make([]int, len(d.Lists))
	for i, l := range d.Lists {
		out[i] = len(l)
	}
	return out
}

// Len is the total number of items.
func (d Data[T]) Len() int {
	n := 0
	for _, l := range d.Lists {
		n += len(l)
	}
	return n
}

// Clone copies the list structure; payloads are copied by value.
func (d Data[T]) Clone() Data[T] {
	out := Data[T]{Lists: make([][]T, len(d.Lists)), Nested: d.Nested}
	for i, l := range d.Lists {
		out.Lists[i] = append([]T(nil), l...)
	}
	return out
}
