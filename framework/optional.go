package framework

// optional records whether a value was explicitly provided, so a zero
// value can be told apart from a missing one.
type optional[T any] struct {
	value T
	set   bool
}

func some[T any](v T) optional[T] {
	return optional[T]{value: v, set: true}
}

func (o optional[T]) get() (T, bool) {
	return o.value, o.set
}
