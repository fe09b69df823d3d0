package domain

// OneOrMany is the explicit form of "a single value or a list of values".
// It is resolved once, at the boundary that accepts it.
type OneOrMany[T any] struct {
	items []T
}

// One wraps a single value.
func One[T any](v T) OneOrMany[T] {
	return OneOrMany[T]{items: []T{v}}
}

// Many wraps an ordered list of values.
func Many[T any](vs ...T) OneOrMany[T] {
	items := make([]T, len(vs))
	copy(items, vs)
	return OneOrMany[T]{items: items}
}

// Items returns the values in order.
func (o OneOrMany[T]) Items() []T {
	return o.items
}

// Len returns the number of values.
func (o OneOrMany[T]) Len() int {
	return len(o.items)
}

// Refs is an ordered list of design identities.
type Refs = OneOrMany[string]
