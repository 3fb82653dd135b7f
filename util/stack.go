package util

// Stack is a LIFO over any element type. The zero value is ready to use.
type Stack[T any] struct {
	items []T
}

// Push places an element on top of the stack.
func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes and returns the top element, or the zero value when empty.
func (s *Stack[T]) Pop() (item T) {
	if len(s.items) == 0 {
		return item
	}

	last := len(s.items) - 1
	item, s.items = s.items[last], s.items[:last]
	return item
}

// Len reports how many elements the stack holds.
func (s *Stack[T]) Len() int {
	return len(s.items)
}
