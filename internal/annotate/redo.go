package annotate

// RedoBuffer is a fixed capacity stack. Pushing onto a full buffer evicts the
// oldest entry so that only the most recent Cap() items survive.
type RedoBuffer[T any] struct {
	items    []T
	capacity int
}

// NewRedoBuffer returns an empty buffer. A capacity below one is raised to one.
func NewRedoBuffer[T any](capacity int) *RedoBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &RedoBuffer[T]{items: make([]T, 0, capacity), capacity: capacity}
}

// Push stores v as the newest entry.
func (b *RedoBuffer[T]) Push(v T) {
	if len(b.items) == b.capacity {
		var zero T
		b.items[0] = zero
		copy(b.items, b.items[1:])
		b.items = b.items[:len(b.items)-1]
	}
	b.items = append(b.items, v)
}

// Pop removes and returns the newest entry. ok is false when the buffer is empty.
func (b *RedoBuffer[T]) Pop() (v T, ok bool) {
	n := len(b.items)
	if n == 0 {
		return v, false
	}
	v = b.items[n-1]
	var zero T
	b.items[n-1] = zero
	b.items = b.items[:n-1]
	return v, true
}

func (b *RedoBuffer[T]) Len() int { return len(b.items) }

func (b *RedoBuffer[T]) Cap() int { return b.capacity }

func (b *RedoBuffer[T]) IsEmpty() bool { return len(b.items) == 0 }

// Clear drops every entry.
func (b *RedoBuffer[T]) Clear() {
	clear(b.items)
	b.items = b.items[:0]
}
