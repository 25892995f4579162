package queue

// sliceQueue implements the Queue interface using a slice.
//
// It is not goroutine-safe; callers guard it with their own lock.
type sliceQueue[T any] struct {
	items []T
}

// NewSliceQueue creates a new slice backed queue with prealloc capacity.
func NewSliceQueue[T any](prealloc int) Queue[T] {
	return &sliceQueue[T]{items: make([]T, 0, prealloc)}
}

func (q *sliceQueue[T]) Enqueue(item T) {
	q.items = append(q.items, item)
}

func (q *sliceQueue[T]) Dequeue() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]

	return item, true
}

func (q *sliceQueue[T]) Peek() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}

	return q.items[0], true
}

func (q *sliceQueue[T]) Drain() []T {
	items := make([]T, len(q.items))
	copy(items, q.items)
	q.Reset()

	return items
}

// Reset resets the queue to an empty state.
func (q *sliceQueue[T]) Reset() {
	clear(q.items)
	q.items = q.items[:0]
}

func (q *sliceQueue[T]) IsEmpty() bool {
	return len(q.items) == 0
}

func (q *sliceQueue[T]) Length() int {
	return len(q.items)
}
