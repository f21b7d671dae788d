package queues

// Queue is a FIFO backed by a slice.
type Queue[T any] []T

func NewQueue[T any]() *Queue[T] {
	q := Queue[T]{}
	return &q
}

func (q *Queue[T]) Push(x T) {
	*q = append(*q, x)
}

func (q *Queue[T]) Peek() T {
	return (*q)[0]
}

func (q *Queue[T]) Pop() T {
	x := (*q)[0]
	var zero T
	(*q)[0] = zero
	*q = (*q)[1:]
	return x
}

func (q *Queue[T]) IsEmpty() bool {
	return len(*q) == 0
}

func (q *Queue[T]) Len() int {
	return len(*q)
}

// DropWhile pops items from the front while drop reports true for them.
func (q *Queue[T]) DropWhile(drop func(T) bool) int {
	n := 0
	for !q.IsEmpty() && drop(q.Peek()) {
		q.Pop()
		n++
	}
	return n
}

// Items returns a copy of the queued items, oldest first.
func (q *Queue[T]) Items() []T {
	out := make([]T, len(*q))
	copy(out, *q)
	return out
}
