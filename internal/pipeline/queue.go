package pipeline

// queue is a bounded FIFO ring that overwrites the oldest entry when full,
// so producers never block (lossy backpressure). Not safe for concurrent use
// on its own; the pipeline guards each queue with its own mutex.
type queue[T any] struct {
	buf  []T
	pos  int // next write position
	size int
}

func newQueue[T any](capacity int) *queue[T] {
	if capacity <= 0 {
		capacity = 1000
	}
	return &queue[T]{buf: make([]T, capacity)}
}

// push appends v, evicting the oldest entry if the queue is full.
// Returns true when an entry was evicted.
func (q *queue[T]) push(v T) bool {
	evicted := q.size == len(q.buf)
	q.buf[q.pos] = v
	q.pos = (q.pos + 1) % len(q.buf)
	if !evicted {
		q.size++
	}
	return evicted
}

// pop removes and returns the oldest entry. O(1).
func (q *queue[T]) pop() (T, bool) {
	var zero T
	if q.size == 0 {
		return zero, false
	}
	idx := (q.pos - q.size + len(q.buf)) % len(q.buf)
	v := q.buf[idx]
	q.buf[idx] = zero
	q.size--
	return v, true
}

func (q *queue[T]) len() int { return q.size }
