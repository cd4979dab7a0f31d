package scheduler

import "context"

// BoundedQueue is a FIFO with a fixed capacity. Put blocks when full (or
// until ctx is done); Get blocks when empty (or until ctx is done). A
// capacity <= 0 does not create an unbounded queue: it falls back to an
// unbuffered rendezvous channel, so each Put waits for a matching Get.
type BoundedQueue struct {
	ch chan any
}

func newBoundedQueue(capacity int) *BoundedQueue {
	if capacity <= 0 {
		capacity = 0
	}
	return &BoundedQueue{ch: make(chan any, capacity)}
}

// Put enqueues v, blocking until there is room or ctx is done.
func (q *BoundedQueue) Put(ctx context.Context, v any) error {
	select {
	case q.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPut enqueues v without blocking. Returns false if the queue is full.
func (q *BoundedQueue) TryPut(v any) bool {
	select {
	case q.ch <- v:
		return true
	default:
		return false
	}
}

// Get dequeues the next value, blocking until one is available or ctx is
// done.
func (q *BoundedQueue) Get(ctx context.Context) (any, error) {
	select {
	case v := <-q.ch:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len reports the number of items currently queued. Racy by nature — for
// observability only.
func (q *BoundedQueue) Len() int { return len(q.ch) }
