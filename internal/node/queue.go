package node

import "context"

// defaultQueueCapacity is the bounded dispatch queue size (§4.1): a
// producer whose output the dispatcher cannot keep up with blocks on Push
// rather than growing memory without bound.
const defaultQueueCapacity = 100

// queue is a bounded FIFO of Event backed by a buffered channel. Push
// blocks when the queue is full; TryPush returns immediately; Pop blocks
// until an item is available or ctx is cancelled.
type queue struct {
	ch chan Event
}

func newQueue(capacity int) *queue {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	return &queue{ch: make(chan Event, capacity)}
}

// Push enqueues ev, blocking until there is room or ctx is cancelled.
func (q *queue) Push(ctx context.Context, ev Event) error {
	select {
	case q.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPush enqueues ev without blocking. It returns false if the queue is
// currently full.
func (q *queue) TryPush(ev Event) bool {
	select {
	case q.ch <- ev:
		return true
	default:
		return false
	}
}

// Pop dequeues the next event, blocking until one is available or ctx is
// cancelled.
func (q *queue) Pop(ctx context.Context) (Event, error) {
	select {
	case ev := <-q.ch:
		return ev, nil
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}
