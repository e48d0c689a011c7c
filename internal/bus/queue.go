package bus

import (
	"context"
	"sync/atomic"

	"main/internal/model"
	"main/pkg/exception"
)

// DefaultCapacity bounds the ingest queue when the caller does not choose
// one. 10k outstanding orders is the backpressure point, not a target.
const DefaultCapacity = 10000

// Queue is the bounded buffer between the ingest listener and the router.
type Queue struct {
	ch     chan model.Order
	closed uint32
}

// NewQueue allocates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{ch: make(chan model.Order, capacity)}
}

// Publish blocks until there is room or the context ends. A full queue stalls
// the producer rather than growing memory.
func (q *Queue) Publish(ctx context.Context, ord model.Order) error {
	if atomic.LoadUint32(&q.closed) != 0 {
		return exception.ErrOrderQueueClosed
	}
	select {
	case q.ch <- ord:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryPublish enqueues an order without blocking.
func (q *Queue) TryPublish(ord model.Order) error {
	if atomic.LoadUint32(&q.closed) != 0 {
		return exception.ErrOrderQueueClosed
	}
	select {
	case q.ch <- ord:
		return nil
	default:
		return exception.ErrOrderQueueFull
	}
}

// Len reports the number of queued orders.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Close stops the queue from accepting new orders.
func (q *Queue) Close() {
	if atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		close(q.ch)
	}
}

// Run consumes orders until the context is done or the queue is closed and
// drained.
func (q *Queue) Run(ctx context.Context, handler func(model.Order)) {
	for {
		select {
		case <-ctx.Done():
			return
		case ord, ok := <-q.ch:
			if !ok {
				return
			}
			handler(ord)
		}
	}
}
