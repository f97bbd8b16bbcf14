// Package xferqueue implements the bounded single-producer/single-consumer
// transfer queue that caps in-flight batches between the morsel iterator
// and a GPU consumer (spec §4.2). Capacity fixed at 2 keeps at most two
// batches resident on the GPU side, bounding in-flight memory at
// 2 x MORSEL_BYTES regardless of store size (spec §5).
package xferqueue

import (
	"context"
	"sync"

	"github.com/paiml/trueno-db/column"
	"github.com/paiml/trueno-db/errs"
)

// DefaultCapacity is TRANSFER_CAPACITY from spec §6.
const DefaultCapacity = 2

// Queue is a bounded channel of column batches with explicit close
// semantics distinguishing "closed and drained" from "open".
type Queue struct {
	ch        chan *column.ColumnBatch
	closeOnce sync.Once
	closed    chan struct{}
}

// New creates a queue with the given capacity. capacity <= 0 defaults to
// DefaultCapacity.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		ch:     make(chan *column.ColumnBatch, capacity),
		closed: make(chan struct{}),
	}
}

// Enqueue suspends the caller when the queue is full, and fails with
// errs.QueueClosed if the queue has been closed (e.g. the consumer was
// dropped). Returns ctx.Err() if ctx is cancelled first.
func (q *Queue) Enqueue(ctx context.Context, b *column.ColumnBatch) error {
	select {
	case <-q.closed:
		return errs.New(errs.QueueClosed, "enqueue after transfer queue was closed")
	default:
	}
	select {
	case q.ch <- b:
		return nil
	case <-q.closed:
		return errs.New(errs.QueueClosed, "enqueue after transfer queue was closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue suspends the caller when the queue is empty, returning (nil,
// false) once the queue is closed and drained. Returns (nil, false) if ctx
// is cancelled first.
//
// q.ch is never closed directly (only q.closed is): closing a channel that
// a concurrent Enqueue might still be sending on would panic. Instead,
// Close signals via q.closed and Dequeue prefers draining any buffered
// item before honoring the closed signal.
func (q *Queue) Dequeue(ctx context.Context) (*column.ColumnBatch, bool) {
	select {
	case b := <-q.ch:
		return b, true
	default:
	}
	select {
	case b := <-q.ch:
		return b, true
	case <-q.closed:
		select {
		case b := <-q.ch:
			return b, true
		default:
			return nil, false
		}
	case <-ctx.Done():
		return nil, false
	}
}

// Close marks the queue closed: pending and future Enqueue calls fail with
// errs.QueueClosed right away, even while items are still buffered; Dequeue continues to
// return buffered items until empty, then returns the None sentinel.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		close(q.closed)
	})
}

// Len reports the number of batches currently buffered, for metrics/tests.
func (q *Queue) Len() int { return len(q.ch) }

// Cap reports the queue's fixed capacity.
func (q *Queue) Cap() int { return cap(q.ch) }
