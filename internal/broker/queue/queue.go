package queue

import (
	"context"
	"sync"

	"image-pipeline/internal/broker"

	"github.com/wb-go/wbf/retry"
)

// Queue is a bounded in-process broker. It is both the producer side used by
// the upload path and the consumer side used by the worker.
type Queue struct {
	mu        sync.Mutex
	messages  chan *broker.Message
	offset    int64
	committed int64
	closed    bool
	done      chan struct{}
}

func New(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		messages: make(chan *broker.Message, size),
		done:     make(chan struct{}),
	}
}

// Send enqueues without blocking. A full queue is retried according to
// strategy and then reported as broker.ErrQueueFull.
func (q *Queue) Send(ctx context.Context, strategy retry.Strategy, batchID string) error {
	strategy.Attempts = max(strategy.Attempts, 1)
	return retry.Do(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return q.trySend(batchID)
	}, strategy)
}

func (q *Queue) trySend(batchID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return broker.ErrQueueClosed
	}

	msg := &broker.Message{BatchID: batchID, Offset: q.offset + 1}
	select {
	case q.messages <- msg:
		q.offset++
		return nil
	default:
		return broker.ErrQueueFull
	}
}

// Start forwards messages to out until ctx is done or the queue is closed.
// out is not closed by Start.
func (q *Queue) Start(ctx context.Context, out chan<- *broker.Message) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-q.done:
				return
			case msg := <-q.messages:
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}

func (q *Queue) Commit(ctx context.Context, msg *broker.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if msg.Offset > q.committed {
		q.committed = msg.Offset
	}
	return nil
}

// Pending is the number of sent messages not committed yet.
func (q *Queue) Pending() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.offset - q.committed
}

func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.done)
	}
	return nil
}
