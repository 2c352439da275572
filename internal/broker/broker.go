package broker

import (
	"context"
	"errors"

	"github.com/wb-go/wbf/retry"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// Message announces a batch that is ready to be processed. Offset is the
// position of the message in the queue, starting at 1.
type Message struct {
	BatchID string
	Offset  int64
}

type Producer interface {
	Send(ctx context.Context, strategy retry.Strategy, batchID string) error
	Close() error
}

type Consumer interface {
	Start(ctx context.Context, out chan<- *Message)
	Commit(ctx context.Context, msg *Message) error
	Close() error
}
