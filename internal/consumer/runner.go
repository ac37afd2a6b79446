package consumer

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type MessageSource interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Handler interface {
	Handle(ctx context.Context, value []byte) error
}

// Runner feeds messages to a handler one at a time. A rejected message is
// retried with backoff until the handler accepts it or ctx is cancelled, and
// only then committed. Kafka commits are cumulative per partition, so moving
// on to the next message would drop the rejected one.
type Runner struct {
	source     MessageSource
	handler    Handler
	fetchPause time.Duration
	retryBase  time.Duration
	retryMax   time.Duration
}

func NewRunner(source MessageSource, handler Handler) *Runner {
	return &Runner{
		source:     source,
		handler:    handler,
		fetchPause: time.Second,
		retryBase:  time.Second,
		retryMax:   30 * time.Second,
	}
}

func (r *Runner) Run(ctx context.Context) error {
	for {
		msg, err := r.source.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logrus.WithError(err).Error("failed to fetch message")
			if !sleep(ctx, r.fetchPause) {
				return nil
			}
			continue
		}

		if !r.handle(ctx, msg) {
			return nil
		}

		if err := r.source.CommitMessages(ctx, msg); err != nil {
			logrus.WithError(err).Error("failed to commit kafka message")
		}
	}
}

// handle returns false when ctx was cancelled before the handler accepted msg.
func (r *Runner) handle(ctx context.Context, msg kafka.Message) bool {
	backoff := r.retryBase
	for attempt := 1; ; attempt++ {
		err := r.handler.Handle(ctx, msg.Value)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		logrus.WithError(err).WithFields(logrus.Fields{
			"offset":    msg.Offset,
			"partition": msg.Partition,
			"attempt":   attempt,
			"backoff":   backoff,
		}).Error("processing failed, retrying")

		if !sleep(ctx, backoff) {
			return false
		}
		backoff *= 2
		if backoff > r.retryMax {
			backoff = r.retryMax
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
