package consumer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sourceMock struct {
	lock      sync.Mutex
	Messages  []kafka.Message
	Committed []int64
	drained   chan struct{}
}

func (m *sourceMock) FetchMessage(ctx context.Context) (kafka.Message, error) {
	m.lock.Lock()
	if len(m.Messages) > 0 {
		msg := m.Messages[0]
		m.Messages = m.Messages[1:]
		m.lock.Unlock()
		return msg, nil
	}
	m.lock.Unlock()

	close(m.drained)
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (m *sourceMock) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	for _, msg := range msgs {
		m.Committed = append(m.Committed, msg.Offset)
	}
	return nil
}

type handlerFunc func(ctx context.Context, value []byte) error

func (f handlerFunc) Handle(ctx context.Context, value []byte) error {
	return f(ctx, value)
}

func TestRunner_RetriesRejectedMessageBeforeMovingOn(t *testing.T) {
	source := &sourceMock{
		Messages: []kafka.Message{
			{Offset: 1, Value: []byte("ok")},
			{Offset: 2, Value: []byte("flaky")},
			{Offset: 3, Value: []byte("ok")},
		},
		drained: make(chan struct{}),
	}

	var lock sync.Mutex
	var handled []string
	flakyFailures := 2
	handler := handlerFunc(func(ctx context.Context, value []byte) error {
		lock.Lock()
		defer lock.Unlock()

		handled = append(handled, string(value))
		if string(value) == "flaky" && flakyFailures > 0 {
			flakyFailures--
			return errors.New("transient")
		}
		return nil
	})

	runner := NewRunner(source, handler)
	runner.retryBase = time.Millisecond
	runner.retryMax = 2 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	select {
	case <-source.drained:
	case <-time.After(time.Second):
		t.Fatal("runner did not drain messages")
	}
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, []int64{1, 2, 3}, source.Committed)
	assert.Equal(t, []string{"ok", "flaky", "flaky", "flaky", "ok"}, handled)
}

func TestRunner_StopsRetryingOnCancel(t *testing.T) {
	source := &sourceMock{
		Messages: []kafka.Message{{Offset: 7, Value: []byte("broken")}},
		drained:  make(chan struct{}),
	}
	attempts := make(chan struct{}, 100)
	handler := handlerFunc(func(ctx context.Context, value []byte) error {
		select {
		case attempts <- struct{}{}:
		default:
		}
		return errors.New("permanent")
	})

	runner := NewRunner(source, handler)
	runner.retryBase = time.Millisecond
	runner.retryMax = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	for i := 0; i < 3; i++ {
		select {
		case <-attempts:
		case <-time.After(time.Second):
			t.Fatal("handler was not retried")
		}
	}
	cancel()

	require.NoError(t, <-done)
	assert.Empty(t, source.Committed)
}
