package worker

import (
	"context"
	"encoding/json"
	"time"

	domainEvent "trainbooking/internal/domain/event"
	"trainbooking/internal/domain/outbox"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var (
	eventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worker_outbox_events_published_total",
		Help: "The total number of ticket events published to Kafka",
	})
	publishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worker_outbox_publish_errors_total",
		Help: "The total number of failed publish attempts",
	})
)

type Publisher interface {
	SendMessage(ctx context.Context, key, value []byte) error
	Topic() string
}

// OutboxPoller relays ticket change events from the outbox table to Kafka.
type OutboxPoller struct {
	outboxRepo   outbox.Repository
	publisher    Publisher
	batchSize    int
	pollInterval time.Duration
	sendTimeout  time.Duration
}

func NewOutboxPoller(outboxRepo outbox.Repository, publisher Publisher, batchSize int, pollInterval time.Duration) *OutboxPoller {
	return &OutboxPoller{
		outboxRepo:   outboxRepo,
		publisher:    publisher,
		batchSize:    batchSize,
		pollInterval: pollInterval,
		sendTimeout:  5 * time.Second,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	logrus.WithField("topic", p.publisher.Topic()).Info("outbox poller started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := p.ProcessBatch(ctx); err != nil {
				logrus.WithError(err).Error("failed to process outbox batch")
			}
		}
	}
}

// ProcessBatch publishes one batch and returns how many events were sent.
// Events that fail are returned to the queue.
func (p *OutboxPoller) ProcessBatch(ctx context.Context) (int, error) {
	events, err := p.outboxRepo.FetchBatch(ctx, p.batchSize)
	if err != nil {
		return 0, err
	}

	if len(events) == 0 {
		return 0, nil
	}

	var processedIDs []string
	var failedIDs []string

	for _, e := range events {
		log := logrus.WithFields(logrus.Fields{"event_id": e.ID, "event_type": e.EventType, "ticket_id": e.CorrelationID})

		if err := p.publish(ctx, e); err != nil {
			log.WithError(err).Error("failed to publish event")
			publishErrors.Inc()
			failedIDs = append(failedIDs, e.ID)
			continue
		}

		log.Debug("event published")
		eventsPublished.Inc()
		processedIDs = append(processedIDs, e.ID)
	}

	if len(processedIDs) > 0 {
		if err := p.outboxRepo.MarkProcessed(ctx, processedIDs); err != nil {
			return 0, err
		}
		logrus.WithField("count", len(processedIDs)).Info("outbox events published")
	}

	if len(failedIDs) > 0 {
		if err := p.outboxRepo.MarkFailed(ctx, failedIDs); err != nil {
			logrus.WithError(err).Error("failed to mark events as failed")
		}
	}

	return len(processedIDs), nil
}

func (p *OutboxPoller) publish(ctx context.Context, e *outbox.Event) error {
	key := []byte(e.CorrelationID)
	if len(key) == 0 {
		key = []byte(e.ID)
	}

	value, err := json.Marshal(domainEvent.Message{
		ID:            e.ID,
		Type:          e.EventType,
		CorrelationID: e.CorrelationID,
		CausationID:   e.CausationID,
		Producer:      e.Producer,
		OccurredAt:    e.CreatedAt.UTC(),
		Payload:       e.Payload,
	})
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, p.sendTimeout)
	defer cancel()

	return p.publisher.SendMessage(sendCtx, key, value)
}
