package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domainEvent "trainbooking/internal/domain/event"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var (
	eventsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "consumer_ticket_events_recorded_total",
		Help: "The total number of ticket events recorded by the audit consumer",
	}, []string{"type"})
	duplicatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "consumer_ticket_events_duplicates_total",
		Help: "The total number of redelivered ticket events that were skipped",
	})
	processingDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "consumer_processing_duration_seconds",
		Help:    "Time taken to record a ticket event",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})
)

type Inbox interface {
	SaveIfNotExists(ctx context.Context, consumer string, eventID string, eventType string, correlationID string) (bool, error)
}

// AuditHandler records each ticket event once per consumer name.
type AuditHandler struct {
	name  string
	inbox Inbox
}

func NewAuditHandler(name string, inbox Inbox) *AuditHandler {
	return &AuditHandler{
		name:  name,
		inbox: inbox,
	}
}

// Handle returns an error only when the event should be delivered again.
// Envelopes that cannot be decoded and unknown event types are skipped.
func (h *AuditHandler) Handle(ctx context.Context, value []byte) error {
	started := time.Now()

	var ev domainEvent.Message
	if err := json.Unmarshal(value, &ev); err != nil {
		logrus.WithError(err).Warn("skipping malformed event envelope")
		return nil
	}

	switch ev.Type {
	case domainEvent.TypeTicketSaved, domainEvent.TypeTicketDeleted:
	default:
		return nil
	}

	log := logrus.WithFields(logrus.Fields{"event_id": ev.ID, "type": ev.Type, "ticket_id": ev.CorrelationID})

	isNew, err := h.inbox.SaveIfNotExists(ctx, h.name, ev.ID, ev.Type, ev.CorrelationID)
	if err != nil {
		return fmt.Errorf("inbox save: %w", err)
	}

	if !isNew {
		duplicatesSkipped.Inc()
		log.Debug("event already recorded")
		return nil
	}

	processingDuration.Observe(time.Since(started).Seconds())
	eventsRecorded.WithLabelValues(ev.Type).Inc()
	log.Info("ticket event recorded")
	return nil
}
