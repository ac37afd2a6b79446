package inbox

import "time"

// Event records that a consumer has already audited one ticket change event.
// A second delivery of the same EventID to the same Consumer is ignored, so
// redelivered Kafka messages never produce duplicate audit rows.
// CorrelationID holds the ticket id, which the ticket history view joins on.
type Event struct {
	Consumer      string    `json:"consumer"`
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	CorrelationID string    `json:"correlation_id"`
	ProcessedAt   time.Time `json:"processed_at"`
}
