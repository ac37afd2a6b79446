package postgres

import (
	"context"
	"fmt"

	"trainbooking/internal/domain/inbox"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InboxRepository stores which ticket audit events each consumer has seen.
type InboxRepository struct {
	pool *pgxpool.Pool
}

func NewInboxRepository(pool *pgxpool.Pool) *InboxRepository {
	return &InboxRepository{pool: pool}
}

// SaveIfNotExists reports whether eventID is new for consumer. A false result
// means the event was a redelivery and must not be audited again.
func (r *InboxRepository) SaveIfNotExists(ctx context.Context, consumer, eventID, eventType, ticketID string) (bool, error) {
	const query = `
		INSERT INTO inbox_events (consumer, event_id, event_type, correlation_id, processed_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (consumer, event_id) DO NOTHING
	`

	tag, err := conn(ctx, r.pool).Exec(ctx, query, consumer, eventID, eventType, nullIfEmpty(ticketID))
	if err != nil {
		return false, fmt.Errorf("insert inbox event: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListByCorrelationID returns the audit records for one ticket, oldest first.
func (r *InboxRepository) ListByCorrelationID(ctx context.Context, ticketID string) ([]*inbox.Event, error) {
	const query = `
		SELECT consumer, event_id, event_type, COALESCE(correlation_id, ''), processed_at
		FROM inbox_events
		WHERE correlation_id = $1
		ORDER BY processed_at ASC
	`

	rows, err := conn(ctx, r.pool).Query(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("query inbox events: %w", err)
	}
	defer rows.Close()

	var events []*inbox.Event
	for rows.Next() {
		e := &inbox.Event{}
		if err := rows.Scan(&e.Consumer, &e.EventID, &e.EventType, &e.CorrelationID, &e.ProcessedAt); err != nil {
			return nil, fmt.Errorf("scan inbox event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
