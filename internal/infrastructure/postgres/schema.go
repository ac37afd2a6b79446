package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		name VARCHAR(255) NOT NULL
	);

	CREATE TABLE IF NOT EXISTS trains (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		name VARCHAR(255) NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tickets (
		id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		user_id BIGINT REFERENCES users (id),
		train_id BIGINT REFERENCES trains (id),
		booking_date TIMESTAMPTZ NOT NULL,
		final_price DOUBLE PRECISION NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS outbox (
		id UUID PRIMARY KEY,
		event_type VARCHAR(64) NOT NULL,
		payload JSONB NOT NULL,
		status VARCHAR(16) NOT NULL DEFAULT 'new',
		correlation_id TEXT,
		causation_id TEXT,
		producer VARCHAR(64) NOT NULL DEFAULT 'unknown',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS outbox_status_created_at_idx ON outbox (status, created_at);
	CREATE INDEX IF NOT EXISTS outbox_correlation_id_idx ON outbox (correlation_id);

	CREATE TABLE IF NOT EXISTS inbox_events (
		consumer VARCHAR(64) NOT NULL,
		event_id UUID NOT NULL,
		event_type VARCHAR(64) NOT NULL,
		correlation_id TEXT,
		processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (consumer, event_id)
	);

	CREATE INDEX IF NOT EXISTS inbox_events_correlation_id_idx ON inbox_events (correlation_id);
`

func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
