package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"trainbooking/internal/domain/event"
	"trainbooking/internal/domain/outbox"
	"trainbooking/internal/domain/ticket"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ticketProducer = "ticket-service"

const selectTickets = `
	SELECT
		t.id,
		COALESCE(u.id, 0), COALESCE(u.name, ''),
		COALESCE(tr.id, 0), COALESCE(tr.name, ''),
		t.booking_date, t.final_price
	FROM tickets t
	LEFT JOIN users u ON u.id = t.user_id
	LEFT JOIN trains tr ON tr.id = t.train_id
`

// TicketRepository stores tickets and records every change in the outbox
// within the same transaction.
type TicketRepository struct {
	pool       *pgxpool.Pool
	txManager  Transactor
	outboxRepo *OutboxRepository
}

func NewTicketRepository(pool *pgxpool.Pool, txManager Transactor, outboxRepo *OutboxRepository) *TicketRepository {
	return &TicketRepository{
		pool:       pool,
		txManager:  txManager,
		outboxRepo: outboxRepo,
	}
}

func (r *TicketRepository) FindAll(ctx context.Context) ([]ticket.Ticket, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, selectTickets+" ORDER BY t.id ASC")
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	tickets := []ticket.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}

	return tickets, nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id int64) (*ticket.Ticket, error) {
	row := conn(ctx, r.pool).QueryRow(ctx, selectTickets+" WHERE t.id = $1", id)

	t, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepository) Save(ctx context.Context, t *ticket.Ticket) (*ticket.Ticket, error) {
	var saved *ticket.Ticket

	err := r.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		id, err := r.upsert(txCtx, t)
		if err != nil {
			return err
		}

		saved, err = r.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if saved == nil {
			return fmt.Errorf("reload ticket %d: %w", id, ticket.ErrNotFound)
		}

		payload, err := json.Marshal(saved)
		if err != nil {
			return fmt.Errorf("marshal ticket: %w", err)
		}

		return r.outboxRepo.Create(txCtx, newTicketEvent(event.TypeTicketSaved, id, payload))
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

func (r *TicketRepository) DeleteByID(ctx context.Context, id int64) error {
	return r.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		tag, err := conn(txCtx, r.pool).Exec(txCtx, `DELETE FROM tickets WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete ticket: %w", err)
		}

		if tag.RowsAffected() == 0 {
			return nil
		}

		payload, err := json.Marshal(event.TicketDeletedPayload{TicketID: id})
		if err != nil {
			return fmt.Errorf("marshal ticket deletion: %w", err)
		}

		return r.outboxRepo.Create(txCtx, newTicketEvent(event.TypeTicketDeleted, id, payload))
	})
}

func (r *TicketRepository) upsert(ctx context.Context, t *ticket.Ticket) (int64, error) {
	q := conn(ctx, r.pool)

	if t.ID == 0 {
		const sql = `
			INSERT INTO tickets (user_id, train_id, booking_date, final_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`

		var id int64
		err := q.QueryRow(ctx, sql, nullIfZero(t.User.ID), nullIfZero(t.Train.ID), t.BookingDate, t.FinalPrice).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("insert ticket: %w", err)
		}
		return id, nil
	}

	const sql = `
		INSERT INTO tickets (id, user_id, train_id, booking_date, final_price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			train_id = EXCLUDED.train_id,
			booking_date = EXCLUDED.booking_date,
			final_price = EXCLUDED.final_price
	`

	if _, err := q.Exec(ctx, sql, t.ID, nullIfZero(t.User.ID), nullIfZero(t.Train.ID), t.BookingDate, t.FinalPrice); err != nil {
		return 0, fmt.Errorf("upsert ticket %d: %w", t.ID, err)
	}

	// Explicit ids bypass the identity sequence; move it past them.
	const syncSequence = `
		SELECT setval(
			pg_get_serial_sequence('tickets', 'id'),
			GREATEST(COALESCE(MAX(id), 1), nextval(pg_get_serial_sequence('tickets', 'id')) - 1)
		)
		FROM tickets
	`
	if _, err := q.Exec(ctx, syncSequence); err != nil {
		return 0, fmt.Errorf("sync ticket id sequence: %w", err)
	}

	return t.ID, nil
}

func newTicketEvent(eventType string, ticketID int64, payload []byte) *outbox.Event {
	return &outbox.Event{
		ID:            uuid.New().String(),
		EventType:     eventType,
		Payload:       payload,
		Status:        outbox.StatusNew,
		CorrelationID: strconv.FormatInt(ticketID, 10),
		Producer:      ticketProducer,
		CreatedAt:     time.Now(),
	}
}

func scanTicket(row pgx.Row) (ticket.Ticket, error) {
	var t ticket.Ticket
	err := row.Scan(
		&t.ID,
		&t.User.ID, &t.User.Name,
		&t.Train.ID, &t.Train.Name,
		&t.BookingDate, &t.FinalPrice,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return t, err
		}
		return t, fmt.Errorf("scan ticket: %w", err)
	}
	return t, nil
}
