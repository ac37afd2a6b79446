package usecase

import (
	"context"
	"fmt"
	"strconv"

	"trainbooking/internal/domain/inbox"
	"trainbooking/internal/domain/outbox"
	"trainbooking/internal/domain/ticket"
)

type OutboxLister interface {
	ListByCorrelationID(ctx context.Context, correlationID string) ([]*outbox.Event, error)
}

type InboxLister interface {
	ListByCorrelationID(ctx context.Context, correlationID string) ([]*inbox.Event, error)
}

// HistoryDTO is the change feed of one ticket: what was published and which
// consumers have seen it. Ticket is nil once the ticket is deleted.
type HistoryDTO struct {
	Ticket *ticket.Ticket  `json:"ticket,omitempty"`
	Outbox []*outbox.Event `json:"outbox"`
	Inbox  []*inbox.Event  `json:"inbox"`
}

type GetHistory struct {
	ticketRepo ticket.Repository
	outboxRepo OutboxLister
	inboxRepo  InboxLister
}

func NewGetHistory(ticketRepo ticket.Repository, outboxRepo OutboxLister, inboxRepo InboxLister) *GetHistory {
	return &GetHistory{
		ticketRepo: ticketRepo,
		outboxRepo: outboxRepo,
		inboxRepo:  inboxRepo,
	}
}

func (uc *GetHistory) Execute(ctx context.Context, ticketID int64) (*HistoryDTO, error) {
	t, err := uc.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}

	correlationID := strconv.FormatInt(ticketID, 10)

	outboxEvents, err := uc.outboxRepo.ListByCorrelationID(ctx, correlationID)
	if err != nil {
		return nil, fmt.Errorf("get outbox events: %w", err)
	}

	inboxEvents, err := uc.inboxRepo.ListByCorrelationID(ctx, correlationID)
	if err != nil {
		return nil, fmt.Errorf("get inbox events: %w", err)
	}

	if t == nil && len(outboxEvents) == 0 {
		return nil, ticket.ErrNotFound
	}
	if outboxEvents == nil {
		outboxEvents = []*outbox.Event{}
	}
	if inboxEvents == nil {
		inboxEvents = []*inbox.Event{}
	}

	return &HistoryDTO{
		Ticket: t,
		Outbox: outboxEvents,
		Inbox:  inboxEvents,
	}, nil
}
