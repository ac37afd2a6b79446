package usecase

import (
	"context"
	"fmt"

	"trainbooking/internal/domain/ticket"
)

type GetTicket struct {
	ticketRepo ticket.Repository
}

func NewGetTicket(ticketRepo ticket.Repository) *GetTicket {
	return &GetTicket{ticketRepo: ticketRepo}
}

// Execute returns nil without an error when the ticket does not exist.
func (uc *GetTicket) Execute(ctx context.Context, id int64) (*ticket.Ticket, error) {
	t, err := uc.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}
