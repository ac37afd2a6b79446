package usecase

import (
	"context"
	"fmt"

	"trainbooking/internal/domain/ticket"
)

type CreateTicket struct {
	ticketRepo ticket.Repository
}

func NewCreateTicket(ticketRepo ticket.Repository) *CreateTicket {
	return &CreateTicket{ticketRepo: ticketRepo}
}

func (uc *CreateTicket) Execute(ctx context.Context, t *ticket.Ticket) (*ticket.Ticket, error) {
	saved, err := uc.ticketRepo.Save(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}
	return saved, nil
}
