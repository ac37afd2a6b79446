package usecase

import (
	"context"
	"fmt"

	"trainbooking/internal/domain/ticket"
)

type DeleteTicket struct {
	ticketRepo ticket.Repository
}

func NewDeleteTicket(ticketRepo ticket.Repository) *DeleteTicket {
	return &DeleteTicket{ticketRepo: ticketRepo}
}

func (uc *DeleteTicket) Execute(ctx context.Context, id int64) error {
	if err := uc.ticketRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	return nil
}
