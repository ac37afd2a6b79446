package usecase

import (
	"context"
	"fmt"

	"trainbooking/internal/domain/ticket"
)

type UpdateTicket struct {
	ticketRepo ticket.Repository
}

func NewUpdateTicket(ticketRepo ticket.Repository) *UpdateTicket {
	return &UpdateTicket{ticketRepo: ticketRepo}
}

// Execute overwrites every field of the stored ticket with the fields of
// updated, ID included, and saves the result. A missing ticket yields
// ticket.ErrNotFound and nothing is saved.
func (uc *UpdateTicket) Execute(ctx context.Context, id int64, updated ticket.Ticket) (*ticket.Ticket, error) {
	existing, err := uc.ticketRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find ticket %d: %w", id, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("update ticket %d: %w", id, ticket.ErrNotFound)
	}

	existing.ID = updated.ID
	existing.User = updated.User
	existing.Train = updated.Train
	existing.BookingDate = updated.BookingDate
	existing.FinalPrice = updated.FinalPrice

	saved, err := uc.ticketRepo.Save(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("save ticket %d: %w", id, err)
	}
	return saved, nil
}
