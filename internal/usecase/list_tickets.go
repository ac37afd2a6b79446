package usecase

import (
	"context"
	"fmt"

	"trainbooking/internal/domain/ticket"
)

type ListTickets struct {
	ticketRepo ticket.Repository
}

func NewListTickets(ticketRepo ticket.Repository) *ListTickets {
	return &ListTickets{ticketRepo: ticketRepo}
}

func (uc *ListTickets) Execute(ctx context.Context) ([]ticket.Ticket, error) {
	tickets, err := uc.ticketRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	if tickets == nil {
		tickets = []ticket.Ticket{}
	}
	return tickets, nil
}
