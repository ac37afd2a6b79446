package memory

import (
	"context"
	"sort"
	"sync"

	"trainbooking/internal/domain/ticket"
)

// TicketRepository keeps tickets in a map and hands out IDs from a counter,
// mirroring an identity column.
type TicketRepository struct {
	mu      sync.RWMutex
	tickets map[int64]ticket.Ticket
	lastID  int64
}

func NewTicketRepository() *TicketRepository {
	return &TicketRepository{tickets: make(map[int64]ticket.Ticket)}
}

func (r *TicketRepository) FindAll(ctx context.Context) ([]ticket.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]ticket.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		all = append(all, t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	return all, nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id int64) (*ticket.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tickets[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TicketRepository) Save(ctx context.Context, t *ticket.Ticket) (*ticket.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *t
	if saved.ID == 0 {
		r.lastID++
		saved.ID = r.lastID
	} else if saved.ID > r.lastID {
		r.lastID = saved.ID
	}
	r.tickets[saved.ID] = saved

	return &saved, nil
}

func (r *TicketRepository) DeleteByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tickets, id)
	return nil
}
