package usecase

import (
	"context"
	"sync"

	"trainbooking/internal/domain/ticket"
	"trainbooking/internal/infrastructure/memory"
)

// recordingRepo wraps the memory store and counts calls so tests can check
// how the use cases drive the repository.
type recordingRepo struct {
	lock  sync.Mutex
	store *memory.TicketRepository

	Err error

	FindAllCalls    int
	FindByIDCalls   []int64
	Saved           []ticket.Ticket
	DeleteByIDCalls []int64
}

func newRecordingRepo() *recordingRepo {
	return &recordingRepo{store: memory.NewTicketRepository()}
}

func (r *recordingRepo) FindAll(ctx context.Context) ([]ticket.Ticket, error) {
	r.lock.Lock()
	r.FindAllCalls++
	r.lock.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return r.store.FindAll(ctx)
}

func (r *recordingRepo) FindByID(ctx context.Context, id int64) (*ticket.Ticket, error) {
	r.lock.Lock()
	r.FindByIDCalls = append(r.FindByIDCalls, id)
	r.lock.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return r.store.FindByID(ctx, id)
}

func (r *recordingRepo) Save(ctx context.Context, t *ticket.Ticket) (*ticket.Ticket, error) {
	r.lock.Lock()
	r.Saved = append(r.Saved, *t)
	r.lock.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return r.store.Save(ctx, t)
}

func (r *recordingRepo) DeleteByID(ctx context.Context, id int64) error {
	r.lock.Lock()
	r.DeleteByIDCalls = append(r.DeleteByIDCalls, id)
	r.lock.Unlock()

	if r.Err != nil {
		return r.Err
	}
	return r.store.DeleteByID(ctx, id)
}

// seed stores t directly, bypassing the call log.
func (r *recordingRepo) seed(t ticket.Ticket) {
	if _, err := r.store.Save(context.Background(), &t); err != nil {
		panic(err)
	}
}
