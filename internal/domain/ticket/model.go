package ticket

import (
	"context"
	"errors"
	"time"

	"trainbooking/internal/domain/train"
	"trainbooking/internal/domain/user"
)

var ErrNotFound = errors.New("ticket not found")

// Ticket books a seat for a user on a train. ID is assigned by the store on
// first save; zero means the ticket has not been persisted.
type Ticket struct {
	ID          int64       `json:"id"`
	User        user.User   `json:"user"`
	Train       train.Train `json:"train"`
	BookingDate time.Time   `json:"booking_date"`
	FinalPrice  float64     `json:"final_price"`
}

type Repository interface {
	// FindAll returns tickets ordered by ID.
	FindAll(ctx context.Context) ([]Ticket, error)
	// FindByID returns nil, nil when no ticket has the given ID.
	FindByID(ctx context.Context, id int64) (*Ticket, error)
	// Save inserts the ticket when ID is zero and upserts it otherwise.
	Save(ctx context.Context, t *Ticket) (*Ticket, error)
	// DeleteByID is a no-op for unknown IDs.
	DeleteByID(ctx context.Context, id int64) error
}
