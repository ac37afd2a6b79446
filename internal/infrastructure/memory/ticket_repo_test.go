package memory

import (
	"context"
	"testing"
	"time"

	"trainbooking/internal/domain/ticket"
	"trainbooking/internal/domain/train"
	"trainbooking/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRepository_SaveAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository()

	first, err := repo.Save(ctx, &ticket.Ticket{FinalPrice: 100})
	require.NoError(t, err)
	second, err := repo.Save(ctx, &ticket.Ticket{FinalPrice: 200})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestTicketRepository_SaveWithIDUpserts(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository()

	_, err := repo.Save(ctx, &ticket.Ticket{ID: 5, FinalPrice: 100})
	require.NoError(t, err)
	_, err = repo.Save(ctx, &ticket.Ticket{ID: 5, FinalPrice: 150})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, 5)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 150.0, got.FinalPrice)

	next, err := repo.Save(ctx, &ticket.Ticket{})
	require.NoError(t, err)
	assert.Equal(t, int64(6), next.ID, "generated ids must not collide with explicit ones")
}

func TestTicketRepository_FindAllOrderedByID(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository()

	for _, id := range []int64{3, 1, 2} {
		_, err := repo.Save(ctx, &ticket.Ticket{ID: id})
		require.NoError(t, err)
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{all[0].ID, all[1].ID, all[2].ID})
}

func TestTicketRepository_FindByIDMissing(t *testing.T) {
	got, err := NewTicketRepository().FindByID(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestTicketRepository_SaveCopiesInput(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository()

	in := &ticket.Ticket{
		User:        user.User{ID: 1, Name: "Kirithi"},
		Train:       train.Train{ID: 1, Name: "Chennai Express"},
		BookingDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		FinalPrice:  630,
	}
	saved, err := repo.Save(ctx, in)
	require.NoError(t, err)

	assert.Zero(t, in.ID)
	in.FinalPrice = 1

	got, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, 630.0, got.FinalPrice)
	assert.Equal(t, "Chennai Express", got.Train.Name)
}

func TestTicketRepository_DeleteByIDIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository()

	saved, err := repo.Save(ctx, &ticket.Ticket{})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByID(ctx, saved.ID))
	require.NoError(t, repo.DeleteByID(ctx, saved.ID))

	got, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDirectoryRepositories(t *testing.T) {
	ctx := context.Background()

	users := NewUserRepository()
	u := &user.User{Name: "Kirithi"}
	require.NoError(t, users.Create(ctx, u))
	assert.Equal(t, int64(1), u.ID)

	trains := NewTrainRepository()
	tr := &train.Train{Name: "Chennai Express"}
	require.NoError(t, trains.Create(ctx, tr))

	listedUsers, err := users.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []user.User{{ID: 1, Name: "Kirithi"}}, listedUsers)

	listedTrains, err := trains.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []train.Train{{ID: 1, Name: "Chennai Express"}}, listedTrains)
}
