package usecase

import (
	"context"
	"testing"

	"trainbooking/internal/infrastructure/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_CreateAndList(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory(memory.NewUserRepository(), memory.NewTrainRepository())

	u, err := dir.CreateUser(ctx, "  Kirithi ")
	require.NoError(t, err)
	assert.Equal(t, "Kirithi", u.Name)
	assert.NotZero(t, u.ID)

	tr, err := dir.CreateTrain(ctx, "Chennai Express")
	require.NoError(t, err)
	assert.NotZero(t, tr.ID)

	users, err := dir.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	trains, err := dir.ListTrains(ctx)
	require.NoError(t, err)
	assert.Len(t, trains, 1)
}

func TestDirectory_RejectsBlankNames(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory(memory.NewUserRepository(), memory.NewTrainRepository())

	_, err := dir.CreateUser(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = dir.CreateTrain(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestDirectory_EmptyListsAreNotNil(t *testing.T) {
	ctx := context.Background()
	dir := NewDirectory(memory.NewUserRepository(), memory.NewTrainRepository())

	users, err := dir.ListUsers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)

	trains, err := dir.ListTrains(ctx)
	require.NoError(t, err)
	assert.NotNil(t, trains)
}
