package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTx_EmptyContext(t *testing.T) {
	assert.Nil(t, GetTx(context.Background()))
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	pool := getDb(t)
	ctx := context.Background()
	tm := NewTxManager(pool)
	users := NewUserRepository(pool)

	before, err := users.List(ctx)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tm.WithinTransaction(ctx, func(txCtx context.Context) error {
		assert.NotNil(t, GetTx(txCtx))
		_, execErr := GetTx(txCtx).Exec(txCtx, `INSERT INTO users (name) VALUES ($1)`, "rolled back")
		require.NoError(t, execErr)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	after, err := users.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}
