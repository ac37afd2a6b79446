package infrastructure

import (
	"context"
	"testing"

	"trainbooking/internal/config"
	"trainbooking/internal/infrastructure/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactory_MemoryRepositories(t *testing.T) {
	cfg := &config.Config{Storage: config.Storage{Driver: config.StorageMemory}}
	f := NewFactory(cfg)
	defer f.Close()

	repos, err := f.Repositories(context.Background())
	require.NoError(t, err)

	assert.IsType(t, &memory.TicketRepository{}, repos.Tickets)
	assert.Nil(t, repos.History)
}

func TestFactory_RedisDisabledWithoutAddr(t *testing.T) {
	f := NewFactory(&config.Config{})
	defer f.Close()

	client, err := f.Redis(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, client)
}
