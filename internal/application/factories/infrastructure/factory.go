package infrastructure

import (
	"context"
	"fmt"

	"trainbooking/internal/config"
	"trainbooking/internal/domain/ticket"
	"trainbooking/internal/domain/train"
	"trainbooking/internal/domain/user"
	"trainbooking/internal/infrastructure/kafka"
	"trainbooking/internal/infrastructure/memory"
	"trainbooking/internal/infrastructure/postgres"
	"trainbooking/internal/usecase"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Factory builds and caches infrastructure clients for one process and closes
// them together.
type Factory struct {
	cfg      *config.Config
	pgPool   *pgxpool.Pool
	redisCli *redis.Client
	closers  []func() error
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		cfg: cfg,
	}
}

func (f *Factory) Postgres(ctx context.Context) (*pgxpool.Pool, error) {
	if f.pgPool != nil {
		return f.pgPool, nil
	}

	pool, err := postgres.NewClient(ctx, postgres.Config{
		Host:     f.cfg.Postgres.Host,
		Port:     f.cfg.Postgres.Port,
		User:     f.cfg.Postgres.User,
		Password: f.cfg.Postgres.Password,
		DBName:   f.cfg.Postgres.DBName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	if f.cfg.Postgres.AutoMigrate {
		if err := postgres.CreateSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}

	f.pgPool = pool
	return pool, nil
}

// Redis returns nil, nil when no redis address is configured.
func (f *Factory) Redis(ctx context.Context) (*redis.Client, error) {
	if f.redisCli != nil || f.cfg.Redis.Addr == "" {
		return f.redisCli, nil
	}

	client := redis.NewClient(&redis.Options{Addr: f.cfg.Redis.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	f.redisCli = client
	return client, nil
}

func (f *Factory) KafkaProducer() *kafka.Producer {
	p := kafka.NewProducer(kafka.Config{
		Brokers: f.cfg.Kafka.Brokers,
		Topic:   f.cfg.Kafka.Topic,
	})
	f.closers = append(f.closers, p.Close)
	return p
}

func (f *Factory) KafkaConsumer() *kafka.Consumer {
	c := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:     f.cfg.Kafka.Brokers,
		Topic:       f.cfg.Kafka.Topic,
		GroupID:     f.cfg.Kafka.GroupID,
		StartOffset: f.cfg.Kafka.StartOffset,
	})
	f.closers = append(f.closers, c.Close)
	return c
}

// Repositories is the storage the API runs on. History is nil for the memory
// driver, which keeps no change feed.
type Repositories struct {
	Tickets ticket.Repository
	Users   user.Repository
	Trains  train.Repository
	History *usecase.GetHistory
}

func (f *Factory) Repositories(ctx context.Context) (*Repositories, error) {
	if f.cfg.Storage.Driver == config.StorageMemory {
		return &Repositories{
			Tickets: memory.NewTicketRepository(),
			Users:   memory.NewUserRepository(),
			Trains:  memory.NewTrainRepository(),
		}, nil
	}

	pool, err := f.Postgres(ctx)
	if err != nil {
		return nil, err
	}

	outboxRepo := postgres.NewOutboxRepository(pool)
	tickets := postgres.NewTicketRepository(pool, postgres.NewTxManager(pool), outboxRepo)

	return &Repositories{
		Tickets: tickets,
		Users:   postgres.NewUserRepository(pool),
		Trains:  postgres.NewTrainRepository(pool),
		History: usecase.NewGetHistory(tickets, outboxRepo, postgres.NewInboxRepository(pool)),
	}, nil
}

func (f *Factory) Close() {
	for i := len(f.closers) - 1; i >= 0; i-- {
		if err := f.closers[i](); err != nil {
			logrus.WithError(err).Warn("failed to close client")
		}
	}
	if f.redisCli != nil {
		f.redisCli.Close()
	}
	if f.pgPool != nil {
		f.pgPool.Close()
	}
}
