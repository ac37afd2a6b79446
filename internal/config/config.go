package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	App      App      `yaml:"app"`
	HTTP     HTTP     `yaml:"http"`
	Log      Log      `yaml:"log"`
	Storage  Storage  `yaml:"storage"`
	Postgres Postgres `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`
	Kafka    Kafka    `yaml:"kafka"`
	Metrics  Metrics  `yaml:"metrics"`
	Outbox   Outbox   `yaml:"outbox"`
}

type App struct {
	Name    string `yaml:"name" env:"APP_NAME" env-default:"trainbooking-api"`
	Version string `yaml:"version" env:"APP_VERSION" env-default:"1.0.0"`
}

type HTTP struct {
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
}

type Postgres struct {
	Host     string `yaml:"host" env:"POSTGRES_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"POSTGRES_USER" env-default:"user"`
	Password string `yaml:"password" env:"POSTGRES_PASSWORD" env-default:"password"`
	DBName   string `yaml:"dbname" env:"POSTGRES_DB" env-default:"trainbooking"`
	// AutoMigrate has no env-default: cleanenv would apply it over an explicit
	// false from the file. Load seeds true instead.
	AutoMigrate bool `yaml:"auto_migrate" env:"POSTGRES_AUTO_MIGRATE"`
}

// Redis is optional: an empty Addr disables request idempotency.
type Redis struct {
	Addr           string        `yaml:"addr" env:"REDIS_ADDR" env-default:""`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl" env:"REDIS_IDEMPOTENCY_TTL" env-default:"24h"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC" env-default:"ticket-events"`
	GroupID string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"ticket-audit"`
	// StartOffset is where a new consumer group begins: earliest or latest.
	StartOffset string `yaml:"start_offset" env:"KAFKA_START_OFFSET" env-default:"earliest"`
}

type Metrics struct {
	WorkerPort   string `yaml:"worker_port" env:"METRICS_WORKER_PORT" env-default:"9093"`
	ConsumerPort string `yaml:"consumer_port" env:"METRICS_CONSUMER_PORT" env-default:"9091"`
}

type Outbox struct {
	BatchSize    int           `yaml:"batch_size" env:"OUTBOX_BATCH_SIZE" env-default:"10"`
	PollInterval time.Duration `yaml:"poll_interval" env:"OUTBOX_POLL_INTERVAL" env-default:"2s"`
}

func New() (*Config, error) {
	return Load("config.yaml")
}

// Load reads path and lets env vars override it. A missing file falls back to
// env vars and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Postgres: Postgres{AutoMigrate: true},
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("config env override: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("config error: unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Kafka.StartOffset {
	case "earliest", "latest":
	default:
		return fmt.Errorf("config error: kafka start offset must be earliest or latest, got %q", c.Kafka.StartOffset)
	}
	if c.Outbox.BatchSize <= 0 {
		return fmt.Errorf("config error: outbox batch size must be positive, got %d", c.Outbox.BatchSize)
	}
	return nil
}
