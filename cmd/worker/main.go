package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"trainbooking/internal/application/factories/infrastructure"
	"trainbooking/internal/config"
	"trainbooking/internal/infrastructure/postgres"
	"trainbooking/internal/logging"
	"trainbooking/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		logging.Init("info")
		logrus.WithError(err).Fatal("failed to load config")
	}
	logging.Init(cfg.Log.Level)

	if cfg.Storage.Driver != config.StoragePostgres {
		logrus.WithField("storage", cfg.Storage.Driver).Fatal("outbox worker requires postgres storage")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go serveMetrics(cfg.Metrics.WorkerPort)

	infraFactory := infrastructure.NewFactory(cfg)
	defer infraFactory.Close()

	pgPool, err := infraFactory.Postgres(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to postgres")
	}

	outboxRepo := postgres.NewOutboxRepository(pgPool)
	producer := infraFactory.KafkaProducer()

	w := worker.NewOutboxPoller(outboxRepo, producer, cfg.Outbox.BatchSize, cfg.Outbox.PollInterval)

	if err := w.Run(ctx); err != nil {
		logrus.WithError(err).Error("worker stopped with error")
	}

	logrus.Info("worker exited")
}

func serveMetrics(port string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logrus.WithField("port", port).Info("worker metrics listening")
	if err := http.ListenAndServe(":"+port, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.WithError(err).Error("metrics server stopped")
	}
}
