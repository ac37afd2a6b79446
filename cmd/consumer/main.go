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
	"trainbooking/internal/consumer"
	"trainbooking/internal/infrastructure/postgres"
	"trainbooking/internal/logging"

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

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		logrus.WithField("port", cfg.Metrics.ConsumerPort).Info("consumer metrics listening")
		if err := http.ListenAndServe(":"+cfg.Metrics.ConsumerPort, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("metrics server stopped")
		}
	}()

	infraFactory := infrastructure.NewFactory(cfg)
	defer infraFactory.Close()

	pgPool, err := infraFactory.Postgres(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to postgres")
	}

	kafkaConsumer := infraFactory.KafkaConsumer()
	handler := consumer.NewAuditHandler(cfg.Kafka.GroupID, postgres.NewInboxRepository(pgPool))

	logrus.WithFields(logrus.Fields{
		"group_id":     cfg.Kafka.GroupID,
		"topic":        cfg.Kafka.Topic,
		"brokers":      cfg.Kafka.Brokers,
		"start_offset": cfg.Kafka.StartOffset,
	}).Info("ticket audit consumer started")

	if err := consumer.NewRunner(kafkaConsumer, handler).Run(ctx); err != nil {
		logrus.WithError(err).Error("consumer stopped with error")
	}

	logrus.Info("consumer exited")
}
