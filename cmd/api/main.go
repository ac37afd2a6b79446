package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trainbooking/internal/api"
	"trainbooking/internal/application/factories/infrastructure"
	"trainbooking/internal/config"
	"trainbooking/internal/logging"
	"trainbooking/internal/usecase"

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

	infraFactory := infrastructure.NewFactory(cfg)
	defer infraFactory.Close()

	repos, err := infraFactory.Repositories(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("failed to init storage")
	}

	redisClient, err := infraFactory.Redis(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to redis")
	}
	if redisClient == nil {
		logrus.Info("redis not configured, Idempotency-Key handling disabled")
	}

	directory := usecase.NewDirectory(repos.Users, repos.Trains)
	handlers := api.NewHandlers(repos.Tickets, repos.History, directory)
	apiHandler := api.NewRouter(handlers, redisClient, cfg.Redis.IdempotencyTTL)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           apiHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logrus.WithFields(logrus.Fields{
			"port":    cfg.HTTP.Port,
			"storage": cfg.Storage.Driver,
			"version": cfg.App.Version,
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("listen failed")
		}
	}()

	<-ctx.Done()
	logrus.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("server forced to shutdown")
		return
	}

	logrus.Info("server exiting")
}
