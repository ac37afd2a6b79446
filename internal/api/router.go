package api

import (
	"net/http"
	"time"

	"trainbooking/internal/api/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// NewRouter mounts the API. A nil redisClient turns off Idempotency-Key
// handling.
func NewRouter(h *Handlers, redisClient *redis.Client, idempotencyTTL time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RequestLogger(logrus.StandardLogger()))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", h.ListTickets)
			r.With(idempotent(redisClient, idempotencyTTL)...).Post("/", h.CreateTicket)
			r.Get("/{id}", h.GetTicket)
			r.Put("/{id}", h.UpdateTicket)
			r.Delete("/{id}", h.DeleteTicket)
			r.Get("/{id}/history", h.GetHistory)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
		})

		r.Route("/trains", func(r chi.Router) {
			r.Get("/", h.ListTrains)
			r.Post("/", h.CreateTrain)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func idempotent(redisClient *redis.Client, ttl time.Duration) []func(http.Handler) http.Handler {
	if redisClient == nil {
		return nil
	}
	return []func(http.Handler) http.Handler{middleware.Idempotency(redisClient, ttl)}
}
