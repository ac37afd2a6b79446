package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderIdempotencyHit = "X-Idempotency-Hit"

	processingValue = "PROCESSING"
)

// lockTTL bounds how long a crashed request holds its key. A live request
// keeps extending it, so slow handlers still answer retries with 409.
var lockTTL = 10 * time.Second

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Idempotency replays the stored response for a repeated Idempotency-Key on
// state-changing requests. A request racing one still in flight gets 409.
// Requests without the header, and all requests while redis is down, pass
// through unchanged.
func Idempotency(redisClient *redis.Client, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(HeaderIdempotencyKey)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			idemKey := "idempotency:" + r.Method + ":" + r.URL.Path + ":" + key
			ctx := r.Context()
			log := logrus.WithField("idempotency_key", key)

			acquired, err := redisClient.SetNX(ctx, idemKey, processingValue, lockTTL).Result()
			if err != nil {
				log.WithError(err).Warn("idempotency store unavailable")
				next.ServeHTTP(w, r)
				return
			}

			if !acquired {
				replay(w, redisClient, r, idemKey)
				return
			}

			var body bytes.Buffer
			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)

			stopRefresh := refreshLock(ctx, redisClient, idemKey, log)
			next.ServeHTTP(ww, r)
			stopRefresh()

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			// Only successful outcomes are final; anything else may be retried.
			if status < http.StatusOK || status >= http.StatusMultipleChoices {
				if err := redisClient.Del(ctx, idemKey).Err(); err != nil {
					log.WithError(err).Warn("failed to release idempotency key")
				}
				return
			}

			data, err := json.Marshal(storedResponse{
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        body.Bytes(),
			})
			if err != nil {
				log.WithError(err).Warn("failed to encode response for replay")
				return
			}
			if err := redisClient.Set(ctx, idemKey, data, ttl).Err(); err != nil {
				log.WithError(err).Warn("failed to store idempotent response")
			}
		})
	}
}

// refreshLock extends the in-flight lock every half lockTTL until the returned
// stop func is called. stop waits for the refresher to exit so a late Expire
// cannot land after the response has been stored.
func refreshLock(ctx context.Context, redisClient *redis.Client, idemKey string, log *logrus.Entry) func() {
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		ticker := time.NewTicker(lockTTL / 2)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := redisClient.Expire(ctx, idemKey, lockTTL).Err(); err != nil {
					log.WithError(err).Warn("failed to extend idempotency lock")
				}
			}
		}
	}()

	return func() {
		close(done)
		<-exited
	}
}

func replay(w http.ResponseWriter, redisClient *redis.Client, r *http.Request, idemKey string) {
	val, err := redisClient.Get(r.Context(), idemKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		http.Error(w, `{"error": "idempotency store unavailable"}`, http.StatusServiceUnavailable)
		return
	}

	if errors.Is(err, redis.Nil) || val == processingValue {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error": "concurrent request"}`))
		return
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(val), &stored); err != nil {
		http.Error(w, `{"error": "corrupt idempotency record"}`, http.StatusInternalServerError)
		return
	}

	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set(HeaderIdempotencyHit, "true")
	w.WriteHeader(stored.Status)
	w.Write(stored.Body)
}
