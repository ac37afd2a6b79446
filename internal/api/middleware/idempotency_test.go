package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	var calls atomic.Int32
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":` + strconv.Itoa(int(n)) + `}`))
	})
	handler := Idempotency(redisClient(t), time.Minute)(next)
	key := uuid.NewString()

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	second := send()

	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, `{"id":1}`, second.Body.String())
	assert.Equal(t, "true", second.Header().Get(HeaderIdempotencyHit))
	assert.Equal(t, int32(1), calls.Load())
}

func TestIdempotency_FailedRequestCanBeRetried(t *testing.T) {
	var calls atomic.Int32
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	handler := Idempotency(redisClient(t), time.Minute)(next)
	key := uuid.NewString()

	for _, want := range []int{http.StatusInternalServerError, http.StatusCreated} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code)
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestIdempotency_IgnoresRequestsWithoutKey(t *testing.T) {
	var calls atomic.Int32
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	handler := Idempotency(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), time.Minute)(next)

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/tickets", nil))
	}
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/tickets", nil))

	assert.Equal(t, int32(3), calls.Load())
}

func TestIdempotency_SlowRequestKeepsLock(t *testing.T) {
	client := redisClient(t)

	previous := lockTTL
	lockTTL = 100 * time.Millisecond
	t.Cleanup(func() { lockTTL = previous })

	var calls atomic.Int32
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		time.Sleep(4 * lockTTL)
		w.WriteHeader(http.StatusCreated)
	})
	handler := Idempotency(client, time.Minute)(next)
	key := uuid.NewString()

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/tickets", nil)
		req.Header.Set(HeaderIdempotencyKey, key)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() { first <- send() }()

	time.Sleep(2 * lockTTL)
	retry := send()

	assert.Equal(t, http.StatusConflict, retry.Code)
	assert.Equal(t, http.StatusCreated, (<-first).Code)
	assert.Equal(t, int32(1), calls.Load())
}
