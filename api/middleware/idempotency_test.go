package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partshub/partshub-backend/api/responses"
)

type memoryIdempotencyStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{data: make(map[string]string)}
}

func (m *memoryIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (m *memoryIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memoryIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "ph:idempotency:" + scope + ":" + id
}

func (m *memoryIdempotencyStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func idempotencyRouter(store *memoryIdempotencyStore, handler http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.With(Idempotency(store, nil)).Post("/api/v1/checkout", handler)
	return r
}

func TestIdempotencyRequiresKeyHeader(t *testing.T) {
	router := idempotencyRouter(newMemoryIdempotencyStore(), func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, "ok")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Idempotency-Key")
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	calls := 0
	router := idempotencyRouter(newMemoryIdempotencyStore(), func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"order_no":"ORD-1001"}}`))
	})

	makeRequest := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"po_ref":"PO-9"}`))
		req.Header.Set("Idempotency-Key", "key-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := makeRequest()
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get("X-Idempotency-Replay"))

	second := makeRequest()
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replay"))
	assert.Equal(t, 1, calls)
}

func TestIdempotencyRejectsKeyReuseWithDifferentBody(t *testing.T) {
	router := idempotencyRouter(newMemoryIdempotencyStore(), func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, "ok")
	})

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "key-456")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	first := send(`{"po_ref":"PO-1"}`)
	require.Equal(t, http.StatusOK, first.Code)

	second := send(`{"po_ref":"PO-2"}`)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "IDEMPOTENCY_KEY_REUSED")
}

func TestIdempotencySkipsServerErrors(t *testing.T) {
	store := newMemoryIdempotencyStore()
	calls := 0
	router := idempotencyRouter(store, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", "key-err")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store.data)
}

func TestIdempotencyIgnoresUnmatchedRoutes(t *testing.T) {
	store := newMemoryIdempotencyStore()
	r := chi.NewRouter()
	r.With(Idempotency(store, nil)).Get("/api/v1/cart", func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, "cart")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.data)
}
