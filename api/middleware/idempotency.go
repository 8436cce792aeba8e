package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"

	"github.com/partshub/partshub-backend/api/responses"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
	"github.com/partshub/partshub-backend/pkg/logger"
	"github.com/partshub/partshub-backend/pkg/redis"
)

const idempotencyKeyHeader = "Idempotency-Key"

const (
	checkoutIdempotencyTTL = 7 * 24 * time.Hour
	cartIdempotencyTTL     = 24 * time.Hour
)

type idempotencyRule struct {
	method  string
	pattern string
	ttl     time.Duration
}

// Mutating routes whose replays must return the original response.
var idempotencyRules = []idempotencyRule{
	{method: http.MethodPost, pattern: "/api/v1/checkout", ttl: checkoutIdempotencyTTL},
	{method: http.MethodPost, pattern: "/api/v1/cart/items", ttl: cartIdempotencyTTL},
}

type idempotencyRecord struct {
	Status      int                 `json:"status"`
	Body        string              `json:"body"`
	Headers     map[string][]string `json:"headers"`
	RequestHash string              `json:"request_hash"`
}

type responseCapture struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (rc *responseCapture) WriteHeader(code int) {
	rc.status = code
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a request repeats an
// Idempotency-Key, and rejects key reuse with a different payload.
func Idempotency(store redis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule, matched := ruleFor(r)
			if !matched || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(idempotencyKeyHeader)
			if key == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header is required"))
				return
			}

			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			requestHash := hashRequest(r.Method, r.URL.Path, bodyBytes)
			storageKey := store.IdempotencyKey(scopeFor(r), key)

			if replayed := replayStored(store, logg, w, r, storageKey, requestHash); replayed {
				return
			}

			capture := &responseCapture{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(capture, r)

			if capture.status >= http.StatusInternalServerError {
				return
			}

			record := idempotencyRecord{
				Status:      capture.status,
				Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
				Headers:     map[string][]string{"Content-Type": {capture.Header().Get("Content-Type")}},
				RequestHash: requestHash,
			}
			encoded, err := json.Marshal(record)
			if err != nil {
				return
			}
			if _, err := store.SetNX(r.Context(), storageKey, string(encoded), rule.ttl); err != nil && logg != nil {
				logg.Warn(logg.WithField(r.Context(), "idempotency_key", key), "idempotency.store_failed")
			}
		})
	}
}

// replayStored writes the recorded response when the key has been seen
// before. Returns true when the request was handled.
func replayStored(store redis.IdempotencyStore, logg *logger.Logger, w http.ResponseWriter, r *http.Request, storageKey, requestHash string) bool {
	stored, err := store.Get(r.Context(), storageKey)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false
		}
		if logg != nil {
			logg.Warn(r.Context(), "idempotency.lookup_failed")
		}
		return false
	}

	var record idempotencyRecord
	if err := json.Unmarshal([]byte(stored), &record); err != nil {
		return false
	}

	if record.RequestHash != requestHash {
		responses.WriteError(r.Context(), logg, w,
			pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with a different request"))
		return true
	}

	body, err := base64.StdEncoding.DecodeString(record.Body)
	if err != nil {
		return false
	}
	for name, values := range record.Headers {
		for _, v := range values {
			if v != "" {
				w.Header().Set(name, v)
			}
		}
	}
	w.Header().Set("X-Idempotency-Replay", "true")
	w.WriteHeader(record.Status)
	_, _ = w.Write(body)
	return true
}

func ruleFor(r *http.Request) (idempotencyRule, bool) {
	pattern := routePattern(r)
	for _, rule := range idempotencyRules {
		if rule.method == r.Method && rule.pattern == pattern {
			return rule, true
		}
	}
	return idempotencyRule{}, false
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// scopeFor isolates keys per dealer user so one dealer cannot replay
// another's responses.
func scopeFor(r *http.Request) string {
	userID := DealerUserIDFromContext(r.Context())
	return userID.String()
}

func hashRequest(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
