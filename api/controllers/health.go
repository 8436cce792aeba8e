package controllers

import (
	"context"
	"net/http"

	"github.com/partshub/partshub-backend/api/responses"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive answers as soon as the process can serve requests.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the backing dependencies. A nil pinger means the
// dependency is not configured for this deployment and is skipped.
func HealthReady(database, cache, broker pinger) http.HandlerFunc {
	checks := map[string]pinger{
		"database": database,
		"redis":    cache,
		"pubsub":   broker,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]string, len(checks))
		healthy := true
		for name, p := range checks {
			if p == nil {
				status[name] = "skipped"
				continue
			}
			if err := p.Ping(r.Context()); err != nil {
				status[name] = "down"
				healthy = false
				continue
			}
			status[name] = "up"
		}

		if !healthy {
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, status)
			return
		}
		responses.WriteSuccess(w, status)
	}
}
