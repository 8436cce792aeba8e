package middleware

import (
	"fmt"
	"net/http"

	"github.com/partshub/partshub-backend/api/responses"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
	"github.com/partshub/partshub-backend/pkg/logger"
)

// Recoverer turns handler panics into a 500 response instead of
// tearing down the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("panic: %v", rec))
					responses.WriteError(r.Context(), logg, w, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
