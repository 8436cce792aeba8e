package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/partshub/partshub-backend/api/responses"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
	"github.com/partshub/partshub-backend/pkg/logger"
)

type contextKey string

const (
	ctxDealerUserID    contextKey = "dealer_user_id"
	ctxDealerAccountID contextKey = "dealer_account_id"
)

const (
	dealerUserHeader    = "X-Dealer-User-Id"
	dealerAccountHeader = "X-Dealer-Account-Id"
)

// DealerContext extracts the dealer identity set by the portal gateway.
// Requests without both headers are rejected before any handler runs.
func DealerContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := uuid.Parse(r.Header.Get(dealerUserHeader))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "dealer user identity missing"))
				return
			}
			accountID, err := uuid.Parse(r.Header.Get(dealerAccountHeader))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "dealer account identity missing"))
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, ctxDealerUserID, userID)
			ctx = context.WithValue(ctx, ctxDealerAccountID, accountID)
			if logg != nil {
				ctx = logg.WithDealerUserID(ctx, userID.String())
				ctx = logg.WithDealerAccountID(ctx, accountID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DealerUserIDFromContext returns the authenticated dealer user id, or
// uuid.Nil when the request skipped DealerContext.
func DealerUserIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxDealerUserID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// DealerAccountIDFromContext returns the authenticated dealer account id.
func DealerAccountIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxDealerAccountID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}
