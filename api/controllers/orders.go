package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/partshub/partshub-backend/api/middleware"
	"github.com/partshub/partshub-backend/api/responses"
	"github.com/partshub/partshub-backend/api/validators"
	"github.com/partshub/partshub-backend/internal/orders"
	"github.com/partshub/partshub-backend/pkg/db/models"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
	"github.com/partshub/partshub-backend/pkg/logger"
	"github.com/partshub/partshub-backend/pkg/pagination"
)

const (
	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
)

// OrdersList returns the caller's orders, newest first, with cursor
// pagination.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service not configured"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", defaultOrderPageSize, 1, maxOrderPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}

		accountID := middleware.DealerAccountIDFromContext(r.Context())
		results, nextCursor, err := svc.List(r.Context(), accountID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]orderResponse, 0, len(results))
		for i := range results {
			items = append(items, toOrderResponse(&results[i]))
		}
		responses.WriteSuccess(w, map[string]any{
			"orders":      items,
			"next_cursor": nextCursor,
		})
	}
}

// OrderGet fetches one order by order number, scoped to the caller's
// dealer account.
func OrderGet(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service not configured"))
			return
		}

		ref := validators.SanitizeString(chi.URLParam(r, "orderRef"), 64)
		if ref == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order reference is required"))
			return
		}

		accountID := middleware.DealerAccountIDFromContext(r.Context())

		// Accept either an order number or a raw order id.
		var (
			order *models.OrderHeader
			err   error
		)
		if orderID, parseErr := uuid.Parse(ref); parseErr == nil {
			order, err = svc.GetByID(r.Context(), accountID, orderID)
		} else {
			order, err = svc.GetByOrderNo(r.Context(), accountID, ref)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toOrderResponse(order))
	}
}
