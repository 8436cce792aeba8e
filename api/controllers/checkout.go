package controllers

import (
	"net/http"
	"time"

	"github.com/partshub/partshub-backend/api/middleware"
	"github.com/partshub/partshub-backend/api/responses"
	"github.com/partshub/partshub-backend/api/validators"
	"github.com/partshub/partshub-backend/internal/checkout"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
	"github.com/partshub/partshub-backend/pkg/logger"
	"github.com/partshub/partshub-backend/pkg/metrics"
)

type checkoutRequest struct {
	PORef *string `json:"po_ref" validate:"omitempty,max=64"`
	Notes *string `json:"notes" validate:"omitempty,max=1000"`
}

// Checkout places an order from the caller's cart. The cart is re-priced
// inside the placement transaction, so the quoted view is advisory and the
// snapshot on the order is authoritative.
func Checkout(svc checkout.Service, m *metrics.DomainMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service not configured"))
			return
		}

		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.PORef != nil {
			trimmed := validators.SanitizeString(*req.PORef, 64)
			req.PORef = &trimmed
		}
		if req.Notes != nil {
			trimmed := validators.SanitizeString(*req.Notes, 1000)
			req.Notes = &trimmed
		}

		input := checkout.PlaceOrderInput{
			DealerUserID:    middleware.DealerUserIDFromContext(r.Context()),
			DealerAccountID: middleware.DealerAccountIDFromContext(r.Context()),
			PORef:           req.PORef,
			Notes:           req.Notes,
		}

		start := time.Now()
		order, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.ObserveOrderPlaced(len(order.Lines), time.Since(start))
		responses.WriteSuccessStatus(w, http.StatusCreated, toOrderResponse(order))
	}
}
