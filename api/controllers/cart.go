package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/partshub/partshub-backend/api/middleware"
	"github.com/partshub/partshub-backend/api/responses"
	"github.com/partshub/partshub-backend/api/validators"
	"github.com/partshub/partshub-backend/internal/cart"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
	"github.com/partshub/partshub-backend/pkg/logger"
)

// CartGet returns the caller's cart priced live against the current
// band prices.
func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service not configured"))
			return
		}

		userID := middleware.DealerUserIDFromContext(r.Context())
		accountID := middleware.DealerAccountIDFromContext(r.Context())

		view, err := svc.GetView(r.Context(), userID, accountID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type cartAddRequest struct {
	ProductCode string `json:"product_code" validate:"required,max=64"`
	Qty         int    `json:"qty" validate:"required,min=1,max=10000"`
}

// CartAddItem adds a product to the cart, merging quantity when the
// product is already present.
func CartAddItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service not configured"))
			return
		}

		var req cartAddRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.DealerUserIDFromContext(r.Context())
		accountID := middleware.DealerAccountIDFromContext(r.Context())

		view, err := svc.AddItem(r.Context(), userID, accountID, validators.SanitizeString(req.ProductCode, 64), req.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

type cartQtyRequest struct {
	Qty int `json:"qty" validate:"required,min=1,max=10000"`
}

// CartUpdateItem sets the quantity of an existing cart line.
func CartUpdateItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service not configured"))
			return
		}

		productCode := validators.SanitizeString(chi.URLParam(r, "productCode"), 64)
		if productCode == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product code is required"))
			return
		}

		var req cartQtyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID := middleware.DealerUserIDFromContext(r.Context())
		accountID := middleware.DealerAccountIDFromContext(r.Context())

		view, err := svc.UpdateItemQty(r.Context(), userID, accountID, productCode, req.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartRemoveItem deletes a line from the cart.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service not configured"))
			return
		}

		productCode := validators.SanitizeString(chi.URLParam(r, "productCode"), 64)
		if productCode == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product code is required"))
			return
		}

		userID := middleware.DealerUserIDFromContext(r.Context())
		accountID := middleware.DealerAccountIDFromContext(r.Context())

		view, err := svc.RemoveItem(r.Context(), userID, accountID, productCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CartClear removes every line from the caller's cart.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service not configured"))
			return
		}

		userID := middleware.DealerUserIDFromContext(r.Context())
		if err := svc.Clear(r.Context(), userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"cleared": true})
	}
}
