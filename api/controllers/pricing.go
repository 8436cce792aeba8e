package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/partshub/partshub-backend/api/middleware"
	"github.com/partshub/partshub-backend/api/responses"
	"github.com/partshub/partshub-backend/api/validators"
	"github.com/partshub/partshub-backend/internal/pricing"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
	"github.com/partshub/partshub-backend/pkg/logger"
	"github.com/partshub/partshub-backend/pkg/metrics"
)

const (
	defaultQuoteQty = 1
	maxQuoteQty     = 10000
	maxQuoteCodes   = 100
)

// PriceQuote resolves the price of a single product for the calling dealer.
func PriceQuote(svc pricing.Service, m *metrics.DomainMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service not configured"))
			return
		}

		productCode := validators.SanitizeString(chi.URLParam(r, "productCode"), 64)
		if productCode == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product code is required"))
			return
		}

		qty, err := validators.ParseQueryInt(r, "qty", defaultQuoteQty, 1, maxQuoteQty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		accountID := middleware.DealerAccountIDFromContext(r.Context())
		result, err := svc.ResolvePrice(r.Context(), accountID, productCode, qty, nil)
		if err != nil {
			m.IncPriceResolution(string(reasonForError(err)))
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		m.IncPriceResolution("resolved")
		responses.WriteSuccess(w, result)
	}
}

type bulkQuoteRequest struct {
	ProductCodes []string `json:"product_codes" validate:"required,min=1,max=100,dive,required"`
}

// PriceQuoteBulk resolves a basket of product codes in one call. Codes
// that cannot be priced come back as unavailable entries rather than
// failing the whole request.
func PriceQuoteBulk(svc pricing.Service, m *metrics.DomainMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service not configured"))
			return
		}

		var req bulkQuoteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		codes := make([]string, 0, len(req.ProductCodes))
		for _, code := range req.ProductCodes {
			codes = append(codes, validators.SanitizeString(code, 64))
		}

		accountID := middleware.DealerAccountIDFromContext(r.Context())
		results, err := svc.ResolvePrices(r.Context(), accountID, codes, nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		for _, result := range results {
			if result.Available {
				m.IncPriceResolution("resolved")
			} else {
				m.IncPriceResolution(string(result.Reason))
			}
		}
		responses.WriteSuccess(w, map[string]any{"results": results})
	}
}

func reasonForError(err error) pkgerrors.Code {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Code()
	}
	return pkgerrors.CodeInternal
}
