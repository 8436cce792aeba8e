package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partshub/partshub-backend/pkg/enums"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
)

// PriceResult is the outcome of resolving one product for one dealer. On the
// bulk path unavailable entries carry a Reason instead of prices, so a single
// bad code never hides pricing for the rest of a basket.
type PriceResult struct {
	ProductID           uuid.UUID        `json:"product_id"`
	ProductCode         string           `json:"product_code"`
	Description         string           `json:"description,omitempty"`
	PartType            enums.PartType   `json:"part_type,omitempty"`
	Qty                 int              `json:"qty"`
	UnitPrice           *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice          *decimal.Decimal `json:"total_price,omitempty"`
	Currency            enums.Currency   `json:"currency"`
	BandCode            string           `json:"band_code,omitempty"`
	MinimumPriceApplied bool             `json:"minimum_price_applied"`
	Available           bool             `json:"available"`
	Reason              pkgerrors.Code   `json:"reason,omitempty"`
}

// unavailable builds the bulk-path entry for a product that could not be
// priced for this dealer.
func unavailable(productCode string, qty int, currency enums.Currency, reason pkgerrors.Code) PriceResult {
	return PriceResult{
		ProductCode: productCode,
		Qty:         qty,
		Currency:    currency,
		Available:   false,
		Reason:      reason,
	}
}
