package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/partshub/partshub-backend/pkg/enums"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
)

// View is a cart rendered with live pricing. Prices are resolved at read
// time, never stored, so a view always reflects the current band and floor
// data. Unavailable lines stay visible with a reason and price the subtotal
// as zero.
type View struct {
	CartID   uuid.UUID       `json:"cart_id"`
	Lines    []Line          `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Currency enums.Currency  `json:"currency"`
}

// Line is one priced cart entry.
type Line struct {
	ProductID           uuid.UUID        `json:"product_id"`
	ProductCode         string           `json:"product_code"`
	Description         string           `json:"description,omitempty"`
	PartType            enums.PartType   `json:"part_type,omitempty"`
	Qty                 int              `json:"qty"`
	UnitPrice           *decimal.Decimal `json:"unit_price,omitempty"`
	LineTotal           *decimal.Decimal `json:"line_total,omitempty"`
	BandCode            string           `json:"band_code,omitempty"`
	MinimumPriceApplied bool             `json:"minimum_price_applied"`
	Available           bool             `json:"available"`
	Reason              pkgerrors.Code   `json:"reason,omitempty"`
}
