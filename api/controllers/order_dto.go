package controllers

import (
	"time"

	"github.com/google/uuid"

	"github.com/partshub/partshub-backend/pkg/db/models"
)

type orderLineResponse struct {
	Position        int        `json:"position"`
	ProductID       *uuid.UUID `json:"product_id,omitempty"`
	ProductCode     string     `json:"product_code"`
	Description     string     `json:"description"`
	PartType        string     `json:"part_type"`
	BandCode        string     `json:"band_code"`
	Qty             int        `json:"qty"`
	UnitPrice       string     `json:"unit_price"`
	LineTotal       string     `json:"line_total"`
	MinPriceApplied bool       `json:"min_price_applied"`
}

type orderResponse struct {
	ID        uuid.UUID           `json:"id"`
	OrderNo   string              `json:"order_no"`
	Status    string              `json:"status"`
	Currency  string              `json:"currency"`
	Subtotal  string              `json:"subtotal"`
	Total     string              `json:"total"`
	PORef     *string             `json:"po_ref,omitempty"`
	Notes     *string             `json:"notes,omitempty"`
	Lines     []orderLineResponse `json:"lines,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

func toOrderResponse(order *models.OrderHeader) orderResponse {
	resp := orderResponse{
		ID:        order.ID,
		OrderNo:   order.OrderNo,
		Status:    string(order.Status),
		Currency:  string(order.Currency),
		Subtotal:  order.Subtotal.StringFixed(2),
		Total:     order.Total.StringFixed(2),
		PORef:     order.PORef,
		Notes:     order.Notes,
		CreatedAt: order.CreatedAt,
	}
	for _, line := range order.Lines {
		resp.Lines = append(resp.Lines, orderLineResponse{
			Position:        line.Position,
			ProductID:       line.ProductID,
			ProductCode:     line.ProductCodeSnapshot,
			Description:     line.DescriptionSnapshot,
			PartType:        string(line.PartTypeSnapshot),
			BandCode:        line.BandCodeSnapshot,
			Qty:             line.Qty,
			UnitPrice:       line.UnitPriceSnapshot.StringFixed(2),
			LineTotal:       line.LineTotal.StringFixed(2),
			MinPriceApplied: line.MinPriceApplied,
		})
	}
	return resp
}
