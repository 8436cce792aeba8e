package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/partshub/partshub-backend/internal/cart"
	"github.com/partshub/partshub-backend/internal/orders"
	"github.com/partshub/partshub-backend/internal/pricing"
	"github.com/partshub/partshub-backend/pkg/db/models"
	"github.com/partshub/partshub-backend/pkg/enums"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
	"github.com/partshub/partshub-backend/pkg/logger"
	"github.com/partshub/partshub-backend/pkg/ordernum"
	"github.com/partshub/partshub-backend/pkg/outbox"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type PriceResolver interface {
	ResolvePrice(ctx context.Context, dealerAccountID uuid.UUID, productCode string, qty int, asOf *time.Time) (*pricing.PriceResult, error)
}

// ResolverFactory builds a price resolver whose reads run inside the supplied
// transaction, so checkout prices against the same snapshot it commits.
type ResolverFactory func(tx *gorm.DB) (PriceResolver, error)

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// PlaceOrderInput carries the placement request.
type PlaceOrderInput struct {
	DealerUserID    uuid.UUID
	DealerAccountID uuid.UUID
	PORef           *string
	Notes           *string
}

// OrderCreatedData is the outbox payload for a placed order.
type OrderCreatedData struct {
	OrderID         uuid.UUID `json:"orderId"`
	OrderNo         string    `json:"orderNo"`
	DealerAccountID uuid.UUID `json:"dealerAccountId"`
	DealerUserID    uuid.UUID `json:"dealerUserId"`
	Currency        string    `json:"currency"`
	Subtotal        string    `json:"subtotal"`
	Total           string    `json:"total"`
	LineCount       int       `json:"lineCount"`
}

// Service turns a cart into an immutable order. Placement is all or nothing:
// every line must price successfully inside one transaction or no order row,
// no line rows, and no cart change persist.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.OrderHeader, error)
}

type service struct {
	db          txRunner
	carts       *cart.Repository
	orders      *orders.Repository
	outbox      eventEmitter
	orderNos    ordernum.Generator
	newResolver ResolverFactory
	currency    enums.Currency
	logg        *logger.Logger
}

// NewService builds the order placement engine.
func NewService(
	db txRunner,
	carts *cart.Repository,
	orderRepo *orders.Repository,
	emitter eventEmitter,
	orderNos ordernum.Generator,
	newResolver ResolverFactory,
	currency enums.Currency,
	logg *logger.Logger,
) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if orderNos == nil {
		return nil, fmt.Errorf("order number generator required")
	}
	if newResolver == nil {
		return nil, fmt.Errorf("resolver factory required")
	}
	if !currency.IsValid() {
		currency = enums.CurrencyUSD
	}
	return &service{
		db:          db,
		carts:       carts,
		orders:      orderRepo,
		outbox:      emitter,
		orderNos:    orderNos,
		newResolver: newResolver,
		currency:    currency,
		logg:        logg,
	}, nil
}

// PlaceOrder re-prices every cart line at commit time, freezes the results
// into order line snapshots, creates the order with status suspended, and
// empties the cart. The cart row is locked for the duration so two
// placements for the same cart serialize; the loser finds an empty cart.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.OrderHeader, error) {
	var placed *models.OrderHeader

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		txCarts := s.carts.WithTx(tx)

		cartRow, err := txCarts.FindForUpdate(ctx, input.DealerUserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock cart")
		}
		if cartRow.DealerAccountID != input.DealerAccountID {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "cart does not belong to dealer account")
		}

		items, err := txCarts.LoadItems(ctx, cartRow.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart items")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		resolver, err := s.newResolver(tx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build price resolver")
		}

		lines := make([]models.OrderLine, 0, len(items))
		subtotal := decimal.Zero
		for i, item := range items {
			if item.Product == nil {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart references a missing product").
					WithDetails(map[string]any{"product_id": item.ProductID.String()})
			}
			result, err := resolver.ResolvePrice(ctx, input.DealerAccountID, item.Product.ProductCode, item.Qty, nil)
			if err != nil {
				return err
			}
			productID := item.ProductID
			lines = append(lines, models.OrderLine{
				Position:            i + 1,
				ProductID:           &productID,
				ProductCodeSnapshot: result.ProductCode,
				DescriptionSnapshot: result.Description,
				PartTypeSnapshot:    result.PartType,
				BandCodeSnapshot:    result.BandCode,
				Qty:                 item.Qty,
				UnitPriceSnapshot:   *result.UnitPrice,
				LineTotal:           *result.TotalPrice,
				MinPriceApplied:     result.MinimumPriceApplied,
			})
			subtotal = subtotal.Add(*result.TotalPrice)
		}

		header := &models.OrderHeader{
			OrderNo:         s.orderNos.Next(),
			DealerAccountID: input.DealerAccountID,
			DealerUserID:    input.DealerUserID,
			Status:          enums.OrderStatusSuspended,
			Currency:        s.currency,
			Subtotal:        subtotal,
			Total:           subtotal,
			PORef:           input.PORef,
			Notes:           input.Notes,
			Lines:           lines,
		}
		if _, err := s.orders.WithTx(tx).Create(ctx, header); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeTransactionFailure, err, "create order")
		}

		if err := txCarts.DeleteItems(ctx, cartRow.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeTransactionFailure, err, "consume cart")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   header.ID,
			Actor: &outbox.ActorRef{
				DealerUserID:    input.DealerUserID,
				DealerAccountID: input.DealerAccountID,
			},
			Data: OrderCreatedData{
				OrderID:         header.ID,
				OrderNo:         header.OrderNo,
				DealerAccountID: header.DealerAccountID,
				DealerUserID:    header.DealerUserID,
				Currency:        header.Currency.String(),
				Subtotal:        header.Subtotal.StringFixed(2),
				Total:           header.Total.StringFixed(2),
				LineCount:       len(header.Lines),
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeTransactionFailure, err, "queue order event")
		}

		placed = header
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_no":          placed.OrderNo,
			"order_id":          placed.ID.String(),
			"dealer_account_id": placed.DealerAccountID.String(),
			"line_count":        len(placed.Lines),
		})
		s.logg.Info(logCtx, "order placed")
	}
	return placed, nil
}
