package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/partshub/partshub-backend/internal/entitlement"
	"github.com/partshub/partshub-backend/pkg/db/models"
	"github.com/partshub/partshub-backend/pkg/enums"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
)

type dealerLoader interface {
	FindAccountByID(ctx context.Context, id uuid.UUID) (*models.DealerAccount, error)
	ResolveBand(ctx context.Context, dealerAccountID uuid.UUID, partType enums.PartType) (string, error)
}

type productLoader interface {
	FindByCode(ctx context.Context, productCode string) (*models.Product, error)
	FindByCodes(ctx context.Context, productCodes []string) ([]models.Product, error)
}

// Service resolves the price a dealer is entitled to pay. It is read-only and
// safe for unbounded parallel invocation; identical inputs over unchanged data
// yield identical results.
type Service interface {
	ResolvePrice(ctx context.Context, dealerAccountID uuid.UUID, productCode string, qty int, asOf *time.Time) (*PriceResult, error)
	ResolvePrices(ctx context.Context, dealerAccountID uuid.UUID, productCodes []string, asOf *time.Time) (map[string]PriceResult, error)
}

type service struct {
	dealers  dealerLoader
	products productLoader
	currency enums.Currency
}

// NewService builds the price resolution engine.
func NewService(dealers dealerLoader, products productLoader, currency enums.Currency) (Service, error) {
	if dealers == nil {
		return nil, fmt.Errorf("dealer loader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if !currency.IsValid() {
		currency = enums.CurrencyUSD
	}
	return &service{dealers: dealers, products: products, currency: currency}, nil
}

// ResolvePrice prices a single product for the dealer, raising a typed error
// on the first failure. asOf is accepted for future time-windowed price lists
// and is currently threaded through unchanged.
func (s *service) ResolvePrice(ctx context.Context, dealerAccountID uuid.UUID, productCode string, qty int, asOf *time.Time) (*PriceResult, error) {
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be at least 1")
	}
	dealer, err := s.loadDealer(ctx, dealerAccountID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByCode(ctx, productCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_code": productCode})
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	return s.resolveForProduct(ctx, dealer, product, qty, asOf)
}

// ResolvePrices prices every requested code independently. Per-code failures
// become unavailable entries in the result map; only dealer-level failures
// abort the whole call.
func (s *service) ResolvePrices(ctx context.Context, dealerAccountID uuid.UUID, productCodes []string, asOf *time.Time) (map[string]PriceResult, error) {
	dealer, err := s.loadDealer(ctx, dealerAccountID)
	if err != nil {
		return nil, err
	}

	products, err := s.products.FindByCodes(ctx, productCodes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	byCode := make(map[string]*models.Product, len(products))
	for i := range products {
		byCode[products[i].ProductCode] = &products[i]
	}

	results := make(map[string]PriceResult, len(productCodes))
	for _, code := range productCodes {
		if _, done := results[code]; done {
			continue
		}
		product, ok := byCode[code]
		if !ok {
			results[code] = unavailable(code, 1, s.currency, pkgerrors.CodeNotFound)
			continue
		}
		result, err := s.resolveForProduct(ctx, dealer, product, 1, asOf)
		if err != nil {
			results[code] = unavailable(code, 1, s.currency, reasonFor(err))
			continue
		}
		results[code] = *result
	}
	return results, nil
}

func (s *service) loadDealer(ctx context.Context, dealerAccountID uuid.UUID) (*models.DealerAccount, error) {
	dealer, err := s.dealers.FindAccountByID(ctx, dealerAccountID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dealer account not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dealer account")
	}
	if dealer.Status != enums.DealerStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeInactiveResource, "dealer account is not active").
			WithDetails(map[string]any{"status": dealer.Status.String()})
	}
	return dealer, nil
}

// resolveForProduct runs the per-product algorithm: active check, entitlement,
// band assignment, band price, then the minimum-price floor. The floor is
// evaluated strictly after band lookup and only ever raises the price.
func (s *service) resolveForProduct(ctx context.Context, dealer *models.DealerAccount, product *models.Product, qty int, _ *time.Time) (*PriceResult, error) {
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeInactiveResource, "product is inactive").
			WithDetails(map[string]any{"product_code": product.ProductCode})
	}

	if !entitlement.CanView(dealer.Entitlement, product.PartType) {
		return nil, pkgerrors.New(pkgerrors.CodeEntitlementDenied, "part type not available to dealer").
			WithDetails(map[string]any{
				"product_code": product.ProductCode,
				"part_type":    product.PartType.String(),
			})
	}

	bandCode, err := s.dealers.ResolveBand(ctx, dealer.ID, product.PartType)
	if err != nil {
		return nil, err
	}

	bandPrice := product.BandPriceFor(bandCode)
	if bandPrice == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNoPriceForBand, "product has no price for assigned band").
			WithDetails(map[string]any{
				"product_code": product.ProductCode,
				"band_code":    bandCode,
			})
	}

	unitPrice := bandPrice.UnitPrice
	minApplied := false
	if product.ReferencePrice != nil && product.ReferencePrice.MinimumPrice != nil {
		if unitPrice.LessThan(*product.ReferencePrice.MinimumPrice) {
			unitPrice = *product.ReferencePrice.MinimumPrice
			minApplied = true
		}
	}
	totalPrice := unitPrice.Mul(decimal.NewFromInt(int64(qty)))

	return &PriceResult{
		ProductID:           product.ID,
		ProductCode:         product.ProductCode,
		Description:         product.Description,
		PartType:            product.PartType,
		Qty:                 qty,
		UnitPrice:           &unitPrice,
		TotalPrice:          &totalPrice,
		Currency:            s.currency,
		BandCode:            bandCode,
		MinimumPriceApplied: minApplied,
		Available:           true,
	}, nil
}

// reasonFor maps a resolution error onto the bulk-entry reason code.
func reasonFor(err error) pkgerrors.Code {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Code()
	}
	return pkgerrors.CodeDependency
}
