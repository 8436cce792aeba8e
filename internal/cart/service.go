package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/partshub/partshub-backend/internal/entitlement"
	"github.com/partshub/partshub-backend/internal/pricing"
	"github.com/partshub/partshub-backend/pkg/db/models"
	"github.com/partshub/partshub-backend/pkg/enums"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
)

type cartStore interface {
	GetOrCreate(ctx context.Context, dealerUserID, dealerAccountID uuid.UUID) (*models.Cart, error)
	FindByDealerUser(ctx context.Context, dealerUserID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, cartID, productID uuid.UUID, qty int) error
	SetItemQty(ctx context.Context, cartID, productID uuid.UUID, qty int) error
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
}

type dealerLoader interface {
	FindAccountByID(ctx context.Context, id uuid.UUID) (*models.DealerAccount, error)
}

type productLoader interface {
	FindByCode(ctx context.Context, productCode string) (*models.Product, error)
}

type priceResolver interface {
	ResolvePrices(ctx context.Context, dealerAccountID uuid.UUID, productCodes []string, asOf *time.Time) (map[string]pricing.PriceResult, error)
}

// Service manages the working basket. Carts hold product references and
// quantities only; every read prices the basket fresh through the resolver.
type Service interface {
	AddItem(ctx context.Context, dealerUserID, dealerAccountID uuid.UUID, productCode string, qty int) (*View, error)
	UpdateItemQty(ctx context.Context, dealerUserID, dealerAccountID uuid.UUID, productCode string, qty int) (*View, error)
	RemoveItem(ctx context.Context, dealerUserID, dealerAccountID uuid.UUID, productCode string) (*View, error)
	Clear(ctx context.Context, dealerUserID uuid.UUID) error
	GetView(ctx context.Context, dealerUserID, dealerAccountID uuid.UUID) (*View, error)
}

type service struct {
	carts    cartStore
	dealers  dealerLoader
	products productLoader
	prices   priceResolver
	currency enums.Currency
}

// NewService builds the cart service.
func NewService(carts cartStore, dealers dealerLoader, products productLoader, prices priceResolver, currency enums.Currency) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if dealers == nil {
		return nil, fmt.Errorf("dealer loader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if prices == nil {
		return nil, fmt.Errorf("price resolver required")
	}
	if !currency.IsValid() {
		currency = enums.CurrencyUSD
	}
	return &service{carts: carts, dealers: dealers, products: products, prices: prices, currency: currency}, nil
}

// AddItem merges the product into the user's cart. Adding a product already
// in the cart increments its quantity; it never creates a duplicate line.
func (s *service) AddItem(ctx context.Context, dealerUserID, dealerAccountID uuid.UUID, productCode string, qty int) (*View, error) {
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be at least 1")
	}
	product, err := s.viewableProduct(ctx, dealerAccountID, productCode)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetOrCreate(ctx, dealerUserID, dealerAccountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "get or create cart")
	}
	if err := s.carts.AddItem(ctx, cart.ID, product.ID, qty); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}
	return s.GetView(ctx, dealerUserID, dealerAccountID)
}

// UpdateItemQty sets the line quantity to an exact value.
func (s *service) UpdateItemQty(ctx context.Context, dealerUserID, dealerAccountID uuid.UUID, productCode string, qty int) (*View, error) {
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be at least 1")
	}
	cart, product, err := s.cartAndProduct(ctx, dealerUserID, productCode)
	if err != nil {
		return nil, err
	}
	if err := s.carts.SetItemQty(ctx, cart.ID, product.ID, qty); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart").
				WithDetails(map[string]any{"product_code": productCode})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	return s.GetView(ctx, dealerUserID, dealerAccountID)
}

// RemoveItem drops the product line from the cart.
func (s *service) RemoveItem(ctx context.Context, dealerUserID, dealerAccountID uuid.UUID, productCode string) (*View, error) {
	cart, product, err := s.cartAndProduct(ctx, dealerUserID, productCode)
	if err != nil {
		return nil, err
	}
	if err := s.carts.RemoveItem(ctx, cart.ID, product.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart").
				WithDetails(map[string]any{"product_code": productCode})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	return s.GetView(ctx, dealerUserID, dealerAccountID)
}

// Clear empties the user's cart. A missing cart is already empty.
func (s *service) Clear(ctx context.Context, dealerUserID uuid.UUID) error {
	cart, err := s.carts.FindByDealerUser(ctx, dealerUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.carts.DeleteItems(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// GetView renders the cart with live pricing. A user with no cart yet gets
// an empty view rather than an error.
func (s *service) GetView(ctx context.Context, dealerUserID, dealerAccountID uuid.UUID) (*View, error) {
	cart, err := s.carts.FindByDealerUser(ctx, dealerUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &View{Lines: []Line{}, Subtotal: decimal.Zero, Currency: s.currency}, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(cart.Items) == 0 {
		return &View{CartID: cart.ID, Lines: []Line{}, Subtotal: decimal.Zero, Currency: s.currency}, nil
	}

	codes := make([]string, 0, len(cart.Items))
	for _, item := range cart.Items {
		if item.Product != nil {
			codes = append(codes, item.Product.ProductCode)
		}
	}
	results, err := s.prices.ResolvePrices(ctx, dealerAccountID, codes, nil)
	if err != nil {
		return nil, err
	}

	view := &View{CartID: cart.ID, Lines: make([]Line, 0, len(cart.Items)), Currency: s.currency, Subtotal: decimal.Zero}
	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		result := results[item.Product.ProductCode]
		line := Line{
			ProductID:           item.ProductID,
			ProductCode:         item.Product.ProductCode,
			Description:         item.Product.Description,
			PartType:            item.Product.PartType,
			Qty:                 item.Qty,
			BandCode:            result.BandCode,
			MinimumPriceApplied: result.MinimumPriceApplied,
			Available:           result.Available,
			Reason:              result.Reason,
		}
		if result.Available && result.UnitPrice != nil {
			unit := *result.UnitPrice
			total := unit.Mul(decimal.NewFromInt(int64(item.Qty)))
			line.UnitPrice = &unit
			line.LineTotal = &total
			view.Subtotal = view.Subtotal.Add(total)
		}
		view.Lines = append(view.Lines, line)
	}
	return view, nil
}

func (s *service) viewableProduct(ctx context.Context, dealerAccountID uuid.UUID, productCode string) (*models.Product, error) {
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

	product, err := s.products.FindByCode(ctx, productCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_code": productCode})
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeInactiveResource, "product is inactive").
			WithDetails(map[string]any{"product_code": productCode})
	}
	if !entitlement.CanView(dealer.Entitlement, product.PartType) {
		return nil, pkgerrors.New(pkgerrors.CodeEntitlementDenied, "part type not available to dealer").
			WithDetails(map[string]any{
				"product_code": productCode,
				"part_type":    product.PartType.String(),
			})
	}
	return product, nil
}

func (s *service) cartAndProduct(ctx context.Context, dealerUserID uuid.UUID, productCode string) (*models.Cart, *models.Product, error) {
	cart, err := s.carts.FindByDealerUser(ctx, dealerUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	product, err := s.products.FindByCode(ctx, productCode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
			WithDetails(map[string]any{"product_code": productCode})
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return cart, product, nil
}
