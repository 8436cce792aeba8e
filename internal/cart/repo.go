package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/partshub/partshub-backend/internal/repo"
	"github.com/partshub/partshub-backend/pkg/db/models"
)

// Repository persists carts and cart items. Mutations rely on the storage
// layer's unique indexes rather than read-then-write sequences, so concurrent
// calls for the same user converge instead of erroring or duplicating rows.
type Repository struct {
	base repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{base: repo.NewBase(tx)}
}

// GetOrCreate returns the user's live cart, creating it when absent. The
// unique index on dealer_user_id makes the create side a no-op loser under
// concurrency; both callers end up reloading the same row.
func (r *Repository) GetOrCreate(ctx context.Context, dealerUserID, dealerAccountID uuid.UUID) (*models.Cart, error) {
	cart := models.Cart{
		DealerUserID:    dealerUserID,
		DealerAccountID: dealerAccountID,
	}
	err := r.base.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dealer_user_id"}},
			DoNothing: true,
		}).
		Create(&cart).Error
	if err != nil {
		return nil, err
	}
	return r.FindByDealerUser(ctx, dealerUserID)
}

// FindByDealerUser loads the user's cart with items and their products.
func (r *Repository) FindByDealerUser(ctx context.Context, dealerUserID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.base.DB(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.created_at ASC") }).
		Preload("Items.Product.ReferencePrice").
		Preload("Items.Product.BandPrices").
		First(&cart, "dealer_user_id = ?", dealerUserID).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindForUpdate loads the cart row under a write lock when the dialect
// supports it. Call inside a transaction; checkout uses this to serialize
// competing placements for the same cart.
func (r *Repository) FindForUpdate(ctx context.Context, dealerUserID uuid.UUID) (*models.Cart, error) {
	q := r.base.DB(ctx)
	if q.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var cart models.Cart
	if err := q.First(&cart, "dealer_user_id = ?", dealerUserID).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// LoadItems fetches the cart's items with product pricing associations.
func (r *Repository) LoadItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.base.DB(ctx).
		Preload("Product.ReferencePrice").
		Preload("Product.BandPrices").
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// AddItem inserts the product line or, when the product is already in the
// cart, atomically increments its quantity. Merge-on-add happens in one
// statement so two concurrent adds both land.
func (r *Repository) AddItem(ctx context.Context, cartID, productID uuid.UUID, qty int) error {
	item := models.CartItem{
		CartID:    cartID,
		ProductID: productID,
		Qty:       qty,
	}
	return r.base.DB(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"qty":        gorm.Expr("qty + ?", qty),
				"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(&item).Error
}

// SetItemQty replaces the quantity of an existing line.
func (r *Repository) SetItemQty(ctx context.Context, cartID, productID uuid.UUID, qty int) error {
	result := r.base.DB(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Updates(map[string]any{"qty": qty})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveItem deletes one product line from the cart.
func (r *Repository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	result := r.base.DB(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteItems empties the cart. Checkout calls this in the placement
// transaction so a consumed cart is immediately reusable.
func (r *Repository) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	return r.base.DB(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error
}
