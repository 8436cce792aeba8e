package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/partshub/partshub-backend/internal/repo"
	"github.com/partshub/partshub-backend/pkg/db/models"
)

// Repository provides read access to the product catalog plus the admin
// writes used by price list imports.
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

// FindByCode loads the product with its band prices and reference price.
func (r *Repository) FindByCode(ctx context.Context, productCode string) (*models.Product, error) {
	var product models.Product
	err := r.base.DB(ctx).
		Preload("ReferencePrice").
		Preload("BandPrices").
		First(&product, "product_code = ?", productCode).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByID loads the product with its pricing associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.base.DB(ctx).
		Preload("ReferencePrice").
		Preload("BandPrices").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByCodes loads every product matching the provided codes. Missing codes
// are simply absent from the result; bulk pricing reports them per entry.
func (r *Repository) FindByCodes(ctx context.Context, productCodes []string) ([]models.Product, error) {
	if len(productCodes) == 0 {
		return nil, nil
	}
	var products []models.Product
	err := r.base.DB(ctx).
		Preload("ReferencePrice").
		Preload("BandPrices").
		Where("product_code IN ?", productCodes).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.base.DB(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.base.DB(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpsertBandPrice creates or replaces one band price point for a product.
func (r *Repository) UpsertBandPrice(ctx context.Context, price *models.BandPrice) error {
	return r.base.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "band_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"unit_price", "updated_at"}),
		}).
		Create(price).Error
}

// ReplaceBandPrices swaps the full band price list for the product.
func (r *Repository) ReplaceBandPrices(ctx context.Context, productID uuid.UUID, prices []models.BandPrice) error {
	tx := r.base.DB(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.BandPrice{}).Error; err != nil {
		return err
	}
	if len(prices) == 0 {
		return nil
	}
	for i := range prices {
		prices[i].ProductID = productID
	}
	return tx.Create(&prices).Error
}
