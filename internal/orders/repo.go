package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partshub/partshub-backend/internal/repo"
	"github.com/partshub/partshub-backend/pkg/db/models"
	"github.com/partshub/partshub-backend/pkg/pagination"
)

// Repository persists order headers and lines. Orders are write-once: the
// only mutation this repository exposes is the initial create.
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

// Create inserts the header and its lines in one statement batch.
func (r *Repository) Create(ctx context.Context, order *models.OrderHeader) (*models.OrderHeader, error) {
	if err := r.base.DB(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// FindByOrderNo loads an order with its lines in placement position order.
func (r *Repository) FindByOrderNo(ctx context.Context, orderNo string) (*models.OrderHeader, error) {
	var order models.OrderHeader
	err := r.base.DB(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_lines.position ASC") }).
		First(&order, "order_no = ?", orderNo).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForDealer loads an order scoped to the owning dealer account, so a
// dealer can never read another dealer's orders.
func (r *Repository) FindByIDForDealer(ctx context.Context, orderID, dealerAccountID uuid.UUID) (*models.OrderHeader, error) {
	var order models.OrderHeader
	err := r.base.DB(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("order_lines.position ASC") }).
		First(&order, "id = ? AND dealer_account_id = ?", orderID, dealerAccountID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByDealerAccount returns the dealer's orders newest first using cursor
// pagination. The returned cursor is empty on the last page.
func (r *Repository) ListByDealerAccount(ctx context.Context, dealerAccountID uuid.UUID, params pagination.Params) ([]models.OrderHeader, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	q := r.base.DB(ctx).
		Where("dealer_account_id = ?", dealerAccountID).
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.OrderHeader
	if err := q.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}
