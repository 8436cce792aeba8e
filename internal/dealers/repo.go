package dealers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/partshub/partshub-backend/pkg/db/models"
	"github.com/partshub/partshub-backend/pkg/enums"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
)

// Repository exposes dealer account reads and the band assignment lookup used
// by price resolution.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided GORM handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindAccountByID loads a dealer account with its band assignments.
func (r *Repository) FindAccountByID(ctx context.Context, id uuid.UUID) (*models.DealerAccount, error) {
	var account models.DealerAccount
	err := r.db.WithContext(ctx).
		Preload("BandAssignments").
		First(&account, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FindUserByID loads a dealer user.
func (r *Repository) FindUserByID(ctx context.Context, id uuid.UUID) (*models.DealerUser, error) {
	var user models.DealerUser
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ResolveBand returns the band code assigned to the dealer for the part type.
// A missing assignment is a hard error: pricing must fail loudly rather than
// guess a band.
func (r *Repository) ResolveBand(ctx context.Context, dealerAccountID uuid.UUID, partType enums.PartType) (string, error) {
	var assignment models.BandAssignment
	err := r.db.WithContext(ctx).
		Where("dealer_account_id = ? AND part_type = ?", dealerAccountID, partType).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", pkgerrors.New(pkgerrors.CodeNoBandAssignment, "no band assignment for part type").
			WithDetails(map[string]any{"part_type": partType.String()})
	}
	if err != nil {
		return "", err
	}
	return assignment.BandCode, nil
}

// UpsertBandAssignment creates or replaces the assignment for one
// (dealer, part type) pair. Admin imports call this; at most one row per pair
// survives, enforced by the composite unique index.
func (r *Repository) UpsertBandAssignment(ctx context.Context, assignment *models.BandAssignment) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dealer_account_id"}, {Name: "part_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"band_code", "updated_at"}),
		}).
		Create(assignment).Error
}
