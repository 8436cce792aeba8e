package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/partshub/partshub-backend/pkg/db/models"
	"github.com/partshub/partshub-backend/pkg/enums"
	"github.com/partshub/partshub-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.OrderHeader{}, &models.OrderLine{}))
	return db
}

func mustCreateOrder(t *testing.T, repo *Repository, orderNo string, accountID uuid.UUID, createdAt time.Time) *models.OrderHeader {
	t.Helper()
	productID := uuid.New()
	order := &models.OrderHeader{
		OrderNo:         orderNo,
		DealerAccountID: accountID,
		DealerUserID:    uuid.New(),
		Status:          enums.OrderStatusSuspended,
		Currency:        enums.CurrencyUSD,
		Subtotal:        decimal.RequireFromString("300.00"),
		Total:           decimal.RequireFromString("300.00"),
		Lines: []models.OrderLine{
			{
				Position:            2,
				ProductID:           &productID,
				ProductCodeSnapshot: "BP-200",
				DescriptionSnapshot: "Rear pads",
				PartTypeSnapshot:    enums.PartTypeGenuine,
				BandCodeSnapshot:    "2",
				Qty:                 1,
				UnitPriceSnapshot:   decimal.RequireFromString("100.00"),
				LineTotal:           decimal.RequireFromString("100.00"),
			},
			{
				Position:            1,
				ProductID:           &productID,
				ProductCodeSnapshot: "BP-100",
				DescriptionSnapshot: "Front pads",
				PartTypeSnapshot:    enums.PartTypeGenuine,
				BandCodeSnapshot:    "2",
				Qty:                 2,
				UnitPriceSnapshot:   decimal.RequireFromString("100.00"),
				LineTotal:           decimal.RequireFromString("200.00"),
			},
		},
	}
	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	if !createdAt.IsZero() {
		require.NoError(t, repo.base.DB(context.Background()).
			Model(&models.OrderHeader{}).
			Where("id = ?", created.ID).
			Update("created_at", createdAt).Error)
	}
	return created
}

func TestFindByOrderNoReturnsLinesInPositionOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	accountID := uuid.New()

	mustCreateOrder(t, repo, "SO-20260115-AAAA0001", accountID, time.Time{})

	order, err := repo.FindByOrderNo(context.Background(), "SO-20260115-AAAA0001")
	require.NoError(t, err)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, 1, order.Lines[0].Position)
	assert.Equal(t, "BP-100", order.Lines[0].ProductCodeSnapshot)
	assert.Equal(t, 2, order.Lines[1].Position)
}

func TestFindByIDForDealerScopesToAccount(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	accountID := uuid.New()

	order := mustCreateOrder(t, repo, "SO-20260115-AAAA0002", accountID, time.Time{})

	found, err := repo.FindByIDForDealer(context.Background(), order.ID, accountID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	_, err = repo.FindByIDForDealer(context.Background(), order.ID, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListByDealerAccountPaginatesNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	accountID := uuid.New()
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		mustCreateOrder(t, repo, orderNoFor(i), accountID, base.Add(time.Duration(i)*time.Minute))
	}
	mustCreateOrder(t, repo, "SO-20260115-OTHER001", uuid.New(), base)

	page, cursor, err := repo.ListByDealerAccount(context.Background(), accountID, pagination.Params{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page, 3)
	require.NotEmpty(t, cursor)
	assert.Equal(t, orderNoFor(4), page[0].OrderNo)
	assert.Equal(t, orderNoFor(2), page[2].OrderNo)

	rest, next, err := repo.ListByDealerAccount(context.Background(), accountID, pagination.Params{Limit: 3, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Empty(t, next)
	assert.Equal(t, orderNoFor(1), rest[0].OrderNo)
	assert.Equal(t, orderNoFor(0), rest[1].OrderNo)
}

func TestListByDealerAccountRejectsBadCursor(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, _, err := repo.ListByDealerAccount(context.Background(), uuid.New(), pagination.Params{Cursor: "not-base64!!"})
	assert.Error(t, err)
}

func orderNoFor(i int) string {
	return "SO-20260115-0000000" + string(rune('0'+i))
}
