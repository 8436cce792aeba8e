package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/partshub/partshub-backend/pkg/db/models"
	"github.com/partshub/partshub-backend/pkg/enums"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
)

type fakeDealerLoader struct {
	account *models.DealerAccount
	bands   map[enums.PartType]string
}

func (f *fakeDealerLoader) FindAccountByID(ctx context.Context, id uuid.UUID) (*models.DealerAccount, error) {
	if f.account == nil || f.account.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.account, nil
}

func (f *fakeDealerLoader) ResolveBand(ctx context.Context, dealerAccountID uuid.UUID, partType enums.PartType) (string, error) {
	band, ok := f.bands[partType]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeNoBandAssignment, "no band assignment for part type").
			WithDetails(map[string]any{"part_type": partType.String()})
	}
	return band, nil
}

type fakeProductLoader struct {
	products map[string]*models.Product
}

func (f *fakeProductLoader) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	p, ok := f.products[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProductLoader) FindByCodes(ctx context.Context, codes []string) ([]models.Product, error) {
	out := make([]models.Product, 0, len(codes))
	for _, code := range codes {
		if p, ok := f.products[code]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func activeDealer(ent enums.DealerEntitlement) *models.DealerAccount {
	return &models.DealerAccount{
		ID:          uuid.New(),
		AccountCode: "D-1001",
		Name:        "Test Dealer",
		Status:      enums.DealerStatusActive,
		Entitlement: ent,
	}
}

func testProduct(code string, partType enums.PartType, bandCode, unitPrice string, minPrice *string) *models.Product {
	p := &models.Product{
		ID:          uuid.New(),
		ProductCode: code,
		Description: "Brake pad set",
		PartType:    partType,
		IsActive:    true,
		BandPrices: []models.BandPrice{
			{BandCode: bandCode, UnitPrice: decimal.RequireFromString(unitPrice)},
		},
	}
	if minPrice != nil {
		min := decimal.RequireFromString(*minPrice)
		p.ReferencePrice = &models.ReferencePrice{ProductID: p.ID, MinimumPrice: &min}
	}
	return p
}

func strPtr(s string) *string { return &s }

func TestResolvePriceExactBandPrice(t *testing.T) {
	dealer := activeDealer(enums.EntitlementShowAll)
	dealers := &fakeDealerLoader{account: dealer, bands: map[enums.PartType]string{enums.PartTypeGenuine: "2"}}
	products := &fakeProductLoader{products: map[string]*models.Product{
		"BP-100": testProduct("BP-100", enums.PartTypeGenuine, "2", "100.00", strPtr("40.00")),
	}}
	svc, err := NewService(dealers, products, enums.CurrencyUSD)
	require.NoError(t, err)

	result, err := svc.ResolvePrice(context.Background(), dealer.ID, "BP-100", 3, nil)
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Equal(t, "2", result.BandCode)
	assert.True(t, result.UnitPrice.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, result.TotalPrice.Equal(decimal.RequireFromString("300.00")))
	assert.False(t, result.MinimumPriceApplied)
}

func TestResolvePriceAppliesMinimumFloor(t *testing.T) {
	dealer := activeDealer(enums.EntitlementShowAll)
	dealers := &fakeDealerLoader{account: dealer, bands: map[enums.PartType]string{enums.PartTypeAftermarket: "4"}}
	products := &fakeProductLoader{products: map[string]*models.Product{
		"AF-220": testProduct("AF-220", enums.PartTypeAftermarket, "4", "40.00", strPtr("55.00")),
	}}
	svc, err := NewService(dealers, products, enums.CurrencyUSD)
	require.NoError(t, err)

	result, err := svc.ResolvePrice(context.Background(), dealer.ID, "AF-220", 2, nil)
	require.NoError(t, err)
	assert.True(t, result.MinimumPriceApplied)
	assert.True(t, result.UnitPrice.Equal(decimal.RequireFromString("55.00")))
	assert.True(t, result.TotalPrice.Equal(decimal.RequireFromString("110.00")))
}

func TestResolvePriceFloorEqualToBandIsNotFlagged(t *testing.T) {
	dealer := activeDealer(enums.EntitlementShowAll)
	dealers := &fakeDealerLoader{account: dealer, bands: map[enums.PartType]string{enums.PartTypeGenuine: "1"}}
	products := &fakeProductLoader{products: map[string]*models.Product{
		"GN-010": testProduct("GN-010", enums.PartTypeGenuine, "1", "55.00", strPtr("55.00")),
	}}
	svc, err := NewService(dealers, products, enums.CurrencyUSD)
	require.NoError(t, err)

	result, err := svc.ResolvePrice(context.Background(), dealer.ID, "GN-010", 1, nil)
	require.NoError(t, err)
	assert.False(t, result.MinimumPriceApplied)
	assert.True(t, result.UnitPrice.Equal(decimal.RequireFromString("55.00")))
}

func TestResolvePriceEntitlementDenied(t *testing.T) {
	cases := []struct {
		name     string
		ent      enums.DealerEntitlement
		partType enums.PartType
	}{
		{"genuine only dealer, aftermarket part", enums.EntitlementGenuineOnly, enums.PartTypeAftermarket},
		{"aftermarket only dealer, genuine part", enums.EntitlementAftermarketOnly, enums.PartTypeGenuine},
		{"aftermarket only dealer, branded part", enums.EntitlementAftermarketOnly, enums.PartTypeBranded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dealer := activeDealer(tc.ent)
			dealers := &fakeDealerLoader{account: dealer, bands: map[enums.PartType]string{tc.partType: "2"}}
			products := &fakeProductLoader{products: map[string]*models.Product{
				"X-1": testProduct("X-1", tc.partType, "2", "10.00", nil),
			}}
			svc, err := NewService(dealers, products, enums.CurrencyUSD)
			require.NoError(t, err)

			_, err = svc.ResolvePrice(context.Background(), dealer.ID, "X-1", 1, nil)
			require.Error(t, err)
			assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeEntitlementDenied))
		})
	}
}

func TestResolvePriceInactiveDealer(t *testing.T) {
	for _, status := range []enums.DealerStatus{enums.DealerStatusInactive, enums.DealerStatusSuspended} {
		dealer := activeDealer(enums.EntitlementShowAll)
		dealer.Status = status
		dealers := &fakeDealerLoader{account: dealer}
		products := &fakeProductLoader{products: map[string]*models.Product{}}
		svc, err := NewService(dealers, products, enums.CurrencyUSD)
		require.NoError(t, err)

		_, err = svc.ResolvePrice(context.Background(), dealer.ID, "BP-100", 1, nil)
		require.Error(t, err)
		assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInactiveResource), "status %s", status)
	}
}

func TestResolvePriceInactiveProduct(t *testing.T) {
	dealer := activeDealer(enums.EntitlementShowAll)
	product := testProduct("BP-100", enums.PartTypeGenuine, "2", "100.00", nil)
	product.IsActive = false
	dealers := &fakeDealerLoader{account: dealer, bands: map[enums.PartType]string{enums.PartTypeGenuine: "2"}}
	products := &fakeProductLoader{products: map[string]*models.Product{"BP-100": product}}
	svc, err := NewService(dealers, products, enums.CurrencyUSD)
	require.NoError(t, err)

	_, err = svc.ResolvePrice(context.Background(), dealer.ID, "BP-100", 1, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInactiveResource))
}

func TestResolvePriceUnknownProduct(t *testing.T) {
	dealer := activeDealer(enums.EntitlementShowAll)
	dealers := &fakeDealerLoader{account: dealer}
	products := &fakeProductLoader{products: map[string]*models.Product{}}
	svc, err := NewService(dealers, products, enums.CurrencyUSD)
	require.NoError(t, err)

	_, err = svc.ResolvePrice(context.Background(), dealer.ID, "NOPE", 1, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestResolvePriceNoBandAssignment(t *testing.T) {
	dealer := activeDealer(enums.EntitlementShowAll)
	dealers := &fakeDealerLoader{account: dealer, bands: map[enums.PartType]string{}}
	products := &fakeProductLoader{products: map[string]*models.Product{
		"BP-100": testProduct("BP-100", enums.PartTypeGenuine, "2", "100.00", nil),
	}}
	svc, err := NewService(dealers, products, enums.CurrencyUSD)
	require.NoError(t, err)

	_, err = svc.ResolvePrice(context.Background(), dealer.ID, "BP-100", 1, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNoBandAssignment))
}

func TestResolvePriceNoPriceForBand(t *testing.T) {
	dealer := activeDealer(enums.EntitlementShowAll)
	dealers := &fakeDealerLoader{account: dealer, bands: map[enums.PartType]string{enums.PartTypeGenuine: "9"}}
	products := &fakeProductLoader{products: map[string]*models.Product{
		"BP-100": testProduct("BP-100", enums.PartTypeGenuine, "2", "100.00", nil),
	}}
	svc, err := NewService(dealers, products, enums.CurrencyUSD)
	require.NoError(t, err)

	_, err = svc.ResolvePrice(context.Background(), dealer.ID, "BP-100", 1, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNoPriceForBand))
}

func TestResolvePriceRejectsNonPositiveQty(t *testing.T) {
	dealer := activeDealer(enums.EntitlementShowAll)
	svc, err := NewService(&fakeDealerLoader{account: dealer}, &fakeProductLoader{}, enums.CurrencyUSD)
	require.NoError(t, err)

	_, err = svc.ResolvePrice(context.Background(), dealer.ID, "BP-100", 0, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestResolvePriceIsRepeatable(t *testing.T) {
	dealer := activeDealer(enums.EntitlementShowAll)
	dealers := &fakeDealerLoader{account: dealer, bands: map[enums.PartType]string{enums.PartTypeGenuine: "2"}}
	products := &fakeProductLoader{products: map[string]*models.Product{
		"BP-100": testProduct("BP-100", enums.PartTypeGenuine, "2", "100.00", strPtr("40.00")),
	}}
	svc, err := NewService(dealers, products, enums.CurrencyUSD)
	require.NoError(t, err)

	first, err := svc.ResolvePrice(context.Background(), dealer.ID, "BP-100", 2, nil)
	require.NoError(t, err)
	second, err := svc.ResolvePrice(context.Background(), dealer.ID, "BP-100", 2, nil)
	require.NoError(t, err)
	assert.True(t, first.UnitPrice.Equal(*second.UnitPrice))
	assert.True(t, first.TotalPrice.Equal(*second.TotalPrice))
	assert.Equal(t, first.BandCode, second.BandCode)
}

func TestResolvePricesIsolatesPerCodeFailures(t *testing.T) {
	dealer := activeDealer(enums.EntitlementGenuineOnly)
	dealers := &fakeDealerLoader{account: dealer, bands: map[enums.PartType]string{enums.PartTypeGenuine: "2"}}
	inactive := testProduct("GN-OFF", enums.PartTypeGenuine, "2", "20.00", nil)
	inactive.IsActive = false
	products := &fakeProductLoader{products: map[string]*models.Product{
		"GN-OK":  testProduct("GN-OK", enums.PartTypeGenuine, "2", "100.00", nil),
		"AF-NO":  testProduct("AF-NO", enums.PartTypeAftermarket, "2", "10.00", nil),
		"GN-OFF": inactive,
	}}
	svc, err := NewService(dealers, products, enums.CurrencyUSD)
	require.NoError(t, err)

	results, err := svc.ResolvePrices(context.Background(), dealer.ID, []string{"GN-OK", "AF-NO", "GN-OFF", "MISSING"}, nil)
	require.NoError(t, err)
	require.Len(t, results, 4)

	ok := results["GN-OK"]
	assert.True(t, ok.Available)
	assert.True(t, ok.UnitPrice.Equal(decimal.RequireFromString("100.00")))

	denied := results["AF-NO"]
	assert.False(t, denied.Available)
	assert.Equal(t, pkgerrors.CodeEntitlementDenied, denied.Reason)
	assert.Nil(t, denied.UnitPrice)

	off := results["GN-OFF"]
	assert.False(t, off.Available)
	assert.Equal(t, pkgerrors.CodeInactiveResource, off.Reason)

	missing := results["MISSING"]
	assert.False(t, missing.Available)
	assert.Equal(t, pkgerrors.CodeNotFound, missing.Reason)
}

func TestResolvePricesDealerFailureAbortsCall(t *testing.T) {
	dealer := activeDealer(enums.EntitlementShowAll)
	dealer.Status = enums.DealerStatusSuspended
	svc, err := NewService(&fakeDealerLoader{account: dealer}, &fakeProductLoader{}, enums.CurrencyUSD)
	require.NoError(t, err)

	_, err = svc.ResolvePrices(context.Background(), dealer.ID, []string{"BP-100"}, nil)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeInactiveResource))
}

func TestNewServiceValidatesDeps(t *testing.T) {
	_, err := NewService(nil, &fakeProductLoader{}, enums.CurrencyUSD)
	assert.Error(t, err)
	_, err = NewService(&fakeDealerLoader{}, nil, enums.CurrencyUSD)
	assert.Error(t, err)
}
