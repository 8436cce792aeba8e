package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partshub/partshub-backend/internal/cart"
	"github.com/partshub/partshub-backend/internal/checkout"
	"github.com/partshub/partshub-backend/internal/pricing"
	"github.com/partshub/partshub-backend/pkg/db/models"
	"github.com/partshub/partshub-backend/pkg/enums"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
	"github.com/partshub/partshub-backend/pkg/pagination"
)

type stubPricing struct {
	result *pricing.PriceResult
	err    error
}

func (s *stubPricing) ResolvePrice(context.Context, uuid.UUID, string, int, *time.Time) (*pricing.PriceResult, error) {
	return s.result, s.err
}

func (s *stubPricing) ResolvePrices(context.Context, uuid.UUID, []string, *time.Time) (map[string]pricing.PriceResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return map[string]pricing.PriceResult{s.result.ProductCode: *s.result}, nil
}

type stubCart struct {
	view *cart.View
	err  error
}

func (s *stubCart) AddItem(context.Context, uuid.UUID, uuid.UUID, string, int) (*cart.View, error) {
	return s.view, s.err
}

func (s *stubCart) UpdateItemQty(context.Context, uuid.UUID, uuid.UUID, string, int) (*cart.View, error) {
	return s.view, s.err
}

func (s *stubCart) RemoveItem(context.Context, uuid.UUID, uuid.UUID, string) (*cart.View, error) {
	return s.view, s.err
}

func (s *stubCart) Clear(context.Context, uuid.UUID) error { return s.err }

func (s *stubCart) GetView(context.Context, uuid.UUID, uuid.UUID) (*cart.View, error) {
	return s.view, s.err
}

type stubCheckout struct {
	order *models.OrderHeader
	err   error
	input checkout.PlaceOrderInput
}

func (s *stubCheckout) PlaceOrder(_ context.Context, input checkout.PlaceOrderInput) (*models.OrderHeader, error) {
	s.input = input
	return s.order, s.err
}

type stubOrders struct {
	order *models.OrderHeader
	list  []models.OrderHeader
	err   error
}

func (s *stubOrders) GetByOrderNo(context.Context, uuid.UUID, string) (*models.OrderHeader, error) {
	return s.order, s.err
}

func (s *stubOrders) GetByID(context.Context, uuid.UUID, uuid.UUID) (*models.OrderHeader, error) {
	return s.order, s.err
}

func (s *stubOrders) List(context.Context, uuid.UUID, pagination.Params) ([]models.OrderHeader, string, error) {
	return s.list, "", s.err
}

func sampleOrder() *models.OrderHeader {
	return &models.OrderHeader{
		ID:              uuid.New(),
		OrderNo:         "ORD-1001",
		DealerAccountID: uuid.New(),
		DealerUserID:    uuid.New(),
		Status:          enums.OrderStatusSuspended,
		Currency:        enums.CurrencyUSD,
		Subtotal:        decimal.RequireFromString("300.00"),
		Total:           decimal.RequireFromString("300.00"),
	}
}

func withDealerHeaders(req *http.Request) *http.Request {
	req.Header.Set("X-Dealer-User-Id", uuid.NewString())
	req.Header.Set("X-Dealer-Account-Id", uuid.NewString())
	return req
}

func testRouter(deps Dependencies) http.Handler {
	return NewRouter(deps)
}

func TestHealthLive(t *testing.T) {
	router := testRouter(Dependencies{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "live")
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthReadyReportsDependencies(t *testing.T) {
	router := testRouter(Dependencies{
		DBPinger:    stubPinger{},
		RedisPinger: stubPinger{err: errors.New("down")},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"up"`)
	assert.Contains(t, rec.Body.String(), `"redis":"down"`)
	assert.Contains(t, rec.Body.String(), `"pubsub":"skipped"`)
}

func TestAPIRequiresDealerIdentity(t *testing.T) {
	router := testRouter(Dependencies{Cart: &stubCart{view: &cart.View{}}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestCartViewRoute(t *testing.T) {
	view := &cart.View{
		CartID:   uuid.New(),
		Subtotal: decimal.RequireFromString("42.50"),
		Currency: enums.CurrencyUSD,
	}
	router := testRouter(Dependencies{Cart: &stubCart{view: view}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, withDealerHeaders(httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "42.5")
}

func TestCheckoutRoutePlacesOrder(t *testing.T) {
	svc := &stubCheckout{order: sampleOrder()}
	router := testRouter(Dependencies{Checkout: svc})

	req := withDealerHeaders(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"po_ref":"PO-77"}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "ORD-1001")
	assert.Contains(t, rec.Body.String(), `"status":"suspended"`)
	require.NotNil(t, svc.input.PORef)
	assert.Equal(t, "PO-77", *svc.input.PORef)
	assert.NotEqual(t, uuid.Nil, svc.input.DealerUserID)
}

func TestCheckoutRouteMapsEmptyCart(t *testing.T) {
	svc := &stubCheckout{err: pkgerrors.New(pkgerrors.CodeEmptyCart, "cart contains no items")}
	router := testRouter(Dependencies{Checkout: svc})

	req := withDealerHeaders(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "EMPTY_CART")
}

func TestPriceQuoteRoute(t *testing.T) {
	unit := decimal.RequireFromString("55.00")
	total := decimal.RequireFromString("110.00")
	router := testRouter(Dependencies{Pricing: &stubPricing{result: &pricing.PriceResult{
		ProductID:           uuid.New(),
		ProductCode:         "GN-1001",
		Qty:                 2,
		UnitPrice:           &unit,
		TotalPrice:          &total,
		Currency:            enums.CurrencyUSD,
		BandCode:            "2",
		MinimumPriceApplied: true,
		Available:           true,
	}}})

	req := withDealerHeaders(httptest.NewRequest(http.MethodGet, "/api/v1/prices/GN-1001?qty=2", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"minimum_price_applied":true`)
	assert.Contains(t, rec.Body.String(), "GN-1001")
}

func TestOrdersListRoute(t *testing.T) {
	router := testRouter(Dependencies{Orders: &stubOrders{list: []models.OrderHeader{*sampleOrder()}}})

	req := withDealerHeaders(httptest.NewRequest(http.MethodGet, "/api/v1/orders/?limit=10", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ORD-1001")
	assert.Contains(t, rec.Body.String(), "next_cursor")
}

func TestOrderGetRouteNotFound(t *testing.T) {
	router := testRouter(Dependencies{Orders: &stubOrders{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}})

	req := withDealerHeaders(httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD-9999", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}
