package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/partshub/partshub-backend/pkg/db/models"
	pkgerrors "github.com/partshub/partshub-backend/pkg/errors"
	"github.com/partshub/partshub-backend/pkg/pagination"
)

type orderStore interface {
	FindByOrderNo(ctx context.Context, orderNo string) (*models.OrderHeader, error)
	FindByIDForDealer(ctx context.Context, orderID, dealerAccountID uuid.UUID) (*models.OrderHeader, error)
	ListByDealerAccount(ctx context.Context, dealerAccountID uuid.UUID, params pagination.Params) ([]models.OrderHeader, string, error)
}

// Service exposes read access to placed orders. All lookups are scoped to the
// calling dealer account; an order belonging to another dealer reads as not
// found rather than forbidden.
type Service interface {
	GetByOrderNo(ctx context.Context, dealerAccountID uuid.UUID, orderNo string) (*models.OrderHeader, error)
	GetByID(ctx context.Context, dealerAccountID, orderID uuid.UUID) (*models.OrderHeader, error)
	List(ctx context.Context, dealerAccountID uuid.UUID, params pagination.Params) ([]models.OrderHeader, string, error)
}

type service struct {
	orders orderStore
}

// NewService builds the order read service.
func NewService(orders orderStore) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	return &service{orders: orders}, nil
}

func (s *service) GetByOrderNo(ctx context.Context, dealerAccountID uuid.UUID, orderNo string) (*models.OrderHeader, error) {
	order, err := s.orders.FindByOrderNo(ctx, orderNo)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.DealerAccountID != dealerAccountID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) GetByID(ctx context.Context, dealerAccountID, orderID uuid.UUID) (*models.OrderHeader, error) {
	order, err := s.orders.FindByIDForDealer(ctx, orderID, dealerAccountID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, dealerAccountID uuid.UUID, params pagination.Params) ([]models.OrderHeader, string, error) {
	rows, next, err := s.orders.ListByDealerAccount(ctx, dealerAccountID, params)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, next, nil
}
