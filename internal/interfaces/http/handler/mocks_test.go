package handler

import (
	"context"

	returnsapp "github.com/oms/backend/internal/application/returns"
	"github.com/oms/backend/internal/domain/order"
	"github.com/oms/backend/internal/domain/returns"
	"github.com/stretchr/testify/mock"
)

// MockReturnRepository implements returns.Repository for testing
type MockReturnRepository struct {
	mock.Mock
}

func (m *MockReturnRepository) FindHeaderByID(ctx context.Context, returnID string) (*returns.Header, error) {
	args := m.Called(ctx, returnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.Header), args.Error(1)
}

func (m *MockReturnRepository) FindHeadersByIDs(ctx context.Context, returnIDs []string) ([]returns.Header, error) {
	args := m.Called(ctx, returnIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]returns.Header), args.Error(1)
}

func (m *MockReturnRepository) FindItemsByReturn(ctx context.Context, returnID string) ([]returns.Item, error) {
	args := m.Called(ctx, returnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]returns.Item), args.Error(1)
}

func (m *MockReturnRepository) FindItemsByOrder(ctx context.Context, orderID string) ([]returns.Item, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]returns.Item), args.Error(1)
}

func (m *MockReturnRepository) FindItemsByOrderItem(ctx context.Context, orderID, orderItemSeqID string) ([]returns.Item, error) {
	args := m.Called(ctx, orderID, orderItemSeqID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]returns.Item), args.Error(1)
}

func (m *MockReturnRepository) FindAdjustmentsByReturn(ctx context.Context, returnID string) ([]returns.Adjustment, error) {
	args := m.Called(ctx, returnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]returns.Adjustment), args.Error(1)
}

func (m *MockReturnRepository) SaveHeader(ctx context.Context, h *returns.Header) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockReturnRepository) CreateItem(ctx context.Context, i *returns.Item) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockReturnRepository) CreateAdjustment(ctx context.Context, a *returns.Adjustment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockReturnRepository) NextReturnID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockReturnRepository) NextItemSeqID(ctx context.Context, returnID string) (string, error) {
	args := m.Called(ctx, returnID)
	return args.String(0), args.Error(1)
}

func (m *MockReturnRepository) NextAdjustmentID(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

var _ returns.Repository = (*MockReturnRepository)(nil)

// MockOrderRepository implements order.Repository for testing
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindHeaderByID(ctx context.Context, orderID string) (*order.Header, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Header), args.Error(1)
}

func (m *MockOrderRepository) FindItemsByOrder(ctx context.Context, orderID string) ([]order.Item, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Item), args.Error(1)
}

func (m *MockOrderRepository) FindItemByID(ctx context.Context, orderID, orderItemSeqID string) (*order.Item, error) {
	args := m.Called(ctx, orderID, orderItemSeqID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Item), args.Error(1)
}

func (m *MockOrderRepository) FindItemByIDForUpdate(ctx context.Context, orderID, orderItemSeqID string) (*order.Item, error) {
	args := m.Called(ctx, orderID, orderItemSeqID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Item), args.Error(1)
}

func (m *MockOrderRepository) FindAdjustmentsByOrder(ctx context.Context, orderID string) ([]order.Adjustment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Adjustment), args.Error(1)
}

func (m *MockOrderRepository) FindAdjustmentsByOrderItem(ctx context.Context, orderID, orderItemSeqID string) ([]order.Adjustment, error) {
	args := m.Called(ctx, orderID, orderItemSeqID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Adjustment), args.Error(1)
}

func (m *MockOrderRepository) FindAdjustmentByID(ctx context.Context, orderAdjustmentID string) (*order.Adjustment, error) {
	args := m.Called(ctx, orderAdjustmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Adjustment), args.Error(1)
}

var _ order.Repository = (*MockOrderRepository)(nil)

// MockProductRepository implements order.ProductRepository for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, productID string) (*order.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Product), args.Error(1)
}

var _ order.ProductRepository = (*MockProductRepository)(nil)

// MockLookupRepository implements returns.LookupRepository for testing
type MockLookupRepository struct {
	mock.Mock
}

func (m *MockLookupRepository) FindItemTypeMap(ctx context.Context, returnHeaderTypeID, mapKey string) (*returns.ItemTypeMap, error) {
	args := m.Called(ctx, returnHeaderTypeID, mapKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*returns.ItemTypeMap), args.Error(1)
}

func (m *MockLookupRepository) StatusChangeValid(ctx context.Context, statusID, statusIDTo string) (bool, error) {
	args := m.Called(ctx, statusID, statusIDTo)
	return args.Bool(0), args.Error(1)
}

var _ returns.LookupRepository = (*MockLookupRepository)(nil)

// stubScope hands out a fixed repository bundle without a real transaction
type stubScope struct {
	repos returnsapp.Repos
}

func (s stubScope) Execute(ctx context.Context, fn func(repos returnsapp.Repos) error) error {
	return fn(s.repos)
}

var _ returnsapp.TransactionScope = stubScope{}
