package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/checkout"
	fulfillmentapp "github.com/pos/backend/internal/application/fulfillment"
	"github.com/pos/backend/internal/application/identity"
	"github.com/pos/backend/internal/application/register"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockDraftService implements DraftService for testing
type MockDraftService struct {
	mock.Mock
}

func (m *MockDraftService) CreateDraft(ctx context.Context, operatorID uuid.UUID, req fulfillmentapp.CreateDraftRequest) (*fulfillmentapp.OrderResponse, error) {
	args := m.Called(ctx, operatorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillmentapp.OrderResponse), args.Error(1)
}

func (m *MockDraftService) GetDraft(ctx context.Context, id int64) (*fulfillmentapp.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillmentapp.OrderResponse), args.Error(1)
}

func (m *MockDraftService) ListDrafts(ctx context.Context, status string, filter fulfillmentapp.ListFilter) ([]fulfillmentapp.OrderResponse, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillmentapp.OrderResponse), args.Error(1)
}

func (m *MockDraftService) ListPending(ctx context.Context, filter fulfillmentapp.ListFilter) ([]fulfillmentapp.OrderResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillmentapp.OrderResponse), args.Error(1)
}

func (m *MockDraftService) DeleteDraft(ctx context.Context, operatorID uuid.UUID, id int64) error {
	args := m.Called(ctx, operatorID, id)
	return args.Error(0)
}

func (m *MockDraftService) ReloadDraft(ctx context.Context, id int64) (*fulfillmentapp.CartResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillmentapp.CartResponse), args.Error(1)
}

func (m *MockDraftService) SendToWarehouse(ctx context.Context, operatorID uuid.UUID, id int64, req fulfillmentapp.VersionedRequest) (*fulfillmentapp.OrderResponse, error) {
	args := m.Called(ctx, operatorID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillmentapp.OrderResponse), args.Error(1)
}

func (m *MockDraftService) ToggleItem(ctx context.Context, operatorID uuid.UUID, id int64, sku string, req fulfillmentapp.VersionedRequest) (*fulfillmentapp.ToggleResponse, error) {
	args := m.Called(ctx, operatorID, id, sku, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillmentapp.ToggleResponse), args.Error(1)
}

func (m *MockDraftService) Advance(ctx context.Context, operatorID uuid.UUID, id int64, req fulfillmentapp.AdvanceRequest) (*fulfillmentapp.OrderResponse, error) {
	args := m.Called(ctx, operatorID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillmentapp.OrderResponse), args.Error(1)
}

// MockCheckoutService implements CheckoutService for testing
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) RegisterSale(ctx context.Context, operatorID uuid.UUID, req checkout.RegisterSaleRequest) (*checkout.SaleResponse, error) {
	args := m.Called(ctx, operatorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.SaleResponse), args.Error(1)
}

func (m *MockCheckoutService) GetSale(ctx context.Context, id int64) (*checkout.SaleResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.SaleResponse), args.Error(1)
}

func (m *MockCheckoutService) ModifySale(ctx context.Context, operatorID uuid.UUID, id int64, req checkout.ModifySaleRequest) (*checkout.SaleResponse, error) {
	args := m.Called(ctx, operatorID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.SaleResponse), args.Error(1)
}

func (m *MockCheckoutService) RegisterReturn(ctx context.Context, operatorID uuid.UUID, id int64, req checkout.RegisterReturnRequest) (*checkout.SaleResponse, error) {
	args := m.Called(ctx, operatorID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.SaleResponse), args.Error(1)
}

func (m *MockCheckoutService) ListConsignments(ctx context.Context, filter fulfillmentapp.ListFilter) ([]checkout.ConsignmentResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]checkout.ConsignmentResponse), args.Error(1)
}

func (m *MockCheckoutService) GetConsignment(ctx context.Context, id int64) (*checkout.ConsignmentResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.ConsignmentResponse), args.Error(1)
}

func (m *MockCheckoutService) AddConsignmentPayment(ctx context.Context, operatorID uuid.UUID, id int64, req checkout.AddPaymentRequest) (*checkout.PaymentResultResponse, error) {
	args := m.Called(ctx, operatorID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.PaymentResultResponse), args.Error(1)
}

// MockRegisterService implements RegisterService for testing
type MockRegisterService struct {
	mock.Mock
}

func (m *MockRegisterService) Open(ctx context.Context, operatorID uuid.UUID, req register.OpenSessionRequest) (*register.SessionResponse, error) {
	args := m.Called(ctx, operatorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*register.SessionResponse), args.Error(1)
}

func (m *MockRegisterService) GetOpenSession(ctx context.Context, operatorID uuid.UUID) (*register.SessionResponse, error) {
	args := m.Called(ctx, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*register.SessionResponse), args.Error(1)
}

func (m *MockRegisterService) Close(ctx context.Context, operatorID uuid.UUID, req register.CloseSessionRequest) (*register.SummaryResponse, error) {
	args := m.Called(ctx, operatorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*register.SummaryResponse), args.Error(1)
}

func (m *MockRegisterService) Summary(ctx context.Context, operatorID uuid.UUID, counted *decimal.Decimal) (*register.SummaryResponse, error) {
	args := m.Called(ctx, operatorID, counted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*register.SummaryResponse), args.Error(1)
}

// MockIdentityService implements IdentityService for testing
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) Login(ctx context.Context, req identity.LoginRequest) (*identity.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.LoginResponse), args.Error(1)
}

func (m *MockIdentityService) CreateOperator(ctx context.Context, req identity.CreateOperatorRequest) (*identity.OperatorResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.OperatorResponse), args.Error(1)
}

// MockStockStore implements StockStore for testing
type MockStockStore struct {
	mock.Mock
}

func (m *MockStockStore) Get(ctx context.Context, sku string) (*persistence.StockLevel, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*persistence.StockLevel), args.Error(1)
}

func (m *MockStockStore) Set(ctx context.Context, sku string, quantity int) (*persistence.StockLevel, error) {
	args := m.Called(ctx, sku, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*persistence.StockLevel), args.Error(1)
}
