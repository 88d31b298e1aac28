package ordering

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/ordering"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockMenuItemRepository is a mock implementation of MenuItemRepository
type MockMenuItemRepository struct {
	mock.Mock
}

func (m *MockMenuItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) FindVisible(ctx context.Context) ([]catalog.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) FindPlaceholder(ctx context.Context) (*catalog.MenuItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) Save(ctx context.Context, item *catalog.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// MockDiscountRepository is a mock implementation of DiscountRepository
type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Discount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Discount), args.Error(1)
}

var _ ordering.OrderRepository = (*MockOrderRepository)(nil)
var _ catalog.MenuItemRepository = (*MockMenuItemRepository)(nil)
var _ catalog.DiscountRepository = (*MockDiscountRepository)(nil)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type serviceFixture struct {
	orderRepo    *MockOrderRepository
	menuItemRepo *MockMenuItemRepository
	discountRepo *MockDiscountRepository
	service      *OrderService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		orderRepo:    new(MockOrderRepository),
		menuItemRepo: new(MockMenuItemRepository),
		discountRepo: new(MockDiscountRepository),
	}
	scope := NewNoOpTransactionScope(f.orderRepo, f.menuItemRepo, f.discountRepo)
	f.service = NewOrderService(scope)
	return f
}

func openOrder(t *testing.T) *ordering.Order {
	t.Helper()
	order, err := ordering.NewOrder(ordering.OrderTypeDineIn)
	require.NoError(t, err)
	return order
}

func taxedMenuItem(t *testing.T, price, rate string) *catalog.MenuItem {
	t.Helper()
	item, err := catalog.NewMenuItem("Burger", dec(price))
	require.NoError(t, err)
	tax, err := catalog.NewTax("Sales tax", dec(rate))
	require.NoError(t, err)
	item.TaxID = &tax.ID
	item.Tax = tax
	return item
}

func TestCreateOrder_Success(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	f.orderRepo.On("Save", ctx, mock.AnythingOfType("*ordering.Order")).Return(nil)

	order, err := f.service.CreateOrder(ctx, ordering.OrderTypeTakeout, "Alex", "no onions")

	require.NoError(t, err)
	assert.Equal(t, ordering.OrderStatusOpen, order.Status)
	assert.Equal(t, ordering.OrderTypeTakeout, order.OrderType)
	assert.Equal(t, "Alex", order.CustomerName)
	f.orderRepo.AssertExpectations(t)
}

func TestCreateOrder_InvalidType(t *testing.T) {
	f := newServiceFixture()

	order, err := f.service.CreateOrder(context.Background(), ordering.OrderType("DRIVE_THRU"), "", "")

	assert.Error(t, err)
	assert.Nil(t, order)
}

func TestAddItem_SnapshotsPriceAndTax(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	order := openOrder(t)
	menuItem := taxedMenuItem(t, "100.00", "0.08")

	f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	f.menuItemRepo.On("FindByID", ctx, menuItem.ID).Return(menuItem, nil)
	f.orderRepo.On("Save", ctx, order).Return(nil)

	result, err := f.service.AddItem(ctx, order.ID, menuItem.ID, dec("1"))

	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.True(t, result.Items[0].UnitPrice.Equal(dec("100.00")))
	assert.True(t, result.Items[0].TaxRate.Equal(dec("0.08")))
	assert.True(t, result.TaxTotal.Equal(dec("8.00")), "tax %s", result.TaxTotal)
	assert.True(t, result.Total.Equal(dec("108.00")), "total %s", result.Total)
	f.orderRepo.AssertExpectations(t)
	f.menuItemRepo.AssertExpectations(t)
}

func TestAddItem_OrderNotFound(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	orderID := uuid.New()

	f.orderRepo.On("FindByIDForUpdate", ctx, orderID).Return(nil, ordering.ErrOrderNotFound)

	result, err := f.service.AddItem(ctx, orderID, uuid.New(), dec("1"))

	assert.ErrorIs(t, err, ordering.ErrOrderNotFound)
	assert.Nil(t, result)
}

func TestAddItem_VoidOrderRejected(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	order := openOrder(t)
	order.Void()
	menuItem := taxedMenuItem(t, "10.00", "0")

	f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	f.menuItemRepo.On("FindByID", ctx, menuItem.ID).Return(menuItem, nil)

	_, err := f.service.AddItem(ctx, order.ID, menuItem.ID, dec("1"))

	assert.Error(t, err)
	f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestApplyDiscount_DefinitionSnapshot(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	order := openOrder(t)
	menuItem := taxedMenuItem(t, "50.00", "0")
	_, err := order.AddItem(menuItem.ID, menuItem.Name, valueobject.NewMoneyUSD(menuItem.Price), dec("2"))
	require.NoError(t, err)

	def, err := catalog.NewDiscount("Happy hour", catalog.DiscountTypePercent, dec("10"))
	require.NoError(t, err)

	f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	f.discountRepo.On("FindByID", ctx, def.ID).Return(def, nil)
	f.orderRepo.On("Save", ctx, order).Return(nil)

	result, err := f.service.ApplyDiscount(ctx, order.ID, &def.ID, nil)

	require.NoError(t, err)
	assert.True(t, result.DiscountTotal.Equal(dec("10.00")), "discount %s", result.DiscountTotal)
	assert.True(t, result.Total.Equal(dec("90.00")), "total %s", result.Total)
}

func TestApplyDiscount_InactiveDefinitionRejected(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	order := openOrder(t)

	def, err := catalog.NewDiscount("Expired", catalog.DiscountTypeFlat, dec("5"))
	require.NoError(t, err)
	def.Active = false

	f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	f.discountRepo.On("FindByID", ctx, def.ID).Return(def, nil)

	_, err = f.service.ApplyDiscount(ctx, order.ID, &def.ID, nil)

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DISCOUNT_INACTIVE", domainErr.Code)
}

func TestApplyDiscount_ManualOverrideWithoutDefinition(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	order := openOrder(t)
	menuItem := taxedMenuItem(t, "20.00", "0")
	_, err := order.AddItem(menuItem.ID, menuItem.Name, valueobject.NewMoneyUSD(menuItem.Price), dec("1"))
	require.NoError(t, err)

	f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	f.orderRepo.On("Save", ctx, order).Return(nil)

	override := dec("3.00")
	result, err := f.service.ApplyDiscount(ctx, order.ID, nil, &override)

	require.NoError(t, err)
	assert.True(t, result.DiscountTotal.Equal(dec("3.00")))
	assert.True(t, result.Total.Equal(dec("17.00")))
}

func TestRecordPayment_FullSettlement(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	order := openOrder(t)
	menuItem := taxedMenuItem(t, "100.00", "0.08")
	item, err := order.AddItem(menuItem.ID, menuItem.Name, valueobject.NewMoneyUSD(menuItem.Price), dec("1"))
	require.NoError(t, err)
	item.SetTax(menuItem.Tax.Rate, true)
	order.Recalculate()

	f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	f.orderRepo.On("Save", ctx, order).Return(nil)

	result, err := f.service.RecordPayment(ctx, order.ID, dec("108.00"))

	require.NoError(t, err)
	assert.Equal(t, ordering.OrderStatusPaid, result.Status)
	assert.True(t, result.DueTotal.IsZero())
}

func TestVoidPayment_RevertsPaidToOpen(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	order := openOrder(t)
	menuItem := taxedMenuItem(t, "50.00", "0")
	_, err := order.AddItem(menuItem.ID, menuItem.Name, valueobject.NewMoneyUSD(menuItem.Price), dec("1"))
	require.NoError(t, err)
	payment, err := order.RecordPayment(valueobject.NewMoneyUSD(dec("50.00")))
	require.NoError(t, err)
	require.Equal(t, ordering.OrderStatusPaid, order.Status)

	f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	f.orderRepo.On("Save", ctx, order).Return(nil)

	result, err := f.service.VoidPayment(ctx, order.ID, payment.ID)

	require.NoError(t, err)
	assert.Equal(t, ordering.OrderStatusOpen, result.Status)
	assert.True(t, result.DueTotal.Equal(dec("50.00")))
}

func TestVoidOrder_Terminal(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	order := openOrder(t)

	f.orderRepo.On("FindByIDForUpdate", ctx, order.ID).Return(order, nil)
	f.orderRepo.On("Save", ctx, order).Return(nil)

	result, err := f.service.VoidOrder(ctx, order.ID)

	require.NoError(t, err)
	assert.Equal(t, ordering.OrderStatusVoid, result.Status)
}
