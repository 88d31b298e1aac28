package integration

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/domain/ordering"
)

// TransactionScope provides transactional access to the repositories the
// webhook pipeline touches. Registry upserts create a registry row and a
// POS order in one shot; both land or neither does.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories scoped to one transaction
type TransactionalRepositories interface {
	IntegrationOrderRepo() integration.IntegrationOrderRepository
	StoreRepo() integration.StoreRepository
	OrderRepo() ordering.OrderRepository
	MenuItemRepo() catalog.MenuItemRepository
	KitchenTicketRepo() integration.KitchenTicketRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for testing with mock repositories.
type NoOpTransactionScope struct {
	integrationOrderRepo integration.IntegrationOrderRepository
	storeRepo            integration.StoreRepository
	orderRepo            ordering.OrderRepository
	menuItemRepo         catalog.MenuItemRepository
	kitchenTicketRepo    integration.KitchenTicketRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	integrationOrderRepo integration.IntegrationOrderRepository,
	storeRepo integration.StoreRepository,
	orderRepo ordering.OrderRepository,
	menuItemRepo catalog.MenuItemRepository,
	kitchenTicketRepo integration.KitchenTicketRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		integrationOrderRepo: integrationOrderRepo,
		storeRepo:            storeRepo,
		orderRepo:            orderRepo,
		menuItemRepo:         menuItemRepo,
		kitchenTicketRepo:    kitchenTicketRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) IntegrationOrderRepo() integration.IntegrationOrderRepository {
	return s.integrationOrderRepo
}

func (s *NoOpTransactionScope) StoreRepo() integration.StoreRepository { return s.storeRepo }

func (s *NoOpTransactionScope) OrderRepo() ordering.OrderRepository { return s.orderRepo }

func (s *NoOpTransactionScope) MenuItemRepo() catalog.MenuItemRepository { return s.menuItemRepo }

func (s *NoOpTransactionScope) KitchenTicketRepo() integration.KitchenTicketRepository {
	return s.kitchenTicketRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
