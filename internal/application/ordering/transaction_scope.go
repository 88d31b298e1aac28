package ordering

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/ordering"
)

// TransactionScope provides transactional access to ordering repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories scoped to one transaction.
// All repositories returned share the same underlying database transaction.
type TransactionalRepositories interface {
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() ordering.OrderRepository
	// MenuItemRepo returns the menu item repository scoped to the current transaction
	MenuItemRepo() catalog.MenuItemRepository
	// DiscountRepo returns the discount repository scoped to the current transaction
	DiscountRepo() catalog.DiscountRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for testing with mock repositories.
type NoOpTransactionScope struct {
	orderRepo    ordering.OrderRepository
	menuItemRepo catalog.MenuItemRepository
	discountRepo catalog.DiscountRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo ordering.OrderRepository,
	menuItemRepo catalog.MenuItemRepository,
	discountRepo catalog.DiscountRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:    orderRepo,
		menuItemRepo: menuItemRepo,
		discountRepo: discountRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() ordering.OrderRepository { return s.orderRepo }

// MenuItemRepo returns the menu item repository.
func (s *NoOpTransactionScope) MenuItemRepo() catalog.MenuItemRepository { return s.menuItemRepo }

// DiscountRepo returns the discount repository.
func (s *NoOpTransactionScope) DiscountRepo() catalog.DiscountRepository { return s.discountRepo }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
