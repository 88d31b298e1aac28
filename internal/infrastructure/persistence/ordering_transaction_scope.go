package persistence

import (
	"context"

	"gorm.io/gorm"

	appordering "github.com/pos/backend/internal/application/ordering"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/ordering"
)

// GormOrderingTransactionScope implements the ordering TransactionScope
// using GORM transactions. Every order mutation runs inside one scope so
// the row lock taken by FindByIDForUpdate survives until commit.
type GormOrderingTransactionScope struct {
	db *gorm.DB
}

// NewGormOrderingTransactionScope creates a new GormOrderingTransactionScope.
func NewGormOrderingTransactionScope(db *gorm.DB) *GormOrderingTransactionScope {
	return &GormOrderingTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormOrderingTransactionScope) Execute(ctx context.Context, fn func(repos appordering.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormOrderingRepositories{tx: tx}
		return fn(repos)
	})
}

// gormOrderingRepositories provides repositories scoped to one transaction.
type gormOrderingRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the order repository scoped to the current transaction.
func (r *gormOrderingRepositories) OrderRepo() ordering.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// MenuItemRepo returns the menu item repository scoped to the current transaction.
func (r *gormOrderingRepositories) MenuItemRepo() catalog.MenuItemRepository {
	return NewGormMenuItemRepository(r.tx)
}

// DiscountRepo returns the discount repository scoped to the current transaction.
func (r *gormOrderingRepositories) DiscountRepo() catalog.DiscountRepository {
	return NewGormDiscountRepository(r.tx)
}

// Ensure GormOrderingTransactionScope implements TransactionScope
var _ appordering.TransactionScope = (*GormOrderingTransactionScope)(nil)

// Ensure gormOrderingRepositories implements TransactionalRepositories
var _ appordering.TransactionalRepositories = (*gormOrderingRepositories)(nil)
