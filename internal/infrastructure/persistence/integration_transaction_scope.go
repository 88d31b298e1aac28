package persistence

import (
	"context"

	"gorm.io/gorm"

	appintegration "github.com/pos/backend/internal/application/integration"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/domain/ordering"
)

// GormIntegrationTransactionScope implements the integration TransactionScope
// using GORM transactions. Registry upserts and the POS orders they create
// commit or roll back together.
type GormIntegrationTransactionScope struct {
	db *gorm.DB
}

// NewGormIntegrationTransactionScope creates a new GormIntegrationTransactionScope.
func NewGormIntegrationTransactionScope(db *gorm.DB) *GormIntegrationTransactionScope {
	return &GormIntegrationTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormIntegrationTransactionScope) Execute(ctx context.Context, fn func(repos appintegration.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormIntegrationRepositories{tx: tx}
		return fn(repos)
	})
}

// gormIntegrationRepositories provides repositories scoped to one transaction.
type gormIntegrationRepositories struct {
	tx *gorm.DB
}

// IntegrationOrderRepo returns the registry repository scoped to the current transaction.
func (r *gormIntegrationRepositories) IntegrationOrderRepo() integration.IntegrationOrderRepository {
	return NewGormIntegrationOrderRepository(r.tx)
}

// StoreRepo returns the store repository scoped to the current transaction.
func (r *gormIntegrationRepositories) StoreRepo() integration.StoreRepository {
	return NewGormStoreRepository(r.tx)
}

// OrderRepo returns the order repository scoped to the current transaction.
func (r *gormIntegrationRepositories) OrderRepo() ordering.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// MenuItemRepo returns the menu item repository scoped to the current transaction.
func (r *gormIntegrationRepositories) MenuItemRepo() catalog.MenuItemRepository {
	return NewGormMenuItemRepository(r.tx)
}

// KitchenTicketRepo returns the kitchen ticket repository scoped to the current transaction.
func (r *gormIntegrationRepositories) KitchenTicketRepo() integration.KitchenTicketRepository {
	return NewGormKitchenTicketRepository(r.tx)
}

// Ensure GormIntegrationTransactionScope implements TransactionScope
var _ appintegration.TransactionScope = (*GormIntegrationTransactionScope)(nil)

// Ensure gormIntegrationRepositories implements TransactionalRepositories
var _ appintegration.TransactionalRepositories = (*gormIntegrationRepositories)(nil)
