package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appintegration "github.com/pos/backend/internal/application/integration"
	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/domain/ordering"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
)

func setupScopeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.IntegrationOrderModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.OrderItemModifierModel{},
		&models.OrderDiscountModel{},
		&models.PaymentModel{},
		&models.KitchenTicketModel{},
	)
	require.NoError(t, err)

	return db
}

func TestIntegrationTransactionScope_CommitsAllOrNothing(t *testing.T) {
	db := setupScopeTestDB(t)
	scope := NewGormIntegrationTransactionScope(db)
	ctx := context.Background()

	providerID := uuid.New()

	err := scope.Execute(ctx, func(repos appintegration.TransactionalRepositories) error {
		row, err := integration.NewIntegrationOrder(providerID, "ext-1", "RELEASED", "{}")
		if err != nil {
			return err
		}
		if err := repos.IntegrationOrderRepo().Create(ctx, row); err != nil {
			return err
		}

		order, err := ordering.NewOrder(ordering.OrderTypeDelivery)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		return row.BindPosOrder(order.ID)
	})
	require.NoError(t, err)

	var registryCount, orderCount int64
	require.NoError(t, db.Model(&models.IntegrationOrderModel{}).Count(&registryCount).Error)
	require.NoError(t, db.Model(&models.OrderModel{}).Count(&orderCount).Error)
	assert.Equal(t, int64(1), registryCount)
	assert.Equal(t, int64(1), orderCount)
}

func TestIntegrationTransactionScope_RollsBackOnError(t *testing.T) {
	db := setupScopeTestDB(t)
	scope := NewGormIntegrationTransactionScope(db)
	ctx := context.Background()

	boom := errors.New("pipeline failure")
	err := scope.Execute(ctx, func(repos appintegration.TransactionalRepositories) error {
		row, err := integration.NewIntegrationOrder(uuid.New(), "ext-2", "RELEASED", "{}")
		if err != nil {
			return err
		}
		if err := repos.IntegrationOrderRepo().Create(ctx, row); err != nil {
			return err
		}

		order, err := ordering.NewOrder(ordering.OrderTypeDelivery)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var registryCount, orderCount int64
	require.NoError(t, db.Model(&models.IntegrationOrderModel{}).Count(&registryCount).Error)
	require.NoError(t, db.Model(&models.OrderModel{}).Count(&orderCount).Error)
	assert.Zero(t, registryCount)
	assert.Zero(t, orderCount)
}
