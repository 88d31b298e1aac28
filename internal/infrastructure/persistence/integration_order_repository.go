package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
)

// GormIntegrationOrderRepository implements integration.IntegrationOrderRepository using GORM
type GormIntegrationOrderRepository struct {
	db *gorm.DB
}

// NewGormIntegrationOrderRepository creates a new GORM-based registry repository
func NewGormIntegrationOrderRepository(db *gorm.DB) *GormIntegrationOrderRepository {
	return &GormIntegrationOrderRepository{db: db}
}

// FindByID finds a registry row by ID
func (r *GormIntegrationOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.IntegrationOrder, error) {
	var model models.IntegrationOrderModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrExternalOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds the registry row for a marketplace order
func (r *GormIntegrationOrderRepository) FindByExternalID(ctx context.Context, providerID uuid.UUID, externalID string) (*integration.IntegrationOrder, error) {
	var model models.IntegrationOrderModel
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND external_id = ?", providerID, externalID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrExternalOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPosOrderID finds the registry row bound to a POS order
func (r *GormIntegrationOrderRepository) FindByPosOrderID(ctx context.Context, posOrderID uuid.UUID) (*integration.IntegrationOrder, error) {
	var model models.IntegrationOrderModel
	err := r.db.WithContext(ctx).Where("pos_order_id = ?", posOrderID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrExternalOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create inserts a new registry row. A concurrent insert for the same
// (provider_id, external_id) surfaces as ErrDuplicateExternalOrder so the
// caller can re-read and update instead.
func (r *GormIntegrationOrderRepository) Create(ctx context.Context, order *integration.IntegrationOrder) error {
	model := models.IntegrationOrderModelFromDomain(order)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return integration.ErrDuplicateExternalOrder
		}
		return err
	}
	return nil
}

// Save updates an existing registry row
func (r *GormIntegrationOrderRepository) Save(ctx context.Context, order *integration.IntegrationOrder) error {
	model := models.IntegrationOrderModelFromDomain(order)
	return r.db.WithContext(ctx).Save(model).Error
}
