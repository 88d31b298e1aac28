package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
)

// GormStoreRepository implements integration.StoreRepository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GORM-based store repository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store mapping by ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.Store, error) {
	var model models.StoreModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrStoreNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByMerchantSuppliedID resolves the store a webhook addresses
func (r *GormStoreRepository) FindByMerchantSuppliedID(ctx context.Context, providerID uuid.UUID, merchantSuppliedID string) (*integration.Store, error) {
	var model models.StoreModel
	err := r.db.WithContext(ctx).
		Where("provider_id = ? AND merchant_supplied_id = ?", providerID, merchantSuppliedID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrStoreNotMapped
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByProvider returns all store mappings for a provider
func (r *GormStoreRepository) FindByProvider(ctx context.Context, providerID uuid.UUID) ([]*integration.Store, error) {
	var rows []models.StoreModel
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("merchant_supplied_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	stores := make([]*integration.Store, len(rows))
	for i := range rows {
		store, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		stores[i] = store
	}
	return stores, nil
}

// Save creates or updates a store mapping
func (r *GormStoreRepository) Save(ctx context.Context, store *integration.Store) error {
	var model models.StoreModel
	if err := model.FromDomain(store); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a store mapping
func (r *GormStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.StoreModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return integration.ErrStoreNotFound
	}
	return nil
}
