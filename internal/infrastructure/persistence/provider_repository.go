package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
)

// GormProviderRepository implements integration.ProviderRepository using GORM
type GormProviderRepository struct {
	db *gorm.DB
}

// NewGormProviderRepository creates a new GORM-based provider repository
func NewGormProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

// FindByID finds a provider by ID
func (r *GormProviderRepository) FindByID(ctx context.Context, id uuid.UUID) (*integration.Provider, error) {
	var model models.ProviderModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrProviderNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByCode finds a provider by its normalized code
func (r *GormProviderRepository) FindByCode(ctx context.Context, code integration.ProviderCode) (*integration.Provider, error) {
	var model models.ProviderModel
	err := r.db.WithContext(ctx).Where("code = ?", code.Normalize()).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrProviderNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll returns all providers ordered by code
func (r *GormProviderRepository) FindAll(ctx context.Context) ([]*integration.Provider, error) {
	var rows []models.ProviderModel
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	providers := make([]*integration.Provider, len(rows))
	for i := range rows {
		provider, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		providers[i] = provider
	}
	return providers, nil
}

// Save creates or updates a provider
func (r *GormProviderRepository) Save(ctx context.Context, provider *integration.Provider) error {
	var model models.ProviderModel
	if err := model.FromDomain(provider); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a provider
func (r *GormProviderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProviderModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return integration.ErrProviderNotFound
	}
	return nil
}
