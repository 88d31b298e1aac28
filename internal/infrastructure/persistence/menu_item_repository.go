package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
)

// GormMenuItemRepository implements catalog.MenuItemRepository using GORM
type GormMenuItemRepository struct {
	db *gorm.DB
}

// NewGormMenuItemRepository creates a new GORM-based menu item repository
func NewGormMenuItemRepository(db *gorm.DB) *GormMenuItemRepository {
	return &GormMenuItemRepository{db: db}
}

// FindByID finds a menu item by ID with its tax preloaded
func (r *GormMenuItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.MenuItem, error) {
	var model models.MenuItemModel
	err := r.db.WithContext(ctx).
		Preload("Tax").
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindVisible returns all visible items with taxes and modifier groups preloaded
func (r *GormMenuItemRepository) FindVisible(ctx context.Context) ([]catalog.MenuItem, error) {
	var rows []models.MenuItemModel
	err := r.db.WithContext(ctx).
		Preload("Tax").
		Preload("ModifierGroups").
		Preload("ModifierGroups.Modifiers").
		Where("visible = ?", true).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]catalog.MenuItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// FindPlaceholder returns the placeholder item, creating it on first use
func (r *GormMenuItemRepository) FindPlaceholder(ctx context.Context) (*catalog.MenuItem, error) {
	var model models.MenuItemModel
	err := r.db.WithContext(ctx).
		Where("name = ?", catalog.PlaceholderItemName).
		First(&model).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	placeholder := catalog.NewPlaceholderItem()
	created := models.MenuItemModelFromDomain(placeholder)
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return placeholder, nil
}

// Save creates or updates a menu item
func (r *GormMenuItemRepository) Save(ctx context.Context, item *catalog.MenuItem) error {
	model := models.MenuItemModelFromDomain(item)
	return r.db.WithContext(ctx).Save(model).Error
}
