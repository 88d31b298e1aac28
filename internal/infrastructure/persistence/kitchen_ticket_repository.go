package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
)

// GormKitchenTicketRepository implements integration.KitchenTicketRepository using GORM
type GormKitchenTicketRepository struct {
	db *gorm.DB
}

// NewGormKitchenTicketRepository creates a new GORM-based kitchen ticket repository
func NewGormKitchenTicketRepository(db *gorm.DB) *GormKitchenTicketRepository {
	return &GormKitchenTicketRepository{db: db}
}

// ExistsForOrder reports whether a ticket was already cut for the order
func (r *GormKitchenTicketRepository) ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.KitchenTicketModel{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists a kitchen ticket
func (r *GormKitchenTicketRepository) Save(ctx context.Context, ticket *integration.KitchenTicket) error {
	var model models.KitchenTicketModel
	model.FromDomain(ticket)
	return r.db.WithContext(ctx).Save(&model).Error
}
