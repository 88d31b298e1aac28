package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pos/backend/internal/domain/ordering"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements ordering.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM-based order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID loads an order with all its parts
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	return r.findByID(ctx, id, false)
}

// FindByIDForUpdate loads an order holding a row lock until the surrounding
// transaction ends. Callers must be inside a transaction scope.
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	return r.findByID(ctx, id, true)
}

func (r *GormOrderRepository) findByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*ordering.Order, error) {
	query := r.db.WithContext(ctx)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model models.OrderModel
	err := query.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Modifiers").
		Preload("Discounts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ordering.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save persists the order and all its parts. Removed items, discounts and
// payments are deleted; everything else is upserted.
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	model := models.OrderModelFromDomain(order)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}

		if err := r.saveItems(tx, model); err != nil {
			return err
		}
		if err := r.saveDiscounts(tx, model); err != nil {
			return err
		}
		return r.savePayments(tx, model)
	})
}

func (r *GormOrderRepository) saveItems(tx *gorm.DB, model *models.OrderModel) error {
	itemIDs := make([]uuid.UUID, len(model.Items))
	for i := range model.Items {
		itemIDs[i] = model.Items[i].ID
	}

	// Modifiers of removed items go first so the item delete leaves no orphans
	removed := tx.Model(&models.OrderItemModel{}).Select("id").Where("order_id = ?", model.ID)
	if len(itemIDs) > 0 {
		removed = removed.Where("id NOT IN ?", itemIDs)
	}
	if err := tx.Where("order_item_id IN (?)", removed).
		Delete(&models.OrderItemModifierModel{}).Error; err != nil {
		return err
	}

	itemDelete := tx.Where("order_id = ?", model.ID)
	if len(itemIDs) > 0 {
		itemDelete = itemDelete.Where("id NOT IN ?", itemIDs)
	}
	if err := itemDelete.Delete(&models.OrderItemModel{}).Error; err != nil {
		return err
	}

	for i := range model.Items {
		item := &model.Items[i]
		item.OrderID = model.ID
		if err := tx.Omit(clause.Associations).Save(item).Error; err != nil {
			return err
		}

		modifierIDs := make([]uuid.UUID, len(item.Modifiers))
		for j := range item.Modifiers {
			modifierIDs[j] = item.Modifiers[j].ID
		}
		modifierDelete := tx.Where("order_item_id = ?", item.ID)
		if len(modifierIDs) > 0 {
			modifierDelete = modifierDelete.Where("id NOT IN ?", modifierIDs)
		}
		if err := modifierDelete.Delete(&models.OrderItemModifierModel{}).Error; err != nil {
			return err
		}
		for j := range item.Modifiers {
			item.Modifiers[j].OrderItemID = item.ID
			if err := tx.Save(&item.Modifiers[j]).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *GormOrderRepository) saveDiscounts(tx *gorm.DB, model *models.OrderModel) error {
	discountIDs := make([]uuid.UUID, len(model.Discounts))
	for i := range model.Discounts {
		discountIDs[i] = model.Discounts[i].ID
	}
	discountDelete := tx.Where("order_id = ?", model.ID)
	if len(discountIDs) > 0 {
		discountDelete = discountDelete.Where("id NOT IN ?", discountIDs)
	}
	if err := discountDelete.Delete(&models.OrderDiscountModel{}).Error; err != nil {
		return err
	}
	for i := range model.Discounts {
		model.Discounts[i].OrderID = model.ID
		if err := tx.Save(&model.Discounts[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *GormOrderRepository) savePayments(tx *gorm.DB, model *models.OrderModel) error {
	paymentIDs := make([]uuid.UUID, len(model.Payments))
	for i := range model.Payments {
		paymentIDs[i] = model.Payments[i].ID
	}
	paymentDelete := tx.Where("order_id = ?", model.ID)
	if len(paymentIDs) > 0 {
		paymentDelete = paymentDelete.Where("id NOT IN ?", paymentIDs)
	}
	if err := paymentDelete.Delete(&models.PaymentModel{}).Error; err != nil {
		return err
	}
	for i := range model.Payments {
		model.Payments[i].OrderID = model.ID
		if err := tx.Save(&model.Payments[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
