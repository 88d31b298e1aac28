package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/ordering"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// OrderService handles order ledger operations. Every mutation runs inside
// a transaction scope: the order row is locked, mutated through the
// aggregate, recomputed, and saved. Stored totals are never read back as
// inputs.
type OrderService struct {
	txScope TransactionScope
}

// NewOrderService creates a new OrderService
func NewOrderService(txScope TransactionScope) *OrderService {
	return &OrderService{txScope: txScope}
}

// CreateOrder opens a new order
func (s *OrderService) CreateOrder(ctx context.Context, orderType ordering.OrderType, customerName, notes string) (*ordering.Order, error) {
	order, err := ordering.NewOrder(orderType)
	if err != nil {
		return nil, err
	}
	order.CustomerName = customerName
	order.Notes = notes

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder retrieves an order with all its parts
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	var order *ordering.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AddItem adds a catalog item to an order, snapshotting its price and tax
func (s *OrderService) AddItem(ctx context.Context, orderID, menuItemID uuid.UUID, quantity decimal.Decimal) (*ordering.Order, error) {
	return s.mutate(ctx, orderID, func(repos TransactionalRepositories, order *ordering.Order) error {
		menuItem, err := repos.MenuItemRepo().FindByID(ctx, menuItemID)
		if err != nil {
			return err
		}
		item, err := order.AddItem(menuItem.ID, menuItem.Name, valueobject.NewMoneyUSD(menuItem.Price), quantity)
		if err != nil {
			return err
		}
		if menuItem.Tax != nil {
			item.SetTax(menuItem.Tax.Rate, menuItem.Tax.Applies())
			order.Recalculate()
		}
		return nil
	})
}

// RemoveItem removes a line from an order
func (s *OrderService) RemoveItem(ctx context.Context, orderID, itemID uuid.UUID) (*ordering.Order, error) {
	return s.mutate(ctx, orderID, func(_ TransactionalRepositories, order *ordering.Order) error {
		return order.RemoveItem(itemID)
	})
}

// AddModifier attaches a modifier to an order line. A nil modifierID with a
// name and price records a free-text modifier.
func (s *OrderService) AddModifier(ctx context.Context, orderID, itemID uuid.UUID, modifierID *uuid.UUID, name string, price, quantity decimal.Decimal) (*ordering.Order, error) {
	return s.mutate(ctx, orderID, func(_ TransactionalRepositories, order *ordering.Order) error {
		return order.AddModifier(itemID, modifierID, name, price, quantity)
	})
}

// ApplyDiscount applies a discount definition to an order. When override is
// set it wins over the definition's computed amount.
func (s *OrderService) ApplyDiscount(ctx context.Context, orderID uuid.UUID, discountID *uuid.UUID, override *decimal.Decimal) (*ordering.Order, error) {
	return s.mutate(ctx, orderID, func(repos TransactionalRepositories, order *ordering.Order) error {
		if discountID == nil {
			if override == nil {
				return shared.NewDomainError("INVALID_DISCOUNT", "Either a discount ID or an override amount is required")
			}
			return order.ApplyDiscount(nil, "Manual discount", string(catalog.DiscountTypeFlat), *override, override)
		}
		def, err := repos.DiscountRepo().FindByID(ctx, *discountID)
		if err != nil {
			return err
		}
		if !def.Active {
			return shared.NewDomainError("DISCOUNT_INACTIVE", "Discount is not active")
		}
		return order.ApplyDiscount(&def.ID, def.Name, string(def.Type), def.Value, override)
	})
}

// RemoveDiscount removes an applied discount from an order
func (s *OrderService) RemoveDiscount(ctx context.Context, orderID, appliedDiscountID uuid.UUID) (*ordering.Order, error) {
	return s.mutate(ctx, orderID, func(_ TransactionalRepositories, order *ordering.Order) error {
		return order.RemoveDiscount(appliedDiscountID)
	})
}

// RecordPayment records a payment against an order
func (s *OrderService) RecordPayment(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal) (*ordering.Order, error) {
	return s.mutate(ctx, orderID, func(_ TransactionalRepositories, order *ordering.Order) error {
		_, err := order.RecordPayment(valueobject.NewMoneyUSD(amount))
		return err
	})
}

// VoidPayment voids a recorded payment. A fully paid order whose payment is
// voided reverts to OPEN through recomputation.
func (s *OrderService) VoidPayment(ctx context.Context, orderID, paymentID uuid.UUID) (*ordering.Order, error) {
	return s.mutate(ctx, orderID, func(_ TransactionalRepositories, order *ordering.Order) error {
		return order.VoidPayment(paymentID)
	})
}

// SetCharges updates the service and delivery charges on an order
func (s *OrderService) SetCharges(ctx context.Context, orderID uuid.UUID, serviceCharge, deliveryCharge decimal.Decimal) (*ordering.Order, error) {
	return s.mutate(ctx, orderID, func(_ TransactionalRepositories, order *ordering.Order) error {
		return order.SetCharges(serviceCharge, deliveryCharge)
	})
}

// SetTaxExempt toggles tax exemption on an order
func (s *OrderService) SetTaxExempt(ctx context.Context, orderID uuid.UUID, exempt bool) (*ordering.Order, error) {
	return s.mutate(ctx, orderID, func(_ TransactionalRepositories, order *ordering.Order) error {
		return order.SetTaxExempt(exempt)
	})
}

// SendOrder marks the order as sent to the kitchen
func (s *OrderService) SendOrder(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	return s.mutate(ctx, orderID, func(_ TransactionalRepositories, order *ordering.Order) error {
		return order.Send()
	})
}

// HoldOrder parks the order
func (s *OrderService) HoldOrder(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	return s.mutate(ctx, orderID, func(_ TransactionalRepositories, order *ordering.Order) error {
		return order.Hold()
	})
}

// VoidOrder voids the order. VOID is terminal.
func (s *OrderService) VoidOrder(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	return s.mutate(ctx, orderID, func(_ TransactionalRepositories, order *ordering.Order) error {
		order.Void()
		return nil
	})
}

// mutate runs a single-order mutation: lock, load, apply, save.
func (s *OrderService) mutate(ctx context.Context, orderID uuid.UUID, fn func(repos TransactionalRepositories, order *ordering.Order) error) (*ordering.Order, error) {
	var order *ordering.Order
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		order, err = repos.OrderRepo().FindByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := fn(repos, order); err != nil {
			return err
		}
		return repos.OrderRepo().Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
