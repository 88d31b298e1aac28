package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/ordering"
)

// OrderModel is the persistence model for the order aggregate root.
// Monetary totals are snapshots of the last Recalculate; the domain
// recomputes them on every mutation, reads never trust them alone.
type OrderModel struct {
	AggregateModel
	OrderType      ordering.OrderType   `gorm:"type:varchar(20);not null;index"`
	Status         ordering.OrderStatus `gorm:"type:varchar(20);not null;index"`
	CustomerName   string               `gorm:"type:varchar(200)"`
	Notes          string               `gorm:"type:text"`
	TaxExempt      bool                 `gorm:"not null;default:false"`
	ServiceCharge  decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	DeliveryCharge decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Subtotal       decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	TaxTotal       decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountTotal  decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Total          decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	PaidTotal      decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	DueTotal       decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`

	Items     []OrderItemModel     `gorm:"foreignKey:OrderID;references:ID"`
	Discounts []OrderDiscountModel `gorm:"foreignKey:OrderID;references:ID"`
	Payments  []PaymentModel       `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order aggregate.
func (m *OrderModel) ToDomain() *ordering.Order {
	o := &ordering.Order{
		OrderType:      m.OrderType,
		Status:         m.Status,
		CustomerName:   m.CustomerName,
		Notes:          m.Notes,
		TaxExempt:      m.TaxExempt,
		ServiceCharge:  m.ServiceCharge,
		DeliveryCharge: m.DeliveryCharge,
		Subtotal:       m.Subtotal,
		TaxTotal:       m.TaxTotal,
		DiscountTotal:  m.DiscountTotal,
		Total:          m.Total,
		PaidTotal:      m.PaidTotal,
		DueTotal:       m.DueTotal,
		Items:          make([]ordering.OrderItem, len(m.Items)),
		Discounts:      make([]ordering.OrderDiscount, len(m.Discounts)),
		Payments:       make([]ordering.Payment, len(m.Payments)),
	}
	m.PopulateAggregateRoot(&o.BaseAggregateRoot)
	for i, item := range m.Items {
		o.Items[i] = *item.ToDomain()
	}
	for i, d := range m.Discounts {
		o.Discounts[i] = *d.ToDomain()
	}
	for i, p := range m.Payments {
		o.Payments[i] = *p.ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order aggregate.
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderType = o.OrderType
	m.Status = o.Status
	m.CustomerName = o.CustomerName
	m.Notes = o.Notes
	m.TaxExempt = o.TaxExempt
	m.ServiceCharge = o.ServiceCharge
	m.DeliveryCharge = o.DeliveryCharge
	m.Subtotal = o.Subtotal
	m.TaxTotal = o.TaxTotal
	m.DiscountTotal = o.DiscountTotal
	m.Total = o.Total
	m.PaidTotal = o.PaidTotal
	m.DueTotal = o.DueTotal
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i].FromDomain(&o.Items[i])
	}
	m.Discounts = make([]OrderDiscountModel, len(o.Discounts))
	for i := range o.Discounts {
		m.Discounts[i].FromDomain(&o.Discounts[i])
	}
	m.Payments = make([]PaymentModel, len(o.Payments))
	for i := range o.Payments {
		m.Payments[i].FromDomain(&o.Payments[i])
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order aggregate.
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for order lines.
type OrderItemModel struct {
	ID         uuid.UUID                `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID                `gorm:"type:uuid;not null;index"`
	MenuItemID uuid.UUID                `gorm:"type:uuid;not null"`
	Name       string                   `gorm:"type:varchar(200);not null"`
	UnitPrice  decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity   decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:1"`
	TaxRate    decimal.Decimal          `gorm:"type:decimal(8,6);not null;default:0"`
	Taxable    bool                     `gorm:"not null;default:false"`
	Modifiers  []OrderItemModifierModel `gorm:"foreignKey:OrderItemID;references:ID"`
	CreatedAt  time.Time                `gorm:"autoCreateTime"`
	UpdatedAt  time.Time                `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() *ordering.OrderItem {
	item := &ordering.OrderItem{
		ID:         m.ID,
		OrderID:    m.OrderID,
		MenuItemID: m.MenuItemID,
		Name:       m.Name,
		UnitPrice:  m.UnitPrice,
		Quantity:   m.Quantity,
		TaxRate:    m.TaxRate,
		Taxable:    m.Taxable,
		Modifiers:  make([]ordering.OrderItemModifier, len(m.Modifiers)),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	for i, mod := range m.Modifiers {
		item.Modifiers[i] = *mod.ToDomain()
	}
	return item
}

// FromDomain populates the persistence model from a domain OrderItem.
func (m *OrderItemModel) FromDomain(i *ordering.OrderItem) {
	m.ID = i.ID
	m.OrderID = i.OrderID
	m.MenuItemID = i.MenuItemID
	m.Name = i.Name
	m.UnitPrice = i.UnitPrice
	m.Quantity = i.Quantity
	m.TaxRate = i.TaxRate
	m.Taxable = i.Taxable
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
	m.Modifiers = make([]OrderItemModifierModel, len(i.Modifiers))
	for idx := range i.Modifiers {
		m.Modifiers[idx].FromDomain(&i.Modifiers[idx])
	}
}

// OrderItemModifierModel is the persistence model for line modifiers.
type OrderItemModifierModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ModifierID  *uuid.UUID      `gorm:"type:uuid"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:1"`
}

// TableName returns the table name for GORM
func (OrderItemModifierModel) TableName() string {
	return "order_item_modifiers"
}

// ToDomain converts the persistence model to a domain OrderItemModifier.
func (m *OrderItemModifierModel) ToDomain() *ordering.OrderItemModifier {
	return &ordering.OrderItemModifier{
		ID:          m.ID,
		OrderItemID: m.OrderItemID,
		ModifierID:  m.ModifierID,
		Name:        m.Name,
		Price:       m.Price,
		Quantity:    m.Quantity,
	}
}

// FromDomain populates the persistence model from a domain OrderItemModifier.
func (m *OrderItemModifierModel) FromDomain(mod *ordering.OrderItemModifier) {
	m.ID = mod.ID
	m.OrderItemID = mod.OrderItemID
	m.ModifierID = mod.ModifierID
	m.Name = mod.Name
	m.Price = mod.Price
	m.Quantity = mod.Quantity
}

// OrderDiscountModel is the persistence model for applied discounts.
type OrderDiscountModel struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key"`
	OrderID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	DiscountID     *uuid.UUID       `gorm:"type:uuid"`
	Name           string           `gorm:"type:varchar(200);not null"`
	Type           string           `gorm:"type:varchar(20);not null"`
	Value          decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	OverrideAmount *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CreatedAt      time.Time        `gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (OrderDiscountModel) TableName() string {
	return "order_discounts"
}

// ToDomain converts the persistence model to a domain OrderDiscount.
func (m *OrderDiscountModel) ToDomain() *ordering.OrderDiscount {
	return &ordering.OrderDiscount{
		ID:             m.ID,
		OrderID:        m.OrderID,
		DiscountID:     m.DiscountID,
		Name:           m.Name,
		Type:           m.Type,
		Value:          m.Value,
		OverrideAmount: m.OverrideAmount,
		CreatedAt:      m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderDiscount.
func (m *OrderDiscountModel) FromDomain(d *ordering.OrderDiscount) {
	m.ID = d.ID
	m.OrderID = d.OrderID
	m.DiscountID = d.DiscountID
	m.Name = d.Name
	m.Type = d.Type
	m.Value = d.Value
	m.OverrideAmount = d.OverrideAmount
	m.CreatedAt = d.CreatedAt
}

// PaymentModel is the persistence model for payments.
type PaymentModel struct {
	ID        uuid.UUID              `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Status    ordering.PaymentStatus `gorm:"type:varchar(20);not null"`
	Voided    bool                   `gorm:"not null;default:false"`
	CreatedAt time.Time              `gorm:"autoCreateTime"`
	UpdatedAt time.Time              `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment.
func (m *PaymentModel) ToDomain() *ordering.Payment {
	return &ordering.Payment{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Amount:    m.Amount,
		Status:    m.Status,
		Voided:    m.Voided,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Payment.
func (m *PaymentModel) FromDomain(p *ordering.Payment) {
	m.ID = p.ID
	m.OrderID = p.OrderID
	m.Amount = p.Amount
	m.Status = p.Status
	m.Voided = p.Voided
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}
