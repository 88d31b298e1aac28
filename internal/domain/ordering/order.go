package ordering

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusOpen OrderStatus = "OPEN"
	OrderStatusSent OrderStatus = "SENT"
	OrderStatusHold OrderStatus = "HOLD"
	OrderStatusPaid OrderStatus = "PAID"
	OrderStatusVoid OrderStatus = "VOID"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusSent, OrderStatusHold, OrderStatusPaid, OrderStatusVoid:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses no mutation may leave
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusVoid
}

// OrderType represents how an order is fulfilled
type OrderType string

const (
	OrderTypeDineIn   OrderType = "DINE_IN"
	OrderTypeTakeout  OrderType = "TAKEOUT"
	OrderTypeDelivery OrderType = "DELIVERY"
)

// IsValid checks if the type is a valid OrderType
func (t OrderType) IsValid() bool {
	switch t {
	case OrderTypeDineIn, OrderTypeTakeout, OrderTypeDelivery:
		return true
	}
	return false
}

// String returns the string representation of OrderType
func (t OrderType) String() string {
	return string(t)
}

// OrderItemModifier is an option applied to an order line
type OrderItemModifier struct {
	ID          uuid.UUID
	OrderItemID uuid.UUID
	ModifierID  *uuid.UUID // nil for free-text modifiers
	Name        string
	Price       decimal.Decimal
	Quantity    decimal.Decimal
}

// Amount returns price multiplied by quantity
func (m *OrderItemModifier) Amount() decimal.Decimal {
	return m.Price.Mul(m.Quantity)
}

// OrderItem represents one line in an order. Price and tax rate are
// snapshots taken when the line was added.
type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Name       string
	UnitPrice  decimal.Decimal
	Quantity   decimal.Decimal
	TaxRate    decimal.Decimal // fraction, zero when the item carries no tax
	Taxable    bool            // tax was active when the line was added
	Modifiers  []OrderItemModifier
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewOrderItem creates a new order line
func NewOrderItem(orderID, menuItemID uuid.UUID, name string, unitPrice valueobject.Money, quantity decimal.Decimal) (*OrderItem, error) {
	if menuItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MENU_ITEM", "Menu item ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	now := time.Now()
	return &OrderItem{
		ID:         uuid.New(),
		OrderID:    orderID,
		MenuItemID: menuItemID,
		Name:       name,
		UnitPrice:  unitPrice.Amount(),
		Quantity:   quantity,
		Modifiers:  make([]OrderItemModifier, 0),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// SetTax records the tax snapshot for this line
func (i *OrderItem) SetTax(rate decimal.Decimal, active bool) {
	i.TaxRate = rate
	i.Taxable = active
	i.UpdatedAt = time.Now()
}

// AddModifier appends a modifier to this line
func (i *OrderItem) AddModifier(modifierID *uuid.UUID, name string, price, quantity decimal.Decimal) (*OrderItemModifier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_MODIFIER_NAME", "Modifier name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		quantity = decimal.NewFromInt(1)
	}
	mod := OrderItemModifier{
		ID:          uuid.New(),
		OrderItemID: i.ID,
		ModifierID:  modifierID,
		Name:        name,
		Price:       price,
		Quantity:    quantity,
	}
	i.Modifiers = append(i.Modifiers, mod)
	i.UpdatedAt = time.Now()
	return &i.Modifiers[len(i.Modifiers)-1], nil
}

// LineAmount returns unit price x quantity plus all modifier amounts
func (i *OrderItem) LineAmount() decimal.Decimal {
	line := i.UnitPrice.Mul(i.Quantity)
	for idx := range i.Modifiers {
		line = line.Add(i.Modifiers[idx].Amount())
	}
	return line
}

// TaxApplies returns true when this line accrues tax
func (i *OrderItem) TaxApplies() bool {
	return i.Taxable && i.TaxRate.IsPositive()
}

// OrderDiscount is a discount applied to an order: either an explicit
// override amount or a reference to a discount definition snapshot.
type OrderDiscount struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	DiscountID     *uuid.UUID
	Name           string
	Type           string // PERCENT or FLAT, snapshot of the definition
	Value          decimal.Decimal
	OverrideAmount *decimal.Decimal
	CreatedAt      time.Time
}

// AmountFor computes the discount amount against the given subtotal.
// An explicit override always wins over the referenced definition.
func (d *OrderDiscount) AmountFor(subtotal decimal.Decimal) decimal.Decimal {
	if d.OverrideAmount != nil {
		return *d.OverrideAmount
	}
	if d.Type == "PERCENT" {
		return subtotal.Mul(d.Value).Div(decimal.NewFromInt(100))
	}
	return d.Value
}

// PaymentStatus represents the state of a payment
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusCaptured PaymentStatus = "CAPTURED"
	PaymentStatusVoid     PaymentStatus = "VOID"
)

// Payment represents money tendered against an order
type Payment struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Amount    decimal.Decimal
	Status    PaymentStatus
	Voided    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CountsTowardPaid returns true when the payment contributes to the paid total
func (p *Payment) CountsTowardPaid() bool {
	return !p.Voided && p.Status != PaymentStatusVoid
}

// Order is the aggregate root for a POS order. All monetary fields below
// the parts (items, discounts, payments, charges) are derived and are
// recomputed by Recalculate; they are never authoritative inputs.
type Order struct {
	shared.BaseAggregateRoot
	OrderType      OrderType
	Status         OrderStatus
	CustomerName   string
	Notes          string
	TaxExempt      bool
	ServiceCharge  decimal.Decimal
	DeliveryCharge decimal.Decimal

	Items     []OrderItem
	Discounts []OrderDiscount
	Payments  []Payment

	// Derived fields, written only by Recalculate
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	Total         decimal.Decimal
	PaidTotal     decimal.Decimal
	DueTotal      decimal.Decimal
}

// NewOrder creates a new open order
func NewOrder(orderType OrderType) (*Order, error) {
	if !orderType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ORDER_TYPE", fmt.Sprintf("Unknown order type %q", orderType))
	}
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderType:         orderType,
		Status:            OrderStatusOpen,
		ServiceCharge:     decimal.Zero,
		DeliveryCharge:    decimal.Zero,
		Items:             make([]OrderItem, 0),
		Discounts:         make([]OrderDiscount, 0),
		Payments:          make([]Payment, 0),
	}, nil
}

// AddItem adds a new line to the order and recomputes totals
func (o *Order) AddItem(menuItemID uuid.UUID, name string, unitPrice valueobject.Money, quantity decimal.Decimal) (*OrderItem, error) {
	if o.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a void order")
	}
	item, err := NewOrderItem(o.ID, menuItemID, name, unitPrice, quantity)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	o.Recalculate()
	return &o.Items[len(o.Items)-1], nil
}

// RemoveItem removes a line from the order and recomputes totals
func (o *Order) RemoveItem(itemID uuid.UUID) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a void order")
	}
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.Recalculate()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// GetItem returns an item by its ID
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for idx := range o.Items {
		if o.Items[idx].ID == itemID {
			return &o.Items[idx]
		}
	}
	return nil
}

// AddModifier attaches a modifier to an existing line and recomputes totals
func (o *Order) AddModifier(itemID uuid.UUID, modifierID *uuid.UUID, name string, price, quantity decimal.Decimal) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a void order")
	}
	item := o.GetItem(itemID)
	if item == nil {
		return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
	}
	if _, err := item.AddModifier(modifierID, name, price, quantity); err != nil {
		return err
	}
	o.Recalculate()
	return nil
}

// ApplyDiscount applies a discount definition snapshot or an explicit override
func (o *Order) ApplyDiscount(discountID *uuid.UUID, name, discountType string, value decimal.Decimal, override *decimal.Decimal) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot discount a void order")
	}
	if override == nil && discountType != "PERCENT" && discountType != "FLAT" {
		return shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Discount type must be PERCENT or FLAT")
	}
	o.Discounts = append(o.Discounts, OrderDiscount{
		ID:             uuid.New(),
		OrderID:        o.ID,
		DiscountID:     discountID,
		Name:           name,
		Type:           discountType,
		Value:          value,
		OverrideAmount: override,
		CreatedAt:      time.Now(),
	})
	o.Recalculate()
	return nil
}

// RemoveDiscount removes an applied discount and recomputes totals
func (o *Order) RemoveDiscount(discountID uuid.UUID) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a void order")
	}
	for idx := range o.Discounts {
		if o.Discounts[idx].ID == discountID {
			o.Discounts = append(o.Discounts[:idx], o.Discounts[idx+1:]...)
			o.Recalculate()
			return nil
		}
	}
	return shared.NewDomainError("DISCOUNT_NOT_FOUND", "Applied discount not found")
}

// RecordPayment records a captured payment and recomputes totals
func (o *Order) RecordPayment(amount valueobject.Money) (*Payment, error) {
	if o.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot pay a void order")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}
	now := time.Now()
	o.Payments = append(o.Payments, Payment{
		ID:        uuid.New(),
		OrderID:   o.ID,
		Amount:    amount.Amount(),
		Status:    PaymentStatusCaptured,
		CreatedAt: now,
		UpdatedAt: now,
	})
	o.Recalculate()
	return &o.Payments[len(o.Payments)-1], nil
}

// VoidPayment voids a recorded payment and recomputes totals
func (o *Order) VoidPayment(paymentID uuid.UUID) error {
	for idx := range o.Payments {
		if o.Payments[idx].ID == paymentID {
			o.Payments[idx].Voided = true
			o.Payments[idx].Status = PaymentStatusVoid
			o.Payments[idx].UpdatedAt = time.Now()
			o.Recalculate()
			return nil
		}
	}
	return shared.NewDomainError("PAYMENT_NOT_FOUND", "Payment not found")
}

// SetCharges updates the service and delivery charges and recomputes totals
func (o *Order) SetCharges(serviceCharge, deliveryCharge decimal.Decimal) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a void order")
	}
	if serviceCharge.IsNegative() || deliveryCharge.IsNegative() {
		return shared.NewDomainError("INVALID_CHARGE", "Charges cannot be negative")
	}
	o.ServiceCharge = serviceCharge
	o.DeliveryCharge = deliveryCharge
	o.Recalculate()
	return nil
}

// SetTaxExempt toggles tax exemption and recomputes totals
func (o *Order) SetTaxExempt(exempt bool) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a void order")
	}
	o.TaxExempt = exempt
	o.Recalculate()
	return nil
}

// Send marks the order as sent to the kitchen
func (o *Order) Send() error {
	if o.Status != OrderStatusOpen && o.Status != OrderStatusHold {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send order in %s status", o.Status))
	}
	o.Status = OrderStatusSent
	o.Touch()
	return nil
}

// Hold parks the order
func (o *Order) Hold() error {
	if o.Status != OrderStatusOpen {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot hold order in %s status", o.Status))
	}
	o.Status = OrderStatusHold
	o.Touch()
	return nil
}

// Void voids the order. VOID is terminal; a void order never changes again.
func (o *Order) Void() {
	o.Status = OrderStatusVoid
	o.Touch()
}

// IsVoid returns true if the order is void
func (o *Order) IsVoid() bool {
	return o.Status == OrderStatusVoid
}

// Recalculate recomputes every derived field from the order's parts.
// It is the last step of every mutation; stored totals are never trusted.
func (o *Order) Recalculate() {
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for idx := range o.Items {
		line := o.Items[idx].LineAmount()
		subtotal = subtotal.Add(line)
		if !o.TaxExempt && o.Items[idx].TaxApplies() {
			taxTotal = taxTotal.Add(line.Mul(o.Items[idx].TaxRate))
		}
	}

	discountTotal := decimal.Zero
	for idx := range o.Discounts {
		discountTotal = discountTotal.Add(o.Discounts[idx].AmountFor(subtotal))
	}

	paidTotal := decimal.Zero
	for idx := range o.Payments {
		if o.Payments[idx].CountsTowardPaid() {
			paidTotal = paidTotal.Add(o.Payments[idx].Amount)
		}
	}

	o.Subtotal = valueobject.RoundCents(subtotal)
	o.TaxTotal = valueobject.RoundCents(taxTotal)
	o.DiscountTotal = valueobject.RoundCents(discountTotal)
	o.PaidTotal = valueobject.RoundCents(paidTotal)
	o.Total = valueobject.RoundCents(o.Subtotal.Sub(o.DiscountTotal).Add(o.TaxTotal).Add(o.ServiceCharge).Add(o.DeliveryCharge))
	o.DueTotal = o.Total.Sub(o.PaidTotal)

	o.deriveStatus()
	o.IncrementVersion()
	o.Touch()
}

// deriveStatus applies the settlement state machine. VOID is terminal.
// Fully paid orders with a positive total become PAID; a PAID order whose
// due amount climbed back above zero reverts to OPEN; every other status
// (OPEN, SENT, HOLD) is preserved.
func (o *Order) deriveStatus() {
	if o.Status == OrderStatusVoid {
		return
	}
	switch {
	case o.DueTotal.LessThanOrEqual(decimal.Zero) && o.Total.IsPositive():
		o.Status = OrderStatusPaid
	case o.Status == OrderStatusPaid:
		o.Status = OrderStatusOpen
	}
}
