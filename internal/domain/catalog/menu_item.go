package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
)

// PlaceholderItemName is the designated catalog entry used when an external
// order line cannot be resolved to a real item. It is hidden and zero-priced
// so resolution never fails and never changes a total on its own.
const PlaceholderItemName = "Online Order Item"

// Tax represents a tax definition applied to menu items
type Tax struct {
	shared.BaseEntity
	Name   string
	Rate   decimal.Decimal // fraction, e.g. 0.08 for 8%
	Active bool
}

// NewTax creates a new tax definition
func NewTax(name string, rate decimal.Decimal) (*Tax, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TAX_NAME", "Tax name cannot be empty")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	return &Tax{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Rate:       rate,
		Active:     true,
	}, nil
}

// Applies returns true if this tax contributes to an order total
func (t *Tax) Applies() bool {
	return t.Active && t.Rate.IsPositive()
}

// MenuItem represents a sellable catalog entry
type MenuItem struct {
	shared.BaseEntity
	Name       string
	SKU        string
	Barcode    string
	Price      decimal.Decimal
	Visible    bool
	CategoryID *uuid.UUID
	GroupID    *uuid.UUID
	TaxID      *uuid.UUID
	Tax        *Tax
	// ModifierGroups are the option groups selectable for this item
	ModifierGroups []ModifierGroup
}

// NewMenuItem creates a new menu item
func NewMenuItem(name string, price decimal.Decimal) (*MenuItem, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Menu item name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ITEM_PRICE", "Menu item price cannot be negative")
	}
	return &MenuItem{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Price:      price,
		Visible:    true,
	}, nil
}

// NewPlaceholderItem creates the hidden, zero-priced placeholder entry
func NewPlaceholderItem() *MenuItem {
	return &MenuItem{
		BaseEntity: shared.NewBaseEntity(),
		Name:       PlaceholderItemName,
		Price:      decimal.Zero,
		Visible:    false,
	}
}

// IsPlaceholder returns true if this item is the placeholder entry
func (i *MenuItem) IsPlaceholder() bool {
	return strings.EqualFold(i.Name, PlaceholderItemName)
}

// TaxApplies returns true if the item's tax contributes to order totals
func (i *MenuItem) TaxApplies() bool {
	return i.Tax != nil && i.Tax.Applies()
}
