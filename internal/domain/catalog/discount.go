package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
)

// DiscountType represents how a discount definition computes its amount
type DiscountType string

const (
	// DiscountTypePercent deducts a percentage of the order subtotal
	DiscountTypePercent DiscountType = "PERCENT"
	// DiscountTypeFlat deducts a fixed amount
	DiscountTypeFlat DiscountType = "FLAT"
)

// IsValid returns true if the discount type is valid
func (t DiscountType) IsValid() bool {
	switch t {
	case DiscountTypePercent, DiscountTypeFlat:
		return true
	default:
		return false
	}
}

// String returns the string representation of DiscountType
func (t DiscountType) String() string {
	return string(t)
}

// Discount is a reusable discount definition
type Discount struct {
	shared.BaseEntity
	Name   string
	Type   DiscountType
	Value  decimal.Decimal // percentage points for PERCENT, amount for FLAT
	Active bool
}

// NewDiscount creates a new discount definition
func NewDiscount(name string, discountType DiscountType, value decimal.Decimal) (*Discount, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_NAME", "Discount name cannot be empty")
	}
	if !discountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Discount type must be PERCENT or FLAT")
	}
	if value.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Discount value cannot be negative")
	}
	return &Discount{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Type:       discountType,
		Value:      value,
		Active:     true,
	}, nil
}
