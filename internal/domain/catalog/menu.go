package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
)

// Category is the top level of the menu hierarchy
type Category struct {
	shared.BaseEntity
	Name      string
	SortOrder int
	Groups    []MenuGroup
}

// NewCategory creates a new menu category
func NewCategory(name string, sortOrder int) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot be empty")
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		SortOrder:  sortOrder,
	}, nil
}

// MenuGroup groups items within a category
type MenuGroup struct {
	shared.BaseEntity
	CategoryID uuid.UUID
	Name       string
	SortOrder  int
}

// NewMenuGroup creates a new menu group within a category
func NewMenuGroup(categoryID uuid.UUID, name string, sortOrder int) (*MenuGroup, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_GROUP_NAME", "Group name cannot be empty")
	}
	return &MenuGroup{
		BaseEntity: shared.NewBaseEntity(),
		CategoryID: categoryID,
		Name:       name,
		SortOrder:  sortOrder,
	}, nil
}

// ModifierGroup is a set of selectable options attached to menu items
type ModifierGroup struct {
	shared.BaseEntity
	Name      string
	MinSelect int
	MaxSelect int
	Modifiers []Modifier
}

// Modifier is a selectable option with an optional price delta
type Modifier struct {
	shared.BaseEntity
	GroupID uuid.UUID
	Name    string
	Price   decimal.Decimal
}

// NewModifier creates a new modifier within a group
func NewModifier(groupID uuid.UUID, name string, price decimal.Decimal) (*Modifier, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_MODIFIER_NAME", "Modifier name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_MODIFIER_PRICE", "Modifier price cannot be negative")
	}
	return &Modifier{
		BaseEntity: shared.NewBaseEntity(),
		GroupID:    groupID,
		Name:       name,
		Price:      price,
	}, nil
}
