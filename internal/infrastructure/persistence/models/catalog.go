package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/catalog"
)

// TaxModel is the persistence model for tax definitions.
type TaxModel struct {
	BaseModel
	Name   string          `gorm:"type:varchar(100);not null"`
	Rate   decimal.Decimal `gorm:"type:decimal(8,6);not null;default:0"`
	Active bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (TaxModel) TableName() string {
	return "taxes"
}

// ToDomain converts the persistence model to a domain Tax entity.
func (m *TaxModel) ToDomain() *catalog.Tax {
	return &catalog.Tax{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Rate:       m.Rate,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain Tax entity.
func (m *TaxModel) FromDomain(t *catalog.Tax) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Name = t.Name
	m.Rate = t.Rate
	m.Active = t.Active
}

// CategoryModel is the persistence model for menu categories.
type CategoryModel struct {
	BaseModel
	Name      string           `gorm:"type:varchar(200);not null"`
	SortOrder int              `gorm:"not null;default:0"`
	Groups    []MenuGroupModel `gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "menu_categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	c := &catalog.Category{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		SortOrder:  m.SortOrder,
		Groups:     make([]catalog.MenuGroup, len(m.Groups)),
	}
	for i, g := range m.Groups {
		c.Groups[i] = *g.ToDomain()
	}
	return c
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.SortOrder = c.SortOrder
	m.Groups = make([]MenuGroupModel, len(c.Groups))
	for i := range c.Groups {
		m.Groups[i].FromDomain(&c.Groups[i])
	}
}

// MenuGroupModel is the persistence model for menu groups.
type MenuGroupModel struct {
	BaseModel
	CategoryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name       string    `gorm:"type:varchar(200);not null"`
	SortOrder  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (MenuGroupModel) TableName() string {
	return "menu_groups"
}

// ToDomain converts the persistence model to a domain MenuGroup entity.
func (m *MenuGroupModel) ToDomain() *catalog.MenuGroup {
	return &catalog.MenuGroup{
		BaseEntity: m.BaseModel.ToDomain(),
		CategoryID: m.CategoryID,
		Name:       m.Name,
		SortOrder:  m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain MenuGroup entity.
func (m *MenuGroupModel) FromDomain(g *catalog.MenuGroup) {
	m.FromDomainBaseEntity(g.BaseEntity)
	m.CategoryID = g.CategoryID
	m.Name = g.Name
	m.SortOrder = g.SortOrder
}

// ModifierGroupModel is the persistence model for modifier groups.
type ModifierGroupModel struct {
	BaseModel
	Name      string          `gorm:"type:varchar(200);not null"`
	MinSelect int             `gorm:"not null;default:0"`
	MaxSelect int             `gorm:"not null;default:0"`
	Modifiers []ModifierModel `gorm:"foreignKey:GroupID;references:ID"`
}

// TableName returns the table name for GORM
func (ModifierGroupModel) TableName() string {
	return "modifier_groups"
}

// ToDomain converts the persistence model to a domain ModifierGroup entity.
func (m *ModifierGroupModel) ToDomain() *catalog.ModifierGroup {
	g := &catalog.ModifierGroup{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		MinSelect:  m.MinSelect,
		MaxSelect:  m.MaxSelect,
		Modifiers:  make([]catalog.Modifier, len(m.Modifiers)),
	}
	for i, mod := range m.Modifiers {
		g.Modifiers[i] = *mod.ToDomain()
	}
	return g
}

// FromDomain populates the persistence model from a domain ModifierGroup entity.
func (m *ModifierGroupModel) FromDomain(g *catalog.ModifierGroup) {
	m.FromDomainBaseEntity(g.BaseEntity)
	m.Name = g.Name
	m.MinSelect = g.MinSelect
	m.MaxSelect = g.MaxSelect
	m.Modifiers = make([]ModifierModel, len(g.Modifiers))
	for i := range g.Modifiers {
		m.Modifiers[i].FromDomain(&g.Modifiers[i])
	}
}

// ModifierModel is the persistence model for modifiers.
type ModifierModel struct {
	BaseModel
	GroupID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name    string          `gorm:"type:varchar(200);not null"`
	Price   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ModifierModel) TableName() string {
	return "modifiers"
}

// ToDomain converts the persistence model to a domain Modifier entity.
func (m *ModifierModel) ToDomain() *catalog.Modifier {
	return &catalog.Modifier{
		BaseEntity: m.BaseModel.ToDomain(),
		GroupID:    m.GroupID,
		Name:       m.Name,
		Price:      m.Price,
	}
}

// FromDomain populates the persistence model from a domain Modifier entity.
func (m *ModifierModel) FromDomain(mod *catalog.Modifier) {
	m.FromDomainBaseEntity(mod.BaseEntity)
	m.GroupID = mod.GroupID
	m.Name = mod.Name
	m.Price = mod.Price
}

// MenuItemModel is the persistence model for menu items.
type MenuItemModel struct {
	BaseModel
	Name           string               `gorm:"type:varchar(200);not null;index"`
	SKU            string               `gorm:"type:varchar(50);index"`
	Barcode        string               `gorm:"type:varchar(50);index"`
	Price          decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Visible        bool                 `gorm:"not null;default:true;index"`
	CategoryID     *uuid.UUID           `gorm:"type:uuid;index"`
	GroupID        *uuid.UUID           `gorm:"type:uuid;index"`
	TaxID          *uuid.UUID           `gorm:"type:uuid;index"`
	Tax            *TaxModel            `gorm:"foreignKey:TaxID;references:ID"`
	ModifierGroups []ModifierGroupModel `gorm:"many2many:menu_item_modifier_groups"`
}

// TableName returns the table name for GORM
func (MenuItemModel) TableName() string {
	return "menu_items"
}

// ToDomain converts the persistence model to a domain MenuItem entity.
func (m *MenuItemModel) ToDomain() *catalog.MenuItem {
	item := &catalog.MenuItem{
		BaseEntity:     m.BaseModel.ToDomain(),
		Name:           m.Name,
		SKU:            m.SKU,
		Barcode:        m.Barcode,
		Price:          m.Price,
		Visible:        m.Visible,
		CategoryID:     m.CategoryID,
		GroupID:        m.GroupID,
		TaxID:          m.TaxID,
		ModifierGroups: make([]catalog.ModifierGroup, len(m.ModifierGroups)),
	}
	if m.Tax != nil {
		item.Tax = m.Tax.ToDomain()
	}
	for i, g := range m.ModifierGroups {
		item.ModifierGroups[i] = *g.ToDomain()
	}
	return item
}

// FromDomain populates the persistence model from a domain MenuItem entity.
func (m *MenuItemModel) FromDomain(i *catalog.MenuItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.Name = i.Name
	m.SKU = i.SKU
	m.Barcode = i.Barcode
	m.Price = i.Price
	m.Visible = i.Visible
	m.CategoryID = i.CategoryID
	m.GroupID = i.GroupID
	m.TaxID = i.TaxID
	m.ModifierGroups = make([]ModifierGroupModel, len(i.ModifierGroups))
	for idx := range i.ModifierGroups {
		m.ModifierGroups[idx].FromDomain(&i.ModifierGroups[idx])
	}
}

// MenuItemModelFromDomain creates a new persistence model from a domain MenuItem entity.
func MenuItemModelFromDomain(i *catalog.MenuItem) *MenuItemModel {
	m := &MenuItemModel{}
	m.FromDomain(i)
	return m
}

// DiscountModel is the persistence model for discount definitions.
type DiscountModel struct {
	BaseModel
	Name   string               `gorm:"type:varchar(200);not null"`
	Type   catalog.DiscountType `gorm:"type:varchar(20);not null"`
	Value  decimal.Decimal      `gorm:"type:decimal(18,4);not null;default:0"`
	Active bool                 `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (DiscountModel) TableName() string {
	return "discounts"
}

// ToDomain converts the persistence model to a domain Discount entity.
func (m *DiscountModel) ToDomain() *catalog.Discount {
	return &catalog.Discount{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Type:       m.Type,
		Value:      m.Value,
		Active:     m.Active,
	}
}

// FromDomain populates the persistence model from a domain Discount entity.
func (m *DiscountModel) FromDomain(d *catalog.Discount) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.Name = d.Name
	m.Type = d.Type
	m.Value = d.Value
	m.Active = d.Active
}
