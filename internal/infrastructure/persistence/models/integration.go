package models

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/domain/ordering"
)

// ProviderModel is the persistence model for marketplace providers.
// Settings is a JSON blob; unknown keys written by the provider console
// survive round trips through the domain's passthrough marshaling.
type ProviderModel struct {
	AggregateModel
	Code     integration.ProviderCode `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name     string                   `gorm:"type:varchar(200);not null"`
	Enabled  bool                     `gorm:"not null;default:true"`
	Settings string                   `gorm:"type:jsonb;not null;default:'{}'"`
}

// TableName returns the table name for GORM
func (ProviderModel) TableName() string {
	return "integration_providers"
}

// ToDomain converts the persistence model to a domain Provider aggregate.
func (m *ProviderModel) ToDomain() (*integration.Provider, error) {
	p := &integration.Provider{
		Code:    m.Code,
		Name:    m.Name,
		Enabled: m.Enabled,
	}
	m.PopulateAggregateRoot(&p.BaseAggregateRoot)
	if m.Settings != "" {
		if err := json.Unmarshal([]byte(m.Settings), &p.Settings); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// FromDomain populates the persistence model from a domain Provider aggregate.
func (m *ProviderModel) FromDomain(p *integration.Provider) error {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.Enabled = p.Enabled
	settings, err := json.Marshal(p.Settings)
	if err != nil {
		return err
	}
	m.Settings = string(settings)
	return nil
}

// StoreModel is the persistence model for provider store mappings.
type StoreModel struct {
	AggregateModel
	ProviderID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_stores_provider_merchant"`
	MerchantSuppliedID string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_stores_provider_merchant"`
	Name               string    `gorm:"type:varchar(200)"`
	Settings           string    `gorm:"type:jsonb;not null;default:'{}'"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "integration_stores"
}

// ToDomain converts the persistence model to a domain Store aggregate.
func (m *StoreModel) ToDomain() (*integration.Store, error) {
	s := &integration.Store{
		ProviderID:         m.ProviderID,
		MerchantSuppliedID: m.MerchantSuppliedID,
		Name:               m.Name,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	if m.Settings != "" {
		if err := json.Unmarshal([]byte(m.Settings), &s.Settings); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// FromDomain populates the persistence model from a domain Store aggregate.
func (m *StoreModel) FromDomain(s *integration.Store) error {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.ProviderID = s.ProviderID
	m.MerchantSuppliedID = s.MerchantSuppliedID
	m.Name = s.Name
	settings, err := json.Marshal(s.Settings)
	if err != nil {
		return err
	}
	m.Settings = string(settings)
	return nil
}

// IntegrationOrderModel is the persistence model for the external order
// registry. The unique index on (provider_id, external_id) backs the
// exactly-one-row guarantee for each marketplace order.
type IntegrationOrderModel struct {
	AggregateModel
	ProviderID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_integration_orders_provider_external"`
	StoreID    *uuid.UUID         `gorm:"type:uuid;index"`
	ExternalID string             `gorm:"type:varchar(100);not null;uniqueIndex:idx_integration_orders_provider_external"`
	DisplayID  string             `gorm:"type:varchar(100)"`
	OrderType  ordering.OrderType `gorm:"type:varchar(20)"`
	Status     string             `gorm:"type:varchar(50);index"`
	Payload    string             `gorm:"type:text"`
	PosOrderID *uuid.UUID         `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (IntegrationOrderModel) TableName() string {
	return "integration_orders"
}

// ToDomain converts the persistence model to a domain IntegrationOrder aggregate.
func (m *IntegrationOrderModel) ToDomain() *integration.IntegrationOrder {
	o := &integration.IntegrationOrder{
		ProviderID: m.ProviderID,
		StoreID:    m.StoreID,
		ExternalID: m.ExternalID,
		DisplayID:  m.DisplayID,
		OrderType:  m.OrderType,
		Status:     m.Status,
		Payload:    m.Payload,
		PosOrderID: m.PosOrderID,
	}
	m.PopulateAggregateRoot(&o.BaseAggregateRoot)
	return o
}

// FromDomain populates the persistence model from a domain IntegrationOrder aggregate.
func (m *IntegrationOrderModel) FromDomain(o *integration.IntegrationOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.ProviderID = o.ProviderID
	m.StoreID = o.StoreID
	m.ExternalID = o.ExternalID
	m.DisplayID = o.DisplayID
	m.OrderType = o.OrderType
	m.Status = o.Status
	m.Payload = o.Payload
	m.PosOrderID = o.PosOrderID
}

// IntegrationOrderModelFromDomain creates a new persistence model from a domain aggregate.
func IntegrationOrderModelFromDomain(o *integration.IntegrationOrder) *IntegrationOrderModel {
	m := &IntegrationOrderModel{}
	m.FromDomain(o)
	return m
}

// KitchenTicketModel is the persistence model for kitchen dispatch tickets.
// The unique order_id index backs the at-most-once dispatch guard.
type KitchenTicketModel struct {
	BaseModel
	OrderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (KitchenTicketModel) TableName() string {
	return "kitchen_tickets"
}

// ToDomain converts the persistence model to a domain KitchenTicket.
func (m *KitchenTicketModel) ToDomain() *integration.KitchenTicket {
	return &integration.KitchenTicket{
		BaseEntity: m.BaseModel.ToDomain(),
		OrderID:    m.OrderID,
	}
}

// FromDomain populates the persistence model from a domain KitchenTicket.
func (m *KitchenTicketModel) FromDomain(t *integration.KitchenTicket) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.OrderID = t.OrderID
}
