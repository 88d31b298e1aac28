package integration

import (
	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/ordering"
	"github.com/pos/backend/internal/domain/shared"
)

// Well-known registry statuses recorded by the event router. Everything
// else is provider-reported and stored verbatim.
const (
	ExternalOrderStatusReleased  = "RELEASED"
	ExternalOrderStatusCancelled = "CANCELLED"
)

// IntegrationOrder is the registry row binding one marketplace order to one
// POS order. It is unique on (ProviderID, ExternalID). PosOrderID is set at
// most once and never reassigned.
type IntegrationOrder struct {
	shared.BaseAggregateRoot
	ProviderID uuid.UUID
	StoreID    *uuid.UUID
	ExternalID string
	DisplayID  string
	OrderType  ordering.OrderType
	// Status is the provider-reported status, recorded verbatim
	Status string
	// Payload is the last-seen raw event body
	Payload    string
	PosOrderID *uuid.UUID
}

// NewIntegrationOrder creates a registry row on first sighting of an external ID
func NewIntegrationOrder(providerID uuid.UUID, externalID, status, payload string) (*IntegrationOrder, error) {
	if providerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider ID cannot be empty")
	}
	if externalID == "" {
		return nil, shared.NewDomainError("INVALID_EXTERNAL_ID", "External ID cannot be empty")
	}
	return &IntegrationOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProviderID:        providerID,
		ExternalID:        externalID,
		Status:            status,
		Payload:           payload,
	}, nil
}

// BindPosOrder records the POS order created for this external order.
// The binding is immutable once set.
func (o *IntegrationOrder) BindPosOrder(posOrderID uuid.UUID) error {
	if o.PosOrderID != nil {
		return ErrPosOrderAlreadyBound
	}
	if posOrderID == uuid.Nil {
		return shared.NewDomainError("INVALID_ORDER", "POS order ID cannot be empty")
	}
	o.PosOrderID = &posOrderID
	o.Touch()
	return nil
}

// RecordEvent updates the mutable fields from a subsequent event for the
// same external ID. The POS binding is never touched here.
func (o *IntegrationOrder) RecordEvent(status, displayID, payload string) {
	if status != "" {
		o.Status = status
	}
	if displayID != "" {
		o.DisplayID = displayID
	}
	if payload != "" {
		o.Payload = payload
	}
	o.Touch()
}

// HasPosOrder returns true once a POS order has been bound
func (o *IntegrationOrder) HasPosOrder() bool {
	return o.PosOrderID != nil
}
