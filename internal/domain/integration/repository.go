package integration

import (
	"context"

	"github.com/google/uuid"
)

// ProviderRepository persists marketplace provider configurations
type ProviderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Provider, error)
	FindByCode(ctx context.Context, code ProviderCode) (*Provider, error)
	FindAll(ctx context.Context) ([]*Provider, error)
	Save(ctx context.Context, provider *Provider) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StoreRepository persists provider store mappings
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)
	// FindByMerchantSuppliedID resolves the store a webhook addresses.
	// Returns ErrStoreNotMapped when no mapping exists.
	FindByMerchantSuppliedID(ctx context.Context, providerID uuid.UUID, merchantSuppliedID string) (*Store, error)
	FindByProvider(ctx context.Context, providerID uuid.UUID) ([]*Store, error)
	Save(ctx context.Context, store *Store) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// IntegrationOrderRepository persists the external order registry.
// (provider_id, external_id) is unique; Create surfaces a conflict as
// ErrDuplicateExternalOrder so the caller can fall back to an update.
type IntegrationOrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*IntegrationOrder, error)
	FindByExternalID(ctx context.Context, providerID uuid.UUID, externalID string) (*IntegrationOrder, error)
	FindByPosOrderID(ctx context.Context, posOrderID uuid.UUID) (*IntegrationOrder, error)
	Create(ctx context.Context, order *IntegrationOrder) error
	Save(ctx context.Context, order *IntegrationOrder) error
}

// KitchenTicketRepository persists kitchen dispatch tickets
type KitchenTicketRepository interface {
	// ExistsForOrder reports whether a ticket was already cut for the order
	ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
	Save(ctx context.Context, ticket *KitchenTicket) error
}
