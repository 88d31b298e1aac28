package integration

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/domain/shared"
)

// ProviderService handles administrative CRUD for providers and their stores
type ProviderService struct {
	providerRepo integration.ProviderRepository
	storeRepo    integration.StoreRepository
}

// NewProviderService creates a new ProviderService
func NewProviderService(providerRepo integration.ProviderRepository, storeRepo integration.StoreRepository) *ProviderService {
	return &ProviderService{providerRepo: providerRepo, storeRepo: storeRepo}
}

// CreateProvider registers a new marketplace provider
func (s *ProviderService) CreateProvider(ctx context.Context, code integration.ProviderCode, name string, settings json.RawMessage) (*integration.Provider, error) {
	code = code.Normalize()
	if existing, err := s.providerRepo.FindByCode(ctx, code); err == nil && existing != nil {
		return nil, shared.NewDomainError("PROVIDER_EXISTS", "Provider with this code already exists")
	}
	provider, err := integration.NewProvider(code, name)
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &provider.Settings); err != nil {
			return nil, shared.NewDomainError("INVALID_SETTINGS", "Provider settings must be a JSON object")
		}
	}
	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

// GetProvider retrieves a provider by ID
func (s *ProviderService) GetProvider(ctx context.Context, id uuid.UUID) (*integration.Provider, error) {
	return s.providerRepo.FindByID(ctx, id)
}

// ListProviders returns all configured providers
func (s *ProviderService) ListProviders(ctx context.Context) ([]*integration.Provider, error) {
	return s.providerRepo.FindAll(ctx)
}

// UpdateProvider updates a provider's name, enabled flag, and settings
func (s *ProviderService) UpdateProvider(ctx context.Context, id uuid.UUID, name *string, enabled *bool, settings json.RawMessage) (*integration.Provider, error) {
	provider, err := s.providerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		provider.Name = *name
	}
	if enabled != nil {
		provider.Enabled = *enabled
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &provider.Settings); err != nil {
			return nil, shared.NewDomainError("INVALID_SETTINGS", "Provider settings must be a JSON object")
		}
	}
	if err := s.providerRepo.Save(ctx, provider); err != nil {
		return nil, err
	}
	return provider, nil
}

// DeleteProvider removes a provider
func (s *ProviderService) DeleteProvider(ctx context.Context, id uuid.UUID) error {
	if _, err := s.providerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.providerRepo.Delete(ctx, id)
}

// CreateStore maps a store under a provider
func (s *ProviderService) CreateStore(ctx context.Context, providerID uuid.UUID, merchantSuppliedID, name string, settings json.RawMessage) (*integration.Store, error) {
	if _, err := s.providerRepo.FindByID(ctx, providerID); err != nil {
		return nil, err
	}
	store, err := integration.NewStore(providerID, merchantSuppliedID, name)
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &store.Settings); err != nil {
			return nil, shared.NewDomainError("INVALID_SETTINGS", "Store settings must be a JSON object")
		}
	}
	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// GetStore retrieves a store by ID
func (s *ProviderService) GetStore(ctx context.Context, id uuid.UUID) (*integration.Store, error) {
	return s.storeRepo.FindByID(ctx, id)
}

// ListStores returns all stores for a provider
func (s *ProviderService) ListStores(ctx context.Context, providerID uuid.UUID) ([]*integration.Store, error) {
	return s.storeRepo.FindByProvider(ctx, providerID)
}

// UpdateStore updates a store's name and settings
func (s *ProviderService) UpdateStore(ctx context.Context, id uuid.UUID, name *string, settings json.RawMessage) (*integration.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		store.Name = *name
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &store.Settings); err != nil {
			return nil, shared.NewDomainError("INVALID_SETTINGS", "Store settings must be a JSON object")
		}
	}
	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

// DeleteStore removes a store mapping
func (s *ProviderService) DeleteStore(ctx context.Context, id uuid.UUID) error {
	if _, err := s.storeRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.storeRepo.Delete(ctx, id)
}
