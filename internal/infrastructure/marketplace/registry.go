package marketplace

import (
	"github.com/pos/backend/internal/domain/integration"
)

// Registry is a static lookup of marketplace adapters by provider code
type Registry struct {
	adapters map[integration.ProviderCode]integration.Marketplace
}

// NewRegistry creates a registry over the given adapters
func NewRegistry(adapters ...integration.Marketplace) *Registry {
	r := &Registry{adapters: make(map[integration.ProviderCode]integration.Marketplace, len(adapters))}
	for _, adapter := range adapters {
		r.adapters[adapter.ProviderCode().Normalize()] = adapter
	}
	return r
}

// Get resolves the adapter for a provider code
func (r *Registry) Get(code integration.ProviderCode) (integration.Marketplace, error) {
	adapter, ok := r.adapters[code.Normalize()]
	if !ok {
		return nil, integration.ErrProviderNotConfigured
	}
	return adapter, nil
}

// Ensure Registry implements the registry port
var _ integration.MarketplaceRegistry = (*Registry)(nil)
