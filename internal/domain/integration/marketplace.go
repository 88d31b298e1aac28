package integration

import (
	"context"
	"encoding/json"
)

// MenuExport is the marketplace's nested menu schema:
// store -> menus -> categories -> items -> option_groups -> options.
// Prices are integer minor units (cents).
type MenuExport struct {
	Store StoreExport  `json:"store"`
	Menus []MenuEntry  `json:"menus"`
}

// StoreExport identifies the target store on the provider side
type StoreExport struct {
	MerchantSuppliedID string `json:"merchant_supplied_id"`
	ProviderType       string `json:"provider_type"`
}

// MenuEntry is one named menu with hours and categories
type MenuEntry struct {
	Name       string           `json:"name"`
	Active     bool             `json:"active"`
	OpenHours  []OpenHoursEntry `json:"open_hours"`
	Categories []CategoryExport `json:"categories"`
}

// OpenHoursEntry is one opening window within the week
type OpenHoursEntry struct {
	DayIndex  string `json:"day_index"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CategoryExport is one menu category with its items
type CategoryExport struct {
	Name   string       `json:"name"`
	SortID int          `json:"sort_id"`
	Items  []ItemExport `json:"items"`
}

// ItemExport is one sellable item
type ItemExport struct {
	Name               string              `json:"name"`
	MerchantSuppliedID string              `json:"merchant_supplied_id"`
	Price              int64               `json:"price"`
	Active             bool                `json:"active"`
	SortID             int                 `json:"sort_id"`
	OptionGroups       []OptionGroupExport `json:"option_groups,omitempty"`
}

// OptionGroupExport is a set of selectable options for an item
type OptionGroupExport struct {
	Name               string         `json:"name"`
	MerchantSuppliedID string         `json:"merchant_supplied_id"`
	MinNumOptions      int            `json:"min_num_options"`
	MaxNumOptions      int            `json:"max_num_options"`
	Options            []OptionExport `json:"options"`
}

// OptionExport is one selectable option
type OptionExport struct {
	Name               string `json:"name"`
	MerchantSuppliedID string `json:"merchant_supplied_id"`
	Price              int64  `json:"price"`
}

// Marketplace is the port to a delivery marketplace's API. Implementations
// live in the infrastructure layer. Calls are blocking with a bounded
// timeout; transport failures propagate to the caller unretried.
type Marketplace interface {
	// ProviderCode returns the marketplace this adapter handles
	ProviderCode() ProviderCode

	// PushMenu uploads the menu for a store and returns the remote menu ID
	PushMenu(ctx context.Context, provider *Provider, store *Store, menu *MenuExport) (string, error)

	// GetStoreSettings reads the store's settings on the provider side
	GetStoreSettings(ctx context.Context, provider *Provider, store *Store) (map[string]json.RawMessage, error)

	// UpdateStoreSettings writes store settings on the provider side
	UpdateStoreSettings(ctx context.Context, provider *Provider, store *Store, settings map[string]json.RawMessage) error
}

// MarketplaceRegistry resolves the adapter for a provider code
type MarketplaceRegistry interface {
	Get(code ProviderCode) (Marketplace, error)
}
