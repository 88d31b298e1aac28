package integration

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/shared"
)

// storeSettingsKnown mirrors the explicitly modeled store settings fields
type storeSettingsKnown struct {
	Version        int        `json:"version,omitempty"`
	RemoteMenuID   string     `json:"remote_menu_id,omitempty"`
	LastSyncStatus string     `json:"last_sync_status,omitempty"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
}

// StoreSettings is the store-level configuration blob, same passthrough
// contract as ProviderSettings.
type StoreSettings struct {
	Version        int
	RemoteMenuID   string
	LastSyncStatus string
	LastSyncAt     *time.Time
	Extra          map[string]json.RawMessage
}

// UnmarshalJSON decodes known fields and keeps every other key in Extra
func (s *StoreSettings) UnmarshalJSON(data []byte) error {
	var known storeSettingsKnown
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range []string{"version", "remote_menu_id", "last_sync_status", "last_sync_at"} {
		delete(raw, key)
	}
	s.Version = known.Version
	s.RemoteMenuID = known.RemoteMenuID
	s.LastSyncStatus = known.LastSyncStatus
	s.LastSyncAt = known.LastSyncAt
	if len(raw) > 0 {
		s.Extra = raw
	} else {
		s.Extra = nil
	}
	return nil
}

// MarshalJSON encodes known fields merged with the passthrough keys
func (s StoreSettings) MarshalJSON() ([]byte, error) {
	knownJSON, err := json.Marshal(storeSettingsKnown{
		Version:        s.Version,
		RemoteMenuID:   s.RemoteMenuID,
		LastSyncStatus: s.LastSyncStatus,
		LastSyncAt:     s.LastSyncAt,
	})
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return knownJSON, nil
	}
	merged := make(map[string]json.RawMessage, len(s.Extra)+4)
	if err := json.Unmarshal(knownJSON, &merged); err != nil {
		return nil, err
	}
	for k, v := range s.Extra {
		if _, exists := merged[k]; !exists {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// Store binds one physical location to its record on a provider
type Store struct {
	shared.BaseAggregateRoot
	ProviderID uuid.UUID
	// MerchantSuppliedID is the store key on the provider side
	MerchantSuppliedID string
	Name               string
	Settings           StoreSettings
}

// NewStore creates a new provider store mapping
func NewStore(providerID uuid.UUID, merchantSuppliedID, name string) (*Store, error) {
	if providerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider ID cannot be empty")
	}
	if merchantSuppliedID == "" {
		return nil, shared.NewDomainError("INVALID_STORE_KEY", "Merchant supplied ID cannot be empty")
	}
	return &Store{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		ProviderID:         providerID,
		MerchantSuppliedID: merchantSuppliedID,
		Name:               name,
	}, nil
}

// RecordMenuSync stores the outcome of a menu push
func (s *Store) RecordMenuSync(remoteMenuID, status string) {
	now := time.Now()
	if remoteMenuID != "" {
		s.Settings.RemoteMenuID = remoteMenuID
	}
	s.Settings.LastSyncStatus = status
	s.Settings.LastSyncAt = &now
	s.UpdatedAt = now
}
