package integration

import (
	"encoding/json"
	"strings"

	"github.com/pos/backend/internal/domain/shared"
)

// ProviderCode identifies a delivery marketplace
type ProviderCode string

const (
	// ProviderCodeDoorDash represents the DoorDash marketplace
	ProviderCodeDoorDash ProviderCode = "DOORDASH"
	// ProviderCodeUberEats represents the Uber Eats marketplace
	ProviderCodeUberEats ProviderCode = "UBEREATS"
	// ProviderCodeGrubhub represents the Grubhub marketplace
	ProviderCodeGrubhub ProviderCode = "GRUBHUB"
)

// String returns the string representation of ProviderCode
func (c ProviderCode) String() string {
	return string(c)
}

// Normalize upper-cases and trims a raw provider code
func (c ProviderCode) Normalize() ProviderCode {
	return ProviderCode(strings.ToUpper(strings.TrimSpace(string(c))))
}

// BusinessDay describes opening hours for one day of the week
type BusinessDay struct {
	Day   string `json:"day"` // MON..SUN
	Open  string `json:"open"`
	Close string `json:"close"`
}

// AlwaysOpenWeek returns a 7-day schedule covering the whole day.
// Used when a provider has no configured business hours.
func AlwaysOpenWeek() []BusinessDay {
	days := []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}
	week := make([]BusinessDay, 0, len(days))
	for _, d := range days {
		week = append(week, BusinessDay{Day: d, Open: "00:00", Close: "23:59"})
	}
	return week
}

// providerSettingsKnown mirrors the explicitly modeled settings fields
type providerSettingsKnown struct {
	Version       int           `json:"version,omitempty"`
	SigningSecret string        `json:"signing_secret,omitempty"`
	DeveloperID   string        `json:"developer_id,omitempty"`
	KeyID         string        `json:"key_id,omitempty"`
	MenuName      string        `json:"menu_name,omitempty"`
	BusinessHours []BusinessDay `json:"business_hours,omitempty"`
}

// ProviderSettings is the provider-level configuration blob. Known fields
// are explicit; unrecognized keys survive a read-modify-write round trip
// through Extra so newer cloud consoles can store keys we do not model yet.
type ProviderSettings struct {
	Version       int
	SigningSecret string // base64-encoded shared secret for request signing
	DeveloperID   string
	KeyID         string
	MenuName      string
	BusinessHours []BusinessDay
	Extra         map[string]json.RawMessage
}

// Hours returns the configured business hours, defaulting to an always-open week
func (s *ProviderSettings) Hours() []BusinessDay {
	if len(s.BusinessHours) == 0 {
		return AlwaysOpenWeek()
	}
	return s.BusinessHours
}

// HasSigningCredentials returns true when outbound requests can be signed
func (s *ProviderSettings) HasSigningCredentials() bool {
	return s.SigningSecret != "" && s.DeveloperID != "" && s.KeyID != ""
}

// UnmarshalJSON decodes known fields and keeps every other key in Extra
func (s *ProviderSettings) UnmarshalJSON(data []byte) error {
	var known providerSettingsKnown
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range []string{"version", "signing_secret", "developer_id", "key_id", "menu_name", "business_hours"} {
		delete(raw, key)
	}
	s.Version = known.Version
	s.SigningSecret = known.SigningSecret
	s.DeveloperID = known.DeveloperID
	s.KeyID = known.KeyID
	s.MenuName = known.MenuName
	s.BusinessHours = known.BusinessHours
	if len(raw) > 0 {
		s.Extra = raw
	} else {
		s.Extra = nil
	}
	return nil
}

// MarshalJSON encodes known fields merged with the passthrough keys
func (s ProviderSettings) MarshalJSON() ([]byte, error) {
	knownJSON, err := json.Marshal(providerSettingsKnown{
		Version:       s.Version,
		SigningSecret: s.SigningSecret,
		DeveloperID:   s.DeveloperID,
		KeyID:         s.KeyID,
		MenuName:      s.MenuName,
		BusinessHours: s.BusinessHours,
	})
	if err != nil {
		return nil, err
	}
	if len(s.Extra) == 0 {
		return knownJSON, nil
	}
	merged := make(map[string]json.RawMessage, len(s.Extra)+6)
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

// Provider is an enabled delivery marketplace integration
type Provider struct {
	shared.BaseAggregateRoot
	Code     ProviderCode
	Name     string
	Enabled  bool
	Settings ProviderSettings
}

// NewProvider creates a new marketplace provider
func NewProvider(code ProviderCode, name string) (*Provider, error) {
	code = code.Normalize()
	if code == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER_CODE", "Provider code cannot be empty")
	}
	if name == "" {
		name = string(code)
	}
	return &Provider{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Enabled:           true,
	}, nil
}
