package integration

import "errors"

var (
	// Provider errors
	ErrProviderNotFound      = errors.New("integration: provider not found")
	ErrProviderNotConfigured = errors.New("integration: provider not configured")
	ErrProviderDisabled      = errors.New("integration: provider not enabled")
	ErrSigningSecretMissing  = errors.New("integration: signing secret not configured")

	// Store errors
	ErrStoreNotFound  = errors.New("integration: store not found")
	ErrStoreNotMapped = errors.New("integration: store not mapped to a provider store record")

	// External order errors
	ErrExternalOrderNotFound  = errors.New("integration: external order not found")
	ErrDuplicateExternalOrder = errors.New("integration: external order already registered")
	ErrPosOrderAlreadyBound   = errors.New("integration: pos order already bound to this external order")

	// Marketplace transport errors
	ErrMarketplaceUnavailable   = errors.New("integration: marketplace temporarily unavailable")
	ErrMarketplaceRequestFailed = errors.New("integration: marketplace request failed")
	ErrMarketplaceAuthFailed    = errors.New("integration: marketplace authentication failed")
)
