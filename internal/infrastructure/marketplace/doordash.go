package marketplace

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/infrastructure/config"
)

// jwtVersionHeader is the token header DoorDash requires on every signed JWT
const jwtVersionHeader = "DD-JWT-V1"

// DoorDashClient implements integration.Marketplace against the DoorDash
// open API. Every request carries a short-lived HS256 JWT signed with the
// provider's base64-encoded signing secret. Failures propagate unretried.
type DoorDashClient struct {
	baseURL       string
	tokenLifetime time.Duration
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewDoorDashClient creates a DoorDash marketplace adapter
func NewDoorDashClient(cfg config.MarketplaceConfig, logger *zap.Logger) *DoorDashClient {
	return &DoorDashClient{
		baseURL:       cfg.DoorDashBaseURL,
		tokenLifetime: cfg.TokenLifetime,
		httpClient:    &http.Client{Timeout: cfg.RequestTimeout},
		logger:        logger.Named("doordash"),
	}
}

// ProviderCode returns the marketplace this adapter handles
func (c *DoorDashClient) ProviderCode() integration.ProviderCode {
	return integration.ProviderCodeDoorDash
}

// signToken builds the request JWT from the provider's signing credentials
func (c *DoorDashClient) signToken(provider *integration.Provider) (string, error) {
	settings := provider.Settings
	if !settings.HasSigningCredentials() {
		return "", integration.ErrSigningSecretMissing
	}

	secret, err := base64.StdEncoding.DecodeString(settings.SigningSecret)
	if err != nil {
		return "", fmt.Errorf("decode signing secret: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"aud": "doordash",
		"iss": settings.DeveloperID,
		"kid": settings.KeyID,
		"iat": now.Unix(),
		"exp": now.Add(c.tokenLifetime).Unix(),
	})
	token.Header["dd-ver"] = jwtVersionHeader

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// PushMenu uploads the menu for a store and returns the remote menu ID
func (c *DoorDashClient) PushMenu(ctx context.Context, provider *integration.Provider, store *integration.Store, menu *integration.MenuExport) (string, error) {
	var response struct {
		ID string `json:"id"`
	}

	path := "/v2/menus"
	method := http.MethodPost
	if store.Settings.RemoteMenuID != "" {
		path = fmt.Sprintf("/v2/menus/%s", store.Settings.RemoteMenuID)
		method = http.MethodPatch
	}

	if err := c.do(ctx, provider, method, path, menu, &response); err != nil {
		return "", err
	}

	c.logger.Info("menu pushed",
		zap.String("merchant_supplied_id", store.MerchantSuppliedID),
		zap.String("remote_menu_id", response.ID))
	return response.ID, nil
}

// GetStoreSettings reads the store's settings on the provider side
func (c *DoorDashClient) GetStoreSettings(ctx context.Context, provider *integration.Provider, store *integration.Store) (map[string]json.RawMessage, error) {
	var settings map[string]json.RawMessage
	path := fmt.Sprintf("/v1/stores/%s/settings", store.MerchantSuppliedID)
	if err := c.do(ctx, provider, http.MethodGet, path, nil, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateStoreSettings writes store settings on the provider side
func (c *DoorDashClient) UpdateStoreSettings(ctx context.Context, provider *integration.Provider, store *integration.Store, settings map[string]json.RawMessage) error {
	path := fmt.Sprintf("/v1/stores/%s/settings", store.MerchantSuppliedID)
	return c.do(ctx, provider, http.MethodPatch, path, settings, nil)
}

// do executes one signed request and decodes the response into out
func (c *DoorDashClient) do(ctx context.Context, provider *integration.Provider, method, path string, body, out interface{}) error {
	token, err := c.signToken(provider)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", integration.ErrMarketplaceUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", integration.ErrMarketplaceUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.logger.Warn("marketplace rejected credentials",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path))
		return integration.ErrMarketplaceAuthFailed
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", integration.ErrMarketplaceUnavailable, resp.StatusCode)
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return fmt.Errorf("%w: status %d: %s", integration.ErrMarketplaceRequestFailed, resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: decode response: %v", integration.ErrMarketplaceRequestFailed, err)
		}
	}
	return nil
}

// Ensure DoorDashClient implements the marketplace port
var _ integration.Marketplace = (*DoorDashClient)(nil)
