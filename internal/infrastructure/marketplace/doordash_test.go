package marketplace

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/infrastructure/config"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testProvider(t *testing.T) *integration.Provider {
	provider, err := integration.NewProvider(integration.ProviderCodeDoorDash, "DoorDash")
	require.NoError(t, err)
	provider.Settings.SigningSecret = base64.StdEncoding.EncodeToString(testSecret)
	provider.Settings.DeveloperID = "dev-42"
	provider.Settings.KeyID = "key-7"
	return provider
}

func testStore(t *testing.T, provider *integration.Provider) *integration.Store {
	store, err := integration.NewStore(provider.ID, "store-77", "Main Street")
	require.NoError(t, err)
	return store
}

func newTestClient(baseURL string) *DoorDashClient {
	return NewDoorDashClient(config.MarketplaceConfig{
		RequestTimeout:  5 * time.Second,
		TokenLifetime:   30 * time.Minute,
		DoorDashBaseURL: baseURL,
	}, zap.NewNop())
}

func TestDoorDashClient_SignToken(t *testing.T) {
	client := newTestClient("http://unused")
	provider := testProvider(t)

	signed, err := client.signToken(provider)
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return testSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	assert.Equal(t, jwtVersionHeader, parsed.Header["dd-ver"])

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "doordash", claims["aud"])
	assert.Equal(t, "dev-42", claims["iss"])
	assert.Equal(t, "key-7", claims["kid"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp.Time, time.Minute)
}

func TestDoorDashClient_SignToken_MissingCredentials(t *testing.T) {
	client := newTestClient("http://unused")
	provider := testProvider(t)
	provider.Settings.SigningSecret = ""

	_, err := client.signToken(provider)
	assert.ErrorIs(t, err, integration.ErrSigningSecretMissing)
}

func TestDoorDashClient_PushMenu(t *testing.T) {
	var gotAuth string
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotMethod = r.Method

		var menu integration.MenuExport
		require.NoError(t, json.NewDecoder(r.Body).Decode(&menu))
		assert.Equal(t, "store-77", menu.Store.MerchantSuppliedID)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"menu-remote-9"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	provider := testProvider(t)
	store := testStore(t, provider)

	menu := &integration.MenuExport{
		Store: integration.StoreExport{MerchantSuppliedID: "store-77", ProviderType: "doordash"},
	}
	remoteID, err := client.PushMenu(context.Background(), provider, store, menu)
	require.NoError(t, err)
	assert.Equal(t, "menu-remote-9", remoteID)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/v2/menus", gotPath)
	assert.True(t, strings.HasPrefix(gotAuth, "Bearer "))
}

func TestDoorDashClient_PushMenu_UpdatesExistingRemoteMenu(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v2/menus/menu-remote-9", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"menu-remote-9"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	provider := testProvider(t)
	store := testStore(t, provider)
	store.Settings.RemoteMenuID = "menu-remote-9"

	remoteID, err := client.PushMenu(context.Background(), provider, store, &integration.MenuExport{})
	require.NoError(t, err)
	assert.Equal(t, "menu-remote-9", remoteID)
}

func TestDoorDashClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized", http.StatusUnauthorized, integration.ErrMarketplaceAuthFailed},
		{"forbidden", http.StatusForbidden, integration.ErrMarketplaceAuthFailed},
		{"server error", http.StatusBadGateway, integration.ErrMarketplaceUnavailable},
		{"bad request", http.StatusBadRequest, integration.ErrMarketplaceRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			provider := testProvider(t)
			store := testStore(t, provider)

			_, err := client.PushMenu(context.Background(), provider, store, &integration.MenuExport{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDoorDashClient_StoreSettingsRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/stores/store-77/settings", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"auto_release":true}`))
		case http.MethodPatch:
			var body map[string]json.RawMessage
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Contains(t, body, "auto_release")
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	provider := testProvider(t)
	store := testStore(t, provider)

	settings, err := client.GetStoreSettings(context.Background(), provider, store)
	require.NoError(t, err)
	assert.JSONEq(t, `true`, string(settings["auto_release"]))

	err = client.UpdateStoreSettings(context.Background(), provider, store, settings)
	assert.NoError(t, err)
}

func TestRegistry_Get(t *testing.T) {
	client := newTestClient("http://unused")
	registry := NewRegistry(client)

	adapter, err := registry.Get("doordash")
	require.NoError(t, err)
	assert.Equal(t, integration.ProviderCodeDoorDash, adapter.ProviderCode())

	_, err = registry.Get(integration.ProviderCodeGrubhub)
	assert.ErrorIs(t, err, integration.ErrProviderNotConfigured)
}
