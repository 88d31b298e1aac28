package persistence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
)

func setupProviderTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.ProviderModel{}, &models.StoreModel{})
	require.NoError(t, err)

	return db
}

func TestProviderRepository_SaveAndFindByCode(t *testing.T) {
	db := setupProviderTestDB(t)
	repo := NewGormProviderRepository(db)
	ctx := context.Background()

	provider, err := integration.NewProvider(integration.ProviderCodeDoorDash, "DoorDash")
	require.NoError(t, err)
	provider.Settings.SigningSecret = "c2VjcmV0"
	provider.Settings.DeveloperID = "dev-1"
	provider.Settings.KeyID = "key-1"
	require.NoError(t, repo.Save(ctx, provider))

	found, err := repo.FindByCode(ctx, "doordash")
	require.NoError(t, err)
	assert.Equal(t, provider.ID, found.ID)
	assert.Equal(t, integration.ProviderCodeDoorDash, found.Code)
	assert.True(t, found.Enabled)
	assert.Equal(t, "c2VjcmV0", found.Settings.SigningSecret)
	assert.True(t, found.Settings.HasSigningCredentials())
}

func TestProviderRepository_SettingsExtraKeysRoundTrip(t *testing.T) {
	db := setupProviderTestDB(t)
	repo := NewGormProviderRepository(db)
	ctx := context.Background()

	provider, err := integration.NewProvider(integration.ProviderCodeUberEats, "Uber Eats")
	require.NoError(t, err)
	provider.Settings.MenuName = "Dinner"
	provider.Settings.Extra = map[string]json.RawMessage{
		"console_flag": json.RawMessage(`true`),
	}
	require.NoError(t, repo.Save(ctx, provider))

	found, err := repo.FindByID(ctx, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dinner", found.Settings.MenuName)
	require.Contains(t, found.Settings.Extra, "console_flag")
	assert.JSONEq(t, `true`, string(found.Settings.Extra["console_flag"]))
}

func TestProviderRepository_FindByCode_NotFound(t *testing.T) {
	db := setupProviderTestDB(t)
	repo := NewGormProviderRepository(db)

	_, err := repo.FindByCode(context.Background(), integration.ProviderCodeGrubhub)
	assert.ErrorIs(t, err, integration.ErrProviderNotFound)
}

func TestProviderRepository_Delete(t *testing.T) {
	db := setupProviderTestDB(t)
	repo := NewGormProviderRepository(db)
	ctx := context.Background()

	provider, err := integration.NewProvider(integration.ProviderCodeDoorDash, "DoorDash")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, provider))

	require.NoError(t, repo.Delete(ctx, provider.ID))
	assert.ErrorIs(t, repo.Delete(ctx, provider.ID), integration.ErrProviderNotFound)
}

func TestStoreRepository_FindByMerchantSuppliedID(t *testing.T) {
	db := setupProviderTestDB(t)
	repo := NewGormStoreRepository(db)
	ctx := context.Background()

	providerID := uuid.New()
	store, err := integration.NewStore(providerID, "store-77", "Main Street")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, store))

	found, err := repo.FindByMerchantSuppliedID(ctx, providerID, "store-77")
	require.NoError(t, err)
	assert.Equal(t, store.ID, found.ID)
	assert.Equal(t, "Main Street", found.Name)

	_, err = repo.FindByMerchantSuppliedID(ctx, providerID, "store-88")
	assert.ErrorIs(t, err, integration.ErrStoreNotMapped)

	_, err = repo.FindByMerchantSuppliedID(ctx, uuid.New(), "store-77")
	assert.ErrorIs(t, err, integration.ErrStoreNotMapped)
}

func TestStoreRepository_RecordMenuSyncRoundTrip(t *testing.T) {
	db := setupProviderTestDB(t)
	repo := NewGormStoreRepository(db)
	ctx := context.Background()

	store, err := integration.NewStore(uuid.New(), "store-77", "Main Street")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, store))

	store.RecordMenuSync("menu-remote-1", "SUCCESS")
	require.NoError(t, repo.Save(ctx, store))

	found, err := repo.FindByID(ctx, store.ID)
	require.NoError(t, err)
	assert.Equal(t, "menu-remote-1", found.Settings.RemoteMenuID)
	assert.Equal(t, "SUCCESS", found.Settings.LastSyncStatus)
	require.NotNil(t, found.Settings.LastSyncAt)
}

func TestStoreRepository_FindByProvider(t *testing.T) {
	db := setupProviderTestDB(t)
	repo := NewGormStoreRepository(db)
	ctx := context.Background()

	providerID := uuid.New()
	for _, key := range []string{"store-2", "store-1"} {
		store, err := integration.NewStore(providerID, key, key)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, store))
	}
	other, err := integration.NewStore(uuid.New(), "store-1", "other provider")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	stores, err := repo.FindByProvider(ctx, providerID)
	require.NoError(t, err)
	require.Len(t, stores, 2)
	assert.Equal(t, "store-1", stores[0].MerchantSuppliedID)
	assert.Equal(t, "store-2", stores[1].MerchantSuppliedID)
}
