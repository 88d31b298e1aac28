package integration

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/integration"
)

const (
	// DefaultMenuName is used when the provider settings carry no menu name
	DefaultMenuName = "Main Menu"

	menuSyncStatusSuccess = "SUCCESS"
	menuSyncStatusFailed  = "FAILED"
)

// MenuExportService builds the marketplace menu payload from the internal
// catalog and pushes it through the provider adapter.
type MenuExportService struct {
	categoryRepo catalog.CategoryRepository
	menuItemRepo catalog.MenuItemRepository
	providerRepo integration.ProviderRepository
	storeRepo    integration.StoreRepository
	marketplaces integration.MarketplaceRegistry
	logger       *zap.Logger
}

// NewMenuExportService creates a new MenuExportService
func NewMenuExportService(
	categoryRepo catalog.CategoryRepository,
	menuItemRepo catalog.MenuItemRepository,
	providerRepo integration.ProviderRepository,
	storeRepo integration.StoreRepository,
	marketplaces integration.MarketplaceRegistry,
	logger *zap.Logger,
) *MenuExportService {
	return &MenuExportService{
		categoryRepo: categoryRepo,
		menuItemRepo: menuItemRepo,
		providerRepo: providerRepo,
		storeRepo:    storeRepo,
		marketplaces: marketplaces,
		logger:       logger,
	}
}

// BuildExport serializes the catalog into the marketplace's nested schema.
// Each internal menu group becomes one marketplace category; items without
// a group land in a pseudo-group prepended to their category's group list.
func (s *MenuExportService) BuildExport(ctx context.Context, provider *integration.Provider, store *integration.Store) (*integration.MenuExport, error) {
	if store.MerchantSuppliedID == "" {
		return nil, integration.ErrStoreNotMapped
	}

	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.menuItemRepo.FindVisible(ctx)
	if err != nil {
		return nil, err
	}

	byGroup := make(map[uuid.UUID][]*catalog.MenuItem)
	grouplessByCategory := make(map[uuid.UUID][]*catalog.MenuItem)
	var orphans []*catalog.MenuItem
	for idx := range items {
		item := &items[idx]
		switch {
		case item.GroupID != nil:
			byGroup[*item.GroupID] = append(byGroup[*item.GroupID], item)
		case item.CategoryID != nil:
			grouplessByCategory[*item.CategoryID] = append(grouplessByCategory[*item.CategoryID], item)
		default:
			orphans = append(orphans, item)
		}
	}

	exported := make([]integration.CategoryExport, 0, len(categories))
	sortID := 0
	for catIdx := range categories {
		category := &categories[catIdx]

		// pseudo-group for groupless items comes first
		if groupless := grouplessByCategory[category.ID]; len(groupless) > 0 {
			exported = append(exported, exportCategory(category.Name, sortID, groupless))
			sortID++
		}
		for grpIdx := range category.Groups {
			group := &category.Groups[grpIdx]
			exported = append(exported, exportCategory(group.Name, sortID, byGroup[group.ID]))
			sortID++
		}
	}
	if len(orphans) > 0 {
		exported = append(exported, exportCategory("Other", sortID, orphans))
	}

	menuName := provider.Settings.MenuName
	if menuName == "" {
		menuName = DefaultMenuName
	}

	return &integration.MenuExport{
		Store: integration.StoreExport{
			MerchantSuppliedID: store.MerchantSuppliedID,
			ProviderType:       strings.ToLower(provider.Code.String()),
		},
		Menus: []integration.MenuEntry{{
			Name:       menuName,
			Active:     true,
			OpenHours:  exportHours(provider.Settings.Hours()),
			Categories: exported,
		}},
	}, nil
}

// PushMenu builds and uploads the menu for a store, recording the sync
// outcome on the store settings. An unmapped store or missing signing
// credentials is a configuration error, not a transient failure.
func (s *MenuExportService) PushMenu(ctx context.Context, storeID uuid.UUID) (*integration.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	provider, adapter, err := s.resolveAdapter(ctx, store)
	if err != nil {
		return nil, err
	}

	export, err := s.BuildExport(ctx, provider, store)
	if err != nil {
		return nil, err
	}

	remoteMenuID, pushErr := adapter.PushMenu(ctx, provider, store, export)
	if pushErr != nil {
		store.RecordMenuSync("", menuSyncStatusFailed)
		if saveErr := s.storeRepo.Save(ctx, store); saveErr != nil {
			s.logger.Error("failed to record menu sync failure", zap.Error(saveErr))
		}
		return nil, pushErr
	}

	store.RecordMenuSync(remoteMenuID, menuSyncStatusSuccess)
	if err := s.storeRepo.Save(ctx, store); err != nil {
		return nil, err
	}
	s.logger.Info("menu pushed",
		zap.String("provider", provider.Code.String()),
		zap.String("store", store.MerchantSuppliedID),
		zap.String("remote_menu_id", remoteMenuID))
	return store, nil
}

// GetStoreSettings reads the store's settings from the provider side
func (s *MenuExportService) GetStoreSettings(ctx context.Context, storeID uuid.UUID) (map[string]json.RawMessage, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	provider, adapter, err := s.resolveAdapter(ctx, store)
	if err != nil {
		return nil, err
	}
	return adapter.GetStoreSettings(ctx, provider, store)
}

// UpdateStoreSettings writes store settings on the provider side
func (s *MenuExportService) UpdateStoreSettings(ctx context.Context, storeID uuid.UUID, settings map[string]json.RawMessage) error {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return err
	}
	provider, adapter, err := s.resolveAdapter(ctx, store)
	if err != nil {
		return err
	}
	return adapter.UpdateStoreSettings(ctx, provider, store, settings)
}

func (s *MenuExportService) resolveAdapter(ctx context.Context, store *integration.Store) (*integration.Provider, integration.Marketplace, error) {
	if store.MerchantSuppliedID == "" {
		return nil, nil, integration.ErrStoreNotMapped
	}
	provider, err := s.providerRepo.FindByID(ctx, store.ProviderID)
	if err != nil {
		return nil, nil, err
	}
	if !provider.Enabled {
		return nil, nil, integration.ErrProviderDisabled
	}
	if !provider.Settings.HasSigningCredentials() {
		return nil, nil, integration.ErrSigningSecretMissing
	}
	adapter, err := s.marketplaces.Get(provider.Code)
	if err != nil {
		return nil, nil, err
	}
	return provider, adapter, nil
}

func exportCategory(name string, sortID int, items []*catalog.MenuItem) integration.CategoryExport {
	exported := make([]integration.ItemExport, 0, len(items))
	for idx, item := range items {
		exported = append(exported, integration.ItemExport{
			Name:               item.Name,
			MerchantSuppliedID: item.ID.String(),
			Price:              toMinorUnits(item.Price),
			Active:             true,
			SortID:             idx,
			OptionGroups:       exportOptionGroups(item.ModifierGroups),
		})
	}
	return integration.CategoryExport{Name: name, SortID: sortID, Items: exported}
}

func exportOptionGroups(groups []catalog.ModifierGroup) []integration.OptionGroupExport {
	if len(groups) == 0 {
		return nil
	}
	exported := make([]integration.OptionGroupExport, 0, len(groups))
	for grpIdx := range groups {
		group := &groups[grpIdx]
		options := make([]integration.OptionExport, 0, len(group.Modifiers))
		for modIdx := range group.Modifiers {
			mod := &group.Modifiers[modIdx]
			options = append(options, integration.OptionExport{
				Name:               mod.Name,
				MerchantSuppliedID: mod.ID.String(),
				Price:              toMinorUnits(mod.Price),
			})
		}
		exported = append(exported, integration.OptionGroupExport{
			Name:               group.Name,
			MerchantSuppliedID: group.ID.String(),
			MinNumOptions:      group.MinSelect,
			MaxNumOptions:      group.MaxSelect,
			Options:            options,
		})
	}
	return exported
}

func exportHours(week []integration.BusinessDay) []integration.OpenHoursEntry {
	hours := make([]integration.OpenHoursEntry, 0, len(week))
	for _, day := range week {
		hours = append(hours, integration.OpenHoursEntry{
			DayIndex:  day.Day,
			StartTime: day.Open,
			EndTime:   day.Close,
		})
	}
	return hours
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
