package integration

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/domain/ordering"
	"github.com/pos/backend/internal/domain/shared"
)

// In-memory fakes backing the pipeline tests. The registry and router
// tests replay events against real state, which is awkward to express as
// expectation mocks.

type fakeIntegrationOrderRepo struct {
	mu   sync.Mutex
	rows map[string]*integration.IntegrationOrder
	// missNextFind forces that many FindByExternalID calls to report not
	// found, simulating a concurrent writer landing between the existence
	// check and the create
	missNextFind int
}

func newFakeIntegrationOrderRepo() *fakeIntegrationOrderRepo {
	return &fakeIntegrationOrderRepo{rows: make(map[string]*integration.IntegrationOrder)}
}

func rowKey(providerID uuid.UUID, externalID string) string {
	return providerID.String() + "|" + externalID
}

func (r *fakeIntegrationOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*integration.IntegrationOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id {
			return row, nil
		}
	}
	return nil, integration.ErrExternalOrderNotFound
}

func (r *fakeIntegrationOrderRepo) FindByExternalID(_ context.Context, providerID uuid.UUID, externalID string) (*integration.IntegrationOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missNextFind > 0 {
		r.missNextFind--
		return nil, integration.ErrExternalOrderNotFound
	}
	row, ok := r.rows[rowKey(providerID, externalID)]
	if !ok {
		return nil, integration.ErrExternalOrderNotFound
	}
	return row, nil
}

func (r *fakeIntegrationOrderRepo) FindByPosOrderID(_ context.Context, posOrderID uuid.UUID) (*integration.IntegrationOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.PosOrderID != nil && *row.PosOrderID == posOrderID {
			return row, nil
		}
	}
	return nil, integration.ErrExternalOrderNotFound
}

func (r *fakeIntegrationOrderRepo) Create(_ context.Context, order *integration.IntegrationOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := rowKey(order.ProviderID, order.ExternalID)
	if _, exists := r.rows[key]; exists {
		return integration.ErrDuplicateExternalOrder
	}
	r.rows[key] = order
	return nil
}

func (r *fakeIntegrationOrderRepo) Save(_ context.Context, order *integration.IntegrationOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[rowKey(order.ProviderID, order.ExternalID)] = order
	return nil
}

func (r *fakeIntegrationOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*ordering.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]*ordering.Order)}
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*ordering.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ordering.ErrOrderNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeOrderRepo) Save(_ context.Context, order *ordering.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

type fakeMenuItemRepo struct {
	items       []catalog.MenuItem
	placeholder *catalog.MenuItem
}

func newFakeMenuItemRepo(items ...catalog.MenuItem) *fakeMenuItemRepo {
	return &fakeMenuItemRepo{items: items, placeholder: catalog.NewPlaceholderItem()}
}

func (r *fakeMenuItemRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.MenuItem, error) {
	for idx := range r.items {
		if r.items[idx].ID == id {
			return &r.items[idx], nil
		}
	}
	if r.placeholder.ID == id {
		return r.placeholder, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMenuItemRepo) FindVisible(_ context.Context) ([]catalog.MenuItem, error) {
	return r.items, nil
}

func (r *fakeMenuItemRepo) FindPlaceholder(_ context.Context) (*catalog.MenuItem, error) {
	return r.placeholder, nil
}

func (r *fakeMenuItemRepo) Save(_ context.Context, item *catalog.MenuItem) error {
	r.items = append(r.items, *item)
	return nil
}

type fakeStoreRepo struct {
	stores map[uuid.UUID]*integration.Store
}

func newFakeStoreRepo(stores ...*integration.Store) *fakeStoreRepo {
	r := &fakeStoreRepo{stores: make(map[uuid.UUID]*integration.Store)}
	for _, store := range stores {
		r.stores[store.ID] = store
	}
	return r
}

func (r *fakeStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*integration.Store, error) {
	store, ok := r.stores[id]
	if !ok {
		return nil, integration.ErrStoreNotFound
	}
	return store, nil
}

func (r *fakeStoreRepo) FindByMerchantSuppliedID(_ context.Context, providerID uuid.UUID, merchantSuppliedID string) (*integration.Store, error) {
	for _, store := range r.stores {
		if store.ProviderID == providerID && store.MerchantSuppliedID == merchantSuppliedID {
			return store, nil
		}
	}
	return nil, integration.ErrStoreNotMapped
}

func (r *fakeStoreRepo) FindByProvider(_ context.Context, providerID uuid.UUID) ([]*integration.Store, error) {
	var result []*integration.Store
	for _, store := range r.stores {
		if store.ProviderID == providerID {
			result = append(result, store)
		}
	}
	return result, nil
}

func (r *fakeStoreRepo) Save(_ context.Context, store *integration.Store) error {
	r.stores[store.ID] = store
	return nil
}

func (r *fakeStoreRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.stores, id)
	return nil
}

type fakeProviderRepo struct {
	providers map[uuid.UUID]*integration.Provider
}

func newFakeProviderRepo(providers ...*integration.Provider) *fakeProviderRepo {
	r := &fakeProviderRepo{providers: make(map[uuid.UUID]*integration.Provider)}
	for _, provider := range providers {
		r.providers[provider.ID] = provider
	}
	return r
}

func (r *fakeProviderRepo) FindByID(_ context.Context, id uuid.UUID) (*integration.Provider, error) {
	provider, ok := r.providers[id]
	if !ok {
		return nil, integration.ErrProviderNotFound
	}
	return provider, nil
}

func (r *fakeProviderRepo) FindByCode(_ context.Context, code integration.ProviderCode) (*integration.Provider, error) {
	for _, provider := range r.providers {
		if provider.Code == code {
			return provider, nil
		}
	}
	return nil, integration.ErrProviderNotFound
}

func (r *fakeProviderRepo) FindAll(_ context.Context) ([]*integration.Provider, error) {
	result := make([]*integration.Provider, 0, len(r.providers))
	for _, provider := range r.providers {
		result = append(result, provider)
	}
	return result, nil
}

func (r *fakeProviderRepo) Save(_ context.Context, provider *integration.Provider) error {
	r.providers[provider.ID] = provider
	return nil
}

func (r *fakeProviderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.providers, id)
	return nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]*integration.KitchenTicket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[uuid.UUID]*integration.KitchenTicket)}
}

func (r *fakeTicketRepo) ExistsForOrder(_ context.Context, orderID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tickets[orderID]
	return ok, nil
}

func (r *fakeTicketRepo) Save(_ context.Context, ticket *integration.KitchenTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[ticket.OrderID] = ticket
	return nil
}

func (r *fakeTicketRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tickets)
}

type fakeDispatcher struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, _ uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.calls++
	return nil
}

func (d *fakeDispatcher) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type fakeIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{seen: make(map[string]bool)}
}

func (s *fakeIdempotencyStore) MarkProcessed(_ context.Context, eventID string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[eventID] {
		return false, nil
	}
	s.seen[eventID] = true
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[eventID], nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }

type fakeMarketplace struct {
	code         integration.ProviderCode
	pushedMenus  []*integration.MenuExport
	remoteMenuID string
	pushErr      error
	settings     map[string]json.RawMessage
}

func (m *fakeMarketplace) ProviderCode() integration.ProviderCode { return m.code }

func (m *fakeMarketplace) PushMenu(_ context.Context, _ *integration.Provider, _ *integration.Store, menu *integration.MenuExport) (string, error) {
	if m.pushErr != nil {
		return "", m.pushErr
	}
	m.pushedMenus = append(m.pushedMenus, menu)
	return m.remoteMenuID, nil
}

func (m *fakeMarketplace) GetStoreSettings(_ context.Context, _ *integration.Provider, _ *integration.Store) (map[string]json.RawMessage, error) {
	return m.settings, nil
}

func (m *fakeMarketplace) UpdateStoreSettings(_ context.Context, _ *integration.Provider, _ *integration.Store, settings map[string]json.RawMessage) error {
	m.settings = settings
	return nil
}

type fakeMarketplaceRegistry struct {
	adapters map[integration.ProviderCode]integration.Marketplace
}

func (r *fakeMarketplaceRegistry) Get(code integration.ProviderCode) (integration.Marketplace, error) {
	adapter, ok := r.adapters[code]
	if !ok {
		return nil, integration.ErrProviderNotConfigured
	}
	return adapter, nil
}

// Interface checks
var _ integration.IntegrationOrderRepository = (*fakeIntegrationOrderRepo)(nil)
var _ ordering.OrderRepository = (*fakeOrderRepo)(nil)
var _ catalog.MenuItemRepository = (*fakeMenuItemRepo)(nil)
var _ integration.StoreRepository = (*fakeStoreRepo)(nil)
var _ integration.ProviderRepository = (*fakeProviderRepo)(nil)
var _ integration.KitchenTicketRepository = (*fakeTicketRepo)(nil)
var _ integration.KitchenDispatcher = (*fakeDispatcher)(nil)
var _ integration.Marketplace = (*fakeMarketplace)(nil)
var _ integration.MarketplaceRegistry = (*fakeMarketplaceRegistry)(nil)
