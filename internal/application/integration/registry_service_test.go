package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/ordering"
)

type registryFixture struct {
	rowRepo    *fakeIntegrationOrderRepo
	orderRepo  *fakeOrderRepo
	menuRepo   *fakeMenuItemRepo
	storeRepo  *fakeStoreRepo
	ticketRepo *fakeTicketRepo
	service    *RegistryService
}

func newRegistryFixture(items ...catalog.MenuItem) *registryFixture {
	f := &registryFixture{
		rowRepo:    newFakeIntegrationOrderRepo(),
		orderRepo:  newFakeOrderRepo(),
		menuRepo:   newFakeMenuItemRepo(items...),
		storeRepo:  newFakeStoreRepo(),
		ticketRepo: newFakeTicketRepo(),
	}
	scope := NewNoOpTransactionScope(f.rowRepo, f.storeRepo, f.orderRepo, f.menuRepo, f.ticketRepo)
	f.service = NewRegistryService(scope)
	return f
}

func taxedCatalogItem(t *testing.T, name, price, taxRate string) catalog.MenuItem {
	t.Helper()
	item := catalogItem(t, name, "", "", price)
	tax, err := catalog.NewTax("Sales tax", dec(taxRate))
	require.NoError(t, err)
	item.TaxID = &tax.ID
	item.Tax = tax
	return item
}

func deliveryDraft(externalID string, lines ...ExternalLine) *OrderDraft {
	return &OrderDraft{
		ExternalID: externalID,
		Status:     "NEW",
		OrderType:  ordering.OrderTypeDelivery,
		Lines:      lines,
	}
}

func TestUpsert_FirstSightingCreatesRowAndOrder(t *testing.T) {
	f := newRegistryFixture(taxedCatalogItem(t, "Burger", "100.00", "0.08"))
	ctx := context.Background()

	row, err := f.service.Upsert(ctx, uuid.New(), nil, deliveryDraft("dd-1", ExternalLine{Name: "Burger"}), `{"id":"dd-1"}`)

	require.NoError(t, err)
	require.True(t, row.HasPosOrder())
	assert.Equal(t, 1, f.rowRepo.count())
	assert.Equal(t, 1, f.orderRepo.count())

	order, err := f.orderRepo.FindByID(ctx, *row.PosOrderID)
	require.NoError(t, err)
	assert.Equal(t, ordering.OrderTypeDelivery, order.OrderType)
	assert.True(t, order.TaxTotal.Equal(dec("8.00")), "tax %s", order.TaxTotal)
	assert.True(t, order.Total.Equal(dec("108.00")), "total %s", order.Total)
}

func TestUpsert_ReplayIsIdempotent(t *testing.T) {
	f := newRegistryFixture(catalogItem(t, "Burger", "", "", "9.00"))
	ctx := context.Background()
	providerID := uuid.New()
	payload := `{"id":"dd-2"}`

	first, err := f.service.Upsert(ctx, providerID, nil, deliveryDraft("dd-2", ExternalLine{Name: "Burger"}), payload)
	require.NoError(t, err)

	for range 3 {
		replay, err := f.service.Upsert(ctx, providerID, nil, deliveryDraft("dd-2", ExternalLine{Name: "Burger"}), payload)
		require.NoError(t, err)
		assert.Equal(t, first.ID, replay.ID)
		assert.Equal(t, *first.PosOrderID, *replay.PosOrderID)
	}

	assert.Equal(t, 1, f.rowRepo.count(), "exactly one registry row")
	assert.Equal(t, 1, f.orderRepo.count(), "exactly one POS order")

	order, err := f.orderRepo.FindByID(ctx, *first.PosOrderID)
	require.NoError(t, err)
	assert.Len(t, order.Items, 1, "items never double-applied")
}

func TestUpsert_SubsequentEventUpdatesStatusOnly(t *testing.T) {
	f := newRegistryFixture()
	ctx := context.Background()
	providerID := uuid.New()

	first, err := f.service.Upsert(ctx, providerID, nil, deliveryDraft("dd-3"), `{"id":"dd-3","status":"NEW"}`)
	require.NoError(t, err)
	boundOrder := *first.PosOrderID

	update := deliveryDraft("dd-3")
	update.Status = "CONFIRMED"
	update.DisplayID = "B22"
	row, err := f.service.Upsert(ctx, providerID, nil, update, `{"id":"dd-3","status":"CONFIRMED"}`)
	require.NoError(t, err)

	assert.Equal(t, "CONFIRMED", row.Status)
	assert.Equal(t, "B22", row.DisplayID)
	assert.Equal(t, boundOrder, *row.PosOrderID, "pos order binding never reassigned")
	assert.Equal(t, 1, f.orderRepo.count())
}

func TestUpsert_EmptyDraftGetsPlaceholderLine(t *testing.T) {
	f := newRegistryFixture()
	ctx := context.Background()

	row, err := f.service.Upsert(ctx, uuid.New(), nil, deliveryDraft("dd-4"), `{"id":"dd-4"}`)
	require.NoError(t, err)

	order, err := f.orderRepo.FindByID(ctx, *row.PosOrderID)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, catalog.PlaceholderItemName, order.Items[0].Name)
	assert.True(t, order.Total.IsZero(), "total %s", order.Total)
	assert.True(t, order.DueTotal.IsZero(), "due %s", order.DueTotal)
}

func TestUpsert_ChargesAndModifiersCarriedOntoOrder(t *testing.T) {
	f := newRegistryFixture(catalogItem(t, "Burrito", "", "", "11.00"))
	ctx := context.Background()

	draft := deliveryDraft("dd-5", ExternalLine{
		Name: "Burrito",
		Modifiers: []ExternalLineModifier{
			{Name: "Guacamole", Price: dec("2.00"), Quantity: dec("1")},
		},
	})
	draft.DeliveryCharge = dec("4.99")
	draft.ServiceCharge = dec("1.50")

	row, err := f.service.Upsert(ctx, uuid.New(), nil, draft, `{}`)
	require.NoError(t, err)

	order, err := f.orderRepo.FindByID(ctx, *row.PosOrderID)
	require.NoError(t, err)
	assert.True(t, order.Subtotal.Equal(dec("13.00")), "subtotal %s", order.Subtotal)
	// 13.00 + 4.99 + 1.50
	assert.True(t, order.Total.Equal(dec("19.49")), "total %s", order.Total)
}

func TestUpsert_LosingCreateRaceDowngradesToUpdate(t *testing.T) {
	f := newRegistryFixture()
	ctx := context.Background()
	providerID := uuid.New()

	winner, err := f.service.Upsert(ctx, providerID, nil, deliveryDraft("dd-6"), `{}`)
	require.NoError(t, err)

	// another writer lands between our existence check and the create; the
	// conflicting create must downgrade to an update of the winner's row
	f.rowRepo.missNextFind = 1
	draft := deliveryDraft("dd-6")
	draft.Status = "CONFIRMED"
	row, err := f.service.Upsert(ctx, providerID, nil, draft, `{}`)

	require.NoError(t, err)
	assert.Equal(t, winner.ID, row.ID)
	assert.Equal(t, "CONFIRMED", row.Status)
	assert.Equal(t, 1, f.rowRepo.count())
	assert.Equal(t, *winner.PosOrderID, *row.PosOrderID, "binding stays with the winning writer")
}
