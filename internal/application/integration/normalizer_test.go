package integration

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pos/backend/internal/domain/ordering"
)

func TestNormalize_TopLevelFields(t *testing.T) {
	body := []byte(`{
		"external_id": "dd-1001",
		"display_id": "A17",
		"status": "NEW",
		"order_type": "DELIVERY",
		"customer_name": "Jordan",
		"special_instructions": "ring the bell",
		"delivery_fee": 4.99,
		"service_fee": 1.50,
		"items": [
			{"name": "Burger", "price": 9.00, "quantity": 2}
		]
	}`)

	draft, err := Normalize(body)
	require.NoError(t, err)

	assert.Equal(t, "dd-1001", draft.ExternalID)
	assert.False(t, draft.GeneratedID)
	assert.Equal(t, "A17", draft.DisplayID)
	assert.Equal(t, "NEW", draft.Status)
	assert.Equal(t, ordering.OrderTypeDelivery, draft.OrderType)
	assert.Equal(t, "Jordan", draft.CustomerName)
	assert.Equal(t, "ring the bell", draft.Notes)
	assert.True(t, draft.DeliveryCharge.Equal(dec("4.99")))
	assert.True(t, draft.ServiceCharge.Equal(dec("1.50")))
	require.Len(t, draft.Lines, 1)
	assert.Equal(t, "Burger", draft.Lines[0].Name)
	assert.True(t, draft.Lines[0].Price.Equal(dec("9.00")))
	assert.True(t, draft.Lines[0].Quantity.Equal(dec("2")))
}

func TestNormalize_FieldsNestedUnderOrderKey(t *testing.T) {
	body := []byte(`{
		"event_type": "order.created",
		"order": {
			"id": "ue-42",
			"status": "CONFIRMED",
			"customer": {"name": "Sam"},
			"special_instructions": "extra napkins",
			"line_items": [
				{"title": "Fries", "unit_price": "3.50", "qty": 1}
			]
		}
	}`)

	draft, err := Normalize(body)
	require.NoError(t, err)

	assert.Equal(t, "ue-42", draft.ExternalID)
	assert.Equal(t, "CONFIRMED", draft.Status)
	assert.Equal(t, "Sam", draft.CustomerName)
	assert.Equal(t, "extra napkins", draft.Notes)
	require.Len(t, draft.Lines, 1)
	assert.Equal(t, "Fries", draft.Lines[0].Name)
	assert.True(t, draft.Lines[0].Price.Equal(dec("3.50")))
}

func TestNormalize_AliasPrecedenceFirstPathWins(t *testing.T) {
	body := []byte(`{"external_id": "wins", "order_id": "loses", "id": "also-loses"}`)

	draft, err := Normalize(body)
	require.NoError(t, err)

	assert.Equal(t, "wins", draft.ExternalID)
}

func TestNormalize_OrderTypeHeuristic(t *testing.T) {
	cases := []struct {
		raw  string
		want ordering.OrderType
	}{
		{"PICKUP", ordering.OrderTypeTakeout},
		{"customer_pickup", ordering.OrderTypeTakeout},
		{"TO_GO", ordering.OrderTypeTakeout},
		{"takeout", ordering.OrderTypeTakeout},
		{"DINE_IN", ordering.OrderTypeDineIn},
		{"dine-in", ordering.OrderTypeDineIn},
		{"DELIVERY", ordering.OrderTypeDelivery},
		{"MARKETPLACE", ordering.OrderTypeDelivery},
		{"", ordering.OrderTypeDelivery},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifyOrderType(tc.raw), "raw=%q", tc.raw)
	}
}

func TestNormalize_MissingExternalIDGetsGeneratedUUID(t *testing.T) {
	draft, err := Normalize([]byte(`{"customer_name": "Pat"}`))
	require.NoError(t, err)

	assert.True(t, draft.GeneratedID)
	_, parseErr := uuid.Parse(draft.ExternalID)
	assert.NoError(t, parseErr, "generated id should be a UUID, got %q", draft.ExternalID)

	// two normalizations of the same body get distinct ids
	other, err := Normalize([]byte(`{"customer_name": "Pat"}`))
	require.NoError(t, err)
	assert.NotEqual(t, draft.ExternalID, other.ExternalID)
}

func TestNormalize_LineModifiers(t *testing.T) {
	body := []byte(`{
		"id": "m-1",
		"items": [{
			"name": "Burrito",
			"price": 11.00,
			"options": [
				{"name": "Guacamole", "price": 2.00},
				{"name": "No onions"}
			]
		}]
	}`)

	draft, err := Normalize(body)
	require.NoError(t, err)

	require.Len(t, draft.Lines, 1)
	mods := draft.Lines[0].Modifiers
	require.Len(t, mods, 2)
	assert.Equal(t, "Guacamole", mods[0].Name)
	assert.True(t, mods[0].Price.Equal(dec("2.00")))
	assert.Equal(t, "No onions", mods[1].Name)
	assert.True(t, mods[1].Price.IsZero())
	assert.True(t, mods[1].Quantity.Equal(dec("1")))
}

func TestNormalize_InvalidJSON(t *testing.T) {
	_, err := Normalize([]byte(`{truncated`))
	assert.Error(t, err)
}

func TestNormalize_NegativeFeesIgnored(t *testing.T) {
	draft, err := Normalize([]byte(`{"id": "n-1", "delivery_fee": -2.00}`))
	require.NoError(t, err)
	assert.True(t, draft.DeliveryCharge.IsZero())
}

func TestExtractStoreKey(t *testing.T) {
	assert.Equal(t, "store-77", ExtractStoreKey([]byte(`{"store": {"merchant_supplied_id": "store-77"}}`)))
	assert.Equal(t, "store-88", ExtractStoreKey([]byte(`{"merchant_supplied_id": "store-88"}`)))
	assert.Equal(t, "", ExtractStoreKey([]byte(`{}`)))
	assert.Equal(t, "", ExtractStoreKey([]byte(`not json`)))
}

func TestExtractExternalID_NumericID(t *testing.T) {
	assert.Equal(t, "12345", ExtractExternalID([]byte(`{"order_id": 12345}`)))
}
