package integration

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/ordering"
)

// OrderDraft is the canonical form of an external order payload, ready for
// the registry. Lines are still unresolved; the registry matches them
// against a catalog snapshot.
type OrderDraft struct {
	ExternalID string
	// GeneratedID is true when the payload carried no usable external id
	// and a request-scoped id was synthesized
	GeneratedID    bool
	DisplayID      string
	Status         string
	OrderType      ordering.OrderType
	CustomerName   string
	Notes          string
	ServiceCharge  decimal.Decimal
	DeliveryCharge decimal.Decimal
	Lines          []ExternalLine
}

// fieldPath is one candidate location of a logical field in the payload
type fieldPath []string

// Aliased field locations, tried in order. Marketplace payloads put the
// same logical field at different paths depending on provider and event
// shape; first resolvable path wins.
var (
	externalIDPaths = []fieldPath{
		{"external_id"}, {"external_order_id"}, {"order", "external_id"},
		{"order_id"}, {"order", "id"}, {"delivery_id"}, {"id"},
	}
	displayIDPaths = []fieldPath{
		{"display_id"}, {"order", "display_id"}, {"order_number"}, {"order", "order_number"},
	}
	statusPaths = []fieldPath{
		{"order_status"}, {"status"}, {"order", "status"},
	}
	orderTypePaths = []fieldPath{
		{"order_type"}, {"fulfillment_type"}, {"type"},
		{"order", "order_type"}, {"order", "fulfillment_type"},
	}
	customerNamePaths = []fieldPath{
		{"customer_name"}, {"customer", "name"}, {"consumer", "name"},
		{"order", "customer_name"}, {"order", "customer", "name"},
	}
	notesPaths = []fieldPath{
		{"special_instructions"}, {"instructions"}, {"notes"},
		{"order", "special_instructions"}, {"order", "notes"},
	}
	deliveryChargePaths = []fieldPath{
		{"delivery_fee"}, {"fees", "delivery"}, {"order", "delivery_fee"},
	}
	serviceChargePaths = []fieldPath{
		{"service_fee"}, {"fees", "service"}, {"order", "service_fee"},
	}
	itemsPaths = []fieldPath{
		{"items"}, {"line_items"}, {"order", "items"}, {"order", "line_items"},
	}
	storeKeyPaths = []fieldPath{
		{"store", "merchant_supplied_id"}, {"merchant_supplied_id"},
		{"store_id"}, {"order", "store", "merchant_supplied_id"},
	}

	lineIDPaths      = []fieldPath{{"id"}, {"item_id"}, {"merchant_supplied_id"}, {"external_id"}}
	lineSKUPaths     = []fieldPath{{"sku"}, {"sku_id"}}
	lineBarcodePaths = []fieldPath{{"barcode"}, {"upc"}}
	lineNamePaths    = []fieldPath{{"name"}, {"item_name"}, {"title"}}
	linePricePaths   = []fieldPath{{"price"}, {"unit_price"}, {"amount"}}
	lineQtyPaths     = []fieldPath{{"quantity"}, {"qty"}}

	menuStatusPaths   = []fieldPath{{"menu_status"}, {"status"}, {"result"}}
	remoteMenuIDPaths = []fieldPath{{"menu_id"}, {"menu", "id"}, {"reference"}}

	modNamePaths  = []fieldPath{{"name"}, {"option_name"}}
	modPricePaths = []fieldPath{{"price"}, {"amount"}}
	modQtyPaths   = []fieldPath{{"quantity"}, {"qty"}}
	modifierPaths = []fieldPath{{"modifiers"}, {"options"}, {"extras"}}
)

// Normalize turns a raw marketplace order payload into a canonical draft.
// Payloads with no usable external id get a request-scoped UUID so the
// registry still has a unique key; repeated deliveries of such a payload
// cannot be correlated and will each register once.
func Normalize(body []byte) (*OrderDraft, error) {
	payload, err := decodePayload(body)
	if err != nil {
		return nil, err
	}

	draft := &OrderDraft{
		DisplayID:      firstString(payload, displayIDPaths),
		Status:         firstString(payload, statusPaths),
		CustomerName:   firstString(payload, customerNamePaths),
		Notes:          firstString(payload, notesPaths),
		ServiceCharge:  firstDecimalOrZero(payload, serviceChargePaths),
		DeliveryCharge: firstDecimalOrZero(payload, deliveryChargePaths),
	}

	draft.ExternalID = firstString(payload, externalIDPaths)
	if draft.ExternalID == "" {
		draft.ExternalID = uuid.NewString()
		draft.GeneratedID = true
	}

	draft.OrderType = classifyOrderType(firstString(payload, orderTypePaths))
	draft.Lines = extractLines(payload)
	return draft, nil
}

// ExtractStoreKey returns the merchant-supplied store id a payload
// addresses, or empty when none is present.
func ExtractStoreKey(body []byte) string {
	payload, err := decodePayload(body)
	if err != nil {
		return ""
	}
	return firstString(payload, storeKeyPaths)
}

// ExtractExternalID returns the external order id a payload references,
// or empty when none is present.
func ExtractExternalID(body []byte) string {
	payload, err := decodePayload(body)
	if err != nil {
		return ""
	}
	return firstString(payload, externalIDPaths)
}

// menuStatusFrom returns the provider-reported outcome of an async menu job
func menuStatusFrom(body []byte) string {
	payload, err := decodePayload(body)
	if err != nil {
		return ""
	}
	return firstString(payload, menuStatusPaths)
}

// remoteMenuIDFrom returns the provider-side menu id a menu-status event references
func remoteMenuIDFrom(body []byte) string {
	payload, err := decodePayload(body)
	if err != nil {
		return ""
	}
	return firstString(payload, remoteMenuIDPaths)
}

// classifyOrderType applies the fulfillment heuristic. Delivery is the
// default, matching the marketplace's typical order mix.
func classifyOrderType(raw string) ordering.OrderType {
	t := strings.ToUpper(raw)
	switch {
	case strings.Contains(t, "PICKUP") || strings.Contains(t, "TAKEOUT") || strings.Contains(t, "TO_GO"):
		return ordering.OrderTypeTakeout
	case strings.Contains(t, "DINE"):
		return ordering.OrderTypeDineIn
	default:
		return ordering.OrderTypeDelivery
	}
}

func extractLines(payload map[string]any) []ExternalLine {
	raw, ok := firstValue(payload, itemsPaths)
	if !ok {
		return nil
	}
	rawItems, ok := raw.([]any)
	if !ok {
		return nil
	}

	lines := make([]ExternalLine, 0, len(rawItems))
	for _, entry := range rawItems {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		line := ExternalLine{
			ID:      firstString(item, lineIDPaths),
			SKU:     firstString(item, lineSKUPaths),
			Barcode: firstString(item, lineBarcodePaths),
			Name:    firstString(item, lineNamePaths),
		}
		if price, ok := firstDecimal(item, linePricePaths); ok {
			line.Price = &price
		}
		if qty, ok := firstDecimal(item, lineQtyPaths); ok {
			line.Quantity = &qty
		}
		line.Modifiers = extractModifiers(item)
		lines = append(lines, line)
	}
	return lines
}

func extractModifiers(item map[string]any) []ExternalLineModifier {
	raw, ok := firstValue(item, modifierPaths)
	if !ok {
		return nil
	}
	rawMods, ok := raw.([]any)
	if !ok {
		return nil
	}

	mods := make([]ExternalLineModifier, 0, len(rawMods))
	for _, entry := range rawMods {
		modMap, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name := firstString(modMap, modNamePaths)
		if name == "" {
			continue
		}
		mod := ExternalLineModifier{
			Name:     name,
			Price:    decimal.Zero,
			Quantity: decimal.NewFromInt(1),
		}
		if price, ok := firstDecimal(modMap, modPricePaths); ok {
			mod.Price = price
		}
		if qty, ok := firstDecimal(modMap, modQtyPaths); ok && qty.IsPositive() {
			mod.Quantity = qty
		}
		mods = append(mods, mod)
	}
	return mods
}

// decodePayload parses JSON keeping numbers as json.Number so monetary
// fields never pass through binary floats.
func decodePayload(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func walk(m map[string]any, path fieldPath) (any, bool) {
	var current any = m
	for _, key := range path {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func firstValue(m map[string]any, paths []fieldPath) (any, bool) {
	for _, path := range paths {
		if value, ok := walk(m, path); ok && value != nil {
			return value, true
		}
	}
	return nil, false
}

func firstString(m map[string]any, paths []fieldPath) string {
	for _, path := range paths {
		value, ok := walk(m, path)
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func firstDecimal(m map[string]any, paths []fieldPath) (decimal.Decimal, bool) {
	for _, path := range paths {
		value, ok := walk(m, path)
		if !ok {
			continue
		}
		switch v := value.(type) {
		case json.Number:
			if d, err := decimal.NewFromString(v.String()); err == nil {
				return d, true
			}
		case string:
			if v == "" {
				continue
			}
			if d, err := decimal.NewFromString(v); err == nil {
				return d, true
			}
		}
	}
	return decimal.Decimal{}, false
}

func firstDecimalOrZero(m map[string]any, paths []fieldPath) decimal.Decimal {
	if d, ok := firstDecimal(m, paths); ok && !d.IsNegative() {
		return d
	}
	return decimal.Zero
}
