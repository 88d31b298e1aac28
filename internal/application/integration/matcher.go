package integration

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/catalog"
)

// ExternalLineModifier is a raw option attached to an external order line
type ExternalLineModifier struct {
	Name     string
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// ExternalLine is one raw order line as extracted from a marketplace payload.
// Any of the identifying fields may be absent.
type ExternalLine struct {
	ID        string
	SKU       string
	Barcode   string
	Name      string
	Price     *decimal.Decimal
	Quantity  *decimal.Decimal
	Modifiers []ExternalLineModifier
}

// ResolvedLine is an external line matched to a catalog item with its
// effective unit price and quantity.
type ResolvedLine struct {
	MenuItem  *catalog.MenuItem
	Name      string
	UnitPrice decimal.Decimal
	Quantity  decimal.Decimal
	Modifiers []ExternalLineModifier
}

// ItemMatcher resolves external line references to catalog items through an
// ordered fallback chain: id, sku, barcode, case-insensitive name, and
// finally the placeholder item. Resolution never fails. Lookup tables are
// built once per batch so each line resolves in O(1).
type ItemMatcher struct {
	byID        map[string]*catalog.MenuItem
	bySKU       map[string]*catalog.MenuItem
	byBarcode   map[string]*catalog.MenuItem
	byName      map[string]*catalog.MenuItem
	placeholder *catalog.MenuItem
}

// NewItemMatcher builds the lookup tables from a catalog snapshot.
// The placeholder is the designated hidden zero-priced fallback entry.
func NewItemMatcher(items []catalog.MenuItem, placeholder *catalog.MenuItem) *ItemMatcher {
	m := &ItemMatcher{
		byID:        make(map[string]*catalog.MenuItem, len(items)),
		bySKU:       make(map[string]*catalog.MenuItem, len(items)),
		byBarcode:   make(map[string]*catalog.MenuItem, len(items)),
		byName:      make(map[string]*catalog.MenuItem, len(items)),
		placeholder: placeholder,
	}
	for idx := range items {
		item := &items[idx]
		m.byID[item.ID.String()] = item
		if item.SKU != "" {
			m.bySKU[item.SKU] = item
		}
		if item.Barcode != "" {
			m.byBarcode[item.Barcode] = item
		}
		if key := nameKey(item.Name); key != "" {
			if _, taken := m.byName[key]; !taken {
				m.byName[key] = item
			}
		}
	}
	return m
}

// Resolve matches one external line against the catalog snapshot.
// First match in the chain wins; the placeholder guarantees a result.
func (m *ItemMatcher) Resolve(line ExternalLine) ResolvedLine {
	item := m.match(line)

	name := item.Name
	if item.IsPlaceholder() && line.Name != "" {
		// keep the external name on placeholder lines so the ticket
		// still shows what was ordered
		name = line.Name
	}

	price := item.Price
	if line.Price != nil && line.Price.IsPositive() {
		price = *line.Price
	}

	quantity := decimal.NewFromInt(1)
	if line.Quantity != nil && line.Quantity.IsPositive() {
		quantity = *line.Quantity
	}

	return ResolvedLine{
		MenuItem:  item,
		Name:      name,
		UnitPrice: price,
		Quantity:  quantity,
		Modifiers: line.Modifiers,
	}
}

// Placeholder returns the fallback catalog entry
func (m *ItemMatcher) Placeholder() *catalog.MenuItem {
	return m.placeholder
}

func (m *ItemMatcher) match(line ExternalLine) *catalog.MenuItem {
	if line.ID != "" {
		if item, ok := m.byID[line.ID]; ok {
			return item
		}
	}
	if line.SKU != "" {
		if item, ok := m.bySKU[line.SKU]; ok {
			return item
		}
	}
	if line.Barcode != "" {
		if item, ok := m.byBarcode[line.Barcode]; ok {
			return item
		}
	}
	if key := nameKey(line.Name); key != "" {
		if item, ok := m.byName[key]; ok {
			return item
		}
	}
	return m.placeholder
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
