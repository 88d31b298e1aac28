package integration

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/domain/ordering"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// RegistryService owns the (provider, external id) -> POS order binding.
// Upsert is the single entry point for order events: first sighting creates
// the registry row and the POS order atomically; every later event for the
// same key updates status and payload only.
type RegistryService struct {
	txScope TransactionScope
}

// NewRegistryService creates a new RegistryService
func NewRegistryService(txScope TransactionScope) *RegistryService {
	return &RegistryService{txScope: txScope}
}

// Upsert registers one external order event. Safe under duplicate and
// concurrent delivery: a conflict on the (provider, external id) uniqueness
// constraint downgrades the create into an update of the existing row.
func (s *RegistryService) Upsert(ctx context.Context, providerID uuid.UUID, storeID *uuid.UUID, draft *OrderDraft, rawPayload string) (*integration.IntegrationOrder, error) {
	row, err := s.tryUpsert(ctx, providerID, storeID, draft, rawPayload)
	if errors.Is(err, integration.ErrDuplicateExternalOrder) {
		// lost a create race; the other writer's row exists now
		return s.recordOnExisting(ctx, providerID, draft, rawPayload)
	}
	return row, err
}

func (s *RegistryService) tryUpsert(ctx context.Context, providerID uuid.UUID, storeID *uuid.UUID, draft *OrderDraft, rawPayload string) (*integration.IntegrationOrder, error) {
	var row *integration.IntegrationOrder
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.IntegrationOrderRepo().FindByExternalID(ctx, providerID, draft.ExternalID)
		if err == nil {
			existing.RecordEvent(draft.Status, draft.DisplayID, rawPayload)
			row = existing
			return repos.IntegrationOrderRepo().Save(ctx, existing)
		}
		if !errors.Is(err, integration.ErrExternalOrderNotFound) {
			return err
		}

		order, err := s.buildOrder(ctx, repos, draft)
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		row, err = integration.NewIntegrationOrder(providerID, draft.ExternalID, draft.Status, rawPayload)
		if err != nil {
			return err
		}
		row.StoreID = storeID
		row.DisplayID = draft.DisplayID
		row.OrderType = draft.OrderType
		if err := row.BindPosOrder(order.ID); err != nil {
			return err
		}
		return repos.IntegrationOrderRepo().Create(ctx, row)
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *RegistryService) recordOnExisting(ctx context.Context, providerID uuid.UUID, draft *OrderDraft, rawPayload string) (*integration.IntegrationOrder, error) {
	var row *integration.IntegrationOrder
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		existing, err := repos.IntegrationOrderRepo().FindByExternalID(ctx, providerID, draft.ExternalID)
		if err != nil {
			return err
		}
		existing.RecordEvent(draft.Status, draft.DisplayID, rawPayload)
		row = existing
		return repos.IntegrationOrderRepo().Save(ctx, existing)
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// buildOrder creates the POS order for a first-seen external order. Lines
// resolve against a catalog snapshot; an empty draft still gets one
// placeholder line so no order is ever itemless.
func (s *RegistryService) buildOrder(ctx context.Context, repos TransactionalRepositories, draft *OrderDraft) (*ordering.Order, error) {
	order, err := ordering.NewOrder(draft.OrderType)
	if err != nil {
		return nil, err
	}
	order.CustomerName = draft.CustomerName
	order.Notes = draft.Notes

	items, err := repos.MenuItemRepo().FindVisible(ctx)
	if err != nil {
		return nil, err
	}
	placeholder, err := repos.MenuItemRepo().FindPlaceholder(ctx)
	if err != nil {
		return nil, err
	}
	matcher := NewItemMatcher(items, placeholder)

	lines := draft.Lines
	if len(lines) == 0 {
		lines = []ExternalLine{{}}
	}
	for _, raw := range lines {
		resolved := matcher.Resolve(raw)
		item, err := order.AddItem(resolved.MenuItem.ID, resolved.Name, valueobject.NewMoneyUSD(resolved.UnitPrice), resolved.Quantity)
		if err != nil {
			return nil, err
		}
		if resolved.MenuItem.Tax != nil {
			item.SetTax(resolved.MenuItem.Tax.Rate, resolved.MenuItem.Tax.Applies())
		}
		for _, mod := range resolved.Modifiers {
			if _, err := item.AddModifier(nil, mod.Name, mod.Price, mod.Quantity); err != nil {
				return nil, err
			}
		}
	}

	if err := order.SetCharges(chargeOrZero(draft.ServiceCharge), chargeOrZero(draft.DeliveryCharge)); err != nil {
		return nil, err
	}
	order.Recalculate()
	return order, nil
}

func chargeOrZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
