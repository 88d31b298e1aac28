package integration

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/domain/shared"
)

// WebhookRouter dispatches inbound marketplace events by their effect.
// Delivery is at-least-once and may be duplicated, concurrent, or out of
// order. The router acknowledges everything it cannot meaningfully process
// (unknown provider, unmapped store, unresolvable id) as a no-op so the
// provider's retry queue stays healthy; only genuine persistence failures
// surface as errors.
type WebhookRouter struct {
	providerRepo integration.ProviderRepository
	storeRepo    integration.StoreRepository
	registry     *RegistryService
	dispatch     *DispatchService
	txScope      TransactionScope
	idempotency  shared.IdempotencyStore
	idemConfig   shared.IdempotencyConfig
	logger       *zap.Logger
}

// NewWebhookRouter creates a new WebhookRouter
func NewWebhookRouter(
	providerRepo integration.ProviderRepository,
	storeRepo integration.StoreRepository,
	registry *RegistryService,
	dispatch *DispatchService,
	txScope TransactionScope,
	idempotency shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
	logger *zap.Logger,
) *WebhookRouter {
	return &WebhookRouter{
		providerRepo: providerRepo,
		storeRepo:    storeRepo,
		registry:     registry,
		dispatch:     dispatch,
		txScope:      txScope,
		idempotency:  idempotency,
		idemConfig:   idemConfig,
		logger:       logger,
	}
}

// Route processes one raw webhook body for a provider. A nil return means
// the event was handled or deliberately dropped; the HTTP layer responds
// {ok:true} either way.
func (r *WebhookRouter) Route(ctx context.Context, code integration.ProviderCode, body []byte) error {
	provider, err := r.providerRepo.FindByCode(ctx, code.Normalize())
	if err != nil {
		if errors.Is(err, integration.ErrProviderNotFound) {
			r.logger.Warn("webhook for unknown provider dropped", zap.String("provider", code.String()))
			return nil
		}
		return err
	}
	if !provider.Enabled {
		r.logger.Warn("webhook for disabled provider dropped", zap.String("provider", provider.Code.String()))
		return nil
	}

	event := integration.ParseWebhookEvent(body)

	if duplicate, err := r.seenBefore(ctx, provider.Code, event); err != nil {
		return err
	} else if duplicate {
		r.logger.Debug("duplicate webhook event dropped",
			zap.String("provider", provider.Code.String()),
			zap.String("event_id", event.EventID))
		return nil
	}

	switch event.Kind {
	case integration.EventKindOrder:
		err = r.handleOrderEvent(ctx, provider, body)
	case integration.EventKindOrderRelease:
		err = r.handleRelease(ctx, provider, body)
	case integration.EventKindOrderCancel:
		err = r.handleCancel(ctx, provider, body)
	case integration.EventKindMenuStatus:
		err = r.handleMenuStatus(ctx, provider, body)
	case integration.EventKindCourierStatus:
		err = r.handleCourierStatus(ctx, provider, body)
	default:
		r.logger.Debug("unhandled webhook event type acknowledged",
			zap.String("provider", provider.Code.String()),
			zap.String("event_type", event.Type))
		return nil
	}
	if err != nil {
		return err
	}

	return r.markSeen(ctx, provider.Code, event)
}

func (r *WebhookRouter) handleOrderEvent(ctx context.Context, provider *integration.Provider, body []byte) error {
	draft, err := Normalize(body)
	if err != nil {
		r.logger.Warn("unparseable order payload dropped", zap.String("provider", provider.Code.String()), zap.Error(err))
		return nil
	}
	if draft.GeneratedID {
		r.logger.Warn("order payload missing external id, generated one",
			zap.String("provider", provider.Code.String()),
			zap.String("external_id", draft.ExternalID))
	}

	var storeID *uuid.UUID
	if key := ExtractStoreKey(body); key != "" {
		store, err := r.storeRepo.FindByMerchantSuppliedID(ctx, provider.ID, key)
		switch {
		case err == nil:
			storeID = &store.ID
		case errors.Is(err, integration.ErrStoreNotMapped) || errors.Is(err, integration.ErrStoreNotFound):
			r.logger.Warn("order event for unmapped store dropped",
				zap.String("provider", provider.Code.String()),
				zap.String("merchant_supplied_id", key))
			return nil
		default:
			return err
		}
	}

	_, err = r.registry.Upsert(ctx, provider.ID, storeID, draft, string(body))
	return err
}

func (r *WebhookRouter) handleRelease(ctx context.Context, provider *integration.Provider, body []byte) error {
	row, ok, err := r.findRow(ctx, provider, body)
	if err != nil || !ok {
		return err
	}

	err = r.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		row.RecordEvent(integration.ExternalOrderStatusReleased, "", string(body))
		return repos.IntegrationOrderRepo().Save(ctx, row)
	})
	if err != nil {
		return err
	}

	if !row.HasPosOrder() {
		return nil
	}
	_, err = r.dispatch.TriggerDispatch(ctx, *row.PosOrderID)
	return err
}

func (r *WebhookRouter) handleCancel(ctx context.Context, provider *integration.Provider, body []byte) error {
	row, ok, err := r.findRow(ctx, provider, body)
	if err != nil || !ok {
		return err
	}

	return r.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		row.RecordEvent(integration.ExternalOrderStatusCancelled, "", string(body))
		if err := repos.IntegrationOrderRepo().Save(ctx, row); err != nil {
			return err
		}
		if !row.HasPosOrder() {
			return nil
		}
		// cancel wins even over an already paid order
		order, err := repos.OrderRepo().FindByIDForUpdate(ctx, *row.PosOrderID)
		if err != nil {
			return err
		}
		if order.IsVoid() {
			return nil
		}
		order.Void()
		return repos.OrderRepo().Save(ctx, order)
	})
}

func (r *WebhookRouter) handleMenuStatus(ctx context.Context, provider *integration.Provider, body []byte) error {
	key := ExtractStoreKey(body)
	if key == "" {
		return nil
	}
	store, err := r.storeRepo.FindByMerchantSuppliedID(ctx, provider.ID, key)
	if err != nil {
		if errors.Is(err, integration.ErrStoreNotMapped) || errors.Is(err, integration.ErrStoreNotFound) {
			return nil
		}
		return err
	}

	status := menuStatusFrom(body)
	store.RecordMenuSync(remoteMenuIDFrom(body), status)
	return r.storeRepo.Save(ctx, store)
}

func (r *WebhookRouter) handleCourierStatus(ctx context.Context, provider *integration.Provider, body []byte) error {
	row, ok, err := r.findRow(ctx, provider, body)
	if err != nil || !ok {
		return err
	}
	// payload only; courier movement has no order effect
	return r.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		row.RecordEvent("", "", string(body))
		return repos.IntegrationOrderRepo().Save(ctx, row)
	})
}

// findRow resolves the registry row a payload references. Missing or
// unknown external ids are a deliberate no-op.
func (r *WebhookRouter) findRow(ctx context.Context, provider *integration.Provider, body []byte) (*integration.IntegrationOrder, bool, error) {
	externalID := ExtractExternalID(body)
	if externalID == "" {
		r.logger.Warn("webhook without external id dropped", zap.String("provider", provider.Code.String()))
		return nil, false, nil
	}

	var row *integration.IntegrationOrder
	err := r.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		row, err = repos.IntegrationOrderRepo().FindByExternalID(ctx, provider.ID, externalID)
		return err
	})
	if err != nil {
		if errors.Is(err, integration.ErrExternalOrderNotFound) {
			r.logger.Warn("webhook for unknown external order dropped",
				zap.String("provider", provider.Code.String()),
				zap.String("external_id", externalID))
			return nil, false, nil
		}
		return nil, false, err
	}
	return row, true, nil
}

func (r *WebhookRouter) seenBefore(ctx context.Context, code integration.ProviderCode, event *integration.WebhookEvent) (bool, error) {
	if !r.idemConfig.Enabled || r.idempotency == nil || event.EventID == "" {
		return false, nil
	}
	return r.idempotency.IsProcessed(ctx, dedupeKey(code, event.EventID))
}

func (r *WebhookRouter) markSeen(ctx context.Context, code integration.ProviderCode, event *integration.WebhookEvent) error {
	if !r.idemConfig.Enabled || r.idempotency == nil || event.EventID == "" {
		return nil
	}
	_, err := r.idempotency.MarkProcessed(ctx, dedupeKey(code, event.EventID), r.idemConfig.TTL)
	return err
}

func dedupeKey(code integration.ProviderCode, eventID string) string {
	return fmt.Sprintf("webhook:%s:%s", code, eventID)
}
