package integration

import (
	"context"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/integration"
)

// DispatchService fires kitchen dispatch for released orders. The external
// dispatcher must be called at most once per order; the ticket row is the
// idempotency guard.
type DispatchService struct {
	txScope    TransactionScope
	dispatcher integration.KitchenDispatcher
}

// NewDispatchService creates a new DispatchService
func NewDispatchService(txScope TransactionScope, dispatcher integration.KitchenDispatcher) *DispatchService {
	return &DispatchService{txScope: txScope, dispatcher: dispatcher}
}

// TriggerDispatch dispatches an order to the kitchen unless a ticket
// already exists for it. Returns true when a dispatch was actually fired.
// Ticket write and dispatch share a transaction so a failed dispatch leaves
// no ticket behind and the next release event retries cleanly.
func (s *DispatchService) TriggerDispatch(ctx context.Context, orderID uuid.UUID) (bool, error) {
	dispatched := false
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		exists, err := repos.KitchenTicketRepo().ExistsForOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		ticket, err := integration.NewKitchenTicket(orderID)
		if err != nil {
			return err
		}
		if err := repos.KitchenTicketRepo().Save(ctx, ticket); err != nil {
			return err
		}
		if err := s.dispatcher.Dispatch(ctx, orderID); err != nil {
			return err
		}
		dispatched = true
		return nil
	})
	return dispatched, err
}
