package integration

import (
	"context"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/shared"
)

// KitchenTicket records that an order has been dispatched to the kitchen.
// One ticket per order; its uniqueness backs the at-most-once dispatch guard.
type KitchenTicket struct {
	shared.BaseEntity
	OrderID uuid.UUID
}

// NewKitchenTicket creates a ticket record for an order
func NewKitchenTicket(orderID uuid.UUID) (*KitchenTicket, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	return &KitchenTicket{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
	}, nil
}

// KitchenDispatcher is the port to the external kitchen dispatch service.
// Dispatch creates exactly one kitchen ticket downstream and must be called
// at most once per order; callers guard with KitchenTicketRepository.
type KitchenDispatcher interface {
	Dispatch(ctx context.Context, orderID uuid.UUID) error
}
