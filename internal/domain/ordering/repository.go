package ordering

import (
	"context"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/shared"
)

// ErrOrderNotFound is returned when no order exists for the given ID
var ErrOrderNotFound = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")

// OrderRepository defines persistence operations for the Order aggregate
type OrderRepository interface {
	// FindByID loads an order with all its parts
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate loads an order holding a row lock for the duration
	// of the surrounding transaction. Recompute is a read-modify-write and
	// must be serialized per order.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// Save persists the order and all its parts
	Save(ctx context.Context, order *Order) error
}
