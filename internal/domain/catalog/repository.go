package catalog

import (
	"context"

	"github.com/google/uuid"
)

// MenuItemRepository defines persistence operations for menu items
type MenuItemRepository interface {
	// FindByID finds a menu item by ID (tax preloaded)
	FindByID(ctx context.Context, id uuid.UUID) (*MenuItem, error)

	// FindVisible returns all visible items with taxes and modifier groups
	// preloaded. Used to build per-batch resolution snapshots.
	FindVisible(ctx context.Context) ([]MenuItem, error)

	// FindPlaceholder returns the designated placeholder item, creating it
	// on first use so resolution never fails.
	FindPlaceholder(ctx context.Context) (*MenuItem, error)

	// Save creates or updates a menu item
	Save(ctx context.Context, item *MenuItem) error
}

// CategoryRepository defines persistence operations for the menu hierarchy
type CategoryRepository interface {
	// FindAll returns all categories ordered by sort order, groups preloaded
	FindAll(ctx context.Context) ([]Category, error)
}

// DiscountRepository defines persistence operations for discount definitions
type DiscountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Discount, error)
}
