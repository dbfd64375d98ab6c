package ports

import (
	"bouquet-tour-service/internal/domain"
	"context"
)

// Port: read access to inventory items plus the single conditional write the
// engine is allowed to issue.
type InventoryRepository interface {
	// Retrieve all inventory items with their status and tags.
	ListItems(ctx context.Context) ([]*domain.Item, error)

	// Mark itemID Assigned to clientID iff it is currently Available.
	// Returns domain.ErrItemUnavailable when the condition does not hold,
	// and nil when the item is already assigned to the same client.
	MarkAssigned(ctx context.Context, itemID string, clientID string) error
}
