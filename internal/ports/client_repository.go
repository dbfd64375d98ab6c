package ports

import (
	"bouquet-tour-service/internal/domain"
	"context"
)

// Port: a boundary for retrieving Client entities from the system of record.
type ClientRepository interface {
	// Retrieve all active clients with address, preferences and need count.
	ListActiveClients(ctx context.Context) ([]*domain.Client, error)
}
