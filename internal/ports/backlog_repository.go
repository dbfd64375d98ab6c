package ports

import (
	"bouquet-tour-service/internal/domain"
	"context"
	"time"
)

// Port: tracking records for clients awaiting placement.
type BacklogRepository interface {
	// Retrieve every backlog record, placed or not.
	ListBacklog(ctx context.Context) ([]*domain.BacklogRecord, error)

	// Record the chosen placement against the client's backlog entry.
	// targetTour is only meaningful for grafts and may be nil.
	SetPlacement(
		ctx context.Context,
		clientID string,
		placement domain.PlacementKind,
		targetTour *int,
		at time.Time,
	) error
}
