package domain

import "errors"

var (
	// ErrItemUnavailable is returned when an item is no longer Available
	// at the time of a conditional assignment.
	ErrItemUnavailable = errors.New("item is no longer available")

	ErrItemNotFound     = errors.New("item not found")
	ErrClientNotFound   = errors.New("client not found")
	ErrTourNotFound     = errors.New("tour not found")
	ErrBacklogNotFound  = errors.New("backlog record not found")
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrInvalidArgument  = errors.New("invalid argument")
)
