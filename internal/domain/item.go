package domain

// ItemStatus is the availability state of an inventory item.
type ItemStatus string

const (
	ItemAvailable ItemStatus = "Available"
	ItemAssigned  ItemStatus = "Assigned"
)

// Represents a single inventory item (a bouquet) that can be dispatched to a client.
// Status moves from Available to Assigned only through an explicit confirmation.
type Item struct {
	ID         string
	Name       string
	Colors     []string
	Style      string
	Size       string
	Status     ItemStatus
	AssignedTo string
}

func (i *Item) IsAvailable() bool { return i.Status == ItemAvailable }
