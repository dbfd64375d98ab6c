package domain

import "time"

// Preferences is a client's stated taste for the items they receive.
// Any field may be empty when the client expressed nothing for it.
type Preferences struct {
	Colors []string
	Style  string
	Sizes  []string
}

// Represents a recurring client receiving deliveries.
// PostalCode and Zone are derived from the address by the planner;
// the client repository remains the owner of every other field.
type Client struct {
	ID          string
	Name        string
	Address     string
	PostalCode  string
	Zone        string
	ItemsNeeded int
	Preferences Preferences
	Active      bool
	CreatedAt   time.Time
}

// HasPreferences reports whether the client expressed at least one attribute.
func (p Preferences) HasPreferences() bool {
	return len(p.Colors) > 0 || p.Style != "" || len(p.Sizes) > 0
}
