package domain

import "time"

// Placement strategies for a client waiting in the inbox.
type PlacementKind string

const (
	PlacementGraft      PlacementKind = "graft"
	PlacementMiniTour   PlacementKind = "mini_tour"
	PlacementIndividual PlacementKind = "individual"
)

// ParsePlacementKind returns the placement kind for s, or false when s is unknown.
func ParsePlacementKind(s string) (PlacementKind, bool) {
	switch k := PlacementKind(s); k {
	case PlacementGraft, PlacementMiniTour, PlacementIndividual:
		return k, true
	}
	return "", false
}

// BacklogRecord tracks a client from intake until a placement is chosen.
// It is owned by the backlog repository.
type BacklogRecord struct {
	ClientID   string
	IntakeDate time.Time
	Placement  PlacementKind
	TargetTour *int
	PlacedAt   *time.Time
}

func (r *BacklogRecord) Placed() bool { return r.Placement != "" }

// Option is one placement a backlog client qualifies for.
// TourNumber is set only for grafts; Peers only for mini-tours.
type Option struct {
	Kind       PlacementKind
	TourNumber int
	DayLabel   string
	Peers      int
}

// InboxEntry is a client awaiting placement with its triage result.
type InboxEntry struct {
	Client     *Client
	Zone       string
	IntakeDate time.Time
	WaitDays   int
	Alert      bool
	Options    []Option
}

// SpecialDelivery is a run outside the regular tours: a mini-tour grouping
// the placed clients of one zone, or a single individual delivery.
type SpecialDelivery struct {
	Kind      PlacementKind
	Zone      string
	Clients   []*Client
	RouteLink string
}
