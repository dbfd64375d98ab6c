package domain

import "time"

// UnscheduledDayLabel is given to tours that fall beyond the scheduling horizon.
const UnscheduledDayLabel = "To be scheduled"

// Represents one day's bounded set of delivery stops.
// A Tour is recomputed from the current client snapshot on every planning
// request; it is never updated incrementally.
type Tour struct {
	Number    int
	Clients   []*Client
	DayLabel  string
	Date      *time.Time
	Zones     []string
	RouteLink string
}

// NewTour builds a tour and derives its covered zones in visiting order.
func NewTour(number int, clients []*Client) *Tour {
	t := &Tour{Number: number, Clients: clients, DayLabel: UnscheduledDayLabel}
	t.refreshZones()
	return t
}

func (t *Tour) Size() int { return len(t.Clients) }

// Sum of items needed across the tour's clients.
func (t *Tour) ItemCount() int {
	n := 0
	for _, c := range t.Clients {
		n += c.ItemsNeeded
	}
	return n
}

// CoversZone reports whether any client of the tour sits in zone.
func (t *Tour) CoversZone(zone string) bool {
	for _, z := range t.Zones {
		if z == zone {
			return true
		}
	}
	return false
}

// Append clients to the tour (used when merging a trailing remainder).
func (t *Tour) Append(clients ...*Client) {
	t.Clients = append(t.Clients, clients...)
	t.refreshZones()
}

// Schedule sets the tour's delivery day.
func (t *Tour) Schedule(label string, date *time.Time) {
	t.DayLabel = label
	t.Date = date
}

func (t *Tour) refreshZones() {
	seen := make(map[string]struct{}, len(t.Clients))
	zones := make([]string, 0, 4)
	for _, c := range t.Clients {
		if _, ok := seen[c.Zone]; ok {
			continue
		}
		seen[c.Zone] = struct{}{}
		zones = append(zones, c.Zone)
	}
	t.Zones = zones
}
