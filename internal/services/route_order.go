package services

import (
	"bouquet-tour-service/internal/domain"
	"cmp"
	"net/url"
	"slices"
	"strings"
)

const directionsBaseURL = "https://www.google.com/maps/dir/"

// RouteOrderer returns a tour's clients in visiting order.
// It is the seam where a real routing integration can replace the heuristic
// without touching tour building.
type RouteOrderer func(clients []*domain.Client) []*domain.Client

// ZoneRouteOrderer is the default heuristic: a stable sort by
// (zone rank, postal code, address). No distance matrix is computed;
// the order only roughly follows postal geography.
func ZoneRouteOrderer(zones *ZoneClassifier) RouteOrderer {
	return func(clients []*domain.Client) []*domain.Client {
		return OrderRoute(clients, zones)
	}
}

// OrderRoute returns a sorted copy of clients; the input is left untouched.
func OrderRoute(clients []*domain.Client, zones *ZoneClassifier) []*domain.Client {
	ordered := slices.Clone(clients)
	slices.SortStableFunc(ordered, func(a, b *domain.Client) int {
		if c := cmp.Compare(zones.Rank(a.Zone), zones.Rank(b.Zone)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.PostalCode, b.PostalCode); c != 0 {
			return c
		}
		return cmp.Compare(a.Address, b.Address)
	})
	return ordered
}

// RouteLink builds a turn-by-turn directions link visiting clients in order,
// starting from hub when one is given.
func RouteLink(hub string, clients []*domain.Client) string {
	if len(clients) == 0 {
		return ""
	}

	stops := make([]string, 0, len(clients)+1)
	if h := strings.TrimSpace(hub); h != "" {
		stops = append(stops, url.PathEscape(h))
	}
	for _, c := range clients {
		addr := strings.Join(strings.Fields(c.Address), " ")
		if addr == "" {
			continue
		}
		stops = append(stops, url.PathEscape(addr))
	}

	return directionsBaseURL + strings.Join(stops, "/")
}
