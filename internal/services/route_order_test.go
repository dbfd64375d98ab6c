package services

import (
	"bouquet-tour-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderRouteByZoneThenPostalCode(t *testing.T) {
	zc := NewZoneClassifier(DefaultZones())
	in := []*domain.Client{
		{ID: "a", Zone: "Hauts-de-Seine", PostalCode: "92200", Address: "1 av Foch"},
		{ID: "b", Zone: "Paris Centre", PostalCode: "75003", Address: "2 rue Turbigo"},
		{ID: "c", Zone: OtherZone, PostalCode: "13001", Address: "3 La Canebiere"},
		{ID: "d", Zone: "Paris Centre", PostalCode: "75001", Address: "4 rue Rivoli"},
	}

	out := OrderRoute(in, zc)

	ids := make([]string, 0, len(out))
	for _, c := range out {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids)
	assert.Equal(t, "a", in[0].ID, "input must not be reordered")
}

func TestZoneRouteOrdererMatchesOrderRoute(t *testing.T) {
	zc := NewZoneClassifier(DefaultZones())
	in := []*domain.Client{
		{ID: "x", Zone: "Essonne", PostalCode: "91300"},
		{ID: "y", Zone: "Paris Est", PostalCode: "75011"},
	}

	assert.Equal(t, OrderRoute(in, zc), ZoneRouteOrderer(zc)(in))
}

func TestRouteLink(t *testing.T) {
	clients := []*domain.Client{
		{ID: "a", Address: "8 rue Oberkampf, 75011 Paris"},
		{ID: "b", Address: "  "},
		{ID: "c", Address: "1 av  Foch 92200"},
	}

	assert.Equal(t,
		"https://www.google.com/maps/dir/Hub%201/8%20rue%20Oberkampf%2C%2075011%20Paris/1%20av%20Foch%2092200",
		RouteLink("Hub 1", clients),
	)
	assert.Equal(t,
		"https://www.google.com/maps/dir/1%20av%20Foch%2092200",
		RouteLink("", clients[2:]),
	)
	assert.Equal(t, "", RouteLink("Hub 1", nil))
}
