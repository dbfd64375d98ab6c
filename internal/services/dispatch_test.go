package services

import (
	"bouquet-tour-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string, colors ...string) *domain.Item {
	return &domain.Item{ID: id, Colors: colors, Status: domain.ItemAvailable}
}

func TestDispatchTourNoDuplicatePrimaries(t *testing.T) {
	red := domain.Preferences{Colors: []string{"red"}}
	tour := domain.NewTour(1, []*domain.Client{
		{ID: "c1", ItemsNeeded: 2, Preferences: red},
		{ID: "c2", ItemsNeeded: 1, Preferences: red},
		{ID: "c3", ItemsNeeded: 1, Preferences: red},
	})
	items := []*domain.Item{
		item("i4", "white"),
		item("i1", "red"),
		item("i2", "red"),
		item("i3", "red"),
		{ID: "i0", Colors: []string{"red"}, Status: domain.ItemAssigned},
	}

	d := DispatchTour(tour, items, nil)

	require.Len(t, d.Clients, 3)
	seen := map[string]string{}
	for _, cd := range d.Clients {
		for _, m := range cd.Primary {
			prev, dup := seen[m.ItemID]
			assert.False(t, dup, "item %s proposed to %s and %s", m.ItemID, prev, cd.Client.ID)
			seen[m.ItemID] = cd.Client.ID
			assert.NotEqual(t, "i0", m.ItemID)
			assert.Equal(t, domain.MatchPrimary, m.Kind)
		}
		assert.False(t, cd.Validated)
	}

	c1 := d.Clients[0]
	assert.Equal(t, []string{"i1", "i2"}, ids(c1.Primary))
	assert.Equal(t, []string{"i3", "i4"}, ids(c1.Alternatives))
	assert.True(t, c1.Complete)

	assert.Equal(t, []string{"i3"}, ids(d.Clients[1].Primary))

	// Only the white item is left for the last client.
	c3 := d.Clients[2]
	assert.Equal(t, []string{"i4"}, ids(c3.Primary))
	assert.Empty(t, c3.Alternatives)
	assert.True(t, c3.Complete)
}

func TestDispatchTourShortage(t *testing.T) {
	tour := domain.NewTour(1, []*domain.Client{
		{ID: "c1", ItemsNeeded: 3},
		{ID: "c2", ItemsNeeded: 1},
	})

	d := DispatchTour(tour, []*domain.Item{item("b"), item("a")}, nil)

	assert.Equal(t, []string{"a", "b"}, ids(d.Clients[0].Primary), "ties break on item id")
	assert.False(t, d.Clients[0].Complete)
	assert.Empty(t, d.Clients[1].Primary)
	assert.False(t, d.Clients[1].Complete)
}

func TestDispatchTourAppliesOrder(t *testing.T) {
	tour := domain.NewTour(1, []*domain.Client{
		{ID: "second", ItemsNeeded: 1},
		{ID: "first", ItemsNeeded: 1},
	})
	reverse := func(cs []*domain.Client) []*domain.Client {
		return []*domain.Client{cs[1], cs[0]}
	}

	d := DispatchTour(tour, []*domain.Item{item("a")}, reverse)

	assert.Equal(t, "first", d.Clients[0].Client.ID)
	assert.Equal(t, []string{"a"}, ids(d.Clients[0].Primary))
	assert.Equal(t, "second", tour.Clients[0].ID, "tour order is left untouched")
}

func TestDispatchTourZeroNeedIsComplete(t *testing.T) {
	tour := domain.NewTour(1, []*domain.Client{{ID: "c1"}})

	d := DispatchTour(tour, []*domain.Item{item("a"), item("b"), item("c")}, nil)

	assert.Empty(t, d.Clients[0].Primary)
	assert.Len(t, d.Clients[0].Alternatives, alternativesPerClient)
	assert.True(t, d.Clients[0].Complete)
}

func ids(ms []domain.MatchResult) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ItemID)
	}
	return out
}
