package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTourZonesAndCounts(t *testing.T) {
	c1 := &Client{ID: "c1", Zone: "Paris Centre", ItemsNeeded: 2}
	c2 := &Client{ID: "c2", Zone: "Paris Centre", ItemsNeeded: 1}
	c3 := &Client{ID: "c3", Zone: "Hauts-de-Seine", ItemsNeeded: 3}

	tour := NewTour(1, []*Client{c1, c2})

	assert.Equal(t, []string{"Paris Centre"}, tour.Zones)
	assert.Equal(t, 2, tour.Size())
	assert.Equal(t, 3, tour.ItemCount())
	assert.Equal(t, UnscheduledDayLabel, tour.DayLabel)
	assert.Nil(t, tour.Date)

	tour.Append(c3)

	assert.Equal(t, []string{"Paris Centre", "Hauts-de-Seine"}, tour.Zones)
	assert.True(t, tour.CoversZone("Hauts-de-Seine"))
	assert.False(t, tour.CoversZone("Essonne"))
	assert.Equal(t, 6, tour.ItemCount())
}

func TestTourSchedule(t *testing.T) {
	tour := NewTour(3, nil)
	day := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)

	tour.Schedule("Tuesday 06/01", &day)

	require.NotNil(t, tour.Date)
	assert.True(t, tour.Date.Equal(day))
	assert.Equal(t, "Tuesday 06/01", tour.DayLabel)
	assert.Equal(t, 0, tour.ItemCount())
}

func TestParsePlacementKind(t *testing.T) {
	k, ok := ParsePlacementKind("mini_tour")
	assert.True(t, ok)
	assert.Equal(t, PlacementMiniTour, k)

	_, ok = ParsePlacementKind("teleport")
	assert.False(t, ok)
}
