package repositories

import (
	"bouquet-tour-service/internal/domain"
	"bouquet-tour-service/internal/platform/db"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(conn, db.SQLite))
	return conn
}

func boolPtr(b bool) *bool { return &b }

func testSeed() Seed {
	return Seed{
		Clients: []ClientSeed{
			{
				ClientID:    "c1",
				Name:        "Salon Rivoli",
				Address:     "12 rue de Rivoli, 75004 Paris",
				PostalCode:  "75004",
				ItemsNeeded: 2,
				Colors:      []string{"Rouge", " Blanc "},
				Style:       "Classique",
				Sizes:       []string{"M"},
			},
			{ClientID: "c2", Name: "Hotel Lumiere", Address: "3 av. Foch, 92200 Neuilly", ItemsNeeded: 1},
			{ClientID: "c3", Name: "Closed shop", Address: "1 rue X, 75011 Paris", ItemsNeeded: 1, Active: boolPtr(false)},
		},
		Items: []ItemSeed{
			{ItemID: "b1", Name: "Pivoine", Colors: []string{"Rose"}, Style: "Bucolique", Size: "Moyen"},
			{ItemID: "b2", Name: "Orchidee", Colors: []string{"Blanc"}, Style: "Zen", Size: "Grand"},
		},
		Backlog: []BacklogSeed{
			{ClientID: "c2", IntakeDate: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)},
		},
	}
}

func TestClientRepositoryListsActiveClients(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, ApplySeed(conn, db.SQLite, testSeed(), time.Now().UTC()))

	repo := NewSQLClientRepository(conn, db.SQLite)
	clients, err := repo.ListActiveClients(context.Background())
	require.NoError(t, err)

	require.Len(t, clients, 2)
	c1 := clients[0]
	assert.Equal(t, "c1", c1.ID)
	assert.Equal(t, "75004", c1.PostalCode)
	assert.Equal(t, 2, c1.ItemsNeeded)
	assert.Equal(t, []string{"Rouge", "Blanc"}, c1.Preferences.Colors)
	assert.Equal(t, "Classique", c1.Preferences.Style)
	assert.Equal(t, []string{"M"}, c1.Preferences.Sizes)
	assert.True(t, c1.Active)

	assert.Equal(t, "c2", clients[1].ID)
	assert.Empty(t, clients[1].Preferences.Colors)
}

func TestInventoryMarkAssignedIsConditional(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, ApplySeed(conn, db.SQLite, testSeed(), time.Now().UTC()))

	repo := NewSQLInventoryRepository(conn, db.SQLite)
	ctx := context.Background()

	require.NoError(t, repo.MarkAssigned(ctx, "b1", "c1"))

	// Same pair again: idempotent.
	require.NoError(t, repo.MarkAssigned(ctx, "b1", "c1"))

	err := repo.MarkAssigned(ctx, "b1", "c2")
	assert.ErrorIs(t, err, domain.ErrItemUnavailable)

	err = repo.MarkAssigned(ctx, "nope", "c1")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.ItemAssigned, items[0].Status)
	assert.Equal(t, "c1", items[0].AssignedTo)
	assert.Equal(t, domain.ItemAvailable, items[1].Status)
	assert.Equal(t, []string{"Blanc"}, items[1].Colors)
}

func TestInventoryMarkAssignedSingleWinner(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, ApplySeed(conn, db.SQLite, testSeed(), time.Now().UTC()))

	repo := NewSQLInventoryRepository(conn, db.SQLite)

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   int
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			clientID := "client-" + string(rune('a'+i))
			err := repo.MarkAssigned(context.Background(), "b2", clientID)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case assert.ErrorIs(t, err, domain.ErrItemUnavailable):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, callers-1, conflicts)
}

func TestBacklogSetPlacement(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, ApplySeed(conn, db.SQLite, testSeed(), time.Now().UTC()))

	repo := NewSQLBacklogRepository(conn, db.SQLite)
	ctx := context.Background()

	records, err := repo.ListBacklog(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "c2", records[0].ClientID)
	assert.False(t, records[0].Placed())
	assert.True(t, records[0].IntakeDate.Equal(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)))

	tour := 2
	at := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SetPlacement(ctx, "c2", domain.PlacementGraft, &tour, at))

	records, err = repo.ListBacklog(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.PlacementGraft, records[0].Placement)
	require.NotNil(t, records[0].TargetTour)
	assert.Equal(t, 2, *records[0].TargetTour)
	require.NotNil(t, records[0].PlacedAt)
	assert.True(t, records[0].PlacedAt.Equal(at))

	err = repo.SetPlacement(ctx, "ghost", domain.PlacementIndividual, nil, at)
	assert.ErrorIs(t, err, domain.ErrBacklogNotFound)
}

func TestSeedFromJSON(t *testing.T) {
	conn := newTestDB(t)

	path := filepath.Join(t.TempDir(), "seed.json")
	doc := `{
		"clients": [{"client_id": "c9", "address": "8 rue Oberkampf, 75011 Paris", "items_needed": 1, "colors": ["Vert"]}],
		"items": [{"item_id": "b9", "colors": ["Vert", "Blanc"], "style": "Zen", "size": "Petit"}],
		"backlog": [{"client_id": "c9"}]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	require.NoError(t, SeedFromJSON(conn, db.SQLite, path))
	// Re-seeding replaces rows instead of failing.
	require.NoError(t, SeedFromJSON(conn, db.SQLite, path))

	clients, err := NewSQLClientRepository(conn, db.SQLite).ListActiveClients(context.Background())
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, []string{"Vert"}, clients[0].Preferences.Colors)

	records, err := NewSQLBacklogRepository(conn, db.SQLite).ListBacklog(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].IntakeDate.IsZero())
}

func TestReseedKeepsBacklogState(t *testing.T) {
	conn := newTestDB(t)
	seed := testSeed()
	seed.Backlog = append(seed.Backlog, BacklogSeed{ClientID: "c1"})

	firstBoot := time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC)
	require.NoError(t, ApplySeed(conn, db.SQLite, seed, firstBoot))

	repo := NewSQLBacklogRepository(conn, db.SQLite)
	ctx := context.Background()
	require.NoError(t, repo.SetPlacement(ctx, "c2", domain.PlacementIndividual, nil, firstBoot))

	require.NoError(t, ApplySeed(conn, db.SQLite, seed, firstBoot.AddDate(0, 0, 5)))

	records, err := repo.ListBacklog(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	byID := map[string]*domain.BacklogRecord{}
	for _, r := range records {
		byID[r.ClientID] = r
	}
	assert.True(t, byID["c1"].IntakeDate.Equal(firstBoot), "undated intake is not reset")
	assert.Equal(t, domain.PlacementIndividual, byID["c2"].Placement)
}

func TestApplySeedRejectsEmptyIDs(t *testing.T) {
	conn := newTestDB(t)

	err := ApplySeed(conn, db.SQLite, Seed{Items: []ItemSeed{{Name: "no id"}}}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item_id cannot be empty")
}

func TestSplitJoinTags(t *testing.T) {
	assert.Equal(t, "Rouge,Blanc", joinTags([]string{" Rouge", "", "Blanc "}))
	assert.Equal(t, []string{"Rouge", "Blanc"}, splitTags("Rouge, Blanc,"))
	assert.Empty(t, splitTags("  "))
}
