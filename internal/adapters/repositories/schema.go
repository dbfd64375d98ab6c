package repositories

import (
	"bouquet-tour-service/internal/platform/db"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Column types that differ between dialects.
type columnTypes struct {
	boolean   string
	timestamp string
}

func typesFor(d db.Dialect) columnTypes {
	if d == db.Postgres {
		return columnTypes{boolean: "BOOLEAN", timestamp: "TIMESTAMPTZ"}
	}
	return columnTypes{boolean: "BOOLEAN", timestamp: "TIMESTAMP"}
}

// Initialize the database schema for the given dialect.
func InitSchema(conn *sql.DB, dialect db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}
	ct := typesFor(dialect)

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createClientsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS clients (
		client_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		postal_code TEXT NOT NULL DEFAULT '',
		items_needed INTEGER NOT NULL DEFAULT 1,
		colors TEXT NOT NULL DEFAULT '',
		style TEXT NOT NULL DEFAULT '',
		sizes TEXT NOT NULL DEFAULT '',
		active %s NOT NULL DEFAULT TRUE,
		created_at %s NOT NULL
	);
	`, ct.boolean, ct.timestamp)

	createItemsQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS items (
		item_id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		colors TEXT NOT NULL DEFAULT '',
		style TEXT NOT NULL DEFAULT '',
		size TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'Available',
		assigned_client TEXT NOT NULL DEFAULT '',
		assigned_at %s NULL
	);
	`, ct.timestamp)

	createBacklogQuery := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS backlog (
		client_id TEXT PRIMARY KEY,
		intake_date %s NOT NULL,
		placement TEXT NOT NULL DEFAULT '',
		target_tour INTEGER NULL,
		placed_at %s NULL
	);
	`, ct.timestamp, ct.timestamp)

	createPostalCacheQuery := `
	CREATE TABLE IF NOT EXISTS postal_code_cache (
		address TEXT PRIMARY KEY,
		postal_code TEXT NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_items_status
	ON items(status);
	`

	statements := []string{
		createClientsQuery,
		createItemsQuery,
		createBacklogQuery,
		createPostalCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ClientSeed struct {
	ClientID    string   `json:"client_id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	PostalCode  string   `json:"postal_code"`
	ItemsNeeded int      `json:"items_needed"`
	Colors      []string `json:"colors"`
	Style       string   `json:"style"`
	Sizes       []string `json:"sizes"`
	Active      *bool    `json:"active"`
}

type ItemSeed struct {
	ItemID string   `json:"item_id"`
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
	Style  string   `json:"style"`
	Size   string   `json:"size"`
}

type BacklogSeed struct {
	ClientID   string    `json:"client_id"`
	IntakeDate time.Time `json:"intake_date"`
}

// Seed is the JSON document accepted by SeedFromJSON.
type Seed struct {
	Clients []ClientSeed  `json:"clients"`
	Items   []ItemSeed    `json:"items"`
	Backlog []BacklogSeed `json:"backlog"`
}

// Populate the database with clients, items and backlog entries from a JSON file.
// Existing rows with the same ids are replaced.
func SeedFromJSON(conn *sql.DB, dialect db.Dialect, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data Seed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}

	return ApplySeed(conn, dialect, data, time.Now().UTC())
}

// ApplySeed validates and writes a seed document in one transaction.
func ApplySeed(conn *sql.DB, dialect db.Dialect, data Seed, now time.Time) error {
	for i, c := range data.Clients {
		if strings.TrimSpace(c.ClientID) == "" {
			return fmt.Errorf("seed clients: client at index %d: client_id cannot be empty", i+1)
		}
		if c.ItemsNeeded < 0 {
			return fmt.Errorf("seed clients: client %q: items_needed cannot be negative", c.ClientID)
		}
	}
	for i, it := range data.Items {
		if strings.TrimSpace(it.ItemID) == "" {
			return fmt.Errorf("seed items: item at index %d: item_id cannot be empty", i+1)
		}
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsertClient := dialect.Rebind(`
	INSERT INTO clients (
		client_id, name, address, postal_code, items_needed,
		colors, style, sizes, active, created_at
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (client_id) DO UPDATE
	SET name = EXCLUDED.name,
		address = EXCLUDED.address,
		postal_code = EXCLUDED.postal_code,
		items_needed = EXCLUDED.items_needed,
		colors = EXCLUDED.colors,
		style = EXCLUDED.style,
		sizes = EXCLUDED.sizes,
		active = EXCLUDED.active;
	`)
	for _, c := range data.Clients {
		active := true
		if c.Active != nil {
			active = *c.Active
		}
		if _, err := tx.Exec(upsertClient,
			c.ClientID, c.Name, c.Address, c.PostalCode, c.ItemsNeeded,
			joinTags(c.Colors), c.Style, joinTags(c.Sizes), active, now,
		); err != nil {
			return fmt.Errorf("seed clients: insert client_id=%q: %w", c.ClientID, err)
		}
	}

	upsertItem := dialect.Rebind(`
	INSERT INTO items (item_id, name, colors, style, size, status, assigned_client)
	VALUES (?, ?, ?, ?, ?, 'Available', '')
	ON CONFLICT (item_id) DO UPDATE
	SET name = EXCLUDED.name,
		colors = EXCLUDED.colors,
		style = EXCLUDED.style,
		size = EXCLUDED.size;
	`)
	for _, it := range data.Items {
		if _, err := tx.Exec(upsertItem, it.ItemID, it.Name, joinTags(it.Colors), it.Style, it.Size); err != nil {
			return fmt.Errorf("seed items: insert item_id=%q: %w", it.ItemID, err)
		}
	}

	// Backlog rows are insert-only: re-seeding keeps the original intake date
	// and any placement already recorded.
	insertBacklog := dialect.Rebind(`
	INSERT INTO backlog (client_id, intake_date)
	VALUES (?, ?)
	ON CONFLICT (client_id) DO NOTHING;
	`)
	for _, b := range data.Backlog {
		intake := b.IntakeDate
		if intake.IsZero() {
			intake = now
		}
		if _, err := tx.Exec(insertBacklog, b.ClientID, intake.UTC()); err != nil {
			return fmt.Errorf("seed backlog: insert client_id=%q: %w", b.ClientID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
