package repositories

import (
	"bouquet-tour-service/internal/domain"
	"bouquet-tour-service/internal/platform/db"
	"bouquet-tour-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQL-backed implementation of the ClientRepository port.
type SQLClientRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLClientRepository(conn *sql.DB, dialect db.Dialect) *SQLClientRepository {
	return &SQLClientRepository{DB: conn, Dialect: dialect}
}

// Return all active clients, ordered by id.
func (s *SQLClientRepository) ListActiveClients(ctx context.Context) (_ []*domain.Client, err error) {
	defer obs.Time(ctx, "clients.ListActiveClients")(&err)

	if s.DB == nil {
		return nil, errors.New("sql client repository: DB is nil")
	}

	query := `
	SELECT
		client_id,
		name,
		address,
		postal_code,
		items_needed,
		colors,
		style,
		sizes,
		active,
		created_at
	FROM clients
	WHERE active
	ORDER BY client_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clients: query clients table: %w", err)
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0, 64)
	for rows.Next() {
		var (
			c             domain.Client
			colors, sizes string
		)
		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Address,
			&c.PostalCode,
			&c.ItemsNeeded,
			&colors,
			&c.Preferences.Style,
			&sizes,
			&c.Active,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list clients: scan row: %w", err)
		}
		c.Preferences.Colors = splitTags(colors)
		c.Preferences.Sizes = splitTags(sizes)
		clients = append(clients, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: row iteration: %w", err)
	}

	return clients, nil
}
