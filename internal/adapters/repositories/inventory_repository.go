package repositories

import (
	"bouquet-tour-service/internal/domain"
	"bouquet-tour-service/internal/platform/db"
	"bouquet-tour-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQL-backed implementation of the InventoryRepository port.
type SQLInventoryRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
	Now     func() time.Time
}

func NewSQLInventoryRepository(conn *sql.DB, dialect db.Dialect) *SQLInventoryRepository {
	return &SQLInventoryRepository{DB: conn, Dialect: dialect, Now: time.Now}
}

// Return every inventory item, ordered by id.
func (s *SQLInventoryRepository) ListItems(ctx context.Context) (_ []*domain.Item, err error) {
	defer obs.Time(ctx, "inventory.ListItems")(&err)

	if s.DB == nil {
		return nil, errors.New("sql inventory repository: DB is nil")
	}

	query := `
	SELECT
		item_id,
		name,
		colors,
		style,
		size,
		status,
		assigned_client
	FROM items
	ORDER BY item_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: query items table: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Item, 0, 64)
	for rows.Next() {
		var (
			it     domain.Item
			colors string
			status string
		)
		if err := rows.Scan(&it.ID, &it.Name, &colors, &it.Style, &it.Size, &status, &it.AssignedTo); err != nil {
			return nil, fmt.Errorf("list items: scan row: %w", err)
		}
		it.Colors = splitTags(colors)
		it.Status = domain.ItemStatus(status)
		items = append(items, &it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: row iteration: %w", err)
	}

	return items, nil
}

// MarkAssigned is a single conditional write: the item flips to Assigned only
// if it is still Available. Concurrent callers racing for the same item see
// exactly one winner; the others get domain.ErrItemUnavailable.
func (s *SQLInventoryRepository) MarkAssigned(ctx context.Context, itemID, clientID string) (err error) {
	defer obs.Time(ctx, "inventory.MarkAssigned")(&err)

	if s.DB == nil {
		return errors.New("sql inventory repository: DB is nil")
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	update := s.Dialect.Rebind(`
	UPDATE items
	SET status = ?,
		assigned_client = ?,
		assigned_at = ?
	WHERE item_id = ?
		AND status = ?;
	`)
	res, err := s.DB.ExecContext(ctx, update,
		string(domain.ItemAssigned), clientID, now().UTC(), itemID, string(domain.ItemAvailable),
	)
	if err != nil {
		return fmt.Errorf("mark assigned item_id=%q: %w", itemID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark assigned item_id=%q: rows affected: %w", itemID, err)
	}
	if n == 1 {
		return nil
	}

	// The condition did not hold: find out why.
	var status, assignedTo string
	lookup := s.Dialect.Rebind(`SELECT status, assigned_client FROM items WHERE item_id = ?;`)
	err = s.DB.QueryRowContext(ctx, lookup, itemID).Scan(&status, &assignedTo)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("mark assigned item_id=%q: %w", itemID, domain.ErrItemNotFound)
	}
	if err != nil {
		return fmt.Errorf("mark assigned item_id=%q: lookup: %w", itemID, err)
	}

	if domain.ItemStatus(status) == domain.ItemAssigned && assignedTo == clientID {
		return nil
	}
	return fmt.Errorf("mark assigned item_id=%q: %w", itemID, domain.ErrItemUnavailable)
}
