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

// SQL-backed implementation of the BacklogRepository port.
type SQLBacklogRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLBacklogRepository(conn *sql.DB, dialect db.Dialect) *SQLBacklogRepository {
	return &SQLBacklogRepository{DB: conn, Dialect: dialect}
}

// Return every backlog record ordered by intake date.
func (s *SQLBacklogRepository) ListBacklog(ctx context.Context) (_ []*domain.BacklogRecord, err error) {
	defer obs.Time(ctx, "backlog.ListBacklog")(&err)

	if s.DB == nil {
		return nil, errors.New("sql backlog repository: DB is nil")
	}

	query := `
	SELECT
		client_id,
		intake_date,
		placement,
		target_tour,
		placed_at
	FROM backlog
	ORDER BY intake_date, client_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list backlog: query backlog table: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.BacklogRecord, 0, 16)
	for rows.Next() {
		var (
			r         domain.BacklogRecord
			placement string
			target    sql.NullInt64
			placedAt  sql.NullTime
		)
		if err := rows.Scan(&r.ClientID, &r.IntakeDate, &placement, &target, &placedAt); err != nil {
			return nil, fmt.Errorf("list backlog: scan row: %w", err)
		}
		r.Placement = domain.PlacementKind(placement)
		if target.Valid {
			n := int(target.Int64)
			r.TargetTour = &n
		}
		if placedAt.Valid {
			t := placedAt.Time
			r.PlacedAt = &t
		}
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list backlog: row iteration: %w", err)
	}

	return records, nil
}

// Record the chosen placement against the client's backlog entry.
func (s *SQLBacklogRepository) SetPlacement(
	ctx context.Context,
	clientID string,
	placement domain.PlacementKind,
	targetTour *int,
	at time.Time,
) (err error) {
	defer obs.Time(ctx, "backlog.SetPlacement")(&err)

	if s.DB == nil {
		return errors.New("sql backlog repository: DB is nil")
	}

	var target sql.NullInt64
	if targetTour != nil {
		target = sql.NullInt64{Int64: int64(*targetTour), Valid: true}
	}

	update := s.Dialect.Rebind(`
	UPDATE backlog
	SET placement = ?,
		target_tour = ?,
		placed_at = ?
	WHERE client_id = ?;
	`)
	res, err := s.DB.ExecContext(ctx, update, string(placement), target, at.UTC(), clientID)
	if err != nil {
		return fmt.Errorf("set placement client_id=%q: %w", clientID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set placement client_id=%q: rows affected: %w", clientID, err)
	}
	if n == 0 {
		return fmt.Errorf("set placement client_id=%q: %w", clientID, domain.ErrBacklogNotFound)
	}

	return nil
}
