package cache

import (
	"bouquet-tour-service/internal/platform/db"
	"bouquet-tour-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLPostalCodeCache is a SQL-backed cache mapping addresses to postal codes.
// Address keys are expected to be normalized by the caller.
type SQLPostalCodeCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLPostalCodeCache(conn *sql.DB, dialect db.Dialect) *SQLPostalCodeCache {
	return &SQLPostalCodeCache{DB: conn, Dialect: dialect}
}

// Fetch cached postal codes for the given addresses.
func (s *SQLPostalCodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]string, err error) {
	defer obs.Time(ctx, "postalcode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("postal code cache: db is nil")
	}

	if len(addresses) == 0 {
		return map[string]string{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(addresses))
	ph := make([]string, 0, len(addresses))
	for _, a := range addresses {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}

		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		uniq = append(uniq, a)
		ph = append(ph, "?")
	}

	if len(uniq) == 0 {
		return map[string]string{}, nil
	}

	args := make([]any, 0, len(uniq))
	for _, a := range uniq {
		args = append(args, a)
	}

	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := s.Dialect.Rebind(fmt.Sprintf(`
	SELECT address, postal_code
	FROM postal_code_cache
	WHERE address IN (%s);
	`, strings.Join(ph, ",")))

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("get postal code cache: query postal_code_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string, len(uniq))
	for rows.Next() {
		var addr, code string
		if err := rows.Scan(&addr, &code); err != nil {
			return nil, fmt.Errorf("get postal code cache: scan rows: %w", err)
		}
		out[addr] = code
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get postal code cache: row iteration: %w", err)
	}

	return out, nil
}

// Store address -> postal code mappings in the cache.
func (s *SQLPostalCodeCache) PutMany(ctx context.Context, results map[string]string) error {
	if s.DB == nil {
		return errors.New("postal code cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert postal code cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, s.Dialect.Rebind(`
	INSERT INTO postal_code_cache (address, postal_code)
	VALUES (?, ?)
	ON CONFLICT (address) DO UPDATE
	SET postal_code = EXCLUDED.postal_code;
	`))
	if err != nil {
		return fmt.Errorf("insert postal code cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for addr, code := range results {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("insert postal code cache: empty address key")
		}

		if _, err := stmt.ExecContext(ctx, addr, code); err != nil {
			return fmt.Errorf("insert postal code cache address=%q: %w", addr, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert postal code cache commit: %w", err)
	}

	return nil
}
