package store

import (
	"context"
	"database/sql"
	"errors"
)

// StatisticsRow is the materialized per-entry aggregate row.
type StatisticsRow struct {
	File   string
	Size0  int64
	Size   int64
	SizeB  int64
	Date0  string
	Date   string
	User0  string
	User   string
	Labels string
}

// GetStatistics returns the statistics row for name, or nil if absent.
func (s *Store) GetStatistics(ctx context.Context, name string) (*StatisticsRow, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT file, size0, size, sizeB, date0, date, user0, user, labels FROM _statistics_ WHERE file = ?;`, name)

	var r StatisticsRow

	if err := row.Scan(&r.File, &r.Size0, &r.Size, &r.SizeB, &r.Date0, &r.Date, &r.User0, &r.User, &r.Labels); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, errf("get statistics %q: %v", name, err)
	}

	return &r, nil
}

// UpsertStatistics inserts or replaces the statistics row for r.File.
func (s *Store) UpsertStatistics(ctx context.Context, r StatisticsRow) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO _statistics_ (file, size0, size, sizeB, date0, date, user0, user, labels)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(file) DO UPDATE SET
			size0 = excluded.size0, size = excluded.size, sizeB = excluded.sizeB,
			date0 = excluded.date0, date = excluded.date,
			user0 = excluded.user0, user = excluded.user,
			labels = excluded.labels;`,
		r.File, r.Size0, r.Size, r.SizeB, r.Date0, r.Date, r.User0, r.User, r.Labels)
	if err != nil {
		return errf("upsert statistics %q: %v", r.File, err)
	}

	return nil
}

// RenameStatistics moves the statistics row from oldName to newName.
func (s *Store) RenameStatistics(ctx context.Context, oldName, newName string) error {
	_, err := s.q.ExecContext(ctx, `UPDATE _statistics_ SET file = ? WHERE file = ?;`, newName, oldName)
	if err != nil {
		return errf("rename statistics %q -> %q: %v", oldName, newName, err)
	}

	return nil
}

// DeleteStatistics removes the statistics row for name.
func (s *Store) DeleteStatistics(ctx context.Context, name string) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM _statistics_ WHERE file = ?;`, name)
	if err != nil {
		return errf("delete statistics %q: %v", name, err)
	}

	return nil
}

// TruncateStatistics empties the entire statistics table, as part of
// Cleanup's rebuild.
func (s *Store) TruncateStatistics(ctx context.Context) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM _statistics_;`)
	if err != nil {
		return errf("truncate statistics: %v", err)
	}

	return nil
}
