package store

import "context"

// LogRow is one append-only _logs_ entry.
type LogRow struct {
	Date string
	Msg  string
}

// AppendLog appends one log row.
func (s *Store) AppendLog(ctx context.Context, date, msg string) error {
	_, err := s.q.ExecContext(ctx, `INSERT INTO _logs_ (date, msg) VALUES (?, ?);`, date, msg)
	if err != nil {
		return errf("append log: %v", err)
	}

	return nil
}

// ListLogs returns every log row in insertion order.
func (s *Store) ListLogs(ctx context.Context) ([]LogRow, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT date, msg FROM _logs_ ORDER BY rowid ASC;`)
	if err != nil {
		return nil, errf("list logs: %v", err)
	}
	defer rows.Close()

	var out []LogRow

	for rows.Next() {
		var r LogRow

		if err := rows.Scan(&r.Date, &r.Msg); err != nil {
			return nil, errf("scan log row: %v", err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}

// TruncateLogs empties the log table, as Cleanup does before writing its
// own single cleanup record.
func (s *Store) TruncateLogs(ctx context.Context) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM _logs_;`)
	if err != nil {
		return errf("truncate logs: %v", err)
	}

	return nil
}
