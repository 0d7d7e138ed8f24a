package store

import (
	"context"
	"database/sql"
	"errors"
)

// FileRow is one _files_ entry row. Pwd encodes the three-state password
// mode; its byte layout is owned by the vault package, not by Store.
type FileRow struct {
	Name   string
	Pwd    []byte
	Labels string
}

// GetFile returns the entry row for name, or nil if no such entry exists.
func (s *Store) GetFile(ctx context.Context, name string) (*FileRow, error) {
	row := s.q.QueryRowContext(ctx, `SELECT file, pwd, labels FROM _files_ WHERE file = ?;`, name)

	var f FileRow

	if err := row.Scan(&f.Name, &f.Pwd, &f.Labels); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, errf("get file %q: %v", name, err)
	}

	return &f, nil
}

// UpsertFile inserts or updates an entry row.
func (s *Store) UpsertFile(ctx context.Context, f FileRow) error {
	_, err := s.q.ExecContext(ctx,
		`INSERT INTO _files_ (file, pwd, labels) VALUES (?, ?, ?)
		 ON CONFLICT(file) DO UPDATE SET pwd = excluded.pwd, labels = excluded.labels;`,
		f.Name, f.Pwd, f.Labels)
	if err != nil {
		return errf("upsert file %q: %v", f.Name, err)
	}

	return nil
}

// SetLabels updates only the labels column for name.
func (s *Store) SetLabels(ctx context.Context, name, labels string) error {
	_, err := s.q.ExecContext(ctx, `UPDATE _files_ SET labels = ? WHERE file = ?;`, labels, name)
	if err != nil {
		return errf("set labels %q: %v", name, err)
	}

	return nil
}

// RenameFile renames the entry row in place.
func (s *Store) RenameFile(ctx context.Context, oldName, newName string) error {
	_, err := s.q.ExecContext(ctx, `UPDATE _files_ SET file = ? WHERE file = ?;`, newName, oldName)
	if err != nil {
		return errf("rename file %q -> %q: %v", oldName, newName, err)
	}

	return nil
}

// DeleteFile removes the entry row for name.
func (s *Store) DeleteFile(ctx context.Context, name string) error {
	_, err := s.q.ExecContext(ctx, `DELETE FROM _files_ WHERE file = ?;`, name)
	if err != nil {
		return errf("delete file %q: %v", name, err)
	}

	return nil
}

// FileListRow is a denormalized join of _files_ and _statistics_, used by
// GetFileList's sort and filter.
type FileListRow struct {
	File   string
	Labels string
	Size0  int64
	Size   int64
	SizeB  int64
	Date0  string
	Date   string
	User0  string
	User   string
}

// ListFiles returns every entry joined with its statistics row (if any).
// Sorting and filtering are applied by the caller; the column set mirrors
// the whitelist in the engine's GetFileList.
func (s *Store) ListFiles(ctx context.Context) ([]FileListRow, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT f.file, f.labels,
		       COALESCE(st.size0, 0), COALESCE(st.size, 0), COALESCE(st.sizeB, 0),
		       COALESCE(st.date0, ''), COALESCE(st.date, ''),
		       COALESCE(st.user0, ''), COALESCE(st.user, '')
		FROM _files_ f
		LEFT JOIN _statistics_ st ON st.file = f.file;`)
	if err != nil {
		return nil, errf("list files: %v", err)
	}
	defer rows.Close()

	var out []FileListRow

	for rows.Next() {
		var r FileListRow

		if err := rows.Scan(&r.File, &r.Labels, &r.Size0, &r.Size, &r.SizeB, &r.Date0, &r.Date, &r.User0, &r.User); err != nil {
			return nil, errf("scan file list row: %v", err)
		}

		out = append(out, r)
	}

	return out, rows.Err()
}
