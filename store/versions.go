package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
)

// VersionRow is one row of a per-entry version table.
type VersionRow struct {
	Version int
	Raw     []byte
	Hash    string
	Size    int64
	Date    string
	User    string
}

// validIdent matches the only shape a storage identifier may take: "t"
// followed by 32 lowercase hex digits (an MD4 digest). Every identifier
// that reaches these functions is derived from namemap.StorageID, but the
// check is kept here too since identifiers are interpolated directly into
// DDL that database/sql cannot parameterize.
var validIdent = regexp.MustCompile(`^t[0-9a-f]{32}$`)

func checkIdent(id string) error {
	if !validIdent.MatchString(id) {
		return fmt.Errorf("store: invalid version table identifier %q", id)
	}

	return nil
}

// CreateVersionTable creates the per-entry version table for id if it does
// not already exist.
func (s *Store) CreateVersionTable(ctx context.Context, id string) error {
	if err := checkIdent(id); err != nil {
		return err
	}

	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		version INTEGER PRIMARY KEY ASC,
		raw BLOB,
		hash TEXT,
		size INTEGER,
		date TEXT,
		user TEXT
	);`, id)

	if _, err := s.q.ExecContext(ctx, q); err != nil {
		return errf("create version table %q: %v", id, err)
	}

	return nil
}

// DropVersionTable drops the per-entry version table for id.
func (s *Store) DropVersionTable(ctx context.Context, id string) error {
	if err := checkIdent(id); err != nil {
		return err
	}

	q := fmt.Sprintf(`DROP TABLE IF EXISTS %s;`, id)
	if _, err := s.q.ExecContext(ctx, q); err != nil {
		return errf("drop version table %q: %v", id, err)
	}

	return nil
}

// RenameVersionTable renames a per-entry version table in place.
func (s *Store) RenameVersionTable(ctx context.Context, oldID, newID string) error {
	if err := checkIdent(oldID); err != nil {
		return err
	}

	if err := checkIdent(newID); err != nil {
		return err
	}

	q := fmt.Sprintf(`ALTER TABLE %s RENAME TO %s;`, oldID, newID)
	if _, err := s.q.ExecContext(ctx, q); err != nil {
		return errf("rename version table %q -> %q: %v", oldID, newID, err)
	}

	return nil
}

// InsertVersion appends a new version row, auto-assigning the next
// version number, and returns it.
func (s *Store) InsertVersion(ctx context.Context, id string, v VersionRow) (int, error) {
	if err := checkIdent(id); err != nil {
		return 0, err
	}

	q := fmt.Sprintf(`INSERT INTO %s (raw, hash, size, date, user) VALUES (?, ?, ?, ?, ?);`, id)

	res, err := s.q.ExecContext(ctx, q, v.Raw, v.Hash, v.Size, v.Date, v.User)
	if err != nil {
		return 0, errf("insert version into %q: %v", id, err)
	}

	last, err := res.LastInsertId()
	if err != nil {
		return 0, errf("insert version into %q: last insert id: %v", id, err)
	}

	return int(last), nil
}

// InsertVersionAt inserts a version row at an explicit version number, used
// by the engine's CopyIntoNew to start the destination entry at version 1
// and by DeleteVersion to renumber the remaining rows.
func (s *Store) InsertVersionAt(ctx context.Context, id string, version int, v VersionRow) error {
	if err := checkIdent(id); err != nil {
		return err
	}

	q := fmt.Sprintf(`INSERT INTO %s (version, raw, hash, size, date, user) VALUES (?, ?, ?, ?, ?, ?);`, id)

	_, err := s.q.ExecContext(ctx, q, version, v.Raw, v.Hash, v.Size, v.Date, v.User)
	if err != nil {
		return errf("insert version %d into %q: %v", version, id, err)
	}

	return nil
}

// LatestVersion returns the highest-numbered version row, or nil if the
// table is empty or absent.
func (s *Store) LatestVersion(ctx context.Context, id string) (*VersionRow, error) {
	if err := checkIdent(id); err != nil {
		return nil, err
	}

	var n int
	if err := s.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?;`, id).Scan(&n); err != nil {
		return nil, errf("latest version %q: %v", id, err)
	}

	if n == 0 {
		return nil, nil
	}

	q := fmt.Sprintf(`SELECT version, raw, hash, size, date, user FROM %s ORDER BY version DESC LIMIT 1;`, id)

	return s.scanOneVersion(ctx, q)
}

// VersionByNumber returns one specific version row, or nil if absent.
func (s *Store) VersionByNumber(ctx context.Context, id string, version int) (*VersionRow, error) {
	if err := checkIdent(id); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT version, raw, hash, size, date, user FROM %s WHERE version = ?;`, id)

	return s.scanOneVersion(ctx, q, version)
}

func (s *Store) scanOneVersion(ctx context.Context, q string, args ...any) (*VersionRow, error) {
	row := s.q.QueryRowContext(ctx, q, args...)

	var v VersionRow

	if err := row.Scan(&v.Version, &v.Raw, &v.Hash, &v.Size, &v.Date, &v.User); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, errf("scan version: %v", err)
	}

	return &v, nil
}

// AllVersions returns every version row ordered ascending by version.
func (s *Store) AllVersions(ctx context.Context, id string) ([]VersionRow, error) {
	if err := checkIdent(id); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT version, raw, hash, size, date, user FROM %s ORDER BY version ASC;`, id)

	rows, err := s.q.QueryContext(ctx, q)
	if err != nil {
		return nil, errf("all versions %q: %v", id, err)
	}
	defer rows.Close()

	var out []VersionRow

	for rows.Next() {
		var v VersionRow
		if err := rows.Scan(&v.Version, &v.Raw, &v.Hash, &v.Size, &v.Date, &v.User); err != nil {
			return nil, errf("scan version row: %v", err)
		}

		out = append(out, v)
	}

	return out, rows.Err()
}

// DeleteVersion deletes a single version row, then renumbers the rest so
// that version numbers remain contiguous starting at 1.
func (s *Store) DeleteVersion(ctx context.Context, id string, version int) error {
	if err := checkIdent(id); err != nil {
		return err
	}

	all, err := s.AllVersions(ctx, id)
	if err != nil {
		return err
	}

	remaining := make([]VersionRow, 0, len(all))

	for _, v := range all {
		if v.Version != version {
			remaining = append(remaining, v)
		}
	}

	if err := s.DropVersionTable(ctx, id); err != nil {
		return err
	}

	if err := s.CreateVersionTable(ctx, id); err != nil {
		return err
	}

	for i, v := range remaining {
		if err := s.InsertVersionAt(ctx, id, i+1, v); err != nil {
			return err
		}
	}

	return nil
}
