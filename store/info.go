package store

import (
	"context"
	"database/sql"
	"errors"
)

// InfoRow is the single _info_ row describing the vault as a whole.
type InfoRow struct {
	AuthCheck     []byte
	EncSalt       []byte
	CreatedAt     string
	CreatedBy     string
	EngineVersion string
}

// GetInfo returns the vault's singleton info row, or nil if the vault has
// never been initialized (the row is written on first Open).
func (s *Store) GetInfo(ctx context.Context) (*InfoRow, error) {
	row := s.q.QueryRowContext(ctx, `SELECT pwd, salt, date, user, version FROM _info_ LIMIT 1;`)

	var info InfoRow

	if err := row.Scan(&info.AuthCheck, &info.EncSalt, &info.CreatedAt, &info.CreatedBy, &info.EngineVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, errf("get info: %v", err)
	}

	return &info, nil
}

// PutInfo replaces the singleton _info_ row with info.
func (s *Store) PutInfo(ctx context.Context, info InfoRow) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM _info_;`); err != nil {
		return errf("clear info: %v", err)
	}

	_, err := s.q.ExecContext(ctx,
		`INSERT INTO _info_ (pwd, salt, date, user, version) VALUES (?, ?, ?, ?, ?);`,
		info.AuthCheck, info.EncSalt, info.CreatedAt, info.CreatedBy, info.EngineVersion)
	if err != nil {
		return errf("put info: %v", err)
	}

	return nil
}
