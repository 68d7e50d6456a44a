package session

import (
	"context"
	"database/sql"
	"fmt"

	"dnsadm/internal/client/models"
	"dnsadm/internal/dbx"
)

const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
)

// TokenStore persists the credential pair across program runs.
//
// Invariant: both tokens are present or both are absent. Save writes both in
// one transaction; Clear removes both; Load reports nil when the pair is
// incomplete.
type TokenStore interface {
	Load(ctx context.Context) (*models.TokenPair, error)
	Save(ctx context.Context, pair models.TokenPair) error
	Clear(ctx context.Context) error
}

// SQLiteStore keeps the pair in a key/value credentials table in the local
// SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) get(ctx context.Context, q dbx.DBTX, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading credentials[%s]: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) set(ctx context.Context, q dbx.DBTX, key, value string) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing credentials[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*models.TokenPair, error) {
	access, okA, err := s.get(ctx, s.db, keyAccessToken)
	if err != nil {
		return nil, err
	}
	refresh, okR, err := s.get(ctx, s.db, keyRefreshToken)
	if err != nil {
		return nil, err
	}
	if !okA || !okR {
		// A half-written pair counts as no session at all.
		return nil, nil
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, pair models.TokenPair) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.set(ctx, tx, keyAccessToken, pair.AccessToken); err != nil {
			return err
		}
		return s.set(ctx, tx, keyRefreshToken, pair.RefreshToken)
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key IN (?, ?)`, keyAccessToken, keyRefreshToken)
	if err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	return nil
}
