// Package sqlite provides a SQLite-backed storage.Store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/keshon/parlor/internal/storage"
	"github.com/keshon/parlor/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists permissions and user data in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens (creating if needed) a SQLite store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	dsn := "file:" + cleanPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) GetTier(ctx context.Context, identity string) (int, error) {
	var tier int
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT tier FROM permissions WHERE identity = ?`, identity,
	).Scan(&tier)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get tier: %w", err)
	}
	return tier, nil
}

func (s *Store) SetTier(ctx context.Context, identity string, tier int) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO permissions (identity, tier) VALUES (?, ?)
		 ON CONFLICT(identity) DO UPDATE SET tier = excluded.tier`,
		identity, tier,
	)
	if err != nil {
		return fmt.Errorf("set tier: %w", err)
	}
	return nil
}

func (s *Store) RemoveTier(ctx context.Context, identity string) (bool, error) {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM permissions WHERE identity = ?`, identity)
	if err != nil {
		return false, fmt.Errorf("remove tier: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove tier: %w", err)
	}
	return n > 0, nil
}

func (s *Store) ListTiers(ctx context.Context) ([]storage.TierEntry, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT identity, tier FROM permissions ORDER BY identity`)
	if err != nil {
		return nil, fmt.Errorf("list tiers: %w", err)
	}
	defer rows.Close()

	var out []storage.TierEntry
	for rows.Next() {
		var e storage.TierEntry
		if err := rows.Scan(&e.Identity, &e.Tier); err != nil {
			return nil, fmt.Errorf("list tiers: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tiers: %w", err)
	}
	return out, nil
}

func (s *Store) GetValue(ctx context.Context, identity, key string) (string, bool, error) {
	var v string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT data_value FROM user_data WHERE identity = ? AND data_key = ?`, identity, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get value: %w", err)
	}
	return v, true, nil
}

func (s *Store) SetValue(ctx context.Context, identity, key, value string) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO user_data (identity, data_key, data_value) VALUES (?, ?, ?)
		 ON CONFLICT(identity, data_key) DO UPDATE SET data_value = excluded.data_value`,
		identity, key, value,
	)
	if err != nil {
		return fmt.Errorf("set value: %w", err)
	}
	return nil
}

func (s *Store) DeleteValue(ctx context.Context, identity, key string) (bool, error) {
	res, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM user_data WHERE identity = ? AND data_key = ?`, identity, key,
	)
	if err != nil {
		return false, fmt.Errorf("delete value: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete value: %w", err)
	}
	return n > 0, nil
}

func (s *Store) ListValues(ctx context.Context, identity string) ([]storage.Entry, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT data_key, data_value FROM user_data WHERE identity = ? ORDER BY data_key`, identity,
	)
	if err != nil {
		return nil, fmt.Errorf("list values: %w", err)
	}
	defer rows.Close()

	var out []storage.Entry
	for rows.Next() {
		var e storage.Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("list values: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list values: %w", err)
	}
	return out, nil
}
