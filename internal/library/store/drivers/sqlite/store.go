package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/libris/pkg/librarysdk"
	_ "modernc.org/sqlite"
)

// Store persists session values in a local SQLite file so they survive
// restarts until an explicit logout.
type Store struct {
	db  *sql.DB
	dsn string
}

// NewStore opens (or creates) the database at dsn. Call ApplyMigrations
// before first use.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

// FileDSN builds the DSN the app uses for a database file.
func FileDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Get(ctx context.Context, key librarysdk.Key) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM session_values WHERE key = ?`, string(key),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", librarysdk.ErrStoreUnavailable, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key librarysdk.Key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_values (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		string(key), value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", librarysdk.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key librarysdk.Key) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_values WHERE key = ?`, string(key)); err != nil {
		return fmt.Errorf("%w: %v", librarysdk.ErrStoreUnavailable, err)
	}
	return nil
}
