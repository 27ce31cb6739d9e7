// Package sqlitestore keeps the persisted client state in a SQLite database.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/CrestNiraj12/hacksnooze/domain"

	_ "modernc.org/sqlite"
)

const (
	keyToken    = "token"
	keyUsername = "username"
)

// Store is a key/value table holding the login token and username.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrations run once each, in order, tracked by schema_version.
var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);
`,
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	for i := current; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
	}
	return nil
}

// Load reads the stored credentials. Missing rows yield empty credentials.
func (s *Store) Load() (domain.Credentials, error) {
	ctx := context.Background()
	token, err := s.get(ctx, keyToken)
	if err != nil {
		return domain.Credentials{}, err
	}
	username, err := s.get(ctx, keyUsername)
	if err != nil {
		return domain.Credentials{}, err
	}
	return domain.Credentials{Token: token, Username: username}, nil
}

// Save writes both keys in a single transaction.
func (s *Store) Save(creds domain.Credentials) (err error) {
	if creds.Empty() {
		return errors.New("refusing to store incomplete credentials")
	}
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, kv := range [][2]string{{keyToken, creds.Token}, {keyUsername, creds.Username}} {
		if _, err = tx.ExecContext(ctx, `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, strftime('%s','now'))
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`, kv[0], kv[1]); err != nil {
			return fmt.Errorf("storing %s: %w", kv[0], err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing credentials: %w", err)
	}
	return nil
}

// Clear deletes both keys.
func (s *Store) Clear() error {
	if _, err := s.db.ExecContext(context.Background(), `DELETE FROM kv WHERE key IN (?, ?)`, keyToken, keyUsername); err != nil {
		return fmt.Errorf("clearing credentials: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return value, nil
}
