// Package localstore keeps interview snapshots in a single-device SQLite
// database so a terminal session can be resumed after a restart.
package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/unemployment-navigator/internal/session"
	"github.com/jonathan/unemployment-navigator/internal/types"

	_ "modernc.org/sqlite"
)

// Store is a session.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path. Use ":memory:" for an
// in-process database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)
	s, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and creates the table if needed.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate session table: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	query := `
    CREATE TABLE IF NOT EXISTS sessions (
        id TEXT PRIMARY KEY,
        snapshot JSON NOT NULL,
        current_step TEXT NOT NULL,
        complete INTEGER NOT NULL DEFAULT 0,
        updated_at DATETIME NOT NULL
    );`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load implements session.Store.
func (s *Store) Load(ctx context.Context, id string) (*types.Session, error) {
	var snapshot string
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM sessions WHERE id = ?`, id).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return session.Decode([]byte(snapshot))
}

// Save implements session.Store.
func (s *Store) Save(ctx context.Context, snapshot *types.Session) error {
	data, err := session.Encode(snapshot)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO sessions (id, snapshot, current_step, complete, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            snapshot = excluded.snapshot,
            current_step = excluded.current_step,
            complete = excluded.complete,
            updated_at = excluded.updated_at`,
		snapshot.ID, string(data), string(snapshot.CurrentStep), snapshot.ConversationComplete,
		snapshot.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", snapshot.ID, err)
	}
	return nil
}

// Delete implements session.Store.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// Latest returns the ID of the most recently updated session, or "" when the
// database is empty.
func (s *Store) Latest(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM sessions ORDER BY updated_at DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find latest session: %w", err)
	}
	return id, nil
}

var _ session.Store = (*Store)(nil)
