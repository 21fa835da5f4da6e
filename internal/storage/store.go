// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/Lulzlulz/med-ai/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnavailable indicates the backing medium cannot be opened or created.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrWrite indicates an insert or delete failed.
	ErrWrite = errors.New("storage write failed")

	// ErrRead indicates the history could not be read back.
	ErrRead = errors.New("storage read failed")
)

// =============================================================================
// MESSAGE STORE
// =============================================================================

// DefaultFileName is the history database file inside the data directory.
const DefaultFileName = "chat_history.db"

// Store is the durable, append-only message log.
//
// The handle holds only the database path. Each operation opens its own
// connection and closes it before returning, on success and error paths
// alike.
type Store struct {
	path string
}

// Open creates a store for the given database path. The parent directory
// is created if needed. The database file itself is created lazily by the
// first operation.
func Open(path string) (*Store, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		path = filepath.Join(homeDir, ".medai", DefaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return &Store{path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// open acquires a fresh database handle for one operation.
func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return db, nil
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Init idempotently ensures the backing schema exists.
// Safe to call on every startup.
func (s *Store) Init(ctx context.Context) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("%w: creating schema: %v", ErrUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, InitMetadata); err != nil {
		return fmt.Errorf("%w: initializing metadata: %v", ErrUnavailable, err)
	}
	return nil
}

// Append inserts one immutable row and returns the store-assigned
// increasing identifier.
func (s *Store) Append(ctx context.Context, role model.Role, content string) (int64, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx,
		`INSERT INTO chat_history (role, content, created_at) VALUES (?, ?, ?)`,
		role.String(), content, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting message: %v", ErrWrite, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: reading insert id: %v", ErrWrite, err)
	}
	return id, nil
}

// LoadAll returns the ordered sequence of all persisted messages,
// oldest first.
func (s *Store) LoadAll(ctx context.Context) ([]model.Message, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx,
		`SELECT id, role, content, created_at FROM chat_history ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying history: %v", ErrRead, err)
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var (
			msg       model.Message
			role      string
			createdAt int64
		)
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: scanning row: %v", ErrRead, err)
		}
		msg.Role = model.Role(role)
		msg.CreatedAt = time.Unix(createdAt, 0)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating rows: %v", ErrRead, err)
	}

	return messages, nil
}

// Count returns the number of persisted messages.
func (s *Store) Count(ctx context.Context) (int, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var n int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chat_history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting rows: %v", ErrRead, err)
	}
	return n, nil
}

// Clear deletes all rows. Irreversible; on success the store is empty.
func (s *Store) Clear(ctx context.Context) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `DELETE FROM chat_history`); err != nil {
		return fmt.Errorf("%w: clearing history: %v", ErrWrite, err)
	}
	return nil
}
