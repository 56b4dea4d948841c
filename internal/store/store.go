// Package store persists users, game analysis tables and marketplace prices
// in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/guarzo/gamematch/internal/apperr"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	full_name       TEXT NOT NULL,
	email           TEXT NOT NULL DEFAULT '',
	birth_date      TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL DEFAULT '',
	state           TEXT NOT NULL DEFAULT '',
	consoles        TEXT NOT NULL DEFAULT '',
	preferred_games TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_users_full_name ON users(full_name);

CREATE TABLE IF NOT EXISTS all_games (
	game TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS unique_games (
	game TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS common_games (
	game  TEXT    NOT NULL,
	count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS game_prices (
	query     TEXT NOT NULL,
	title     TEXT NOT NULL,
	price     REAL NOT NULL,
	permalink TEXT NOT NULL
);
`

// Store is the SQLite-backed repository.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path, applies pragmas and creates
// missing tables. ":memory:" gives a private in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// Single connection: writes are serialized and :memory: stays one database.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Tx executes fn within a database transaction. The transaction is
// committed if fn returns nil, rolled back otherwise.
func (s *Store) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}

// Tables lists the user tables in name order.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, storageErr("store.tables", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storageErr("store.tables", err)
		}
		names = append(names, name)
	}
	return names, storageErr("store.tables", rows.Err())
}

func storageErr(op string, err error) error {
	return apperr.Wrap(apperr.Storage, op, err)
}

func notFound(op string, id int64) error {
	return apperr.Newf(apperr.NotFound, op, "user %d not found", id)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
