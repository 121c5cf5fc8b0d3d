// Package store is the persistence gateway for the club API. It wraps a bun.DB
// and owns the two operations with real invariants: slug allocation for
// stories and the all-or-nothing replacement of a race's results.
package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store provides access to events, races, results, stories and documents.
type Store struct {
	db *bun.DB
}

// New wraps an open database.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying bun.DB.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// txOptions asks for read committed where the dialect supports picking an
// isolation level. SQLite transactions are serializable already.
func (s *Store) txOptions() *sql.TxOptions {
	if s.db.Dialect().Name() == dialect.SQLite {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelReadCommitted}
}

// Page bounds a list query. Zero values mean page 1 with the default limit.
type Page struct {
	Page  int
	Limit int
}

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Normalize clamps the page to sane bounds.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
