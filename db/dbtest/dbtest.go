// Package dbtest opens throwaway SQLite databases with the production schema
// for package tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	bundb "github.com/padraicbc/yachtclub/db"
)

// Open returns a migrated database under t.TempDir(), closed on cleanup.
func Open(t testing.TB) *bun.DB {
	t.Helper()

	sqldb, err := bundb.OpenSQLite(filepath.Join(t.TempDir(), "club.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })

	if err := bundb.CreateTables(context.Background(), db); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return db
}
