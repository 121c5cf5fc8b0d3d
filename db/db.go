package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/padraicbc/yachtclub/config"
	"github.com/padraicbc/yachtclub/models"
)

// Setup opens a connection for the configured driver and verifies it.
func Setup(cfg *config.Config) (*bun.DB, error) {
	var db *bun.DB

	switch cfg.DBDriver {
	case config.DriverMySQL:
		sqldb, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		db = bun.NewDB(sqldb, mysqldialect.New())
	case config.DriverSQLite:
		sqldb, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		db = bun.NewDB(sqldb, sqlitedialect.New())
	default:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
		db = bun.NewDB(sqldb, pgdialect.New())
	}

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return db, nil
}

// OpenSQLite opens a SQLite file with foreign keys enforced and a single
// connection, since SQLite allows one writer at a time.
func OpenSQLite(path string) (*sql.DB, error) {
	sqldb, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	return sqldb, nil
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []struct {
		model interface{}
		fks   []string
	}{
		{model: (*models.YachtClass)(nil)},
		{model: (*models.Event)(nil)},
		{model: (*models.Race)(nil), fks: []string{
			`("event_id") REFERENCES "events" ("id") ON DELETE CASCADE`,
			`("yacht_class_id") REFERENCES "yacht_classes" ("id") ON DELETE SET NULL`,
		}},
		{model: (*models.RaceResult)(nil), fks: []string{
			`("race_id") REFERENCES "races" ("id") ON DELETE CASCADE`,
		}},
		{model: (*models.Story)(nil)},
		{model: (*models.EventDocument)(nil), fks: []string{
			`("event_id") REFERENCES "events" ("id") ON DELETE CASCADE`,
		}},
	}

	for _, t := range tables {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		for _, fk := range t.fks {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", t.model, err)
		}
	}

	indexes := []struct {
		model   interface{}
		name    string
		columns []string
	}{
		{(*models.Race)(nil), "races_event_id_idx", []string{"event_id"}},
		{(*models.RaceResult)(nil), "race_results_race_id_idx", []string{"race_id"}},
		{(*models.EventDocument)(nil), "event_documents_event_id_idx", []string{"event_id"}},
		{(*models.Event)(nil), "events_start_date_idx", []string{"start_date"}},
	}
	for _, idx := range indexes {
		q := db.NewCreateIndex().Model(idx.model).Index(idx.name).Column(idx.columns...)
		// MySQL has no CREATE INDEX IF NOT EXISTS.
		if db.Dialect().Name() != dialect.MySQL {
			q = q.IfNotExists()
		}
		if _, err := q.Exec(ctx); err != nil && !isDuplicateIndex(err) {
			return fmt.Errorf("creating index %s: %w", idx.name, err)
		}
	}

	return nil
}

// IsUniqueViolation reports whether err is a unique/duplicate key failure
// from any of the supported drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func isDuplicateIndex(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1061
}
