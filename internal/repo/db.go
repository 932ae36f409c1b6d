// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver) and Postgres, tracing instrumentation and schema
// migrations.
package repo

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-poetry-api/internal/domain"
)

// Options selects and tunes the SQL backend.
type Options struct {
	Driver string // "sqlite" (default) or "postgres"
	Path   string // SQLite file path
	DSN    string // Postgres DSN
	// Tracing registers the OpenTelemetry GORM plugin.
	Tracing bool
	// LogSQL enables GORM's statement logger at Info level.
	LogSQL bool
}

// sqlitePragmas are applied to every pooled connection through the DSN;
// PRAGMAs issued with Exec would only reach one connection.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// Open connects to the configured backend.
func Open(opts Options) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch strings.ToLower(opts.Driver) {
	case "", "sqlite":
		db, err = OpenSQLite(opts.Path, gormConfig(opts.LogSQL))
	case "postgres", "postgresql":
		db, err = OpenPostgres(opts.DSN, gormConfig(opts.LogSQL))
	default:
		return nil, fmt.Errorf("unsupported DB driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	if opts.Tracing {
		if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
			return nil, fmt.Errorf("gorm tracing: %w", err)
		}
	}
	return db, nil
}

// OpenSQLite opens (or creates) a SQLite database with WAL, foreign keys and
// a busy timeout enabled on every connection.
func OpenSQLite(path string, cfg ...*gorm.Config) (*gorm.DB, error) {
	// sqlite reports a missing directory as "out of memory (14)"
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), pickConfig(cfg))
	if err != nil {
		return nil, err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// OpenPostgres connects to Postgres using a libpq-style or URL DSN.
func OpenPostgres(dsn string, cfg ...*gorm.Config) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres DSN is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), pickConfig(cfg))
	if err != nil {
		return nil, err
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// AutoMigrate creates or updates the schema for all domain models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

func sqliteDSN(path string) string {
	q := url.Values{}
	for _, p := range sqlitePragmas {
		q.Add("_pragma", p)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

func gormConfig(logSQL bool) *gorm.Config {
	lvl := logger.Warn
	if logSQL {
		lvl = logger.Info
	}
	return &gorm.Config{
		// Maps driver-specific unique violations to gorm.ErrDuplicatedKey.
		TranslateError: true,
		Logger:         logger.Default.LogMode(lvl),
	}
}

func pickConfig(cfg []*gorm.Config) *gorm.Config {
	if len(cfg) > 0 && cfg[0] != nil {
		return cfg[0]
	}
	return gormConfig(false)
}
