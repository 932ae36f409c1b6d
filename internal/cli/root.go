// Package cli implements the poetry command line: the API server and the
// maintenance commands that run against the same database.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/go-poetry-api/internal/config"
	"github.com/tbourn/go-poetry-api/internal/repo"
	"github.com/tbourn/go-poetry-api/internal/sysutil"
	"github.com/tbourn/go-poetry-api/internal/viewer"
)

// Build metadata, set with -ldflags "-X".
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// app is the state shared by subcommands once the root pre-run loaded it.
type app struct {
	cfg      config.Config
	logLevel string
}

// NewRootCommand builds the poetry command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "poetry",
		Short: "Poetry API server and catalog tools",
		Long: `poetry serves the public poetry catalog over HTTP and maintains the
database behind it.

Commands:
- serve: run the HTTP API
- migrate: create or update the schema
- import: load themes, authors and poems from a YAML catalog
- feature: select or show the featured poem of a day
- clean-text: strip markup from stored poem texts`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if a.logLevel != "" {
				cfg.LogLevel = a.logLevel
			}
			a.cfg = cfg
			sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override LOG_LEVEL")

	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newMigrateCmd(a))
	rootCmd.AddCommand(newImportCmd(a))
	rootCmd.AddCommand(newFeatureCmd(a))
	rootCmd.AddCommand(newCleanTextCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// openDB connects to the configured database and brings the schema up to date.
func (a *app) openDB() (*gorm.DB, func(), error) {
	db, err := repo.Open(repo.Options{
		Driver:  a.cfg.DB.Driver,
		Path:    a.cfg.DB.Path,
		DSN:     a.cfg.DB.URL,
		Tracing: a.cfg.OTEL.Enabled,
		LogSQL:  a.cfg.DB.LogSQL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return db, closeDB, nil
}

// openViewerStore builds the configured seen-set store. The in-memory store
// is swept until ctx ends; a Redis store must answer a ping.
func (a *app) openViewerStore(ctx context.Context) (viewer.Store, func(), error) {
	vc := a.cfg.Viewer
	switch vc.Store {
	case "redis":
		rs := viewer.NewRedisStore(vc.RedisAddr, vc.RedisPassword, vc.RedisDB, vc.TTL)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			_ = rs.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", vc.RedisAddr, err)
		}
		log.Info().Str("addr", vc.RedisAddr).Msg("viewer store: redis")
		return rs, func() { _ = rs.Close() }, nil
	default:
		ms := viewer.NewMemoryStore(vc.TTL)
		ms.StartJanitor(ctx, time.Minute)
		log.Info().Msg("viewer store: memory")
		return ms, func() {}, nil
	}
}
