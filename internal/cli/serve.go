package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	httpapi "github.com/tbourn/go-poetry-api/internal/http"
	"github.com/tbourn/go-poetry-api/internal/observability"
	"github.com/tbourn/go-poetry-api/internal/services"
	"github.com/tbourn/go-poetry-api/internal/viewer"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeEvery      = time.Hour
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if addr == "" {
				addr = ":" + a.cfg.Port
			}
			return a.serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :$PORT)")
	return cmd
}

// serve runs the API on addr until ctx is cancelled, then drains in-flight
// requests and flushes traces.
func (a *app) serve(ctx context.Context, addr string) error {
	shutdownOTel, err := observability.Setup(ctx, a.cfg.OTEL, observability.BuildInfo{Version: Version, Commit: Commit})
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTel(flushCtx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, closeDB, err := a.openDB()
	if err != nil {
		return err
	}
	defer closeDB()

	store, closeStore, err := a.openViewerStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	srv, svc, err := a.newServer(db, store)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	go purgeIdempotency(ctx, svc.Idempotency, purgeEvery)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Str("version", Version).Msg("http server listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

// newServer builds the HTTP server with all routes mounted.
func (a *app) newServer(db *gorm.DB, store viewer.Store) (*http.Server, *httpapi.Services, error) {
	cfg := a.cfg
	gin.SetMode(cfg.GinMode)

	svc, err := httpapi.NewServices(db, store, cfg)
	if err != nil {
		return nil, nil, err
	}
	r := gin.New()
	httpapi.RegisterRoutes(r, svc, cfg)

	return &http.Server{
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}, svc, nil
}

// purgeIdempotency drops expired Idempotency-Key records every interval
// until ctx is done.
func purgeIdempotency(ctx context.Context, idem *services.IdempotencyService, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := idem.Purge(ctx, now)
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency keys")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("purged idempotency keys")
			}
		}
	}
}
