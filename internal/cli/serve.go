package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gamezone/portal/internal/catalog"
	"github.com/gamezone/portal/internal/config"
	"github.com/gamezone/portal/internal/database"
	"github.com/gamezone/portal/internal/handlers"
	"github.com/gamezone/portal/internal/seed"
	"github.com/gamezone/portal/internal/store"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Seed the store and serve the HTTP API",
		Long: `Opens the configured store, loads the seed catalog if the store has no
games yet, and serves the API until SIGINT or SIGTERM.

Example:
  portal serve --port 5000
  STORE_DRIVER=sqlite DATABASE_PATH=./portal.db portal serve`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

// loadConfig reads configuration and applies flag overrides.
func loadConfig(cmd *cobra.Command, opts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.DotenvFiles...)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = opts.Port
	}
	if cmd.Flags().Changed("store") {
		cfg.StoreDriver = opts.Store
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger := cfg.NewLogger(cmd.ErrOrStderr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing store", "error", closeErr)
		}
	}()
	logger.Info("store ready", "driver", cfg.StoreDriver)

	if err := seedIfEmpty(ctx, st, cfg, logger); err != nil {
		return err
	}

	svc := catalog.NewService(st, catalog.WithLogger(logger))
	srv := newHTTPServer(cfg, handlers.NewRouter(svc, handlers.Options{
		AllowedOrigins: cfg.Origins(),
		StaticDir:      cfg.StaticDir,
		Logger:         logger,
	}))

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	logger.Info("API listening", "addr", ln.Addr().String(), "cors_origins", cfg.Origins())
	return serve(ctx, srv, ln, cfg.ShutdownTimeout, logger)
}

func openStore(cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		db, err := database.Open(cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
		}
		return db, nil
	default:
		return store.NewMemory(), nil
	}
}

// seedIfEmpty loads the seed catalog unless the store already has games, so
// a persistent sqlite file is seeded once.
func seedIfEmpty(ctx context.Context, st store.Store, cfg config.Config, logger *slog.Logger) error {
	games, err := st.ListGames(ctx)
	if err != nil {
		return fmt.Errorf("check store: %w", err)
	}
	if len(games) > 0 {
		logger.Info("store already has games, skipping seed", "games", len(games))
		return nil
	}

	res, err := seed.Load(ctx, st, seed.Options{Rand: seedRand(cfg.SeedRandom)})
	if err != nil {
		return err
	}
	logger.Info("seed loaded", "games", res.Games, "comments", res.Comments)
	return nil
}

// seedRand returns nil for 0, which leaves seed to pick a time-based source.
func seedRand(n int64) *rand.Rand {
	if n == 0 {
		return nil
	}
	return rand.New(rand.NewSource(n))
}

func newHTTPServer(cfg config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// serve runs srv on ln until ctx is done, then shuts down within timeout.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", timeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
