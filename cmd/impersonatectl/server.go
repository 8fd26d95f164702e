package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/impersonate-auth/pkg/audit"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator/authn"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/authenticator/authn_impersonate"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/config"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/db"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/events"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/logging"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/metrics"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/endpoints"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/impersonate-auth/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/impersonate-auth/pkg/server/store/memory"
)

const shutdownTimeout = 10 * time.Second

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the impersonate-auth server",
	Long: `Run the impersonate-auth server.

Users are read from PostgreSQL when DATABASE_URL is set; otherwise an empty
in-memory store is used. By default, database migrations are run on startup.
Use --no-migrate to skip.

The configuration file is watched for changes and is also reloaded on SIGHUP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		return runServer(noMigrate, host, port)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func runServer(noMigrate bool, host, port string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	config.Set(cfg)
	logging.Configure(os.Stderr, cfg.LogLevel)
	l := logging.Component("server")

	users, health, err := openUsersStore(noMigrate)
	if err != nil {
		return err
	}

	registry := authenticator.DefaultRegistry
	if err := registerAuthenticators(registry, users, events.DefaultBus, cfg); err != nil {
		return err
	}
	events.DefaultBus.SubscribeAll(audit.Observer())
	events.DefaultBus.SubscribeAll(metrics.Observer())

	s := server.NewServer(registry, users, health, host, port)
	endpoints.RegisterAll(s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	onReload := func(cfg *config.Config, err error) {
		applyConfig(registry, cfg, err)
	}
	go func() {
		if err := config.Watch(ctx, onReload); err != nil {
			l.Warn().Err(err).Msg("config file watch disabled")
		}
	}()
	go reloadOnHangup(ctx, onReload)

	errCh := make(chan error, 1)
	go func() {
		l.Info().Str("addr", s.Addr()).Strs("authenticators", registry.Enabled()).Msg("running server")
		errCh <- s.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	l.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// openUsersStore returns the gorm store when DATABASE_URL is set and an
// in-memory store otherwise.
func openUsersStore(noMigrate bool) (store.UsersStore, store.HealthStore, error) {
	if db.URL() == "" {
		l := logging.Component("server")
		l.Warn().Msg("DATABASE_URL is not set, using an empty in-memory user store")
		users := memory.NewUsersStore()
		return users, users, nil
	}

	if !noMigrate {
		if err := runMigrations(); err != nil {
			return nil, nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, nil, err
	}
	users := gormstore.NewUsersStore(database)
	return users, users, nil
}

// registerAuthenticators installs both authenticators and orders the chain
// from configuration.
func registerAuthenticators(registry *authenticator.Registry, users store.UsersStore, bus *events.Bus, cfg *config.Config) error {
	passwordAuth := authn.New(users, nil)
	registry.Register(passwordAuth)
	registry.Register(authn_impersonate.New(users, passwordAuth, authn_impersonate.WithBus(bus)))
	return registry.SetOrder(cfg.Authenticators...)
}

// applyConfig pushes a reloaded configuration into the running server. The
// separator and audit switch are read per request; the chain order and log
// level are applied here.
func applyConfig(registry *authenticator.Registry, cfg *config.Config, err error) {
	l := logging.Component("config")
	if err != nil {
		l.Error().Err(err).Msg("failed to reload configuration, keeping previous values")
		return
	}
	if err := cfg.Validate(); err != nil {
		l.Error().Err(err).Msg("reloaded configuration is invalid")
		return
	}
	if err := registry.SetOrder(cfg.Authenticators...); err != nil {
		l.Error().Err(err).Msg("failed to apply authenticator order")
	}
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		l.Error().Err(err).Msg("failed to apply log level")
	}
	l.Info().Strs("authenticators", registry.Enabled()).Msg("configuration reloaded")
}

func reloadOnHangup(ctx context.Context, onReload func(*config.Config, error)) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			err := config.Reload()
			onReload(config.Get(), err)
		}
	}
}
