package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nexaboard/nexaboard-go/internal/config"
	"github.com/nexaboard/nexaboard-go/internal/crypto"
	"github.com/nexaboard/nexaboard-go/internal/observability"
	"github.com/nexaboard/nexaboard-go/internal/repository"
)

const (
	appName = "nexaboard"
	Version = "0.1.0"
)

// app carries what every subcommand needs after the persistent pre-run.
type app struct {
	logLevel string
	cfg      config.Config
	logger   *slog.Logger
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Nexaboard project management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")

	cmd.AddCommand(
		serveCmd(a),
		migrateCmd(a),
		createUserCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("%s version %s\n", appName, Version)
			},
		},
	)

	return cmd
}

func (a *app) init() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	levelName := cfg.LogLevel
	if a.logLevel != "" {
		levelName = a.logLevel
	}
	level, err := observability.ParseLevel(levelName)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = observability.NewLogger(os.Stdout, level)
	return nil
}

func (a *app) openStore(ctx context.Context) (*repository.Store, error) {
	return repository.Open(ctx, repository.Options{
		Driver:        a.cfg.DatabaseDriver,
		MongoURI:      a.cfg.MongoURI,
		MongoDatabase: a.cfg.MongoDatabase,
		MySQLDSN:      a.cfg.DatabaseDSN,
	})
}

func (a *app) tokenService() *crypto.TokenService {
	return crypto.NewTokenService(crypto.TokenConfig{
		Secret:       []byte(a.cfg.JWTSecret),
		TTL:          a.cfg.JWTExpiry,
		CookieSecure: a.cfg.CookieSecure,
		SameSite:     a.cfg.CookieSameSite,
	})
}

func closeStore(store *repository.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		slog.Error("closing database", "error", err)
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
