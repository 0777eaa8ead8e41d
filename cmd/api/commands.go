package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexaboard/nexaboard-go/internal/crypto"
	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/observability"
	"github.com/nexaboard/nexaboard-go/internal/server"
	"github.com/nexaboard/nexaboard-go/internal/service"
)

const generatedPasswordLength = 16

func serveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(parent context.Context) error {
	ctx, stop := signalContext(parent)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:        a.cfg.OTelEnabled,
		Endpoint:       a.cfg.OTelEndpoint,
		ServiceName:    appName,
		ServiceVersion: Version,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			a.logger.Error("tracing shutdown failed", "error", err)
		}
	}()

	store, err := a.openStore(ctx)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer closeStore(store)

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	router, err := server.NewRouter(server.Options{
		Store:   store,
		Tokens:  a.tokenService(),
		Metrics: observability.NewMetrics(),
		Logger:  a.logger,
		CORS: server.CORSConfig{
			AllowedOrigins: a.cfg.CORSAllowedOrigins,
			AllowedMethods: a.cfg.CORSAllowedMethods,
			AllowedHeaders: a.cfg.CORSAllowedHeaders,
		},
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.Info("starting", "env", a.cfg.Env, "driver", store.Driver(), "version", Version)
	return server.Run(ctx, srv)
}

func migrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create indexes (MongoDB) or apply migrations (MySQL)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			store, err := a.openStore(ctx)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer closeStore(store)

			if err := store.Migrate(ctx); err != nil {
				return err
			}
			a.logger.Info("schema up to date", "driver", store.Driver())
			return nil
		},
	}
}

func createUserCmd(a *app) *cobra.Command {
	var email, name, role, password string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account, generating a password when none is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			generated := password == ""
			if generated {
				var err error
				if password, err = crypto.GeneratePassword(generatedPasswordLength); err != nil {
					return err
				}
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer closeStore(store)

			auth, err := service.NewAuthService(store.Users, a.tokenService())
			if err != nil {
				return err
			}

			res, err := auth.Register(ctx, model.RegisterRequest{Name: name, Email: email, Password: password, Role: role})
			if errors.Is(err, service.ErrEmailTaken) {
				return fmt.Errorf("a user with email %s already exists", email)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created %s user %s (%s)\n", res.User.Role, res.User.Email, res.User.ID)
			if generated {
				fmt.Fprintf(out, "password: %s\n", password)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Login email (required)")
	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&role, "role", string(model.RoleMember), "Member, Manager or Admin")
	cmd.Flags().StringVar(&password, "password", "", "Password; a random one is generated and printed when empty")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("name")

	return cmd
}
