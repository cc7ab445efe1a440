package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/interior-ledger/internal/auth"
	"github.com/frahmantamala/interior-ledger/internal/category"
	"github.com/frahmantamala/interior-ledger/internal/entry"
	"github.com/frahmantamala/interior-ledger/internal/export"
	"github.com/frahmantamala/interior-ledger/internal/ledger"
	"github.com/frahmantamala/interior-ledger/internal/estimate"
	"github.com/frahmantamala/interior-ledger/internal/payment"
	"github.com/frahmantamala/interior-ledger/internal/project"
	"github.com/frahmantamala/interior-ledger/internal/transport"
	"github.com/frahmantamala/interior-ledger/internal/transport/rest"
	"github.com/frahmantamala/interior-ledger/internal/user"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

func startHTTPServer(ctx context.Context) error {
	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	router, err := setupRoutes(ctx, app)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		app.Logger.Info("starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		app.Logger.Info("received signal, shutting down", "signal", sig)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error("server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	app.Logger.Info("server stopped")
	return nil
}

func setupRoutes(ctx context.Context, app *App) (*chi.Mux, error) {
	cfg := app.Config
	base := transport.NewBaseHandler(app.Logger)

	specPath := cfg.Server.OpenAPISpecPath
	if specPath != "" {
		if ctx == nil {
			ctx = context.Background()
		}
		if _, err := rest.LoadOpenAPI(ctx, specPath); err != nil {
			return nil, err
		}
	}

	var pinger rest.Pinger
	if app.Broker != nil {
		pinger = app.Broker
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Handlers{
		Base:            base,
		Health:          rest.NewHealthHandler(app.SQL, pinger),
		Auth:            auth.NewHandler(base, app.Auth),
		Tokens:          app.Auth,
		User:            user.NewHandler(base, app.Users),
		Category:        category.NewHandler(base, app.Categories),
		Project:         project.NewHandler(base, app.Projects),
		Entry:           entry.NewHandler(base, app.Entries),
		Ledger:          ledger.NewHandler(base, app.Ledger),
		Payment:         payment.NewHandler(base, app.Payments),
		Estimate:        estimate.NewHandler(base, app.Estimates),
		Export:          export.NewHandler(base, app.Ledger),
		OpenAPISpecPath: specPath,
		AllowedOrigins:  cfg.Server.Origins(),
	})
	return router, nil
}
