// Package server assembles the auth service: database, repositories,
// services, and the HTTP endpoint, with graceful shutdown on context
// cancellation.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/gamix-app/auth-service/internal/logging"
	"github.com/gamix-app/auth-service/internal/server/auth"
	"github.com/gamix-app/auth-service/internal/server/config"
	"github.com/gamix-app/auth-service/internal/server/cryptox"
	"github.com/gamix-app/auth-service/internal/server/mailer"
	"github.com/gamix-app/auth-service/internal/server/oauth"
	"github.com/gamix-app/auth-service/internal/server/repositories/repomanager"
	"github.com/gamix-app/auth-service/internal/server/rest"
	"github.com/gamix-app/auth-service/internal/server/services"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// App owns the long-lived resources of the auth server.
type App struct {
	cfg *config.Config
	log logging.Logger

	db         *sql.DB
	httpServer *http.Server
}

func NewApp(cfg *config.Config, log logging.Logger) *App {
	return &App{cfg: cfg, log: log}
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails. Shutdown drains in-flight requests before closing the database.
func (a *App) Run(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	db, err := sql.Open("pgx", a.cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	a.db = db
	defer a.db.Close()

	if err := a.db.PingContext(ctx); err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, a.db); err != nil {
		return fmt.Errorf("error running migrations: %w", err)
	}

	tokens, err := auth.NewTokenManager([]byte(a.cfg.SecretKey))
	if err != nil {
		return err
	}
	encoder := cryptox.NewEncoder(a.cfg.BCryptCost)

	mail, err := mailer.NewSESMailer(ctx, mailer.Options{
		Region:       a.cfg.SESRegion,
		AccessKey:    a.cfg.SESAccessKey,
		SecretKey:    a.cfg.SESSecretKey,
		BaseEndpoint: a.cfg.SESBaseEndpoint,
		Sender:       a.cfg.SESSender,
	})
	if err != nil {
		return fmt.Errorf("error creating mailer: %w", err)
	}

	providerClient := &http.Client{Timeout: a.cfg.ProviderTimeout}
	gateway := oauth.NewGateway(a.log,
		oauth.NewGoogle(providerClient),
		oauth.NewGitHub(providerClient, a.cfg.GitHubClientID, a.cfg.GitHubClientSecret),
		oauth.NewLinkedIn(providerClient, a.cfg.LinkedInClientID, a.cfg.LinkedInClientSecret),
	)

	authSvc := services.NewAuthService(a.db, manager, tokens, encoder, mail, a.log, a.cfg)
	recovery := services.NewRecoveryService(a.db, manager, tokens, mail, a.log, a.cfg)
	social := services.NewSocialService(a.db, manager, gateway, encoder, authSvc, a.log)

	router := rest.NewRouter(rest.NewHandler(authSvc, recovery, social, tokens, a.log))
	a.httpServer = &http.Server{Addr: a.cfg.EndpointAddrHTTP, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info(ctx, "http server starting", "addr", a.cfg.EndpointAddrHTTP)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error during shutdown: %w", err)
	}
	return nil
}
