package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "focusflow/internal/adapter/http"
	"focusflow/internal/adapter/memory"
	"focusflow/internal/adapter/postgres"
	"focusflow/internal/adapter/ws"
	"focusflow/internal/app"
	"focusflow/internal/config"
	"focusflow/internal/domain"

	"github.com/charmbracelet/log"
)

// @title           Focusflow API
// @version         1.0
// @description     Pomodoro sessions, statistics, timer settings and blocklist
// @BasePath        /api

const janitorInterval = time.Hour

type store interface {
	domain.SessionRepository
	domain.TimerSettingsRepository
	domain.BlocklistRepository
	domain.UserRepository
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Stamp,
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", "err", err)
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		db     store
		logins domain.LoginSessionRepository
	)
	switch cfg.Store {
	case config.StoreMemory:
		m := memory.New()
		db, logins = m, m.NewLoginSessionRepo()
		logger.Warn("using in-memory store; data is lost on restart")
	default:
		pg, err := postgres.Open(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatal("db open", "err", err)
		}
		defer func() { _ = pg.Close() }()
		db, logins = pg, postgres.NewLoginSessionRepo(pg)
	}

	hub := ws.NewHub(logger)

	sessionOpts := []app.SessionOption{app.WithEventPublisher(hub)}
	if cfg.SingleActiveSession {
		sessionOpts = append(sessionOpts, app.WithSingleActiveSession())
	}
	authSvc := app.NewAuthService(db, logins, cfg.SessionTTL)

	srv := adapthttp.New(adapthttp.Services{
		Sessions:  app.NewSessionService(db, sessionOpts...),
		Stats:     app.NewStatsService(db, cfg.Location),
		Settings:  app.NewSettingsService(db),
		Blocklist: app.NewBlocklistService(db),
		Auth:      authSvc,
	}, hub, logger, cfg.WebDir).
		WithSecureCookies(cfg.CookieSecure).
		WithForwardAuth(cfg.ForwardAuth)
	if cfg.ForwardAuth {
		logger.Warn("forward auth enabled; Remote-User is trusted")
	}

	if cfg.SSOEnabled() {
		oidcCfg, err := adapthttp.NewOIDCConfig(ctx, cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
		if err != nil {
			logger.Fatal("oidc setup", "issuer", cfg.OIDCIssuer, "err", err)
		}
		srv = srv.WithOIDC(oidcCfg)
		logger.Info("sso enabled", "issuer", cfg.OIDCIssuer)
	}

	go runJanitor(ctx, authSvc, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr, "store", cfg.Store, "tz", cfg.Location)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", "err", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

// runJanitor periodically deletes expired login sessions until ctx ends.
func runJanitor(ctx context.Context, auth *app.AuthService, logger *log.Logger) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := auth.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("purge expired login sessions", "err", err)
				continue
			}
			if n > 0 {
				logger.Debug("purged expired login sessions", "count", n)
			}
		}
	}
}
