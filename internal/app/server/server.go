package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"ezistra/internal/app/server/api"
	"ezistra/internal/app/server/config"
	"ezistra/internal/domain/session"
	"ezistra/internal/domain/sync"
	"ezistra/internal/infrastructure/storage"
)

const shutdownTimeout = 10 * time.Second

// App связывает хранилище, сервисы и HTTP API сервера
type App struct {
	cfg      *config.Config
	log      *slog.Logger
	storage  *storage.Storage
	sessions *session.Service
	backups  *sync.Service
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	st, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	tokens := session.NewTokenConfig(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.SessionTTL)

	return &App{
		cfg:      cfg,
		log:      log,
		storage:  st,
		sessions: session.NewService(st.Sessions, tokens, cfg.Auth.SessionTTL, log.With(slog.String("component", "session"))),
		backups: sync.NewService(st.Backups, log.With(slog.String("component", "sync")), &sync.ServiceConfig{
			Retention:      cfg.Backup.Retention,
			MaxBackupBytes: cfg.Backup.MaxBytes,
		}),
	}, nil
}

// Handler возвращает HTTP API
func (a *App) Handler() http.Handler {
	return api.New(
		api.Services{Session: a.sessions, Sync: a.backups, Health: a.storage},
		api.Options{CORSOrigins: a.cfg.Server.CORSOrigins, MaxBackupBytes: a.cfg.Backup.MaxBytes},
		a.log,
	)
}

// IssueToken открывает сессию пользователю и выпускает токен
func (a *App) IssueToken(ctx context.Context, userID string) (string, error) {
	return a.sessions.Create(ctx, userID)
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.Server.RunAddress,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server started", slog.String("address", srv.Addr), slog.String("store", a.cfg.Storage))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() error {
	return a.storage.Close()
}
