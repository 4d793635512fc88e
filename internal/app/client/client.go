package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/exp/slog"

	clientbackup "ezistra/internal/app/client/backup"
	"ezistra/internal/app/client/config"
	"ezistra/internal/app/client/repository"
	"ezistra/internal/infrastructure/storage/local"
)

type App struct {
	config     *config.Config
	log        *slog.Logger
	store      *local.Store
	repos      *repository.Set
	serializer *clientbackup.Serializer
	httpClient *httpClient
	sync       *SyncService
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DataPath), 0700); err != nil {
		return nil, fmt.Errorf("ошибка создания директории данных: %w", err)
	}

	store, err := local.Open(ctx, cfg.DataPath, log)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия локального хранилища: %w", err)
	}

	repos, err := repository.NewSet(store, time.Now)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("ошибка инициализации репозиториев: %w", err)
	}

	httpCl := NewHTTPClient(cfg, log)
	serializer := clientbackup.NewSerializer(store, cfg.ClientID, log)
	transport := WithRetry(httpCl, cfg.MaxRetries, cfg.RetryDelay, log)

	return &App{
		config:     cfg,
		log:        log,
		store:      store,
		repos:      repos,
		serializer: serializer,
		httpClient: httpCl,
		sync:       NewSyncService(serializer, transport, log),
	}, nil
}

// Config возвращает конфигурацию клиента
func (a *App) Config() *config.Config {
	return a.config
}

// Records возвращает обобщенный репозиторий хранилища с записями в виде JSON
func (a *App) Records(store string) (*local.Collection[json.RawMessage], error) {
	return local.NewCollection[json.RawMessage](a.store, store)
}

// Stores возвращает имена хранилищ реестра
func (a *App) Stores() []string {
	return a.store.Schema().Names()
}

// SchemaVersion возвращает версию схемы локальной базы
func (a *App) SchemaVersion() int {
	return a.store.Version()
}

// Repositories возвращает репозитории всех хранилищ
func (a *App) Repositories() *repository.Set {
	return a.repos
}

// Serializer возвращает сериализатор копий
func (a *App) Serializer() *clientbackup.Serializer {
	return a.serializer
}

// Sync возвращает сервис синхронизации
func (a *App) Sync() *SyncService {
	return a.sync
}

// SetToken устанавливает токен для запросов к серверу
func (a *App) SetToken(token string) {
	a.httpClient.SetToken(token)
}

// CheckConnection проверяет соединение с сервером
func (a *App) CheckConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return a.httpClient.HealthCheck(ctx)
}

// Close закрывает локальное хранилище
func (a *App) Close() error {
	a.log.Debug("Закрытие локального хранилища")
	return a.store.Close()
}
