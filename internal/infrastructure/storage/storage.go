package storage

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"

	"ezistra/internal/app/server/config"
	"ezistra/internal/domain/session"
	"ezistra/internal/domain/sync"
	"ezistra/internal/infrastructure/migration"
	"ezistra/internal/infrastructure/storage/memory"
	"ezistra/internal/infrastructure/storage/postgres"
	"ezistra/internal/infrastructure/storage/redis"
)

// Storage - репозитории копий и сессий выбранного бэкенда
type Storage struct {
	Backups  sync.Repository
	Sessions session.Repository
	backend  backend
}

type backend interface {
	Ping(ctx context.Context) error
	Close() error
}

// Ping проверяет доступность бэкенда; хранилище в памяти доступно всегда
func (s *Storage) Ping(ctx context.Context) error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Ping(ctx)
}

func (s *Storage) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}

// Open создает хранилище по BACKUP_STORE
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Storage, error) {
	log = log.With(slog.String("store", cfg.Storage))

	switch cfg.Storage {
	case config.StoreMemory:
		log.Warn("backups are kept in memory and will be lost on restart")
		return &Storage{
			Backups:  memory.NewBackupRepository(),
			Sessions: memory.NewSessionRepository(),
		}, nil

	case config.StoreRedis:
		db, err := redis.New(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log)
		if err != nil {
			return nil, err
		}
		return &Storage{
			Backups:  redis.NewBackupRepository(db, log),
			Sessions: redis.NewSessionRepository(db, log),
			backend:  db,
		}, nil

	case config.StorePostgres:
		db, err := postgres.New(ctx, cfg.DB, migration.DefaultEngine)
		if err != nil {
			return nil, err
		}
		return &Storage{
			Backups:  postgres.NewSyncRepository(db, log),
			Sessions: postgres.NewSessionRepository(db, log),
			backend:  db,
		}, nil
	}

	return nil, fmt.Errorf("unknown backup store %q", cfg.Storage)
}
