package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"
)

type Storage struct {
	client *redis.Client
	log    *slog.Logger
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

func New(ctx context.Context, opts Options, log *slog.Logger) (*Storage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Storage{client: client, log: log}, nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Storage) Client() *redis.Client {
	return s.client
}

func backupKey(userID, backupID string) string {
	return fmt.Sprintf("sync:backup:%s:%s", userID, backupID)
}

func latestKey(userID string) string {
	return "sync:latest:" + userID
}

func indexKey(userID string) string {
	return "sync:index:" + userID
}

func seqKey(userID string) string {
	return "sync:seq:" + userID
}

func sessionKey(userID string) string {
	return "session:" + userID
}
