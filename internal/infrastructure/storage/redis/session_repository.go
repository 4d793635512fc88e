package redis

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

// SessionRepository хранит сессию как ключ session:{userID} со сроком жизни
type SessionRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewSessionRepository(db *Storage, log *slog.Logger) *SessionRepository {
	return &SessionRepository{
		db:  db,
		log: log,
	}
}

func (r *SessionRepository) Create(ctx context.Context, userID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return r.Delete(ctx, userID)
	}
	if err := r.db.client.Set(ctx, sessionKey(userID), expiresAt.UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) HasActive(ctx context.Context, userID string) (bool, error) {
	n, err := r.db.client.Exists(ctx, sessionKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n > 0, nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID string) error {
	if err := r.db.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
