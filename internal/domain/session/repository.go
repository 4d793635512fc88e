package session

import (
	"context"
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("session not found")

// Repository хранит активные сессии по пользователю
type Repository interface {
	Create(ctx context.Context, userID string, expiresAt time.Time) error
	HasActive(ctx context.Context, userID string) (bool, error)
	Delete(ctx context.Context, userID string) error
}
