package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

var ErrEmptyUserID = errors.New("user id is required")

type Servicer interface {
	Create(ctx context.Context, userID string) (string, error)
	Validate(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, userID string) error
}

type Service struct {
	repo   Repository
	tokens *TokenConfig
	ttl    time.Duration
	log    *slog.Logger
}

func NewService(repo Repository, tokens *TokenConfig, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		ttl:    ttl,
		log:    log,
	}
}

// Create открывает сессию и выпускает для нее токен
func (s *Service) Create(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrEmptyUserID
	}

	token, err := s.tokens.Generate(userID)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	if err := s.repo.Create(ctx, userID, time.Now().Add(s.ttl)); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	return token, nil
}

// Validate проверяет токен и наличие активной сессии; возвращает userID
func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return "", err
	}

	active, err := s.repo.HasActive(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("check session: %w", err)
	}
	if !active {
		s.log.Debug("no active session", slog.String("user_id", userID))
		return "", ErrSessionNotFound
	}

	return userID, nil
}

func (s *Service) Revoke(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}
