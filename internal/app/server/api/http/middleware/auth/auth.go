package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"ezistra/internal/domain/session"
)

const (
	msgMissingHeader  = "Authorization header required"
	msgInvalidHeader  = "Invalid authorization header format"
	msgInvalidToken   = "Invalid token"
	msgInvalidSession = "Invalid session"
	msgSessionCheck   = "Session check failed"
)

type Auth struct {
	session session.Servicer
	log     *slog.Logger
}

func New(session session.Servicer, log *slog.Logger) *Auth {
	return &Auth{
		session: session,
		log:     log.With(slog.String("component", "auth_middleware")),
	}
}

type contextKey string

const UserIDKey contextKey = "userID"

// Middleware возвращает middleware для Huma с сигнатурой func(ctx Context, next func(Context))
func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		if header == "" {
			a.unauthorized(ctx, msgMissingHeader)
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || scheme != "Bearer" || strings.TrimSpace(token) == "" {
			a.log.Debug("wrong authorization header")
			a.unauthorized(ctx, msgInvalidHeader)
			return
		}

		userID, err := a.session.Validate(ctx.Context(), strings.TrimSpace(token))
		if err != nil {
			a.log.Debug("validate error", slog.String("error", err.Error()))
			if errors.Is(err, session.ErrInvalidToken) || errors.Is(err, session.ErrMissingSubject) {
				a.unauthorized(ctx, msgInvalidToken)
				return
			}
			if !errors.Is(err, session.ErrSessionNotFound) {
				// хранилище сессий недоступно: это не ошибка клиента
				a.log.Error("session check failed", slog.String("error", err.Error()))
				a.reject(ctx, http.StatusInternalServerError, msgSessionCheck)
				return
			}
			a.unauthorized(ctx, msgInvalidSession)
			return
		}

		newCtx := context.WithValue(ctx.Context(), UserIDKey, userID)
		next(huma.WithContext(ctx, newCtx))
	}
}

func (a *Auth) unauthorized(ctx huma.Context, message string) {
	a.reject(ctx, http.StatusUnauthorized, message)
}

func (a *Auth) reject(ctx huma.Context, status int, message string) {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.SetStatus(status)

	if err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]string{
		"error": message,
	}); err != nil {
		a.log.Error("json encode", slog.String("error", err.Error()))
	}
}

func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDKey).(string)
	return userID, ok && userID != ""
}
