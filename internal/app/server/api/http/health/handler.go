package health

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

const pingTimeout = 2 * time.Second

// Checker проверяет доступность хранилища копий
type Checker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	checker    Checker
	log        *slog.Logger
	middleware huma.Middlewares
}

// NewHandler создает обработчик; при checker == nil проверяется только сам процесс
func NewHandler(checker Checker, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		checker:    checker,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(ctx context.Context, _ *Input) (*Output, error) {
	if h.checker != nil {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		if err := h.checker.Ping(ctx); err != nil {
			h.log.Error("storage ping failed", slog.String("error", err.Error()))
			return nil, huma.Error503ServiceUnavailable("Storage unavailable")
		}
	}

	return &Output{
		Body: Response{
			Status: "OK",
		},
	}, nil
}
