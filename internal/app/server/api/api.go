//GET  /api/v1/health       # Проверка доступности (публичный)
//POST /api/sync/upload     # Загрузить резервную копию (auth)
//GET  /api/sync/download   # Получить копию по backupId или последнюю (auth)

package api

import (
	"net/http"
	"slices"

	healthAPI "ezistra/internal/app/server/api/http/health"
	"ezistra/internal/app/server/api/http/middleware"
	"ezistra/internal/app/server/api/http/middleware/auth"
	"ezistra/internal/app/server/api/http/middleware/logger"
	syncAPI "ezistra/internal/app/server/api/http/sync"
	"ezistra/internal/domain/session"
	"ezistra/internal/domain/sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/exp/slog"
)

type Services struct {
	Session session.Servicer
	Sync    sync.Servicer
	Health  healthAPI.Checker
}

type Options struct {
	CORSOrigins    []string
	MaxBackupBytes int64
}

type Handlers struct {
	Health *healthAPI.Handler
	Sync   *syncAPI.Handler
}

// New создает *chi.Mux с ВСЕМИ операциями через huma.Register
func New(services Services, opts Options, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()

	if len(opts.CORSOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: !slices.Contains(opts.CORSOrigins, "*"),
			MaxAge:           300,
		}))
	}

	config := huma.DefaultConfig("Ezistra Sync API", "1.0.0")
	// ответы протокола без $schema и Link
	config.CreateHooks = nil
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
	}

	API := humachi.New(mux, config)

	h := handlers(services, opts, log)
	h.Health.SetupRoutes(API)
	h.Sync.SetupRoutes(API)

	return mux
}

func handlers(services Services, opts Options, log *slog.Logger) *Handlers {
	authMW := auth.New(services.Session, log)
	loggerMW := logger.New(log)
	middlewares := middleware.NewContainer(loggerMW.Middleware())

	healthHandler := healthAPI.NewHandler(services.Health, log, middlewares.GetAllAndClear())

	middlewares.Add(authMW.Middleware())
	syncHandler := syncAPI.NewHandler(services.Sync, log.With(slog.String("component", "sync_handler")), middlewares.GetAllAndClear(), opts.MaxBackupBytes)

	return &Handlers{
		Health: healthHandler,
		Sync:   syncHandler,
	}
}
