package sync

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"ezistra/internal/app/server/api/http/middleware/auth"
	"ezistra/internal/domain/backup"
	"ezistra/internal/domain/sync"
)

type Handler struct {
	service      sync.Servicer
	log          *slog.Logger
	middleware   huma.Middlewares
	maxBodyBytes int64
}

// NewHandler при maxBodyBytes <= 0 снимает ограничение размера тела
func NewHandler(service sync.Servicer, log *slog.Logger, middleware huma.Middlewares, maxBodyBytes int64) *Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = -1
	}
	return &Handler{
		service:      service,
		log:          log,
		middleware:   middleware,
		maxBodyBytes: maxBodyBytes,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.uploadOp(), h.upload)
	huma.Register(api, h.downloadOp(), h.download)
}

func (h *Handler) upload(ctx context.Context, input *uploadInput) (*uploadOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	response, err := h.service.Upload(ctx, userID, input.RawBody)
	switch {
	case err == nil:
		return &uploadOutput{Body: *response}, nil
	case errors.Is(err, backup.ErrInvalidBlob):
		return nil, huma.Error400BadRequest("Backup must be a JSON object", err)
	case errors.Is(err, sync.ErrBackupTooLarge):
		return nil, huma.NewError(http.StatusRequestEntityTooLarge, "Backup is too large")
	}

	h.log.Error("upload failed", slog.String("user_id", userID), slog.String("error", err.Error()))
	return nil, huma.Error500InternalServerError("Failed to upload backup")
}

func (h *Handler) download(ctx context.Context, input *downloadInput) (*downloadOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	data, err := h.service.Download(ctx, userID, input.BackupID)
	switch {
	case err == nil:
		return &downloadOutput{ContentType: "application/json", Body: data}, nil
	case errors.Is(err, backup.ErrNoBackupForUser):
		return nil, huma.Error404NotFound("No backup found for user")
	case errors.Is(err, backup.ErrNotFound):
		return nil, huma.Error404NotFound("Backup not found")
	}

	h.log.Error("download failed", slog.String("user_id", userID), slog.String("error", err.Error()))
	return nil, huma.Error500InternalServerError("Failed to download backup")
}
