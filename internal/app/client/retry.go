package client

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ezistra/internal/domain/backup"

	"golang.org/x/exp/slog"
)

// retrying повторяет запросы при сетевых ошибках и ответах 5xx
type retrying struct {
	next       Transport
	maxRetries int
	delay      time.Duration
	log        *slog.Logger
}

// WithRetry оборачивает транспорт повторами. При maxRetries <= 0 возвращает next как есть.
func WithRetry(next Transport, maxRetries int, delay time.Duration, log *slog.Logger) Transport {
	if maxRetries <= 0 {
		return next
	}
	return &retrying{next: next, maxRetries: maxRetries, delay: delay, log: log}
}

func (r *retrying) Upload(ctx context.Context, blob *backup.Blob) (*UploadResult, error) {
	var result *UploadResult
	err := r.do(ctx, "upload", func() error {
		var err error
		result, err = r.next.Upload(ctx, blob)
		return err
	})
	return result, err
}

func (r *retrying) Download(ctx context.Context, backupID string) (*backup.Blob, error) {
	var blob *backup.Blob
	err := r.do(ctx, "download", func() error {
		var err error
		blob, err = r.next.Download(ctx, backupID)
		return err
	})
	return blob, err
}

func (r *retrying) HealthCheck(ctx context.Context) error {
	return r.do(ctx, "health", func() error {
		return r.next.HealthCheck(ctx)
	})
}

func (r *retrying) do(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || attempt >= r.maxRetries || ctx.Err() != nil || !retryable(err) {
			return err
		}

		r.log.Warn("retrying request",
			slog.String("op", op),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()),
		)

		timer := time.NewTimer(r.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

func retryable(err error) bool {
	if errors.Is(err, ErrTransport) {
		return true
	}
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Code >= http.StatusInternalServerError
}
