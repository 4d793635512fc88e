package logger

import (
	"io"
	"os"
	"strings"

	"golang.org/x/exp/slog"

	"ezistra/internal/app/server/config"
	"ezistra/internal/utils/logger/slogpretty"
)

type options struct {
	level  *slog.Level
	output io.Writer
}

type Option func(*options)

// WithLevel задает уровень вместо уровня окружения. Пустая или неизвестная строка игнорируется.
func WithLevel(level string) Option {
	return func(o *options) {
		if l, ok := ParseLevel(level); ok {
			o.level = &l
		}
	}
}

// WithOutput меняет вывод (по умолчанию stdout)
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

// New создает логгер для окружения: local - цветной вывод, dev - JSON с debug, prod - JSON с info
func New(env string, opts ...Option) *slog.Logger {
	o := options{output: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	level := slog.LevelInfo
	if env == config.EnvLocal || env == config.EnvDev {
		level = slog.LevelDebug
	}
	if o.level != nil {
		level = *o.level
	}

	if env == config.EnvLocal {
		return setupPrettySlog(o.output, level)
	}
	return slog.New(slog.NewJSONHandler(o.output, &slog.HandlerOptions{Level: level}))
}

// ParseLevel разбирает debug, info, warn или error без учета регистра
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

func setupPrettySlog(w io.Writer, level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	return slog.New(opts.NewPrettyHandler(w))
}
