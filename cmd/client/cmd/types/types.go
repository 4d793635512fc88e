package types

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"ezistra/internal/app/client"
)

type contextKey string

const ClientAppKey contextKey = "app"

var ErrNoApp = errors.New("приложение не инициализировано")

// WithApp кладет приложение в контекст команды
func WithApp(ctx context.Context, app *client.App) context.Context {
	return context.WithValue(ctx, ClientAppKey, app)
}

// App достает приложение из контекста команды
func App(cmd *cobra.Command) (*client.App, error) {
	app, ok := cmd.Context().Value(ClientAppKey).(*client.App)
	if !ok || app == nil {
		return nil, ErrNoApp
	}
	return app, nil
}
