package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ezistra/cmd/client/cmd/types"
	"ezistra/internal/app/client"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Сохранить токен доступа",
	Long: `Запрашивает bearer-токен, проверяет соединение с сервером и сохраняет
токен локально для последующих команд синхронизации.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		token := app.Config().Token
		if token == "" {
			fmt.Print("Токен: ")
			raw, err := term.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return fmt.Errorf("ошибка чтения токена: %w", err)
			}
			fmt.Println()
			token = strings.TrimSpace(string(raw))
		}
		if token == "" {
			return errors.New("токен не может быть пустым")
		}

		app.SetToken(token)

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		// пробный запрос последней копии проверяет токен на сервере
		_, err = app.Sync().Pull(ctx, "", false)
		switch {
		case errors.Is(err, client.ErrUnauthorized):
			return fmt.Errorf("сервер отклонил токен: %w", err)
		case err != nil && !client.IsNotFound(err):
			return fmt.Errorf("ошибка проверки токена: %w", err)
		}

		if err := saveToken(app.Config(), token); err != nil {
			return err
		}

		fmt.Println("✅ Токен сохранен")
		return nil
	},
}

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Удалить сохраненный токен",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		if err := os.Remove(tokenPath(app.Config())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("ошибка удаления токена: %w", err)
		}
		fmt.Println("Токен удален")
		return nil
	},
}
