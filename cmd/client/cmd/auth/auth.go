package auth

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ezistra/internal/app/client/config"
)

// AuthCmd - родительская команда для операций с токеном доступа
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Управление токеном доступа",
	Long: `Сохранение и удаление bearer-токена, выданного провайдером идентификации.
Токен из флага --token или переменной TOKEN имеет приоритет над сохраненным.`,
}

func tokenPath(cfg *config.Config) string {
	return filepath.Join(cfg.ConfigDir, "token")
}

// LoadToken читает сохраненный токен
func LoadToken(cfg *config.Config) (string, error) {
	data, err := os.ReadFile(tokenPath(cfg))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func saveToken(cfg *config.Config, token string) error {
	if err := os.MkdirAll(cfg.ConfigDir, 0700); err != nil {
		return fmt.Errorf("ошибка создания директории конфигурации: %w", err)
	}
	if err := os.WriteFile(tokenPath(cfg), []byte(token), 0600); err != nil {
		return fmt.Errorf("ошибка сохранения токена: %w", err)
	}
	return nil
}

func init() {
	AuthCmd.AddCommand(LoginCmd, LogoutCmd)
}
