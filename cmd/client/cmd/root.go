package cmd

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/slog"

	"ezistra/cmd/client/cmd/auth"
	"ezistra/cmd/client/cmd/types"
	"ezistra/internal/app/client"
	"ezistra/internal/app/client/config"
	"ezistra/internal/utils/logger"

	"github.com/spf13/cobra"
)

var (
	cfg        *config.Config
	log        *slog.Logger
	app        *client.App
	serverAddr string
	dataPath   string
	token      string
)

var rootCmd = &cobra.Command{
	Use:   "ezistra",
	Short: "Ezistra - локальное хранилище данных студента с резервным копированием",
	Long: `Ezistra хранит анкету студента (личные данные, адреса, обучение, документы)
во встроенной базе на устройстве и переносит полные копии на сервер и обратно.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	// Переопределяем настройки из флагов командной строки
	if serverAddr != "" {
		cfg.ServerAddress = serverAddr
	}
	if dataPath != "" {
		cfg.DataPath = dataPath
	}
	if token != "" {
		cfg.Token = token
	}
	if cfg.Token == "" {
		if saved, err := auth.LoadToken(cfg); err == nil {
			cfg.Token = strings.TrimSpace(saved)
		}
	}

	log = logger.New(cfg.Env, logger.WithLevel(cfg.LogLevel), logger.WithOutput(os.Stderr))

	var err error
	app, err = client.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("ошибка инициализации приложения: %w", err)
	}

	cmd.SetContext(types.WithApp(cmd.Context(), app))
	return nil
}

func closeApp(_ *cobra.Command, _ []string) error {
	if app == nil {
		return nil
	}
	return app.Close()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "", "адрес сервера (SERVER_ADDRESS)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "путь к локальной базе (DATA_PATH)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "bearer-токен (TOKEN)")
}
