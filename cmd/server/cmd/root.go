package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"ezistra/internal/app/server/config"
	"ezistra/internal/utils/logger"
)

var (
	cfg        *config.Config
	log        *slog.Logger
	runAddress string
	storeName  string
)

var rootCmd = &cobra.Command{
	Use:               "ezistra-server",
	Short:             "Сервер резервных копий Ezistra",
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setup(_ *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	if runAddress != "" {
		cfg.Server.RunAddress = runAddress
	}
	if storeName != "" {
		cfg.Storage = strings.ToLower(storeName)
	}

	log = logger.New(cfg.Env, logger.WithLevel(cfg.Logger.LogLevel))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&runAddress, "address", "a", "", "адрес HTTP сервера (RUN_ADDRESS)")
	rootCmd.PersistentFlags().StringVar(&storeName, "store", "", "хранилище копий: memory, redis, postgres (BACKUP_STORE)")

	// serve - команда по умолчанию
	rootCmd.RunE = serveCmd.RunE
	rootCmd.AddCommand(serveCmd, tokenCmd, migrateCmd)
}
