package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ezistra/internal/app/server"
	"ezistra/internal/app/server/config"
)

var tokenUserID string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Выпустить токен и открыть сессию пользователю (для разработки)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if tokenUserID == "" {
			return errors.New("--user is required")
		}
		if cfg.Storage == config.StoreMemory {
			log.Warn("memory store: the session exists only inside this process")
		}

		app, err := server.New(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer app.Close()

		token, err := app.IssueToken(cmd.Context(), tokenUserID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenUserID, "user", "u", "", "идентификатор пользователя (sub)")
}
