package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"ezistra/cmd/client/cmd/types"
)

var (
	backupID string
	restore  bool
	outFile  string
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Синхронизация с сервером",
	Long: `Перенос полных копий локальной базы между клиентом и сервером.

upload снимает копию всех хранилищ и загружает ее; download получает копию
по идентификатору или последнюю и при --restore заменяет ею локальные данные.`,
}

var UploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Загрузить копию на сервер",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		start := time.Now()
		result, err := app.Sync().Push(ctx, backupID)
		if err != nil {
			return fmt.Errorf("ошибка загрузки: %w", err)
		}

		fmt.Println("✅ Копия загружена")
		fmt.Printf("Идентификатор: %s\n", result.BackupID)
		fmt.Printf("Время выполнения: %v\n", time.Since(start).Round(time.Millisecond))
		return nil
	},
}

var DownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Получить копию с сервера",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		result, err := app.Sync().Pull(ctx, backupID, restore)
		if err != nil {
			return fmt.Errorf("ошибка получения копии: %w", err)
		}

		if outFile != "" {
			data, err := json.MarshalIndent(result.Blob, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(outFile, data, 0600); err != nil {
				return fmt.Errorf("ошибка записи файла: %w", err)
			}
			fmt.Printf("Копия сохранена в %s\n", outFile)
		}

		fmt.Printf("Копия: %s (создана %s)\n", result.Blob.BackupID, result.Blob.CreatedAt.Format(time.RFC3339))
		if result.Report == nil {
			return nil
		}

		names := make([]string, 0, len(result.Report.Restored))
		for name := range result.Report.Restored {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println("✅ Локальные данные восстановлены:")
		for _, name := range names {
			fmt.Printf("  %-18s %d\n", name, result.Report.Restored[name])
		}
		for _, name := range result.Report.Skipped {
			fmt.Printf("  ⚠️  неизвестное хранилище пропущено: %s\n", name)
		}
		return nil
	},
}

func init() {
	UploadCmd.Flags().StringVar(&backupID, "backup-id", "", "идентификатор копии (по умолчанию генерируется)")
	DownloadCmd.Flags().StringVar(&backupID, "backup-id", "", "идентификатор копии (по умолчанию последняя)")
	DownloadCmd.Flags().BoolVar(&restore, "restore", false, "заменить локальные данные содержимым копии")
	DownloadCmd.Flags().StringVarP(&outFile, "out", "o", "", "сохранить копию в файл")

	SyncCmd.AddCommand(UploadCmd, DownloadCmd)
}
