package backup

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ezistra/cmd/client/cmd/types"
	"ezistra/internal/domain/backup"
)

var (
	backupID string
	filePath string
)

// BackupCmd работает с копиями в локальных файлах, без сервера
var BackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Экспорт и импорт копий в файл",
}

var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Сохранить копию всех хранилищ в файл",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		blob, err := app.Serializer().Snapshot(cmd.Context(), backupID)
		if err != nil {
			return fmt.Errorf("ошибка создания копии: %w", err)
		}

		data, err := json.MarshalIndent(blob, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(filePath, data, 0600); err != nil {
			return fmt.Errorf("ошибка записи файла: %w", err)
		}

		fmt.Printf("✅ Копия %s сохранена в %s\n", blob.BackupID, filePath)
		return nil
	},
}

var ImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Заменить локальные данные копией из файла",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := types.App(cmd)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("ошибка чтения файла: %w", err)
		}
		var blob backup.Blob
		if err := json.Unmarshal(data, &blob); err != nil {
			return fmt.Errorf("%w: %v", backup.ErrInvalidBlob, err)
		}

		report, err := app.Serializer().Restore(cmd.Context(), &blob)
		if err != nil {
			return fmt.Errorf("ошибка восстановления: %w", err)
		}

		fmt.Printf("✅ Копия %s восстановлена\n", blob.BackupID)
		for _, name := range app.Stores() {
			if n, ok := report.Restored[name]; ok {
				fmt.Printf("  %-18s %d\n", name, n)
			}
		}
		for _, name := range report.Skipped {
			fmt.Printf("  ⚠️  неизвестное хранилище пропущено: %s\n", name)
		}
		return nil
	},
}

func init() {
	ExportCmd.Flags().StringVar(&backupID, "backup-id", "", "идентификатор копии (по умолчанию генерируется)")
	ExportCmd.Flags().StringVarP(&filePath, "out", "o", "", "файл для сохранения")
	ImportCmd.Flags().StringVarP(&filePath, "in", "i", "", "файл копии")
	_ = ExportCmd.MarkFlagRequired("out")
	_ = ImportCmd.MarkFlagRequired("in")

	BackupCmd.AddCommand(ExportCmd, ImportCmd)
}
