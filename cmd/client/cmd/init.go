package cmd

import (
	"fmt"

	"ezistra/cmd/client/cmd/auth"
	"ezistra/cmd/client/cmd/backup"
	"ezistra/cmd/client/cmd/record"
	"ezistra/cmd/client/cmd/sync"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Инициализировать клиент Ezistra",
	Long: `Команда init выполняет первоначальную настройку клиента:
	1. Создает директорию данных и локальную базу
	2. Применяет миграции схемы хранилищ
	3. Проверяет соединение с сервером`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Println("=== Инициализация Ezistra ===")
		fmt.Println()

		fmt.Printf("Локальная база: %s\n", cfg.DataPath)
		fmt.Printf("Версия схемы: %d\n", app.SchemaVersion())
		fmt.Printf("Хранилища: %d\n", len(app.Stores()))
		for _, name := range app.Stores() {
			fmt.Printf("  - %s\n", name)
		}
		fmt.Println()

		fmt.Println("Проверка соединения с сервером...")
		if err := app.CheckConnection(cmd.Context()); err != nil {
			fmt.Printf("⚠️  Предупреждение: не удалось подключиться к серверу: %v\n", err)
			fmt.Println("Вы можете работать в офлайн-режиме, но синхронизация будет недоступна.")
		} else {
			fmt.Println("✓ Соединение с сервером установлено")
		}

		fmt.Println()
		fmt.Println("✅ Инициализация успешно завершена!")
		fmt.Println()
		fmt.Println("Что дальше:")
		fmt.Println("1. Сохраните токен доступа: ezistra auth login")
		fmt.Println("2. Создайте первую запись: ezistra record create --store users --data '{...}'")
		fmt.Println("3. Загрузите копию на сервер: ezistra sync upload")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(auth.AuthCmd)
	rootCmd.AddCommand(record.RecordCmd)
	rootCmd.AddCommand(backup.BackupCmd)
	rootCmd.AddCommand(sync.SyncCmd)
}
