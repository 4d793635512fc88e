package record

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"ezistra/cmd/client/cmd/types"
	"ezistra/internal/app/client"
	"ezistra/internal/infrastructure/storage/local"
)

var storeName string

// RecordCmd - родительская команда для всех операций с записями
var RecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Управление записями",
	Long: `Просмотр, создание, изменение и удаление записей локальных хранилищ.
Записи передаются и выводятся как JSON.`,
}

func collection(cmd *cobra.Command) (*local.Collection[json.RawMessage], error) {
	app, err := types.App(cmd)
	if err != nil {
		return nil, err
	}
	return records(app)
}

func records(app *client.App) (*local.Collection[json.RawMessage], error) {
	if storeName == "" {
		return nil, fmt.Errorf("укажите хранилище: --store (%s)", strings.Join(app.Stores(), ", "))
	}
	if !slices.Contains(app.Stores(), storeName) {
		return nil, fmt.Errorf("неизвестное хранилище %q", storeName)
	}
	return app.Records(storeName)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	RecordCmd.PersistentFlags().StringVarP(&storeName, "store", "s", "", "имя хранилища")
	RecordCmd.AddCommand(ListCmd, CountCmd, GetCmd, CreateCmd, UpdateCmd, DeleteCmd, FindCmd)
}
