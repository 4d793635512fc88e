package record

import (
	"fmt"

	"github.com/spf13/cobra"

	"ezistra/cmd/client/cmd/types"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "Список записей хранилища",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := collection(cmd)
		if err != nil {
			return err
		}
		items, err := c.GetAll(cmd.Context())
		if err != nil {
			return fmt.Errorf("ошибка получения списка записей: %w", err)
		}
		return printJSON(items)
	},
}

var CountCmd = &cobra.Command{
	Use:   "count",
	Short: "Количество записей; без --store по всем хранилищам",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if storeName != "" {
			c, err := collection(cmd)
			if err != nil {
				return err
			}
			n, err := c.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		}

		app, err := types.App(cmd)
		if err != nil {
			return err
		}
		for _, name := range app.Stores() {
			c, err := app.Records(name)
			if err != nil {
				return err
			}
			n, err := c.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%-18s %d\n", name, n)
		}
		return nil
	},
}

var (
	findIndex string
	findValue string
)

var FindCmd = &cobra.Command{
	Use:   "find",
	Short: "Поиск записей по индексу",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := collection(cmd)
		if err != nil {
			return err
		}
		items, err := c.FindByIndex(cmd.Context(), findIndex, findValue)
		if err != nil {
			return err
		}
		return printJSON(items)
	},
}

func init() {
	FindCmd.Flags().StringVar(&findIndex, "index", "", "имя индекса")
	FindCmd.Flags().StringVar(&findValue, "value", "", "значение")
	_ = FindCmd.MarkFlagRequired("index")
}
