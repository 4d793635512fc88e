package record

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ezistra/internal/infrastructure/storage/local"
)

var GetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Получить запись по идентификатору",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := collection(cmd)
		if err != nil {
			return err
		}
		item, err := c.GetByID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if item == nil {
			return fmt.Errorf("запись %s не найдена в %s", args[0], storeName)
		}
		return printJSON(item)
	},
}

var createData string

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Создать запись из JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := collection(cmd)
		if err != nil {
			return err
		}
		id, err := c.Add(cmd.Context(), json.RawMessage(createData))
		if err != nil {
			return err
		}
		fmt.Printf("Запись создана: %s\n", id)
		return nil
	},
}

var updateData string

var UpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Изменить поля записи",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := collection(cmd)
		if err != nil {
			return err
		}
		var patch local.Patch
		if err := json.Unmarshal([]byte(updateData), &patch); err != nil {
			return fmt.Errorf("некорректный JSON: %w", err)
		}
		if _, err := c.Update(cmd.Context(), args[0], patch); err != nil {
			return err
		}
		fmt.Println("Запись обновлена")
		return nil
	},
}

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Удалить запись",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := collection(cmd)
		if err != nil {
			return err
		}
		if _, err := c.Delete(cmd.Context(), args[0]); err != nil {
			if errors.Is(err, local.ErrNotFound) {
				return fmt.Errorf("запись %s не найдена в %s", args[0], storeName)
			}
			return err
		}
		fmt.Println("Запись удалена")
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVarP(&createData, "data", "d", "", "запись в JSON")
	UpdateCmd.Flags().StringVarP(&updateData, "data", "d", "", "изменяемые поля в JSON")
	_ = CreateCmd.MarkFlagRequired("data")
	_ = UpdateCmd.MarkFlagRequired("data")
}
