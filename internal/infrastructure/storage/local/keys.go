package local

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func indexName(store, index string) string {
	return "idx_" + store + "_" + index
}

// jsonPath - выражение индекса. Запросы FindByIndex обязаны использовать то же выражение.
func jsonPath(keyPath string) string {
	return fmt.Sprintf("json_extract(data, '$.%s')", keyPath)
}

// recordKey разбирает значение первичного ключа из JSON записи.
// Ключ хранится строкой: целые числа приводятся к десятичной записи.
// numeric > 0, если ключ целочисленный, он продвигает генератор.
func recordKey(raw json.RawMessage) (key string, numeric int64, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", 0, nil
	}

	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &key); err != nil {
			return "", 0, err
		}
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return "", 0, errors.New("key must be a string or a number")
		}
		i, err := n.Int64()
		if err != nil {
			return "", 0, fmt.Errorf("key must be an integer: %s", n)
		}
		key = strconv.FormatInt(i, 10)
	}

	if i, err := strconv.ParseInt(key, 10, 64); err == nil && i > 0 {
		numeric = i
	}
	return key, numeric, nil
}

// nextKey выдает следующий ключ генератора хранилища
func nextKey(ctx context.Context, tx *sql.Tx, store string) (string, error) {
	var current int64
	err := tx.QueryRowContext(ctx,
		`SELECT current FROM `+keyGeneratorsTable+` WHERE store = ?`, store).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("read key generator: %w", err)
	}

	next := current + 1
	if err := bumpKey(ctx, tx, store, next); err != nil {
		return "", err
	}
	return strconv.FormatInt(next, 10), nil
}

// bumpKey продвигает генератор, если явно переданный ключ больше текущего
func bumpKey(ctx context.Context, tx *sql.Tx, store string, n int64) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO `+keyGeneratorsTable+` (store, current) VALUES (?, ?)
		ON CONFLICT(store) DO UPDATE SET current = MAX(current, excluded.current)`, store, n)
	if err != nil {
		return fmt.Errorf("update key generator: %w", err)
	}
	return nil
}
