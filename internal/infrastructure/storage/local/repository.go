package local

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"golang.org/x/exp/slog"
)

// Patch - частичное обновление записи: ключи JSON и новые значения
type Patch map[string]any

// PatchOf строит Patch из структуры или карты. Поля, опущенные через omitempty, не попадают в патч.
func PatchOf(v any) (Patch, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode patch: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var p Patch
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("patch must be an object: %w", err)
	}
	return p, nil
}

// Repository - CRUD и выборки над одним хранилищем
type Repository[T any] interface {
	Add(ctx context.Context, record T) (string, error)
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Update(ctx context.Context, id string, patch Patch) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) (bool, error)
	FindByIndex(ctx context.Context, index string, value any) ([]T, error)
	Filter(ctx context.Context, predicate func(T) bool) ([]T, error)
	FindOne(ctx context.Context, predicate func(T) bool) (*T, error)
	AddMany(ctx context.Context, records []T) ([]string, error)
	DeleteMany(ctx context.Context, ids []string) (int, error)
}

// Collection - реализация Repository над таблицей хранилища.
// Каждая операция открывает ровно одну транзакцию в пределах своего хранилища.
type Collection[T any] struct {
	store *Store
	def   StoreDefinition
	log   *slog.Logger
}

var _ Repository[json.RawMessage] = (*Collection[json.RawMessage])(nil)

// NewCollection привязывает коллекцию к хранилищу из реестра
func NewCollection[T any](store *Store, name string) (*Collection[T], error) {
	def, ok := store.schema.Store(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, name)
	}
	return &Collection[T]{
		store: store,
		def:   def,
		log:   store.log.With(slog.String("store", name)),
	}, nil
}

// Name - имя хранилища коллекции
func (c *Collection[T]) Name() string {
	return c.def.Name
}

// Definition - определение хранилища коллекции
func (c *Collection[T]) Definition() StoreDefinition {
	return c.def
}

func (c *Collection[T]) table() string {
	return quoteIdent(c.def.Name)
}

// encode проверяет запись и раскладывает ее на поля верхнего уровня
func (c *Collection[T]) encode(record T) (map[string]json.RawMessage, error) {
	if reflect.ValueOf(&record).Elem().IsZero() {
		return nil, validationError(c.def.Name, "Cannot add null or undefined data to %s", c.def.Name)
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, validationError(c.def.Name, "Cannot encode record for %s: %v", c.def.Name, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, validationError(c.def.Name, "Record for %s must be a JSON object", c.def.Name)
	}
	if len(fields) == 0 {
		return nil, validationError(c.def.Name, "Cannot add null or undefined data to %s", c.def.Name)
	}
	return fields, nil
}

func (c *Collection[T]) decode(data string) (T, error) {
	var out T
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return out, fmt.Errorf("decode record: %w", err)
	}
	return out, nil
}

// insert кладет одну запись в рамках открытой транзакции и возвращает ее ключ
func (c *Collection[T]) insert(ctx context.Context, tx *sql.Tx, fields map[string]json.RawMessage) (string, error) {
	key, numeric, err := recordKey(fields[c.def.PrimaryKey])
	if err != nil {
		return "", validationError(c.def.Name, "Invalid %s for %s: %v", c.def.PrimaryKey, c.def.Name, err)
	}

	switch {
	case key == "" && c.def.AutoIncrement:
		key, err = nextKey(ctx, tx, c.def.Name)
		if err != nil {
			return "", err
		}
	case key == "":
		return "", validationError(c.def.Name, "Record for %s has no %s", c.def.Name, c.def.PrimaryKey)
	case numeric > 0 && c.def.AutoIncrement:
		if err := bumpKey(ctx, tx, c.def.Name, numeric); err != nil {
			return "", err
		}
	}

	keyJSON, _ := json.Marshal(key)
	fields[c.def.PrimaryKey] = keyJSON

	data, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO `+c.table()+` (id, data) VALUES (?, ?)`, key, string(data))
	if err != nil {
		return "", err
	}
	return key, nil
}

func (c *Collection[T]) query(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]T, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		rec, err := c.decode(data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Add добавляет запись. Для автоинкрементных хранилищ без ключа ключ назначает генератор.
func (c *Collection[T]) Add(ctx context.Context, record T) (string, error) {
	fields, err := c.encode(record)
	if err != nil {
		return "", err
	}

	var key string
	err = c.store.update(ctx, func(tx *sql.Tx) error {
		key, err = c.insert(ctx, tx, fields)
		return err
	})
	if err != nil {
		return "", operationError("add", c.def.Name, err)
	}
	return key, nil
}

// GetAll возвращает все записи в порядке вставки. Пустое хранилище не ошибка.
func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	var out []T
	err := c.store.view(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = c.query(ctx, tx, `SELECT data FROM `+c.table()+` ORDER BY seq`)
		return err
	})
	if err != nil {
		return nil, operationError("getAll", c.def.Name, err)
	}
	return out, nil
}

// GetByID возвращает запись или nil, если ее нет
func (c *Collection[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var out *T
	err := c.store.view(ctx, func(tx *sql.Tx) error {
		var data string
		err := tx.QueryRowContext(ctx, `SELECT data FROM `+c.table()+` WHERE id = ?`, id).Scan(&data)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		rec, err := c.decode(data)
		if err != nil {
			return err
		}
		out = &rec
		return nil
	})
	if err != nil {
		return nil, operationError("getById", c.def.Name, err)
	}
	return out, nil
}

// Update сливает patch с существующей записью. Первичный ключ в patch игнорируется.
func (c *Collection[T]) Update(ctx context.Context, id string, patch Patch) (bool, error) {
	changes := make(map[string]json.RawMessage, len(patch))
	for k, v := range patch {
		if k == c.def.PrimaryKey {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return false, validationError(c.def.Name, "Invalid value for %s: %v", k, err)
		}
		changes[k] = raw
	}
	if len(changes) == 0 {
		return false, validationError(c.def.Name, "Update object cannot be empty")
	}

	err := c.store.update(ctx, func(tx *sql.Tx) error {
		var data string
		err := tx.QueryRowContext(ctx, `SELECT data FROM `+c.table()+` WHERE id = ?`, id).Scan(&data)
		if errors.Is(err, sql.ErrNoRows) {
			return notFoundError(c.def.Name, id)
		}
		if err != nil {
			return err
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal([]byte(data), &fields); err != nil {
			return fmt.Errorf("decode record: %w", err)
		}
		for k, raw := range changes {
			fields[k] = raw
		}

		merged, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		if _, err := c.decode(string(merged)); err != nil {
			return validationError(c.def.Name, "Update does not fit %s records: %v", c.def.Name, err)
		}

		_, err = tx.ExecContext(ctx, `UPDATE `+c.table()+` SET data = ? WHERE id = ?`, string(merged), id)
		return err
	})
	if err != nil {
		return false, operationError("update", c.def.Name, err)
	}
	return true, nil
}

// Delete удаляет запись по ключу
func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	err := c.store.update(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM `+c.table()+` WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return notFoundError(c.def.Name, id)
		}
		return nil
	})
	if err != nil {
		return false, operationError("delete", c.def.Name, err)
	}
	return true, nil
}

// Count - число записей в хранилище
func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	var n int
	err := c.store.view(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+c.table()).Scan(&n)
	})
	if err != nil {
		return 0, operationError("count", c.def.Name, err)
	}
	return n, nil
}

// Clear удаляет все записи. Генератор ключей не сбрасывается.
func (c *Collection[T]) Clear(ctx context.Context) (bool, error) {
	err := c.store.update(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM `+c.table())
		return err
	})
	if err != nil {
		return false, operationError("clear", c.def.Name, err)
	}
	return true, nil
}

// FindByIndex ищет записи по значению вторичного индекса
func (c *Collection[T]) FindByIndex(ctx context.Context, index string, value any) ([]T, error) {
	op := "findByIndex:" + index
	idx, ok := c.def.Index(index)
	if !ok {
		return nil, operationError(op, c.def.Name, fmt.Errorf("%w: %s", ErrIndexMissing, index))
	}

	var out []T
	err := c.store.view(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = c.query(ctx, tx,
			`SELECT data FROM `+c.table()+` WHERE `+jsonPath(idx.KeyPath)+` = ? ORDER BY seq`, value)
		return err
	})
	if err != nil {
		return nil, operationError(op, c.def.Name, err)
	}
	return out, nil
}

// Filter читает все записи и оставляет подходящие под predicate
func (c *Collection[T]) Filter(ctx context.Context, predicate func(T) bool) ([]T, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(all))
	for _, rec := range all {
		if predicate(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// FindOne возвращает первую по порядку вставки запись, подходящую под predicate
func (c *Collection[T]) FindOne(ctx context.Context, predicate func(T) bool) (*T, error) {
	all, err := c.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range all {
		if predicate(all[i]) {
			return &all[i], nil
		}
	}
	return nil, nil
}

// AddMany добавляет записи одной транзакцией: либо все, либо ни одной
func (c *Collection[T]) AddMany(ctx context.Context, records []T) ([]string, error) {
	if len(records) == 0 {
		return nil, validationError(c.def.Name, "Data must be a non-empty array")
	}

	batch := make([]map[string]json.RawMessage, 0, len(records))
	for _, rec := range records {
		fields, err := c.encode(rec)
		if err != nil {
			return nil, err
		}
		batch = append(batch, fields)
	}

	ids := make([]string, 0, len(batch))
	err := c.store.update(ctx, func(tx *sql.Tx) error {
		for _, fields := range batch {
			id, err := c.insert(ctx, tx, fields)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, operationError("addMany", c.def.Name, err)
	}
	return ids, nil
}

// Replace заменяет все содержимое хранилища одной транзакцией. Пустой список просто очищает его.
func (c *Collection[T]) Replace(ctx context.Context, records []T) ([]string, error) {
	batch := make([]map[string]json.RawMessage, 0, len(records))
	for _, rec := range records {
		fields, err := c.encode(rec)
		if err != nil {
			return nil, err
		}
		batch = append(batch, fields)
	}

	ids := make([]string, 0, len(batch))
	err := c.store.update(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+c.table()); err != nil {
			return err
		}
		for _, fields := range batch {
			id, err := c.insert(ctx, tx, fields)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, operationError("replace", c.def.Name, err)
	}
	return ids, nil
}

// DeleteMany удаляет записи по ключам по мере возможности.
// Ошибки и отсутствующие ключи пропускаются и не входят в счетчик.
func (c *Collection[T]) DeleteMany(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, validationError(c.def.Name, "IDs must be a non-empty array")
	}

	deleted := 0
	err := c.store.update(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			res, err := tx.ExecContext(ctx, `DELETE FROM `+c.table()+` WHERE id = ?`, id)
			if err != nil {
				c.log.Warn("delete skipped", slog.String("id", id), slog.String("error", err.Error()))
				continue
			}
			if n, err := res.RowsAffected(); err == nil && n > 0 {
				deleted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, operationError("deleteMany", c.def.Name, err)
	}
	return deleted, nil
}
