package local

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/exp/slog"
)

const keyGeneratorsTable = "_key_generators"

// Store - встроенное версионируемое хранилище записей поверх SQLite.
// Один писатель: все операции сериализуются через единственное соединение.
type Store struct {
	db         *sql.DB
	schema     *Schema
	migrations []Migration
	version    int
	log        *slog.Logger
}

// Option настраивает Store при открытии
type Option func(*Store)

// WithSchema подменяет реестр хранилищ
func WithSchema(schema *Schema) Option {
	return func(s *Store) {
		s.schema = schema
	}
}

// WithMigrations подменяет список миграций
func WithMigrations(migrations []Migration) Option {
	return func(s *Store) {
		s.migrations = migrations
	}
}

// Open открывает базу по пути, применяет недостающие миграции и проверяет схему.
// Если миграция упала, база остается на последней примененной версии, а Open возвращает ошибку.
func Open(ctx context.Context, path string, log *slog.Logger, opts ...Option) (*Store, error) {
	s := &Store{
		log: log.With(slog.String("component", "local_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.schema == nil {
		s.schema = DefaultSchema()
	}
	if s.migrations == nil {
		s.migrations = DefaultMigrations(s.schema)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	s.db = db

	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+keyGeneratorsTable+` (
		store TEXT PRIMARY KEY,
		current INTEGER NOT NULL DEFAULT 0
	)`)
	if err != nil {
		return fmt.Errorf("create key generators: %w", err)
	}

	version, err := runMigrations(ctx, s.db, s.schema, s.migrations, s.log)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	s.version = version

	if err := s.verify(ctx); err != nil {
		return fmt.Errorf("verify schema: %w", err)
	}

	return nil
}

// verify проверяет, что для каждого хранилища из реестра есть таблица и индексы
func (s *Store) verify(ctx context.Context) error {
	for _, def := range s.schema.Stores() {
		ok, err := s.objectExists(ctx, "table", def.Name)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("store %s is missing", def.Name)
		}
		for _, idx := range def.Indexes {
			ok, err := s.objectExists(ctx, "index", indexName(def.Name, idx.Name))
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("index %s on store %s is missing", idx.Name, def.Name)
			}
		}
	}
	return nil
}

func (s *Store) objectExists(ctx context.Context, kind, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?`, kind, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup %s %s: %w", kind, name, err)
	}
	return n > 0, nil
}

// Close закрывает соединение
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Schema возвращает реестр хранилищ, с которым открыта база
func (s *Store) Schema() *Schema {
	return s.schema
}

// Version - текущая версия схемы
func (s *Store) Version() int {
	return s.version
}

// Logger возвращает логгер хранилища
func (s *Store) Logger() *slog.Logger {
	return s.log
}

// view выполняет fn в транзакции только для чтения
func (s *Store) view(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	return fn(tx)
}

// update выполняет fn в транзакции на запись. Ошибка fn откатывает все изменения.
func (s *Store) update(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
