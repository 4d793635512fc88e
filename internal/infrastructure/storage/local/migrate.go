package local

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"golang.org/x/exp/slog"
)

// MigrationState - состояние шага миграции
type MigrationState string

const (
	StatePending  MigrationState = "pending"
	StateApplying MigrationState = "applying"
	StateApplied  MigrationState = "applied"
)

// Migration - версионный шаг обновления схемы.
// Upgrade обязан быть идемпотентным к уже существующим хранилищам и индексам.
type Migration struct {
	Version     int
	Description string
	Upgrade     func(ctx context.Context, u *Upgrader) error
}

// Upgrader - ручка схемы, доступная шагу миграции внутри его транзакции
type Upgrader struct {
	tx     *sql.Tx
	schema *Schema
}

// Schema возвращает реестр, под который выполняется миграция
func (u *Upgrader) Schema() *Schema {
	return u.schema
}

// CreateStore создает хранилище. Существующее хранилище не ошибка.
func (u *Upgrader) CreateStore(ctx context.Context, def StoreDefinition) error {
	if def.PrimaryKey == "" {
		def.PrimaryKey = defaultPrimaryKey
	}
	if err := def.validate(); err != nil {
		return err
	}
	_, err := u.tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		data TEXT NOT NULL CHECK (json_valid(data))
	)`, quoteIdent(def.Name)))
	if err != nil {
		return fmt.Errorf("create store %s: %w", def.Name, err)
	}
	return nil
}

// CreateIndex создает вторичный индекс по полю записи. Существующий индекс не ошибка.
func (u *Upgrader) CreateIndex(ctx context.Context, store string, idx IndexDefinition) error {
	if !storeNamePattern.MatchString(store) {
		return fmt.Errorf("invalid store name %q", store)
	}
	if !fieldNamePattern.MatchString(idx.Name) || !fieldNamePattern.MatchString(idx.KeyPath) {
		return fmt.Errorf("store %s: invalid index %q on %q", store, idx.Name, idx.KeyPath)
	}
	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}
	_, err := u.tx.ExecContext(ctx, fmt.Sprintf(`CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)`,
		unique, quoteIdent(indexName(store, idx.Name)), quoteIdent(store), jsonPath(idx.KeyPath)))
	if err != nil {
		return fmt.Errorf("create index %s on %s: %w", idx.Name, store, err)
	}
	return nil
}

// Exec выполняет произвольный DDL шага
func (u *Upgrader) Exec(ctx context.Context, query string, args ...any) error {
	_, err := u.tx.ExecContext(ctx, query, args...)
	return err
}

// DefaultMigrations - история схемы приложения
func DefaultMigrations(schema *Schema) []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Initial schema with all stores",
			Upgrade: func(ctx context.Context, u *Upgrader) error {
				for _, def := range schema.Stores() {
					if err := u.CreateStore(ctx, def); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Version:     2,
			Description: "Secondary indexes for repository finders",
			Upgrade: func(ctx context.Context, u *Upgrader) error {
				for _, def := range schema.Stores() {
					for _, idx := range def.Indexes {
						if err := u.CreateIndex(ctx, def.Name, idx); err != nil {
							return err
						}
					}
				}
				return nil
			},
		},
	}
}

// LatestVersion - версия последней миграции
func LatestVersion(migrations []Migration) int {
	latest := 0
	for _, m := range migrations {
		if m.Version > latest {
			latest = m.Version
		}
	}
	return latest
}

// PendingMigrations возвращает миграции с версией выше текущей по возрастанию
func PendingMigrations(current int, migrations []Migration) []Migration {
	pending := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		if m.Version > current {
			pending = append(pending, m)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Version < pending[j].Version
	})
	return pending
}

func validateMigrations(migrations []Migration) error {
	seen := make(map[int]struct{}, len(migrations))
	for _, m := range migrations {
		if m.Version <= 0 {
			return fmt.Errorf("migration %q: version must be positive", m.Description)
		}
		if m.Upgrade == nil {
			return fmt.Errorf("migration v%d: upgrade step is nil", m.Version)
		}
		if _, dup := seen[m.Version]; dup {
			return fmt.Errorf("migration v%d declared twice", m.Version)
		}
		seen[m.Version] = struct{}{}
	}
	return nil
}

func userVersion(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}) (int, error) {
	var version int
	if err := q.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return version, nil
}

// runMigrations применяет ожидающие миграции по одной, каждую в своей транзакции.
// user_version поднимается внутри той же транзакции, поэтому упавший шаг не двигает версию.
func runMigrations(ctx context.Context, db *sql.DB, schema *Schema, migrations []Migration, log *slog.Logger) (int, error) {
	if err := validateMigrations(migrations); err != nil {
		return 0, err
	}

	current, err := userVersion(ctx, db)
	if err != nil {
		return 0, err
	}

	pending := PendingMigrations(current, migrations)
	for _, m := range pending {
		log.Debug("migration", slog.Int("version", m.Version), slog.String("state", string(StatePending)))
	}

	for _, m := range pending {
		log.Info("migration",
			slog.Int("version", m.Version),
			slog.String("state", string(StateApplying)),
			slog.String("description", m.Description),
		)

		if err := applyMigration(ctx, db, schema, m); err != nil {
			log.Error("migration failed",
				slog.Int("version", m.Version),
				slog.Int("schema_version", current),
				slog.String("error", err.Error()),
			)
			return current, fmt.Errorf("migration v%d (%s): %w", m.Version, m.Description, err)
		}
		current = m.Version

		log.Info("migration", slog.Int("version", m.Version), slog.String("state", string(StateApplied)))
	}

	return current, nil
}

func applyMigration(ctx context.Context, db *sql.DB, schema *Schema, m Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := m.Upgrade(ctx, &Upgrader{tx: tx, schema: schema}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
