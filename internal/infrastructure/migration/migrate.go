package migration

import (
	"errors"
	"fmt"

	"ezistra/internal/app/server/config"

	"github.com/golang-migrate/migrate/v4"
	// Blank import required for PostgreSQL driver registration for migrations
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrator - часть migrate.Migrate, которой пользуется сервер
type Migrator interface {
	Up() error
	Down() error
	Close() (error, error)
}

// MigrationEngine открывает мигратор по источнику и базе; в тестах подменяется моком
type MigrationEngine func(sourceURL, databaseURL string) (Migrator, error)

type Migration struct {
	cfg    config.DB
	engine MigrationEngine
}

func NewMigration(conf config.DB, engine MigrationEngine) *Migration {
	if engine == nil {
		engine = DefaultEngine
	}
	return &Migration{
		cfg:    conf,
		engine: engine,
	}
}

func DefaultEngine(sourceURL, databaseURL string) (Migrator, error) {
	return migrate.New(sourceURL, databaseURL)
}

// Up применяет все новые миграции таблиц копий и сессий
func (mg *Migration) Up() error {
	return mg.run("up", Migrator.Up)
}

// Down откатывает все миграции
func (mg *Migration) Down() error {
	return mg.run("down", Migrator.Down)
}

// run открывает мигратор, выполняет шаг и закрывает его. ErrNoChange ошибкой не считается.
func (mg *Migration) run(name string, step func(Migrator) error) (err error) {
	m, err := mg.engine("file://"+mg.cfg.Migrations, mg.cfg.DatabaseURI)
	if err != nil {
		return err
	}
	defer func() {
		err = joinClose(err, m)
	}()

	if stepErr := step(m); stepErr != nil && !errors.Is(stepErr, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s: %w", name, stepErr)
	}
	return nil
}

func joinClose(err error, m Migrator) error {
	serr, dberr := m.Close()
	for _, closeErr := range []struct {
		kind string
		err  error
	}{{"source", serr}, {"database", dberr}} {
		switch {
		case closeErr.err == nil:
		case err == nil:
			err = closeErr.err
		default:
			err = fmt.Errorf("%w; migration %s error: %v", err, closeErr.kind, closeErr.err)
		}
	}
	return err
}
