package migration

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ezistra/internal/app/server/config"
)

type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMigrator) Down() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMigrator) Close() (error, error) {
	args := m.Called()
	return args.Error(0), args.Error(1)
}

var testDB = config.DB{DatabaseURI: "postgres://localhost/ezistra", Migrations: "migrations"}

func TestMigration_Up_Success(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(nil)
	mockM.On("Close").Return(nil, nil)

	var gotSource, gotDB string
	engine := func(source, db string) (Migrator, error) {
		gotSource, gotDB = source, db
		return mockM, nil
	}

	err := NewMigration(testDB, engine).Up()

	assert.NoError(t, err)
	assert.Equal(t, "file://migrations", gotSource)
	assert.Equal(t, testDB.DatabaseURI, gotDB)
	mockM.AssertExpectations(t)
}

func TestMigration_Up_NoChange(t *testing.T) {
	mockM := new(MockMigrator)

	mockM.On("Up").Return(migrate.ErrNoChange)
	mockM.On("Close").Return(nil, nil)

	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	assert.NoError(t, NewMigration(testDB, engine).Up())
}

func TestMigration_Up_Failure(t *testing.T) {
	mockM := new(MockMigrator)
	upErr := errors.New("dirty database")
	mockM.On("Up").Return(upErr)
	mockM.On("Close").Return(nil, errors.New("conn closed"))

	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	err := NewMigration(testDB, engine).Up()
	assert.ErrorIs(t, err, upErr)
	assert.Contains(t, err.Error(), "conn closed")
}

func TestMigration_Up_CloseError(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(nil)
	mockM.On("Close").Return(errors.New("source closed"), nil)

	engine := func(source, db string) (Migrator, error) {
		return mockM, nil
	}

	err := NewMigration(testDB, engine).Up()
	assert.EqualError(t, err, "source closed")
}

func TestMigration_Up_EngineError(t *testing.T) {
	engine := func(source, db string) (Migrator, error) {
		return nil, errors.New("engine crash")
	}

	err := NewMigration(testDB, engine).Up()

	assert.Error(t, err)
	assert.Equal(t, "engine crash", err.Error())
}

func TestMigration_Down(t *testing.T) {
	tests := []struct {
		name    string
		downErr error
		wantErr bool
	}{
		{name: "rolled back", downErr: nil},
		{name: "nothing to roll back", downErr: migrate.ErrNoChange},
		{name: "failure", downErr: errors.New("locked"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockM := new(MockMigrator)
			mockM.On("Down").Return(tt.downErr)
			mockM.On("Close").Return(nil, nil)

			err := NewMigration(testDB, func(string, string) (Migrator, error) {
				return mockM, nil
			}).Down()

			if tt.wantErr {
				assert.ErrorIs(t, err, tt.downErr)
				assert.Contains(t, err.Error(), "migration down")
			} else {
				assert.NoError(t, err)
			}
			mockM.AssertNotCalled(t, "Up")
			mockM.AssertExpectations(t)
		})
	}
}

func TestMigration_BothCloseErrors(t *testing.T) {
	mockM := new(MockMigrator)
	mockM.On("Up").Return(nil)
	mockM.On("Close").Return(errors.New("source closed"), errors.New("conn closed"))

	err := NewMigration(testDB, func(string, string) (Migrator, error) {
		return mockM, nil
	}).Up()

	assert.EqualError(t, err, "source closed; migration database error: conn closed")
}
