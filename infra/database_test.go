package infra

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/bank/infra/repository/model"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverName(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"postgres://u:p@localhost:5432/bank?sslmode=disable", DriverPostgres, false},
		{"postgresql://localhost/bank", DriverPostgres, false},
		{"sqlite://bank.db", DriverSqlite, false},
		{"file::memory:?cache=shared", DriverSqlite, false},
		{"mysql://localhost/bank", "", true},
	}
	for _, tt := range tests {
		got, err := DriverName(tt.url)
		if tt.wantErr {
			assert.Error(t, err, tt.url)
			continue
		}
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}
}

func TestSqliteDSN(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"sqlite://bank.db", "bank.db?_txlock=immediate&_busy_timeout=5000"},
		{"sqlite://file:x?mode=memory&cache=shared", "file:x?mode=memory&cache=shared&_txlock=immediate&_busy_timeout=5000"},
		{"file:bank.db?_busy_timeout=100", "file:bank.db?_busy_timeout=100&_txlock=immediate"},
		{"sqlite://bank.db?_txlock=deferred", "bank.db?_txlock=deferred&_busy_timeout=5000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sqliteDSN(tt.url), tt.url)
	}
}

func TestNewDBConnection_RequiresURL(t *testing.T) {
	_, err := NewDBConnection(&config.DB{}, "test")
	assert.EqualError(t, err, "DATABASE_URL is not set")
}

func TestNewDBConnection_SqliteMigrate(t *testing.T) {
	db, err := NewDBConnection(&config.DB{
		Url:             "sqlite://file:infra_migrate?mode=memory&cache=shared",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}, "test")
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	require.NoError(t, Migrate(context.Background(), db))
	for _, m := range model.All() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
	assert.True(t, db.Migrator().HasIndex(&model.Account{}, "ux_accounts_number"))

	// Running again is a no-op.
	require.NoError(t, Migrate(context.Background(), db))
}
