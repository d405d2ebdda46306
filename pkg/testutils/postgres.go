//go:build integration

package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/bank/infra"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// NewPostgresDB starts a throwaway postgres container, applies the SQL
// migrations and returns a connection pool sized for concurrent tests.
func NewPostgresDB(t testing.TB) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := tcpostgres.Run(
		ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("bank"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, pg)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres dsn: %v", err)
	}

	db, err := infra.NewDBConnection(&config.DB{
		Url:             dsn,
		MaxOpenConns:    20,
		MaxIdleConns:    20,
		ConnMaxLifetime: time.Hour,
	}, "test")
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := infra.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate postgres: %v", err)
	}
	return db
}
