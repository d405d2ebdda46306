// Package testutils provides database fixtures for tests.
package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/amirasaad/bank/infra"
	"github.com/amirasaad/bank/pkg/config"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewTestDB returns a migrated, private in-memory sqlite database that is
// closed when the test ends. The pool holds a single connection, so units of
// work run one at a time.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := uuid.NewString()
	db, err := infra.NewDBConnection(&config.DB{
		Url:             fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", name),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}, "test")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := infra.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
