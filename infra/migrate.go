package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirasaad/bank/infra/repository/model"
	"github.com/amirasaad/bank/internal/migrations"
	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date. Postgres databases run the embedded
// SQL migrations; sqlite databases are migrated from the gorm models.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if db.Dialector.Name() != DriverPostgres {
		if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	// Migrate on a dedicated connection so closing the migrator leaves the pool open.
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return err
	}
	driver, err := migratepostgres.WithConnection(ctx, conn, &migratepostgres.Config{})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("migration driver: %w", err)
	}
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, DriverPostgres, driver)
	if err != nil {
		_ = driver.Close()
		return err
	}
	defer m.Close() //nolint:errcheck

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
