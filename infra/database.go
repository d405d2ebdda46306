package infra

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amirasaad/bank/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite" // Sqlite driver based on CGO
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

// DriverName reports which database driver serves databaseUrl.
// postgres:// and postgresql:// select postgres; sqlite:// and file: select sqlite.
func DriverName(databaseUrl string) (string, error) {
	switch {
	case strings.HasPrefix(databaseUrl, "postgres://"),
		strings.HasPrefix(databaseUrl, "postgresql://"):
		return DriverPostgres, nil
	case strings.HasPrefix(databaseUrl, "sqlite://"),
		strings.HasPrefix(databaseUrl, "file:"):
		return DriverSqlite, nil
	}
	return "", fmt.Errorf("unsupported DATABASE_URL scheme: %q", databaseUrl)
}

func dialector(databaseUrl string) (gorm.Dialector, error) {
	driver, err := DriverName(databaseUrl)
	if err != nil {
		return nil, err
	}
	if driver == DriverPostgres {
		return postgres.Open(databaseUrl), nil
	}
	return sqlite.Open(sqliteDSN(databaseUrl)), nil
}

// sqliteDefaults makes writers take the database lock when the transaction
// begins and wait for it, so concurrent units of work queue instead of
// failing with "database is locked".
var sqliteDefaults = []struct{ key, value string }{
	{"_txlock", "immediate"},
	{"_busy_timeout", "5000"},
}

// sqliteDSN strips the sqlite:// scheme and adds sqliteDefaults that the
// URL does not set itself.
func sqliteDSN(databaseUrl string) string {
	dsn := strings.TrimPrefix(databaseUrl, "sqlite://")
	_, query, _ := strings.Cut(dsn, "?")
	for _, p := range sqliteDefaults {
		if strings.Contains("&"+query, "&"+p.key+"=") {
			continue
		}
		sep := "&"
		if !strings.Contains(dsn, "?") {
			sep = "?"
		}
		dsn += sep + p.key + "=" + p.value
	}
	return dsn
}

// NewDBConnection opens the database described by cnf. gorm logs SQL only
// when appEnv is development.
func NewDBConnection(
	cnf *config.DB,
	appEnv string,
) (*gorm.DB, error) {
	if cnf == nil || cnf.Url == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	dialect, err := dialector(cnf.Url)
	if err != nil {
		return nil, err
	}

	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Info
	} else {
		logMode = logger.Silent
	}

	connection, err := gorm.Open(dialect, &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := connection.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cnf.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cnf.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cnf.ConnMaxLifetime)

	return connection, nil
}
