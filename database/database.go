package database

import (
	"fmt"
	"strings"
	"time"

	"kit-inventory/config"
	"kit-inventory/internal/domain/kits"
	"kit-inventory/internal/domain/steam"
	"kit-inventory/internal/domain/users"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Open connects to the database named by cfg. The returned handle is the shared
// connection pool handed to the store.
func Open(cfg config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "postgres":
		return OpenPostgres(cfg.DBURL)
	case "sqlite":
		return OpenSQLite(cfg.DBURL)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// OpenSQLite opens a file-backed database through the pure Go driver with foreign keys on.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&" + sqlitePragmas
	} else {
		dsn += "?" + sqlitePragmas
	}

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dsn,
	}, &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// one writer at a time, avoids SQLITE_BUSY under concurrent requests
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func gormLogger() logger.Interface {
	return logger.New(
		logrus.StandardLogger(),
		logger.Config{
			SlowThreshold:             300 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// Migrate creates or updates every table. Parents are listed before children so the
// foreign keys can be created.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},

		&kits.Kit{},
		&kits.Color{},
		&kits.SubAssembly{},
		&kits.KitPart{},
		&kits.Runner{},
		&kits.Requirement{},

		&steam.Game{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
