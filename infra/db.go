package infra

import (
	"fmt"
	"strings"
	"time"

	"pixelnote/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupDB opens the configured database. SQLite is single-writer, so its
// pool is limited to one connection.
func SetupDB(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	}

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := gorm.Open(postgres.Open(cfg.DSN), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		log.Info("Setup postgres database")
		return db, nil

	case config.DriverSQLite:
		db, err := gorm.Open(sqlite.Open(sqliteDSN(cfg.DSN)), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %s: %w", cfg.DSN, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		log.Info("Setup sqlite database", zap.String("path", cfg.DSN))
		return db, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// sqliteDSN enables foreign keys and a busy timeout unless the caller
// already passed query options.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}
