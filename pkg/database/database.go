package database

import (
	"auction-backoffice/internal/model"
	"auction-backoffice/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize opens the PostgreSQL connection, configures the pool and runs the
// schema migration. The returned handle is passed to the stores; there is no
// package-level instance.
func Initialize(cfg *config.DBConfig) (*gorm.DB, error) {
	// Set default log level if not specified
	logLevel := cfg.LogLevel
	if logLevel == 0 {
		logLevel = logger.Warn
	}

	// Connect with PreferSimpleProtocol to prevent "prepared statement already
	// exists" errors behind connection poolers
	pgConfig := postgres.Config{
		DSN:                  cfg.GetDSN(),
		PreferSimpleProtocol: true,
	}

	db, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// AutoMigrate will automatically create or update the table structure
	// based on our models
	err = db.AutoMigrate(
		&model.User{},
		&model.Organisation{},
		&model.Membership{},
		&model.RefreshToken{},
		&model.Client{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
