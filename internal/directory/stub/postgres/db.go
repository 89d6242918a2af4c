package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/frahmantamala/hr-portal/internal"
	departmentDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/employee"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the stub store, retrying with exponential backoff until
// cfg.ConnectTimeout has elapsed.
func Open(ctx context.Context, cfg internal.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Source)
	case "sqlite", "":
		dialector = sqlite.Open(cfg.Source)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = cfg.ConnectTimeout

	var db *gorm.DB
	err := backoff.RetryNotify(func() error {
		var err error
		db, err = gorm.Open(dialector, &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}, backoff.WithContext(bo, ctx), func(err error, wait time.Duration) {
		logger.Warn("stub database not ready, retrying", "driver", cfg.Driver, "wait", wait, "error", err)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to stub database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	logger.Info("stub database connected", "driver", cfg.Driver)
	return db, nil
}

// AutoMigrate creates the stub tables from the data models. Postgres deployments use the
// SQL files under db/migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&employeeDatamodel.Employee{},
		&employeeDatamodel.Hierarchy{},
		&departmentDatamodel.Department{},
	)
}
