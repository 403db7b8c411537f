package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/storefront/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// pgUniqueViolation is the SQLSTATE raised for unique index conflicts
const pgUniqueViolation = "23505"

// Database is the shared postgres pool. Repositories take DB directly;
// the wrapper only owns the pool lifecycle.
type Database struct {
	DB  *gorm.DB
	sql *sql.DB
}

// NewDatabase opens and pings the pool described by cfg. A nil logger
// silences gorm.
func NewDatabase(cfg config.DatabaseConfig, logger gormlogger.Interface) (*Database, error) {
	if logger == nil {
		logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 logger,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db, err := wrap(gdb)
	if err != nil {
		return nil, err
	}
	db.sql.SetMaxOpenConns(cfg.MaxOpenConns)
	db.sql.SetMaxIdleConns(cfg.MaxIdleConns)
	db.sql.SetConnMaxLifetime(minutes(cfg.ConnMaxLifetime))
	db.sql.SetConnMaxIdleTime(minutes(cfg.ConnMaxIdleTime))

	if err := db.sql.Ping(); err != nil {
		_ = db.sql.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func wrap(gdb *gorm.DB) (*Database, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	return &Database{DB: gdb, sql: sqlDB}, nil
}

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }

// SQL exposes the pool for tools that speak database/sql, such as migrations
func (d *Database) SQL() *sql.DB { return d.sql }

// Ping is the readiness probe for postgres
func (d *Database) Ping(ctx context.Context) error { return d.sql.PingContext(ctx) }

// Close releases every pooled connection
func (d *Database) Close() error { return d.sql.Close() }

// isUniqueViolation reports whether err comes from a unique index conflict,
// whether or not gorm translated it.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
