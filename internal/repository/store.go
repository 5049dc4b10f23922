package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/strategy-ledger/internal/config"
	"github.com/strategy-ledger/internal/models"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrStoreUnavailable = errors.New("ledger store unavailable")
	ErrUnknownDriver    = errors.New("unknown database driver")
)

// Store owns the ledger connection pool. Every read goes through Do so that a
// dropped connection is detected, re-established and the read retried once.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an already opened gorm handle
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// OpenStore opens the configured database and sizes its pool
func OpenStore(cfg config.DatabaseConfig, verbose bool) (*Store, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if verbose {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
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
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}
	// Recycle idle connections before the server's idle timeout drops them.
	if cfg.ConnMaxIdleTimeMinutes > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute)
	}

	store := NewStore(db)
	if cfg.AutoMigrate {
		if err := store.AutoMigrate(); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres", "":
		return postgres.Open(cfg.DSN()), nil
	case "mysql":
		return gormmysql.Open(cfg.DSN()), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}

// AutoMigrate creates the ledger tables if they are missing. It never writes rows.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.Strategy{},
		&models.Trade{},
		&models.TradeLeg{},
		&models.Fill{},
	)
}

// DB exposes the underlying handle
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Do runs a read against the pool. Connection-class failures trigger one
// reconnect attempt and a single re-run; anything else is returned as is.
func (s *Store) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := fn(s.db.WithContext(ctx))
	if err == nil || !IsConnectionError(err) {
		return err
	}

	log.Printf("[Store] connection lost (%v), reconnecting", err)
	if pingErr := s.Ping(ctx); pingErr != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, pingErr)
	}

	err = fn(s.db.WithContext(ctx))
	if err != nil && IsConnectionError(err) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

// Ping checks out a connection. database/sql discards connections the driver
// reports as bad, so a successful ping means the pool has a live connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsConnectionError reports whether err means the connection itself is gone
// rather than the query being wrong.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	// The caller gave up; the connection may be fine.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrStoreUnavailable) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, mysql.ErrInvalidConn) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// Some drivers only report the failure in the message.
	msg := strings.ToLower(err.Error())
	for _, pattern := range connectionErrorMessages {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

var connectionErrorMessages = []string{
	"broken pipe",
	"connection reset",
	"connection refused",
	"server has gone away",
	"bad connection",
	"database is closed",
}
