package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// ErrClosed is returned by Acquire once the pool has been released.
var ErrClosed = errors.New("database is closed")

const pingTimeout = 5 * time.Second

type Database struct {
	DB     *gorm.DB
	target Target

	closed   atomic.Bool
	sessions atomic.Int64
}

// NewDatabase opens the connection pool described by cfg and checks that
// the backend answers. The schema is not touched until Initialize.
func NewDatabase(cfg config.Database) (*Database, error) {
	target, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	clock := &monotonicClock{}
	db, err := gorm.Open(target.Dialector(), &gorm.Config{
		Logger:  newLogger(cfg.LogLevel),
		NowFunc: clock.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}

	if target.InMemory {
		// Every connection to ":memory:" is a separate database.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	database := &Database{DB: db, target: target}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to reach database %s: %w", target, err)
	}

	return database, nil
}

// Initialize creates the books table if it does not exist yet.
func (d *Database) Initialize(ctx context.Context) error {
	if err := d.DB.WithContext(ctx).AutoMigrate(&entities.Book{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Printf("Database initialized successfully at %s", d.target)
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases every pooled connection. Calls after the first are no-ops.
func (d *Database) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) Dialect() Dialect {
	return d.target.Dialect
}

// Target returns the parsed connection target.
func (d *Database) Target() Target {
	return d.target
}

// Acquire opens a unit of work bound to ctx. The caller owns the session
// and must Release it.
func (d *Database) Acquire(ctx context.Context) (*Session, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	d.sessions.Add(1)
	return &Session{
		db:     d.DB.WithContext(ctx),
		ctx:    ctx,
		onDone: func() { d.sessions.Add(-1) },
	}, nil
}

// OpenSessions reports how many acquired sessions have not been released.
func (d *Database) OpenSessions() int64 {
	return d.sessions.Load()
}

func newLogger(level string) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  parseLogLevel(level),
			IgnoreRecordNotFoundError: true,
		},
	)
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// monotonicClock hands out strictly increasing UTC timestamps with
// microsecond precision, which both sqlite and postgres store losslessly.
type monotonicClock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *monotonicClock) Now() time.Time {
	now := time.Now().UTC().Truncate(time.Microsecond)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !now.After(c.last) {
		now = c.last.Add(time.Microsecond)
	}
	c.last = now
	return now
}
