package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/petadoption/internal/entities"
)

type Database struct {
	DB  *gorm.DB
	log zerolog.Logger
}

// Options control how the store is opened and what is seeded on first run.
type Options struct {
	Logger zerolog.Logger
	Seed   SeedOptions
}

// NewDatabase opens the SQLite store at dbPath, creates any missing tables and
// seeds the default administrator and sample pets. It runs once per process
// start, before any repository is used.
func NewDatabase(dbPath string, opts Options) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger:         newGormLogger(opts.Logger),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	// SQLite allows a single writer. One pooled connection keeps every
	// statement and transaction strictly serialized.
	sqlDB.SetMaxOpenConns(1)

	database := &Database{DB: db, log: opts.Logger}

	if err := database.ensureSchema(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := database.seedDefaults(context.Background(), opts.Seed); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	database.log.Info().Str("path", dbPath).Msg("database initialized")

	return database, nil
}

func (d *Database) ensureSchema() error {
	return d.DB.AutoMigrate(
		&entities.User{},
		&entities.Pet{},
		&entities.Adoption{},
		&entities.AuditEvent{},
	)
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// dsn enables foreign key enforcement and a busy timeout on the connection.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// gormWriter routes gorm's own log lines (slow queries, errors) to zerolog.
type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Warn().Str("component", "gorm").Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func newGormLogger(log zerolog.Logger) logger.Interface {
	return logger.New(gormWriter{log: log}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
