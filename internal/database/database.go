package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/mrlokans/library-agent/internal/config"
	"github.com/mrlokans/library-agent/internal/entities"
	"github.com/mrlokans/library-agent/internal/logger"
)

// Database owns the single long-lived store connection. DB is used for schema
// and seeding; SQL is the same connection for read-only raw queries.
type Database struct {
	DB  *gorm.DB
	SQL *sql.DB
}

// NewDatabase opens the store, migrates the schema and, when configured,
// seeds the bundled sample data into an empty database.
func NewDatabase(cfg config.Database) (*Database, error) {
	sqlDB, err := sql.Open(string(cfg.Driver), dsn(cfg.Driver, cfg.Path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", cfg.Driver)
	}

	// One query in flight at a time; a single connection also keeps
	// per-connection pragmas in effect.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, errors.Wrapf(err, "failed to connect to database at %s", cfg.Path)
	}

	db, err := gorm.Open(&sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		sqlDB.Close()
		return nil, errors.Wrap(err, "failed to initialize gorm")
	}

	database := &Database{DB: db, SQL: sqlDB}

	if err := database.Migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	if cfg.SeedOnEmpty {
		empty, err := database.IsEmpty()
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		if empty {
			fixture, err := DefaultFixture()
			if err != nil {
				sqlDB.Close()
				return nil, err
			}
			if _, err := database.Seed(fixture); err != nil {
				sqlDB.Close()
				return nil, err
			}
		}
	}

	logger.Named("database").Infow("Database initialized",
		logger.FieldPath, cfg.Path,
		logger.FieldDriver, string(cfg.Driver))

	return database, nil
}

func (d *Database) Close() error {
	return d.SQL.Close()
}

// Migrate creates the books, students and borrowings tables if missing.
func (d *Database) Migrate() error {
	if err := d.DB.AutoMigrate(
		&entities.Book{},
		&entities.Student{},
		&entities.Borrowing{},
	); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}
	return nil
}

// IsEmpty reports whether the books table has no rows.
func (d *Database) IsEmpty() (bool, error) {
	var count int64
	if err := d.DB.Model(&entities.Book{}).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "failed to count books")
	}
	return count == 0, nil
}

// Reset drops every table, recreates the schema and loads fixture.
func (d *Database) Reset(fixture *Fixture) (*SeedResult, error) {
	if err := d.DB.Migrator().DropTable(
		&entities.Borrowing{},
		&entities.Student{},
		&entities.Book{},
	); err != nil {
		return nil, errors.Wrap(err, "failed to drop tables")
	}
	if err := d.Migrate(); err != nil {
		return nil, err
	}
	return d.Seed(fixture)
}

func dsn(driver config.Driver, path string) string {
	switch driver {
	case config.DriverModernc:
		return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	default:
		return fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", path)
	}
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Silent
	}
}
