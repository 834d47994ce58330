package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store wraps the gorm handle and hands out repositories. All repos
// obtained from the same Store (including one passed to a Transaction
// callback) share its connection.
type Store struct {
	db *gorm.DB
}

// Open connects to the database named by driver and dsn, applies
// driver-specific settings and runs auto-migration.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if driver == DriverSQLite {
		if err := applyPragmas(db); err != nil {
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// New wraps an existing gorm handle without migrating. Used by
// Transaction and by tests that manage their own connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Level{},
		&Lesson{},
		&ProgressRecord{},
		&SpeechActivity{},
		&SpeechErrorRecord{},
		&ContentBundle{},
		&Illustration{},
		&AICallLog{},
	)
}

// DB returns the underlying gorm handle for raw queries.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn inside a single database transaction. The Store
// passed to fn is scoped to that transaction; returning an error rolls
// everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Users returns the user repository.
func (s *Store) Users() UserRepo {
	return &userRepo{db: s.db}
}

// Curriculum returns the level/lesson repository.
func (s *Store) Curriculum() CurriculumRepo {
	return &curriculumRepo{db: s.db}
}

// Progress returns the progress-record repository.
func (s *Store) Progress() ProgressRepo {
	return &progressRepo{db: s.db}
}

// Speech returns the speech-activity repository.
func (s *Store) Speech() SpeechRepo {
	return &speechRepo{db: s.db}
}

// Bundles returns the content-bundle repository.
func (s *Store) Bundles() BundleRepo {
	return &bundleRepo{db: s.db}
}

// Audit returns the model-call audit repository.
func (s *Store) Audit() AuditRepo {
	return &auditRepo{db: s.db}
}

// applyPragmas configures SQLite for single-writer service use.
func applyPragmas(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if err := db.Exec(p).Error; err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// translate maps gorm errors onto the store sentinels, keeping the
// driver error wrapped.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}
