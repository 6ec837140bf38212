package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/morocclubs/clubs-api/internal/config"
	"github.com/morocclubs/clubs-api/internal/models"
	"github.com/sethvargo/go-retry"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to PostgreSQL, retrying with exponential backoff while the
// server is unreachable. Driver errors are translated into gorm's portable
// errors (ErrDuplicatedKey, ErrForeignKeyViolated).
func Open(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	attempts := cfg.DBConnectAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(500*time.Millisecond))

	var db *gorm.DB
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		db, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Warn),
			TranslateError: true,
		})
		if err == nil {
			err = Ping(ctx, db)
		}
		if err != nil {
			slog.Warn("database not reachable", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	slog.Info("database connected")
	return db, nil
}

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Club{},
		&models.ClubMembership{},
		&models.ClubEvent{},
		&models.EventParticipant{},
		&models.ClubGallery{},
		&models.ClubReview{},
		&models.ClubApplication{},
		&models.LandingSection{},
		&models.NewsArticle{},
		&models.JoinUsConfiguration{},
		&models.SystemLog{},
	}
}

// Migrate creates or updates every table, index and foreign key.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
