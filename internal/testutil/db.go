// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/morocclubs/clubs-api/internal/database"
	"github.com/morocclubs/clubs-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to t. Foreign
// keys are enforced and driver errors are translated the same way Open does
// for PostgreSQL.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Faker returns a deterministic fake data generator.
func Faker() *gofakeit.Faker {
	return gofakeit.New(42)
}

// CreateUser inserts a user with fake profile data. passwordHash may be empty.
func CreateUser(t *testing.T, db *gorm.DB, f *gofakeit.Faker, passwordHash string) *models.User {
	t.Helper()
	u := &models.User{
		Email:        strings.ToLower(f.Email()),
		PasswordHash: passwordHash,
		FirstName:    f.FirstName(),
		LastName:     f.LastName(),
		Location:     f.City(),
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateClub inserts an active club.
func CreateClub(t *testing.T, db *gorm.DB, f *gofakeit.Faker) *models.Club {
	t.Helper()
	c := &models.Club{
		Name:        f.Company(),
		Description: f.Word() + " " + f.Word(),
		Location:    f.City(),
		IsActive:    true,
		Rating:      5,
	}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create club: %v", err)
	}
	return c
}
