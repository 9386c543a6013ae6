package services

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/wallpix/backend/internal/database"
	"github.com/wallpix/backend/internal/models"
	"github.com/wallpix/backend/internal/plans"
	"github.com/wallpix/backend/pkg/logger"
)

var loggerOnce sync.Once

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	loggerOnce.Do(logger.Init)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, plan string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		Plan:         plan,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed seeding user: %v", err)
	}
	return user
}

func seedBasicUser(t *testing.T, db *gorm.DB, email string) *models.User {
	return seedUser(t, db, email, plans.PlanBasic)
}
