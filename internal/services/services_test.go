package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/tingmate/tingmate-backend/internal/config"
	"github.com/tingmate/tingmate-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.Invitation{},
		&models.UserLink{},
		&models.Task{},
		&models.SharedNote{},
		&models.SafeZone{},
		&models.UserLocation{},
		&models.ActivityLog{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// testConfig returns a config with the strict link policy and defaults used
// by most tests.
func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:              "test-secret",
		JWTExpiry:              time.Hour,
		InvitationTTL:          24 * time.Hour,
		LinkPolicy:             config.LinkPolicyStrict,
		AllowMultiCarereceiver: false,
	}
}

// newTestUser creates a registered user with settings and returns it.
func newTestUser(t *testing.T, db *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()

	id := uuid.NewString()
	email := name + "@example.com"
	hashed := "not-a-real-hash"
	user := models.User{
		ID:             id,
		Email:          &email,
		HashedPassword: &hashed,
		Role:           role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user %s: %v", name, err)
	}
	settings := models.UserSettings{UserID: id, Name: name}
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("Failed to create test settings for %s: %v", name, err)
	}
	return &user
}

// linkUsers inserts a caregiver->carereceiver edge directly.
func linkUsers(t *testing.T, db *gorm.DB, caregiverID, carereceiverID string) {
	t.Helper()
	link := models.UserLink{CaregiverID: caregiverID, CarereceiverID: carereceiverID}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("Failed to create test link: %v", err)
	}
}

// withNow pins the service clock for the duration of the test.
func withNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = prev })
}
