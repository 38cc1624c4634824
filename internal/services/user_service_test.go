package services

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/types"
)

func TestCreateAnonymousUser(t *testing.T) {
	db := setupTestDB(t)

	id := uuid.NewString()
	user, err := CreateAnonymousUser(db, id)
	if err != nil {
		t.Fatalf("Failed to create anonymous user: %v", err)
	}
	if user.Role != models.RoleCarereceiver {
		t.Errorf("Anonymous users must start as carereceiver, got %s", user.Role)
	}
	if user.Registered() {
		t.Error("Anonymous user must not count as registered")
	}

	// Settings row is created in the same transaction.
	if _, err := GetUserSettings(db, id); err != nil {
		t.Errorf("Expected settings row, got %v", err)
	}
}

func TestCreateAnonymousUserRejectsBadUUID(t *testing.T) {
	db := setupTestDB(t)

	_, err := CreateAnonymousUser(db, "not-a-uuid")
	var apiErr *types.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != 400 {
		t.Errorf("Expected 400 APIError, got %v", err)
	}
}

func TestRegisterUpgradesAnonymousInPlace(t *testing.T) {
	db := setupTestDB(t)

	id := uuid.NewString()
	if _, err := CreateAnonymousUser(db, id); err != nil {
		t.Fatalf("Failed to create anonymous user: %v", err)
	}

	// The anonymous user already holds a link; the upgrade must keep it.
	caregiver := newTestUser(t, db, "carol", models.RoleCaregiver)
	linkUsers(t, db, caregiver.ID, id)

	if _, err := RegisterUser(db, id, "rita@example.com", "secret", models.RoleCarereceiver); err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}

	upgraded, err := GetUserByID(db, id)
	if err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if !upgraded.Registered() {
		t.Error("Expected user registered after upgrade")
	}
	if upgraded.ID != id {
		t.Errorf("Upgrade must preserve the id, got %s", upgraded.ID)
	}

	exists, err := LinkExists(db, caregiver.ID, id)
	if err != nil {
		t.Fatalf("LinkExists failed: %v", err)
	}
	if !exists {
		t.Error("Upgrade must preserve existing links")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)

	if _, err := RegisterUser(db, uuid.NewString(), "rita@example.com", "secret", models.RoleCarereceiver); err != nil {
		t.Fatalf("First registration failed: %v", err)
	}

	_, err := RegisterUser(db, uuid.NewString(), "rita@example.com", "other", models.RoleCaregiver)
	if !errors.Is(err, types.ErrEmailRegistered) {
		t.Errorf("Expected ErrEmailRegistered, got %v", err)
	}
}

func TestAuthenticateUser(t *testing.T) {
	db := setupTestDB(t)

	id := uuid.NewString()
	if _, err := RegisterUser(db, id, "rita@example.com", "secret", models.RoleCarereceiver); err != nil {
		t.Fatalf("Registration failed: %v", err)
	}

	user, err := AuthenticateUser(db, "rita@example.com", "secret")
	if err != nil {
		t.Fatalf("Authentication failed: %v", err)
	}
	if user.ID != id {
		t.Errorf("Wrong user authenticated: %s", user.ID)
	}

	if _, err := AuthenticateUser(db, "rita@example.com", "wrong"); !errors.Is(err, types.ErrBadCredentials) {
		t.Errorf("Expected ErrBadCredentials for wrong password, got %v", err)
	}
	if _, err := AuthenticateUser(db, "nobody@example.com", "secret"); !errors.Is(err, types.ErrBadCredentials) {
		t.Errorf("Expected ErrBadCredentials for unknown email, got %v", err)
	}
}

func TestUpdateUserSettingsPartial(t *testing.T) {
	db := setupTestDB(t)
	user := newTestUser(t, db, "rita", models.RoleCarereceiver)

	name := "Rita M"
	share := true
	settings, err := UpdateUserSettings(db, user.ID, UserSettingsInput{
		Name:                &name,
		EnableLocationShare: &share,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if settings.Name != "Rita M" || !settings.EnableLocationShare {
		t.Errorf("Unexpected settings after update: %+v", settings)
	}

	// Untouched fields keep their values.
	textSize := "LARGE"
	settings, err = UpdateUserSettings(db, user.ID, UserSettingsInput{TextSize: &textSize})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if settings.Name != "Rita M" {
		t.Errorf("Partial update must not clear name, got %q", settings.Name)
	}
}

func TestUpdateUserSettingsReminderFromJSON(t *testing.T) {
	db := setupTestDB(t)
	user := newTestUser(t, db, "rita", models.RoleCarereceiver)

	// The reminder object arrives as part of the settings request body.
	var input UserSettingsInput
	body := []byte(`{"name":"rita","reminder":{"task_reminder":true,"overdue_reminder":false}}`)
	if err := json.Unmarshal(body, &input); err != nil {
		t.Fatalf("Failed to unmarshal input: %v", err)
	}
	if input.Reminder == nil {
		t.Fatal("Expected reminder payload to survive decoding")
	}

	settings, err := UpdateUserSettings(db, user.ID, input)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	var stored map[string]bool
	if err := json.Unmarshal(settings.Reminder, &stored); err != nil {
		t.Fatalf("Failed to decode stored reminder: %v", err)
	}
	if !stored["task_reminder"] || stored["overdue_reminder"] {
		t.Errorf("Unexpected stored reminder: %v", stored)
	}
}
