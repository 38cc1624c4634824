package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tingmate/tingmate-backend/internal/config"
	"github.com/tingmate/tingmate-backend/internal/handlers"
	"github.com/tingmate/tingmate-backend/internal/middleware"
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testErrorHandler mirrors the server's global error handler so handler
// errors map to status codes in tests.
func testErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var apiErr *types.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.Code
		message = apiErr.Message
		errorType = apiErr.Type
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":  code,
		"message": message,
		"ok":      false,
		"type":    errorType,
	})
}

// setupTestApp builds a Fiber app with the full route table over an
// in-memory SQLite database.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
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

	cfg := &config.Config{
		JWTSecret:              "test-secret",
		JWTExpiry:              time.Hour,
		InvitationTTL:          24 * time.Hour,
		LinkPolicy:             config.LinkPolicyStrict,
		AllowMultiCarereceiver: false,
	}

	app := fiber.New(fiber.Config{ErrorHandler: testErrorHandler})

	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	userHandler := &handlers.UserHandler{DB: db}
	invitationHandler := &handlers.InvitationHandler{DB: db, Cfg: cfg}
	linkHandler := &handlers.LinkHandler{DB: db}
	taskHandler := &handlers.TaskHandler{DB: db}

	api := app.Group("/api")
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/users/anonymous", userHandler.CreateAnonymous)

	auth := middleware.RequireUser(cfg.JWTSecret, db)
	api.Get("/user/me", auth, userHandler.Me)
	api.Post("/user/invitations", auth, invitationHandler.Create)
	api.Post("/user/invitations/accept", auth, invitationHandler.Accept)
	api.Get("/user/invitations/:code", auth, invitationHandler.Info)
	api.Get("/user/links", auth, linkHandler.List)
	api.Delete("/user/links/:userEmail", auth, linkHandler.Remove)
	api.Get("/tasks", auth, taskHandler.List)
	api.Post("/tasks", auth, taskHandler.Create)

	return app, db, cfg
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	var result map[string]interface{}
	if resp.StatusCode != fiber.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && err != io.EOF {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return resp.StatusCode, result
}

// registerUser registers a user over HTTP and returns their id and token.
func registerUser(t *testing.T, app *fiber.App, name, role string) (string, string) {
	t.Helper()

	id := uuid.NewString()
	status, result := doJSON(t, app, "POST", "/api/auth/register", "", map[string]interface{}{
		"user_id":  id,
		"email":    name + "@example.com",
		"password": "secret",
		"role":     role,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("Register returned %d: %v", status, result)
	}
	token, _ := result["access_token"].(string)
	if token == "" {
		t.Fatal("Expected access_token in register response")
	}
	return id, token
}

func TestRegisterLoginMe(t *testing.T) {
	app, _, _ := setupTestApp(t)

	id, token := registerUser(t, app, "rita", "CARERECEIVER")

	status, result := doJSON(t, app, "GET", "/api/user/me", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("Me returned %d: %v", status, result)
	}
	if result["id"] != id {
		t.Errorf("Expected id %s, got %v", id, result["id"])
	}
	if result["email"] != "rita@example.com" {
		t.Errorf("Unexpected email: %v", result["email"])
	}

	status, result = doJSON(t, app, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "rita@example.com",
		"password": "secret",
	})
	if status != fiber.StatusOK {
		t.Fatalf("Login returned %d: %v", status, result)
	}

	status, result = doJSON(t, app, "POST", "/api/auth/login", "", map[string]interface{}{
		"email":    "rita@example.com",
		"password": "wrong",
	})
	if status != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 for bad password, got %d: %v", status, result)
	}
}

func TestAuthRequired(t *testing.T) {
	app, _, _ := setupTestApp(t)

	status, result := doJSON(t, app, "GET", "/api/user/me", "", nil)
	if status != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", status)
	}
	if result["ok"] != false {
		t.Errorf("Expected ok=false in error envelope, got %v", result)
	}

	status, _ = doJSON(t, app, "GET", "/api/user/me", "not-a-token", nil)
	if status != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 with garbage token, got %d", status)
	}
}

func TestAnonymousCreate(t *testing.T) {
	app, _, _ := setupTestApp(t)

	id := uuid.NewString()
	status, result := doJSON(t, app, "POST", "/api/users/anonymous", "", map[string]interface{}{
		"user_id": id,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("Anonymous create returned %d: %v", status, result)
	}
	if result["role"] != "CARERECEIVER" {
		t.Errorf("Expected CARERECEIVER role, got %v", result["role"])
	}
	if result["email"] != nil {
		t.Errorf("Expected nil email, got %v", result["email"])
	}

	status, _ = doJSON(t, app, "POST", "/api/users/anonymous", "", map[string]interface{}{
		"user_id": "not-a-uuid",
	})
	if status != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for malformed uuid, got %d", status)
	}
}

func TestInvitationLinkFlow(t *testing.T) {
	app, _, _ := setupTestApp(t)

	_, caregiverToken := registerUser(t, app, "carol", "CAREGIVER")
	carereceiverID, carereceiverToken := registerUser(t, app, "rita", "CARERECEIVER")

	status, result := doJSON(t, app, "POST", "/api/user/invitations", caregiverToken, nil)
	if status != fiber.StatusCreated {
		t.Fatalf("Create invitation returned %d: %v", status, result)
	}
	code, _ := result["invitation_code"].(string)
	if code == "" {
		t.Fatalf("Expected invitation_code in response: %v", result)
	}
	if _, ok := result["expires_at"]; !ok {
		t.Errorf("Expected expires_at in response: %v", result)
	}
	if _, leaked := result["inviter_id"]; leaked {
		t.Errorf("Invitation response must not expose the inviter id: %v", result)
	}

	status, result = doJSON(t, app, "GET", "/api/user/invitations/"+code, carereceiverToken, nil)
	if status != fiber.StatusOK {
		t.Fatalf("Invitation info returned %d: %v", status, result)
	}
	if result["inviter_role"] != "CAREGIVER" {
		t.Errorf("Expected inviter_role CAREGIVER, got %v", result["inviter_role"])
	}

	status, result = doJSON(t, app, "POST", "/api/user/invitations/accept", carereceiverToken, map[string]interface{}{
		"code": code,
	})
	if status != fiber.StatusOK {
		t.Fatalf("Accept returned %d: %v", status, result)
	}

	// Both sides see the link.
	req := httptest.NewRequest("GET", "/api/user/links", nil)
	req.Header.Set("Authorization", "Bearer "+caregiverToken)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	var peers []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&peers); err != nil {
		t.Fatalf("Failed to decode links: %v", err)
	}
	if len(peers) != 1 || peers[0]["id"] != carereceiverID {
		t.Errorf("Caregiver links wrong: %v", peers)
	}

	// Stale code cannot be reused.
	status, _ = doJSON(t, app, "POST", "/api/user/invitations/accept", carereceiverToken, map[string]interface{}{
		"code": code,
	})
	if status != fiber.StatusBadRequest {
		t.Errorf("Expected 400 on reuse, got %d", status)
	}

	// Removal is keyed by the peer's email; an unknown address is a 404.
	status, _ = doJSON(t, app, "DELETE", "/api/user/links/nobody@example.com", caregiverToken, nil)
	if status != fiber.StatusNotFound {
		t.Errorf("Expected 404 for unknown peer email, got %d", status)
	}

	// Remove and verify auto-demotion surfaced through the API.
	status, result = doJSON(t, app, "DELETE", "/api/user/links/rita@example.com", caregiverToken, nil)
	if status != fiber.StatusOK {
		t.Fatalf("Remove link returned %d: %v", status, result)
	}
	status, result = doJSON(t, app, "GET", "/api/user/me", caregiverToken, nil)
	if status != fiber.StatusOK {
		t.Fatalf("Me returned %d: %v", status, result)
	}
	if result["role"] != "CARERECEIVER" {
		t.Errorf("Expected auto-demoted role, got %v", result["role"])
	}
}

func TestUnknownInvitationEnvelope(t *testing.T) {
	app, _, _ := setupTestApp(t)

	_, token := registerUser(t, app, "rita", "CARERECEIVER")

	status, result := doJSON(t, app, "POST", "/api/user/invitations/accept", token, map[string]interface{}{
		"code": "NOPE1234",
	})
	if status != fiber.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %v", status, result)
	}
	if result["ok"] != false {
		t.Errorf("Expected ok=false, got %v", result)
	}
	if result["type"] != "link.invitation.notfound" {
		t.Errorf("Expected typed error, got %v", result["type"])
	}
}

func TestCaregiverTaskRouting(t *testing.T) {
	app, db, _ := setupTestApp(t)

	_, caregiverToken := registerUser(t, app, "carol", "CAREGIVER")
	carereceiverID, carereceiverToken := registerUser(t, app, "rita", "CARERECEIVER")

	// No link yet: task creation is a validation error.
	status, _ := doJSON(t, app, "POST", "/api/tasks", caregiverToken, map[string]interface{}{
		"title": "take meds",
	})
	if status != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for unlinked caregiver, got %d", status)
	}

	status, result := doJSON(t, app, "POST", "/api/user/invitations", carereceiverToken, nil)
	if status != fiber.StatusCreated {
		t.Fatalf("Create invitation returned %d: %v", status, result)
	}
	code, _ := result["invitation_code"].(string)

	status, _ = doJSON(t, app, "POST", "/api/user/invitations/accept", caregiverToken, map[string]interface{}{
		"code": code,
	})
	if status != fiber.StatusOK {
		t.Fatalf("Accept returned %d", status)
	}

	status, created := doJSON(t, app, "POST", "/api/tasks", caregiverToken, map[string]interface{}{
		"title": "take meds",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("Expected 201 after linking, got %d", status)
	}
	if created["user_id"] != carereceiverID {
		t.Errorf("Expected snake_case user_id of the carereceiver, got %v", created)
	}

	var task models.Task
	if err := db.First(&task).Error; err != nil {
		t.Fatalf("Expected a task row: %v", err)
	}
	if task.UserID != carereceiverID {
		t.Errorf("Task must land under the carereceiver, got %s", task.UserID)
	}
}
