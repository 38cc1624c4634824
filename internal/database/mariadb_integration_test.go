package database_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/tingmate/tingmate-backend/data"
	"github.com/tingmate/tingmate-backend/internal/config"
	"github.com/tingmate/tingmate-backend/internal/database"
	"github.com/tingmate/tingmate-backend/internal/models"
)

// TestMariaDBRoundTrip provisions a throwaway MariaDB container, applies the
// shipped DDL and verifies the GORM layer against the real engine. Gated by
// TEST_MARIADB=1 because it needs a Docker daemon.
func TestMariaDBRoundTrip(t *testing.T) {
	if os.Getenv("TEST_MARIADB") != "1" {
		t.Skip("Set TEST_MARIADB=1 to run the MariaDB integration test")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mariadb:11",
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MARIADB_ROOT_PASSWORD": "root",
				"MARIADB_DATABASE":      "tingmate",
			},
			WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "3306/tcp")
	if err != nil {
		t.Fatalf("Failed to get mapped port: %v", err)
	}

	rootDB, err := sql.Open("mysql", fmt.Sprintf("root:root@tcp(%s:%s)/tingmate?multiStatements=true", host, port.Port()))
	if err != nil {
		t.Fatalf("Failed to open root connection: %v", err)
	}
	defer rootDB.Close()

	// The listening port comes up before the server accepts logins.
	for i := 0; i < 30; i++ {
		if err = rootDB.Ping(); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		t.Fatalf("MariaDB not ready after 30 seconds: %v", err)
	}

	if err := executeSQL(rootDB, data.InitdbMariaDBTables); err != nil {
		t.Fatalf("Failed to apply table DDL: %v", err)
	}
	if err := executeSQL(rootDB, data.InitdbMariaDBPrivileges); err != nil {
		t.Fatalf("Failed to apply privilege DDL: %v", err)
	}

	cfg := &config.Config{
		DBType:            "mariadb",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "tingmate",
		DBUser:            "root",
		DBPassword:        "root",
		DBConnectionLimit: 4,
	}
	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect through GORM: %v", err)
	}
	defer database.Close(db)

	// Round trip through the shipped schema, no AutoMigrate.
	id := uuid.NewString()
	email := "rita@example.com"
	user := models.User{ID: id, Email: &email, Role: models.RoleCarereceiver}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}
	settings := models.UserSettings{UserID: id, Name: "rita"}
	if err := db.Create(&settings).Error; err != nil {
		t.Fatalf("Failed to insert settings: %v", err)
	}

	var loaded models.User
	if err := db.Where("email = ?", email).First(&loaded).Error; err != nil {
		t.Fatalf("Failed to load user back: %v", err)
	}
	if loaded.ID != id || loaded.Role != models.RoleCarereceiver {
		t.Errorf("Round trip mismatch: %+v", loaded)
	}

	// The composite primary key on user_links rejects duplicate edges.
	caregiverID := uuid.NewString()
	caregiver := models.User{ID: caregiverID, Role: models.RoleCaregiver}
	if err := db.Create(&caregiver).Error; err != nil {
		t.Fatalf("Failed to insert caregiver: %v", err)
	}
	link := models.UserLink{CaregiverID: caregiverID, CarereceiverID: id}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("Failed to insert link: %v", err)
	}
	duplicate := models.UserLink{CaregiverID: caregiverID, CarereceiverID: id}
	if err := db.Create(&duplicate).Error; err == nil {
		t.Error("Expected duplicate link insert to fail on the composite key")
	}
}

// executeSQL runs a multi-statement DDL script statement by statement.
func executeSQL(db *sql.DB, script string) error {
	var kept []string
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		kept = append(kept, line)
	}

	for _, statement := range strings.Split(strings.Join(kept, "\n"), ";") {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("%w: when executing > %s", err, statement)
		}
	}
	return nil
}
