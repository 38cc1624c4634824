package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// timeNow is swapped in tests to exercise expiry logic.
var timeNow = time.Now

// GetUserByID retrieves a user by id.
func GetUserByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func GetUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserSettings retrieves the settings row for a user.
func GetUserSettings(db *gorm.DB, userID string) (*models.UserSettings, error) {
	var settings models.UserSettings
	if err := db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrUserNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// UserSettingsInput carries the updatable settings fields. Nil pointers
// leave the stored value untouched.
type UserSettingsInput struct {
	Name                *string         `json:"name"`
	TextSize            *string         `json:"text_size"`
	DisplayMode         *string         `json:"display_mode"`
	Reminder            json.RawMessage `json:"reminder"`
	EnableLocationShare *bool           `json:"enable_location_share"`
}

// UpdateUserSettings applies a partial settings update.
func UpdateUserSettings(db *gorm.DB, userID string, input UserSettingsInput) (*models.UserSettings, error) {
	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.TextSize != nil {
		updates["text_size"] = *input.TextSize
	}
	if input.DisplayMode != nil {
		updates["display_mode"] = *input.DisplayMode
	}
	if input.Reminder != nil {
		updates["reminder"] = datatypes.JSON(input.Reminder)
	}
	if input.EnableLocationShare != nil {
		updates["enable_location_share"] = *input.EnableLocationShare
	}

	if len(updates) > 0 {
		result := db.Model(&models.UserSettings{}).Where("user_id = ?", userID).Updates(updates)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, types.ErrUserNotFound
		}
	}

	return GetUserSettings(db, userID)
}

// CreateAnonymousUser creates an anonymous carereceiver with a
// client-supplied UUID and its settings row in one transaction.
func CreateAnonymousUser(db *gorm.DB, userID string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, types.NewAPIError(400, "Invalid UUID format for user id", "user.id.invalid")
	}

	user := models.User{
		ID:   userID,
		Role: models.RoleCarereceiver,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		settings := models.UserSettings{UserID: userID}
		return tx.Create(&settings).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create anonymous user: %w", err)
	}

	return &user, nil
}

// RegisterUser creates a registered user, or upgrades an existing anonymous
// user in place (same id, email and password attached). The id must be a
// valid UUID supplied by the client.
func RegisterUser(db *gorm.DB, userID, email, password string, role models.Role) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, types.NewAPIError(400, "Invalid UUID format for user id", "user.id.invalid")
	}
	if !role.Valid() {
		return nil, types.NewAPIError(400, "Invalid role", "user.role.invalid")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashedStr := string(hashed)

	user := models.User{
		ID:             userID,
		Email:          &email,
		HashedPassword: &hashedStr,
		Role:           role,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if _, lookupErr := GetUserByEmail(tx, email); lookupErr == nil {
			return types.ErrEmailRegistered
		} else if !errors.Is(lookupErr, types.ErrUserNotFound) {
			return lookupErr
		}

		var existing models.User
		err := tx.Where("id = ?", userID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		case existing.Registered():
			return types.NewAPIError(400, "User id already registered", "user.id.duplicate")
		default:
			// Anonymous upgrade preserves the id and any existing links.
			updates := map[string]interface{}{
				"email":           email,
				"hashed_password": hashedStr,
				"role":            role,
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return err
			}
		}

		var settings models.UserSettings
		return tx.Where(models.UserSettings{UserID: userID}).
			FirstOrCreate(&settings).Error
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// AuthenticateUser verifies email/password credentials.
func AuthenticateUser(db *gorm.DB, email, password string) (*models.User, error) {
	user, err := GetUserByEmail(db, email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, types.ErrBadCredentials
		}
		return nil, err
	}
	if user.HashedPassword == nil {
		return nil, types.ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.HashedPassword), []byte(password)); err != nil {
		return nil, types.ErrBadCredentials
	}
	return user, nil
}

// updateUserRole writes a new role. Role validity is the caller's concern;
// both linking auto-demotion and the explicit transition route through here.
func updateUserRole(db *gorm.DB, userID string, role models.Role) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.ErrUserNotFound
	}
	return nil
}
