package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/types"
	"gorm.io/gorm"
)

// CreateNotification appends one inbox entry for a user.
func CreateNotification(db *gorm.DB, userID, category, message, level string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	notification := models.Notification{
		ID:       uuid.NewString(),
		UserID:   userID,
		Category: category,
		Message:  message,
		Payload:  body,
		Level:    level,
	}
	return db.Create(&notification).Error
}

// NotifyLinkedAccount tells a user that someone linked with them.
func NotifyLinkedAccount(db *gorm.DB, userID, linkedUserID string) error {
	name := ""
	if settings, err := GetUserSettings(db, linkedUserID); err == nil {
		name = settings.Name
	}
	if name == "" {
		if peer, err := GetUserByID(db, linkedUserID); err == nil && peer.Email != nil {
			name = *peer.Email
		}
	}

	return CreateNotification(db, userID,
		models.NotificationCategoryUserSetting,
		fmt.Sprintf("%s linked with you on Ting Mate.", name),
		models.NotificationLevelGeneral,
		map[string]interface{}{
			"linked_user_id": linkedUserID,
			"action":         "LINKED_ACCOUNT",
		})
}

// ListNotifications returns a user's newest notifications.
func ListNotifications(db *gorm.DB, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var notifications []models.Notification
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// MarkNotificationRead flags one of the user's notifications as read.
func MarkNotificationRead(db *gorm.DB, userID, notificationID string) error {
	result := db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.NewAPIError(404, "Notification not found", "notification.notfound")
	}
	return nil
}

// notifyGroup fans a notification out to every member of the acting user's
// group except the actor.
func notifyGroup(db *gorm.DB, actorID, category, message, level string, payload map[string]interface{}) error {
	members, err := GroupOf(db, actorID, false)
	if err != nil {
		return err
	}
	var firstErr error
	for _, member := range members {
		if err := CreateNotification(db, member, category, message, level, payload); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil && !errors.Is(firstErr, gorm.ErrRecordNotFound) {
		return firstErr
	}
	return nil
}
