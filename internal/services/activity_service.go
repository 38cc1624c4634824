package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/tingmate/tingmate-backend/internal/models"
	"gorm.io/gorm"
)

// LogActivity appends one activity entry. targetUserID is empty for
// personal actions and set for shared actions so the entry surfaces in the
// whole group's feed.
func LogActivity(db *gorm.DB, userID, targetUserID, action string, detail map[string]interface{}) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return err
	}

	entry := models.ActivityLog{
		ID:        uuid.NewString(),
		UserID:    userID,
		Action:    action,
		Detail:    payload,
		Timestamp: timeNow(),
	}
	if targetUserID != "" {
		entry.TargetUserID = &targetUserID
	}
	return db.Create(&entry).Error
}

// LogUserLink records a link addition or removal.
func LogUserLink(db *gorm.DB, userID, action, peerEmail, peerName string) error {
	verb := "Added"
	if action == models.ActionRemoveUserLink {
		verb = "Removed"
	}
	return LogActivity(db, userID, "", action, map[string]interface{}{
		"linked_user_email": peerEmail,
		"linked_user_name":  peerName,
		"description":       fmt.Sprintf("%s link with %s (%s)", verb, peerName, peerEmail),
	})
}

// LogRoleTransition records a role change, whether explicit or cascaded.
func LogRoleTransition(db *gorm.DB, userID string, oldRole, newRole models.Role) error {
	return LogActivity(db, userID, "", models.ActionTransitionUserRole, map[string]interface{}{
		"old_role":    string(oldRole),
		"new_role":    string(newRole),
		"description": fmt.Sprintf("Role changed from %s to %s", oldRole, newRole),
	})
}

// ListActivityLogs returns the newest entries visible to a user: their own
// personal actions plus shared actions of everyone in their group.
func ListActivityLogs(db *gorm.DB, userID string, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	group, err := GroupOf(db, userID, true)
	if err != nil {
		return nil, err
	}
	if len(group) == 0 {
		group = []string{userID}
	}

	var logs []models.ActivityLog
	err = db.
		Where("user_id = ? OR (target_user_id IS NOT NULL AND user_id IN ?)", userID, group).
		Order("timestamp DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
