package models

import (
	"time"

	"gorm.io/datatypes"
)

// Activity log actions for the linking and role subsystem. Shared actions
// carry a target user id so they surface in the whole group's feed.
const (
	ActionAddUserLink        = "ADD_USER_LINK"
	ActionRemoveUserLink     = "REMOVE_USER_LINK"
	ActionTransitionUserRole = "TRANSITION_USER_ROLE"
	ActionCreateTask         = "CREATE_TASK"
	ActionUpdateTask         = "UPDATE_TASK"
	ActionDeleteTask         = "DELETE_TASK"
	ActionCreateSharedNote   = "CREATE_SHARED_NOTE"
	ActionUpdateSharedNote   = "UPDATE_SHARED_NOTE"
	ActionDeleteSharedNote   = "DELETE_SHARED_NOTE"
)

// ActivityLog is an append-only record of a user-visible action.
type ActivityLog struct {
	ID           string         `gorm:"type:char(36);primaryKey" json:"id"`
	UserID       string         `gorm:"type:char(36);not null;index" json:"user_id"`
	TargetUserID *string        `gorm:"type:char(36);index" json:"target_user_id"`
	Action       string         `gorm:"size:40;not null" json:"action"`
	Detail       datatypes.JSON `gorm:"type:json" json:"detail"`
	Timestamp    time.Time      `gorm:"not null;index" json:"timestamp"`
}

// TableName overrides the table name for ActivityLog
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// Notification categories and levels.
const (
	NotificationCategoryUserSetting = "USER_SETTING"
	NotificationCategoryTask        = "TASK"
	NotificationCategorySafeZone    = "SAFE_ZONE"

	NotificationLevelGeneral = "GENERAL"
	NotificationLevelUrgent  = "URGENT"
)

// Notification is a per-user inbox entry.
type Notification struct {
	ID        string         `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string         `gorm:"type:char(36);not null;index" json:"user_id"`
	Category  string         `gorm:"size:30;not null" json:"category"`
	Message   string         `gorm:"size:500;not null" json:"message"`
	Payload   datatypes.JSON `gorm:"type:json" json:"payload"`
	Level     string         `gorm:"size:20;not null;default:'GENERAL'" json:"level"`
	IsRead    bool           `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

// TableName overrides the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
