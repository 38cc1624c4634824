package models

import (
	"time"

	"gorm.io/datatypes"
)

// Task is a reminder task. UserID is always the owning carereceiver's id,
// never a caregiver's; CreatedBy/UpdatedBy record the acting user.
type Task struct {
	ID                  string         `gorm:"type:char(36);primaryKey" json:"id"`
	UserID              string         `gorm:"type:char(36);not null;index" json:"user_id"`
	Title               string         `gorm:"size:255;not null" json:"title"`
	Icon                string         `gorm:"size:16;not null;default:''" json:"icon"`
	ReminderHour        int            `gorm:"not null" json:"reminder_hour"`
	ReminderMinute      int            `gorm:"not null" json:"reminder_minute"`
	RecurrenceInterval  *int           `gorm:"" json:"recurrence_interval"`
	RecurrenceUnit      *string        `gorm:"size:20" json:"recurrence_unit"`
	RecurrenceDaysWeek  datatypes.JSON `gorm:"type:json" json:"recurrence_days_of_week"`
	RecurrenceDaysMonth datatypes.JSON `gorm:"type:json" json:"recurrence_days_of_month"`
	Completed           bool           `gorm:"not null;default:false" json:"completed"`
	CreatedBy           string         `gorm:"type:char(36);not null" json:"created_by"`
	UpdatedBy           string         `gorm:"type:char(36);not null" json:"updated_by"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// TableName overrides the table name for Task
func (Task) TableName() string {
	return "tasks"
}
