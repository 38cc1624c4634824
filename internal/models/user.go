package models

import (
	"time"

	"gorm.io/datatypes"
)

// Role is the care role of a user. Every user has exactly one role at all
// times; anonymous users start as carereceivers.
type Role string

const (
	RoleCarereceiver Role = "CARERECEIVER"
	RoleCaregiver    Role = "CAREGIVER"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCarereceiver, RoleCaregiver:
		return true
	}
	return false
}

// User represents an account. The id is supplied by the client as a UUID and
// stays stable across the anonymous-to-registered upgrade. A nil Email means
// the user is anonymous.
type User struct {
	ID             string    `gorm:"type:char(36);primaryKey" json:"id"`
	Email          *string   `gorm:"size:100;uniqueIndex" json:"email"`
	HashedPassword *string   `gorm:"size:255" json:"-"`
	Role           Role      `gorm:"size:20;not null" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Registered reports whether the user has completed registration.
func (u *User) Registered() bool {
	return u.Email != nil && *u.Email != ""
}

// UserSettings is the 1:1 settings row created together with its User.
type UserSettings struct {
	UserID              string         `gorm:"type:char(36);primaryKey" json:"user_id"`
	Name                string         `gorm:"size:100;not null;default:''" json:"name"`
	TextSize            string         `gorm:"size:20;not null;default:'STANDARD'" json:"text_size"`
	DisplayMode         string         `gorm:"size:20;not null;default:'FULL'" json:"display_mode"`
	Reminder            datatypes.JSON `gorm:"type:json" json:"reminder"`
	EnableLocationShare bool           `gorm:"not null;default:false" json:"enable_location_share"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for UserSettings
func (UserSettings) TableName() string {
	return "user_settings"
}
