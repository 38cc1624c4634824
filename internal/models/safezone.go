package models

import (
	"time"

	"gorm.io/datatypes"
)

// SafeZone is a geofence around a carereceiver's known location. UserID is
// the carereceiver the zone belongs to.
type SafeZone struct {
	ID        uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string         `gorm:"type:char(36);not null;uniqueIndex" json:"user_id"`
	Location  datatypes.JSON `gorm:"type:json;not null" json:"location"`
	Radius    int            `gorm:"not null" json:"radius"`
	CreatedBy string         `gorm:"type:char(36);not null" json:"created_by"`
	UpdatedBy string         `gorm:"type:char(36);not null" json:"updated_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName overrides the table name for SafeZone
func (SafeZone) TableName() string {
	return "safe_zones"
}

// UserLocation is a single shared location sample for a user.
type UserLocation struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:char(36);not null;index" json:"user_id"`
	Latitude  float64   `gorm:"not null" json:"latitude"`
	Longitude float64   `gorm:"not null" json:"longitude"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}

// TableName overrides the table name for UserLocation
func (UserLocation) TableName() string {
	return "user_locations"
}
