package models

import "time"

// SharedNote is a note attached to a carereceiver, visible to everyone in
// that carereceiver's group.
type SharedNote struct {
	ID             string    `gorm:"type:char(36);primaryKey" json:"id"`
	CarereceiverID string    `gorm:"type:char(36);not null;index" json:"carereceiver_id"`
	Title          string    `gorm:"size:255;not null" json:"title"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedBy      string    `gorm:"type:char(36);not null;index" json:"created_by"`
	UpdatedBy      string    `gorm:"type:char(36);not null" json:"updated_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName overrides the table name for SharedNote
func (SharedNote) TableName() string {
	return "shared_notes"
}
