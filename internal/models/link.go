package models

import "time"

// UserLink is the directed edge connecting one caregiver to one
// carereceiver. The composite primary key doubles as the unique constraint
// that makes a racing duplicate insert fail at the storage layer.
type UserLink struct {
	CaregiverID    string    `gorm:"type:char(36);primaryKey" json:"caregiver_id"`
	CarereceiverID string    `gorm:"type:char(36);primaryKey" json:"carereceiver_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName overrides the table name for UserLink
func (UserLink) TableName() string {
	return "user_links"
}

// LinkedUser is the projection of a link peer returned by link queries,
// joining the peer's settings for display.
type LinkedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}
