package models

import "time"

// InvitationStatus is the stored lifecycle state of an invitation.
// PENDING rows past their expiry are treated as expired on every read path
// regardless of what is stored; the EXPIRED status is only written by the
// housekeeping sweep.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationExpired  InvitationStatus = "EXPIRED"
)

// Invitation is a time-boxed, single-use code used to establish exactly one
// link between an inviter and the accepting user.
type Invitation struct {
	ID        string           `gorm:"type:char(36);primaryKey" json:"id"`
	InviterID string           `gorm:"type:char(36);not null;index" json:"inviter_id"`
	Code      string           `gorm:"size:8;not null;uniqueIndex" json:"code"`
	Status    InvitationStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`
	ExpiresAt time.Time        `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time        `json:"created_at"`
}

// ExpiredAt reports whether the invitation is past its expiry at the given
// instant, independent of the stored status.
func (i *Invitation) ExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// TableName overrides the table name for Invitation
func (Invitation) TableName() string {
	return "user_invitations"
}
