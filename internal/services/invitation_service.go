package services

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tingmate/tingmate-backend/internal/config"
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/types"
	"gorm.io/gorm"
)

const invitationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const invitationCodeLength = 8

// generateInvitationCode produces a unique 8-character code. Uniqueness is
// enforced by the unique index on the column; the pre-check just avoids
// burning an insert on the (rare) collision.
func generateInvitationCode(db *gorm.DB) (string, error) {
	for {
		buf := make([]byte, invitationCodeLength)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for i := range buf {
			buf[i] = invitationCodeAlphabet[int(buf[i])%len(invitationCodeAlphabet)]
		}
		code := string(buf)

		var count int64
		if err := db.Model(&models.Invitation{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
}

// CreateInvitation issues a new pending invitation for the inviter. There is
// no precondition on the inviter's current role or links; the checks all
// happen at acceptance time.
func CreateInvitation(db *gorm.DB, cfg *config.Config, inviterID string) (*models.Invitation, error) {
	if _, err := GetUserByID(db, inviterID); err != nil {
		return nil, err
	}

	code, err := generateInvitationCode(db)
	if err != nil {
		return nil, err
	}

	invitation := models.Invitation{
		ID:        uuid.NewString(),
		InviterID: inviterID,
		Code:      code,
		Status:    models.InvitationPending,
		ExpiresAt: timeNow().Add(cfg.InvitationTTL),
	}
	if err := db.Create(&invitation).Error; err != nil {
		return nil, err
	}

	return &invitation, nil
}

// GetInvitationByCode retrieves an invitation row without expiry
// interpretation. Callers that care about usability must check ExpiredAt
// and Status themselves (or use GetInvitationInfo / AcceptInvitation).
func GetInvitationByCode(db *gorm.DB, code string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := db.Where("code = ?", code).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrInvitationNotFound
		}
		return nil, err
	}
	return &invitation, nil
}

// InvitationInfo is the display projection of a usable invitation.
type InvitationInfo struct {
	InviterName string      `json:"inviter_name"`
	InviterRole models.Role `json:"inviter_role"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// GetInvitationInfo returns inviter name/role and expiry for a code. A
// stored-PENDING invitation past its expiry is rejected here without
// waiting for the housekeeping sweep.
func GetInvitationInfo(db *gorm.DB, code string) (*InvitationInfo, error) {
	invitation, err := GetInvitationByCode(db, code)
	if err != nil {
		return nil, err
	}
	if invitation.ExpiredAt(timeNow()) {
		return nil, types.ErrInvitationExpired
	}
	if invitation.Status != models.InvitationPending {
		return nil, types.ErrInvitationUsed
	}

	inviter, err := GetUserByID(db, invitation.InviterID)
	if err != nil {
		return nil, err
	}
	settings, err := GetUserSettings(db, invitation.InviterID)
	if err != nil {
		return nil, err
	}

	return &InvitationInfo{
		InviterName: settings.Name,
		InviterRole: inviter.Role,
		ExpiresAt:   invitation.ExpiresAt,
	}, nil
}

// markInvitationAccepted performs the unconditional status write. Callers
// must have verified PENDING status and expiry first; the linking protocol
// calls this strictly after the link edge has landed.
func markInvitationAccepted(db *gorm.DB, code string) error {
	return db.Model(&models.Invitation{}).
		Where("code = ?", code).
		Update("status", models.InvitationAccepted).Error
}

// CancelInvitation deletes a pending invitation. Only the inviter may
// cancel.
func CancelInvitation(db *gorm.DB, code, requesterID string) error {
	invitation, err := GetInvitationByCode(db, code)
	if err != nil {
		return err
	}
	if invitation.InviterID != requesterID {
		return types.ErrNotInviter
	}
	return db.Where("code = ?", code).Delete(&models.Invitation{}).Error
}

// SweepExpiredInvitations marks stale PENDING rows EXPIRED. Housekeeping
// only: every read path re-checks expires_at, so correctness never depends
// on this running.
func SweepExpiredInvitations(db *gorm.DB) (int64, error) {
	result := db.Model(&models.Invitation{}).
		Where("status = ? AND expires_at < ?", models.InvitationPending, timeNow()).
		Update("status", models.InvitationExpired)
	return result.RowsAffected, result.Error
}
