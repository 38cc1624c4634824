package services

import (
	"errors"

	"github.com/tingmate/tingmate-backend/internal/config"
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate adds a row lock to the query on engines that support it.
// SQLite has no FOR UPDATE; its writer lock covers the transaction anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// LinkExists reports whether an edge connects the two users, in either
// orientation.
func LinkExists(db *gorm.DB, userA, userB string) (bool, error) {
	var count int64
	err := db.Model(&models.UserLink{}).
		Where("(caregiver_id = ? AND carereceiver_id = ?) OR (caregiver_id = ? AND carereceiver_id = ?)",
			userA, userB, userB, userA).
		Count(&count).Error
	return count > 0, err
}

// createLink inserts the caregiver->carereceiver edge. Both roles are
// re-validated at call time rather than trusted from the caller, closing
// the window where a role changed between validation and insert. A
// duplicate edge reports false without error.
func createLink(db *gorm.DB, caregiverID, carereceiverID string) (bool, error) {
	caregiver, err := GetUserByID(db, caregiverID)
	if err != nil {
		return false, err
	}
	carereceiver, err := GetUserByID(db, carereceiverID)
	if err != nil {
		return false, err
	}
	if caregiver.Role != models.RoleCaregiver || carereceiver.Role != models.RoleCarereceiver {
		return false, types.ErrInvalidRolePair
	}

	link := models.UserLink{CaregiverID: caregiverID, CarereceiverID: carereceiverID}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// removeAllLinksForUser deletes every edge touching the user, both sides.
func removeAllLinksForUser(db *gorm.DB, userID string) error {
	return db.Where("caregiver_id = ? OR carereceiver_id = ?", userID, userID).
		Delete(&models.UserLink{}).Error
}

// LinksOf enumerates the link peers of a user. The role selects the
// traversal side: a caregiver enumerates linked carereceivers, a
// carereceiver enumerates linked caregivers.
func LinksOf(db *gorm.DB, userID string, role models.Role) ([]models.LinkedUser, error) {
	var peers []models.LinkedUser

	query := db.Table("user_links l").
		Select("u.id, u.email, s.name, u.role")

	switch role {
	case models.RoleCaregiver:
		query = query.
			Joins("JOIN users u ON l.carereceiver_id = u.id").
			Joins("JOIN user_settings s ON s.user_id = u.id").
			Where("l.caregiver_id = ?", userID)
	case models.RoleCarereceiver:
		query = query.
			Joins("JOIN users u ON l.caregiver_id = u.id").
			Joins("JOIN user_settings s ON s.user_id = u.id").
			Where("l.carereceiver_id = ?", userID)
	default:
		return nil, types.NewAPIError(400, "Invalid role", "user.role.invalid")
	}

	if err := query.Scan(&peers).Error; err != nil {
		return nil, err
	}
	return peers, nil
}

// GroupOf resolves the notification group of a user: the carereceiver
// anchor (self for a carereceiver, the single linked carereceiver for a
// caregiver) plus every caregiver linked to that anchor. includeSelf
// controls whether the calling user appears in the result.
func GroupOf(db *gorm.DB, userID string, includeSelf bool) ([]string, error) {
	user, err := GetUserByID(db, userID)
	if err != nil {
		return nil, err
	}

	anchor := userID
	if user.Role == models.RoleCaregiver {
		carereceivers, err := LinksOf(db, userID, models.RoleCaregiver)
		if err != nil {
			return nil, err
		}
		if len(carereceivers) == 0 {
			return nil, nil
		}
		anchor = carereceivers[0].ID
	}

	caregivers, err := LinksOf(db, anchor, models.RoleCarereceiver)
	if err != nil {
		return nil, err
	}

	members := make([]string, 0, len(caregivers)+1)
	if anchor != userID || includeSelf {
		members = append(members, anchor)
	}
	for _, caregiver := range caregivers {
		if caregiver.ID == userID && !includeSelf {
			continue
		}
		members = append(members, caregiver.ID)
	}
	return members, nil
}

// AcceptResult summarizes a successful invitation acceptance.
type AcceptResult struct {
	Message    string            `json:"message"`
	LinkedUser models.LinkedUser `json:"linked_user"`
}

// AcceptInvitation runs the linking state machine for an invitation code.
// The whole sequence executes in one transaction with the invitation row
// locked: lookup, lazy expiry check, single-acceptance check, the
// configured role policy, edge creation with role re-validation, and the
// accepted-status write strictly after the edge has landed. Activity and
// notification side effects run after commit and never fail the call.
func AcceptInvitation(db *gorm.DB, cfg *config.Config, code, inviteeID string) (*AcceptResult, error) {
	var inviter *models.User

	err := db.Transaction(func(tx *gorm.DB) error {
		var invitation models.Invitation
		if err := lockForUpdate(tx).Where("code = ?", code).First(&invitation).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrInvitationNotFound
			}
			return err
		}
		if invitation.ExpiredAt(timeNow()) {
			return types.ErrInvitationExpired
		}
		if invitation.Status != models.InvitationPending {
			return types.ErrInvitationUsed
		}

		var err error
		inviter, err = GetUserByID(tx, invitation.InviterID)
		if err != nil {
			return err
		}
		invitee, err := GetUserByID(tx, inviteeID)
		if err != nil {
			return err
		}
		if inviter.ID == invitee.ID {
			return types.ErrSelfLink
		}

		caregiverID, carereceiverID, err := applyLinkPolicy(tx, cfg, inviter, invitee)
		if err != nil {
			return err
		}

		if !cfg.AllowMultiCarereceiver {
			var count int64
			if err := tx.Model(&models.UserLink{}).
				Where("caregiver_id = ?", caregiverID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return types.ErrCaregiverOccupied
			}
		}

		created, err := createLink(tx, caregiverID, carereceiverID)
		if err != nil {
			return err
		}
		if !created {
			return types.ErrLinkAlreadyExists
		}

		return markInvitationAccepted(tx, code)
	})
	if err != nil {
		return nil, err
	}

	invitee, err := GetUserByID(db, inviteeID)
	if err != nil {
		return nil, err
	}

	safeBlock("invitee link addition logging", func() error {
		return logUserLinkChange(db, invitee.ID, inviter, models.ActionAddUserLink)
	})
	safeBlock("inviter link addition logging", func() error {
		return logUserLinkChange(db, inviter.ID, invitee, models.ActionAddUserLink)
	})
	safeBlock("inviter link addition notification", func() error {
		return NotifyLinkedAccount(db, inviter.ID, invitee.ID)
	})

	inviterSettings, err := GetUserSettings(db, inviter.ID)
	if err != nil {
		return nil, err
	}
	summary := models.LinkedUser{
		ID:   inviter.ID,
		Name: inviterSettings.Name,
		Role: inviter.Role,
	}
	if inviter.Email != nil {
		summary.Email = *inviter.Email
	}

	return &AcceptResult{Message: "Link created successfully", LinkedUser: summary}, nil
}

// applyLinkPolicy enforces the deployment's role-compatibility rule and
// returns the caregiver/carereceiver orientation of the new edge. Under the
// promotion policy this mutates the invitee's role before linking.
func applyLinkPolicy(tx *gorm.DB, cfg *config.Config, inviter, invitee *models.User) (caregiverID, carereceiverID string, err error) {
	switch cfg.LinkPolicy {
	case config.LinkPolicyPromote:
		// A carereceiver recruits a peer to watch over them: both sides
		// must be carereceivers, the invitee must not already be watched,
		// and acceptance promotes the invitee to caregiver.
		if inviter.Role != models.RoleCarereceiver || invitee.Role != models.RoleCarereceiver {
			return "", "", types.ErrNotCarereceivers
		}
		var watching int64
		if err := tx.Model(&models.UserLink{}).
			Where("carereceiver_id = ?", invitee.ID).
			Count(&watching).Error; err != nil {
			return "", "", err
		}
		if watching > 0 {
			return "", "", types.ErrAlreadyWatched
		}
		if err := updateUserRole(tx, invitee.ID, models.RoleCaregiver); err != nil {
			return "", "", err
		}
		invitee.Role = models.RoleCaregiver
		return invitee.ID, inviter.ID, nil

	default: // config.LinkPolicyStrict
		if inviter.Role == invitee.Role {
			return "", "", types.ErrInvalidRolePair
		}
		if inviter.Role == models.RoleCaregiver {
			return inviter.ID, invitee.ID, nil
		}
		return invitee.ID, inviter.ID, nil
	}
}

// RemoveUserLink removes the edge between two users and applies the
// cascading auto-demotion: a caregiver left without any carereceiver link
// reverts to carereceiver. Auto-demotion never deletes data attached to
// the former carereceiver.
func RemoveUserLink(db *gorm.DB, removerID, peerID string) error {
	exists, err := LinkExists(db, removerID, peerID)
	if err != nil {
		return err
	}
	if !exists {
		return types.ErrLinkNotFound
	}

	result := db.
		Where("(caregiver_id = ? AND carereceiver_id = ?) OR (caregiver_id = ? AND carereceiver_id = ?)",
			removerID, peerID, peerID, removerID).
		Delete(&models.UserLink{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.ErrLinkNotFound
	}

	remover, err := GetUserByID(db, removerID)
	if err != nil {
		return err
	}

	if peer, peerErr := GetUserByID(db, peerID); peerErr == nil {
		safeBlock("remover link removal logging", func() error {
			return logUserLinkChange(db, removerID, peer, models.ActionRemoveUserLink)
		})
		safeBlock("peer link removal logging", func() error {
			return logUserLinkChange(db, peerID, remover, models.ActionRemoveUserLink)
		})
	}

	if remover.Role == models.RoleCaregiver {
		remaining, err := LinksOf(db, removerID, models.RoleCaregiver)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			return demoteCaregiver(db, removerID)
		}
	}

	return nil
}

// demoteCaregiver is the cascading role transition triggered by losing the
// last link. It writes the role, clears the user's own task rows (a
// caregiver owns none, so this is defensive) and logs the transition; it
// deliberately leaves notes and tasks owned by the former carereceiver
// untouched.
func demoteCaregiver(db *gorm.DB, userID string) error {
	if err := updateUserRole(db, userID, models.RoleCarereceiver); err != nil {
		return err
	}

	safeBlock("auto-demotion task cleanup", func() error {
		return DeleteAllTasksForUser(db, userID)
	})
	safeBlock("auto-demotion logging", func() error {
		return LogRoleTransition(db, userID, models.RoleCaregiver, models.RoleCarereceiver)
	})

	return nil
}

// logUserLinkChange records a link add/remove in the acting user's feed.
func logUserLinkChange(db *gorm.DB, userID string, peer *models.User, action string) error {
	peerEmail := ""
	if peer.Email != nil {
		peerEmail = *peer.Email
	}
	peerName := peerEmail
	if settings, err := GetUserSettings(db, peer.ID); err == nil && settings.Name != "" {
		peerName = settings.Name
	}
	return LogUserLink(db, userID, action, peerEmail, peerName)
}
