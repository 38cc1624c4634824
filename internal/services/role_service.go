package services

import (
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/types"
	"gorm.io/gorm"
)

// Transition performs an explicit self-service role change. It refuses to
// run while the user holds any link in either direction, writes the role
// inside one transaction with the check, and then purges the user's data.
// The purge steps are individually fault-isolated and irreversible;
// transitioning back never restores purged data.
func Transition(db *gorm.DB, userID string, targetRole models.Role) error {
	if !targetRole.Valid() {
		return types.NewAPIError(400, "Invalid role", "user.role.invalid")
	}

	user, err := GetUserByID(db, userID)
	if err != nil {
		return err
	}
	if user.Role == targetRole {
		return nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var locked models.User
		if err := lockForUpdate(tx).Where("id = ?", userID).First(&locked).Error; err != nil {
			return err
		}

		var linkCount int64
		if err := tx.Model(&models.UserLink{}).
			Where("caregiver_id = ? OR carereceiver_id = ?", userID, userID).
			Count(&linkCount).Error; err != nil {
			return err
		}
		if linkCount > 0 {
			return types.ErrHasActiveLinks
		}

		// The role write is the one step whose failure aborts everything.
		return updateUserRole(tx, userID, targetRole)
	})
	if err != nil {
		return err
	}

	safeBlock("transition task purge", func() error {
		return DeleteAllTasksForUser(db, userID)
	})
	safeBlock("transition owned note purge", func() error {
		return DeleteAllNotesForCarereceiver(db, userID)
	})
	safeBlock("transition authored note purge", func() error {
		return DeleteAllNotesCreatedBy(db, userID)
	})
	safeBlock("transition residual link cleanup", func() error {
		return removeAllLinksForUser(db, userID)
	})
	safeBlock("transition logging", func() error {
		return LogRoleTransition(db, userID, user.Role, targetRole)
	})

	return nil
}
