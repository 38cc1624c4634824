package services

import (
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/types"
	"gorm.io/gorm"
)

// ResolveDataOwner derives the carereceiver whose data the acting user may
// touch: a carereceiver owns their own data, a caregiver reaches exactly
// the one carereceiver they are linked to. An empty result is not an error
// by itself; callers translate it per endpoint.
func ResolveDataOwner(db *gorm.DB, userID string, role models.Role) (string, error) {
	switch role {
	case models.RoleCarereceiver:
		return userID, nil
	case models.RoleCaregiver:
		carereceivers, err := LinksOf(db, userID, models.RoleCaregiver)
		if err != nil {
			return "", err
		}
		if len(carereceivers) == 0 {
			return "", nil
		}
		return carereceivers[0].ID, nil
	default:
		return "", nil
	}
}

// ResolveDataOwnerForWrite is ResolveDataOwner with the write-path
// translation applied: a caregiver without a link gets a 400.
func ResolveDataOwnerForWrite(db *gorm.DB, user *models.User) (string, error) {
	owner, err := ResolveDataOwner(db, user.ID, user.Role)
	if err != nil {
		return "", err
	}
	if owner == "" {
		return "", types.ErrNoLinkedCarereceiver
	}
	return owner, nil
}

// ResolveDataOwnerForRead applies the read-path translation: a caregiver
// without a link sees "not found" rather than a validation error.
func ResolveDataOwnerForRead(db *gorm.DB, user *models.User) (string, error) {
	owner, err := ResolveDataOwner(db, user.ID, user.Role)
	if err != nil {
		return "", err
	}
	if owner == "" {
		return "", types.ErrUserNotFound
	}
	return owner, nil
}
