package services

import (
	"encoding/json"
	"errors"

	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/types"
	"gorm.io/gorm"
)

// SafeZoneLocation is the geocoded center of a safe zone.
type SafeZoneLocation struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SafeZoneInput is the client payload for creating or replacing a safe zone.
type SafeZoneInput struct {
	Location SafeZoneLocation `json:"location"`
	Radius   int              `json:"radius"`
}

// UpsertSafeZone creates or replaces the single safe zone of the resolved
// carereceiver.
func UpsertSafeZone(db *gorm.DB, actor *models.User, input SafeZoneInput) (*models.SafeZone, error) {
	ownerID, err := ResolveDataOwnerForWrite(db, actor)
	if err != nil {
		return nil, err
	}
	if input.Radius <= 0 {
		return nil, types.NewAPIError(400, "Radius must be positive", "safezone.validation")
	}

	location, err := json.Marshal(input.Location)
	if err != nil {
		return nil, err
	}

	var zone models.SafeZone
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ?", ownerID).First(&zone).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			zone = models.SafeZone{
				UserID:    ownerID,
				Location:  location,
				Radius:    input.Radius,
				CreatedBy: actor.ID,
				UpdatedBy: actor.ID,
			}
			return tx.Create(&zone).Error
		case err != nil:
			return err
		default:
			zone.Location = location
			zone.Radius = input.Radius
			zone.UpdatedBy = actor.ID
			return tx.Save(&zone).Error
		}
	})
	if err != nil {
		return nil, err
	}

	safeBlock("safezone notify", func() error {
		return notifyGroup(db, actor.ID,
			models.NotificationCategorySafeZone,
			"The safe zone was updated.",
			models.NotificationLevelGeneral,
			map[string]interface{}{
				"safe_zone_id": zone.ID,
				"radius":       zone.Radius,
			})
	})

	return &zone, nil
}

// GetSafeZone returns the resolved carereceiver's safe zone, or nil when
// none is configured.
func GetSafeZone(db *gorm.DB, actor *models.User) (*models.SafeZone, error) {
	ownerID, err := ResolveDataOwner(db, actor.ID, actor.Role)
	if err != nil {
		return nil, err
	}
	if ownerID == "" {
		return nil, nil
	}

	var zone models.SafeZone
	if err := db.Where("user_id = ?", ownerID).First(&zone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &zone, nil
}

// DeleteSafeZone removes the resolved carereceiver's safe zone.
func DeleteSafeZone(db *gorm.DB, actor *models.User) error {
	ownerID, err := ResolveDataOwnerForWrite(db, actor)
	if err != nil {
		return err
	}

	result := db.Where("user_id = ?", ownerID).Delete(&models.SafeZone{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.NewAPIError(404, "Safe zone not found", "safezone.notfound")
	}
	return nil
}
