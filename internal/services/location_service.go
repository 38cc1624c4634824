package services

import (
	"errors"

	"github.com/google/uuid"
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/types"
	"gorm.io/gorm"
)

// LocationInput is one shared location sample.
type LocationInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RecordLocation stores the acting user's current location. Sharing must be
// enabled in the user's settings.
func RecordLocation(db *gorm.DB, actor *models.User, input LocationInput) (*models.UserLocation, error) {
	settings, err := GetUserSettings(db, actor.ID)
	if err != nil {
		return nil, err
	}
	if !settings.EnableLocationShare {
		return nil, types.NewAPIError(403, "Location sharing is disabled", "location.sharing.disabled")
	}

	location := models.UserLocation{
		ID:        uuid.NewString(),
		UserID:    actor.ID,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Timestamp: timeNow(),
	}
	if err := db.Create(&location).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// GetLatestLocation returns the newest location sample of a group member.
// The target must be in the actor's group and must have sharing enabled.
func GetLatestLocation(db *gorm.DB, actor *models.User, targetID string) (*models.UserLocation, error) {
	if actor.ID != targetID {
		group, err := GroupOf(db, actor.ID, false)
		if err != nil {
			return nil, err
		}
		member := false
		for _, id := range group {
			if id == targetID {
				member = true
				break
			}
		}
		if !member {
			return nil, types.ErrUserNotFound
		}
	}

	settings, err := GetUserSettings(db, targetID)
	if err != nil {
		return nil, err
	}
	if !settings.EnableLocationShare {
		return nil, types.NewAPIError(403, "Location sharing is disabled", "location.sharing.disabled")
	}

	var location models.UserLocation
	err = db.Where("user_id = ?", targetID).
		Order("timestamp DESC").
		First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAPIError(404, "No location recorded", "location.notfound")
		}
		return nil, err
	}
	return &location, nil
}
