package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tingmate/tingmate-backend/internal/services"
	"github.com/tingmate/tingmate-backend/internal/types"
	"gorm.io/gorm"
)

// LocationHandler handles shared location routes
type LocationHandler struct {
	DB *gorm.DB
}

// Record handles POST /user-locations
// @Summary Record the user's location
// @Description Store a location sample; requires location sharing to be enabled
// @Tags Locations
// @Accept json
// @Produce json
// @Param body body services.LocationInput true "Location sample"
// @Success 201 {object} models.UserLocation
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /user-locations [post]
func (h *LocationHandler) Record(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.LocationInput
	if err := c.BodyParser(&input); err != nil {
		return types.NewAPIError(fiber.StatusBadRequest, "Invalid request body", "location.body")
	}

	location, err := services.RecordLocation(h.DB, user, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(location)
}

// Latest handles GET /user-locations/:userId
// @Summary Get a group member's latest location
// @Tags Locations
// @Produce json
// @Param userId path string true "Target user id"
// @Success 200 {object} models.UserLocation
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user-locations/{userId} [get]
func (h *LocationHandler) Latest(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	location, err := services.GetLatestLocation(h.DB, user, c.Params("userId"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(location)
}
