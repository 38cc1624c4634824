package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tingmate/tingmate-backend/internal/services"
	"github.com/tingmate/tingmate-backend/internal/types"
	"github.com/tingmate/tingmate-backend/internal/utils"
	"gorm.io/gorm"
)

// SafeZoneHandler handles geofence routes
type SafeZoneHandler struct {
	DB *gorm.DB
}

// Get handles GET /safe-zones
// @Summary Get the safe zone
// @Description Get the resolved carereceiver's safe zone, if configured
// @Tags SafeZones
// @Produce json
// @Success 200 {object} models.SafeZone
// @Success 204 "No safe zone configured"
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /safe-zones [get]
func (h *SafeZoneHandler) Get(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	zone, err := services.GetSafeZone(h.DB, user)
	if err != nil {
		return err
	}
	if zone == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	return c.Status(fiber.StatusOK).JSON(zone)
}

// Upsert handles PUT /safe-zones
// @Summary Create or replace the safe zone
// @Tags SafeZones
// @Accept json
// @Produce json
// @Param body body services.SafeZoneInput true "Safe zone fields"
// @Success 200 {object} models.SafeZone
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /safe-zones [put]
func (h *SafeZoneHandler) Upsert(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.SafeZoneInput
	if err := c.BodyParser(&input); err != nil {
		return types.NewAPIError(fiber.StatusBadRequest, "Invalid request body", "safezone.body")
	}

	zone, err := services.UpsertSafeZone(h.DB, user, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(zone)
}

// Delete handles DELETE /safe-zones
// @Summary Delete the safe zone
// @Tags SafeZones
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /safe-zones [delete]
func (h *SafeZoneHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := services.DeleteSafeZone(h.DB, user); err != nil {
		return err
	}

	return utils.MessageResponse(c, "Safe zone deleted")
}
