package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/services"
	"github.com/tingmate/tingmate-backend/internal/types"
	"github.com/tingmate/tingmate-backend/internal/utils"
	"gorm.io/gorm"
)

// LinkHandler handles link graph routes
type LinkHandler struct {
	DB *gorm.DB
}

// List handles GET /user/links
// @Summary List linked users
// @Description Enumerate the authenticated user's link peers
// @Tags Links
// @Produce json
// @Success 200 {array} models.LinkedUser
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /user/links [get]
func (h *LinkHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	peers, err := services.LinksOf(h.DB, user.ID, user.Role)
	if err != nil {
		return err
	}
	if peers == nil {
		peers = []models.LinkedUser{}
	}

	return c.Status(fiber.StatusOK).JSON(peers)
}

// Remove handles DELETE /user/links/:userEmail
// @Summary Remove a link
// @Description Remove the edge to the user holding this email; a caregiver losing their last link reverts to carereceiver
// @Tags Links
// @Produce json
// @Param userEmail path string true "Peer email address"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user/links/{userEmail} [delete]
func (h *LinkHandler) Remove(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	email := c.Params("userEmail")
	if email == "" {
		return types.NewAPIError(fiber.StatusBadRequest, "Peer email is required", "link.remove.peer")
	}

	peer, err := services.GetUserByEmail(h.DB, email)
	if err != nil {
		return err
	}

	if err := services.RemoveUserLink(h.DB, user.ID, peer.ID); err != nil {
		return err
	}

	return utils.MessageResponse(c, "Link removed")
}
