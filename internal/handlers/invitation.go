package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tingmate/tingmate-backend/internal/config"
	"github.com/tingmate/tingmate-backend/internal/services"
	"github.com/tingmate/tingmate-backend/internal/types"
	"github.com/tingmate/tingmate-backend/internal/utils"
	"gorm.io/gorm"
)

// InvitationHandler handles invitation lifecycle routes
type InvitationHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// InvitationCreateResponse is the payload returned for a freshly minted invitation.
type InvitationCreateResponse struct {
	InvitationCode string    `json:"invitation_code"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// Create handles POST /user/invitations
// @Summary Create an invitation
// @Description Mint a single-use invitation code for the authenticated user
// @Tags Invitations
// @Produce json
// @Success 201 {object} InvitationCreateResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /user/invitations [post]
func (h *InvitationHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	invitation, err := services.CreateInvitation(h.DB, h.Cfg, user.ID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(InvitationCreateResponse{
		InvitationCode: invitation.Code,
		ExpiresAt:      invitation.ExpiresAt,
	})
}

// Info handles GET /user/invitations/:code
// @Summary Inspect an invitation
// @Description Preview the inviter behind a pending invitation code
// @Tags Invitations
// @Produce json
// @Param code path string true "Invitation code"
// @Success 200 {object} services.InvitationInfo
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user/invitations/{code} [get]
func (h *InvitationHandler) Info(c *fiber.Ctx) error {
	code := c.Params("code")

	info, err := services.GetInvitationInfo(h.DB, code)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(info)
}

// AcceptRequest is the payload for POST /user/invitations/accept.
type AcceptRequest struct {
	Code string `json:"code"`
}

// Accept handles POST /user/invitations/accept
// @Summary Accept an invitation
// @Description Run the linking protocol for an invitation code
// @Tags Invitations
// @Accept json
// @Produce json
// @Param body body AcceptRequest true "Invitation code"
// @Success 200 {object} services.AcceptResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user/invitations/accept [post]
func (h *InvitationHandler) Accept(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req AcceptRequest
	if err := c.BodyParser(&req); err != nil {
		return types.NewAPIError(fiber.StatusBadRequest, "Invalid request body", "invitation.accept.body")
	}
	if req.Code == "" {
		return types.NewAPIError(fiber.StatusBadRequest, "Invitation code is required", "invitation.accept.body")
	}

	result, err := services.AcceptInvitation(h.DB, h.Cfg, req.Code, user.ID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// Cancel handles DELETE /user/invitations/:code
// @Summary Cancel an invitation
// @Description Delete a pending invitation; only its inviter may cancel
// @Tags Invitations
// @Produce json
// @Param code path string true "Invitation code"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user/invitations/{code} [delete]
func (h *InvitationHandler) Cancel(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := services.CancelInvitation(h.DB, c.Params("code"), user.ID); err != nil {
		return err
	}

	return utils.MessageResponse(c, "Invitation cancelled")
}
