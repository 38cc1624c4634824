package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/services"
	"github.com/tingmate/tingmate-backend/internal/types"
	"gorm.io/gorm"
)

// UserHandler handles user profile, settings and role routes
type UserHandler struct {
	DB *gorm.DB
}

// CreateAnonymousRequest is the payload for POST /users/anonymous.
type CreateAnonymousRequest struct {
	UserID string `json:"user_id"`
}

// CreateAnonymous handles POST /users/anonymous
// @Summary Create an anonymous user
// @Description Create an anonymous carereceiver with a client-supplied UUID
// @Tags User
// @Accept json
// @Produce json
// @Param body body CreateAnonymousRequest true "User id"
// @Success 201 {object} UserResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /users/anonymous [post]
func (h *UserHandler) CreateAnonymous(c *fiber.Ctx) error {
	var req CreateAnonymousRequest
	if err := c.BodyParser(&req); err != nil {
		return types.NewAPIError(fiber.StatusBadRequest, "Invalid request body", "user.anonymous.body")
	}

	user, err := services.CreateAnonymousUser(h.DB, req.UserID)
	if err != nil {
		return err
	}

	settings, err := services.GetUserSettings(h.DB, user.ID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(userResponse(user, settings))
}

// Me handles GET /user/me
// @Summary Get current user
// @Description Get the authenticated user's profile and settings
// @Tags User
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /user/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	settings, err := services.GetUserSettings(h.DB, user.ID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(userResponse(user, settings))
}

// ByEmail handles GET /user?email=...
// @Summary Look up a user by email
// @Tags User
// @Produce json
// @Param email query string true "Email address"
// @Success 200 {object} UserResponse
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user [get]
func (h *UserHandler) ByEmail(c *fiber.Ctx) error {
	email := c.Query("email")
	if email == "" {
		return types.NewAPIError(fiber.StatusBadRequest, "Query parameter email is required", "user.lookup.email")
	}

	user, err := services.GetUserByEmail(h.DB, email)
	if err != nil {
		return err
	}

	settings, err := services.GetUserSettings(h.DB, user.ID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(userResponse(user, settings))
}

// UpdateSettings handles PATCH /user/settings
// @Summary Update user settings
// @Description Apply a partial update to the authenticated user's settings
// @Tags User
// @Accept json
// @Produce json
// @Param body body services.UserSettingsInput true "Settings fields"
// @Success 200 {object} UserResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /user/settings [patch]
func (h *UserHandler) UpdateSettings(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.UserSettingsInput
	if err := c.BodyParser(&input); err != nil {
		return types.NewAPIError(fiber.StatusBadRequest, "Invalid request body", "user.settings.body")
	}

	settings, err := services.UpdateUserSettings(h.DB, user.ID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(userResponse(user, settings))
}

// TransitionRoleRequest is the payload for POST /user/role/transition.
type TransitionRoleRequest struct {
	Role string `json:"role"`
}

// TransitionRole handles POST /user/role/transition
// @Summary Transition the user's role
// @Description Switch between caregiver and carereceiver. Refused while any link exists; purges the user's own data.
// @Tags User
// @Accept json
// @Produce json
// @Param body body TransitionRoleRequest true "Target role"
// @Success 200 {object} UserResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /user/role/transition [post]
func (h *UserHandler) TransitionRole(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req TransitionRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return types.NewAPIError(fiber.StatusBadRequest, "Invalid request body", "user.role.body")
	}

	if err := services.Transition(h.DB, user.ID, models.Role(req.Role)); err != nil {
		return err
	}

	updated, err := services.GetUserByID(h.DB, user.ID)
	if err != nil {
		return err
	}
	settings, err := services.GetUserSettings(h.DB, user.ID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(userResponse(updated, settings))
}
