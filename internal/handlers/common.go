package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/types"
)

// currentUser returns the authenticated user placed in the request context
// by the auth middleware.
func currentUser(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals("user").(*models.User)
	if !ok || user == nil {
		return nil, &types.APIError{
			Code:    fiber.StatusUnauthorized,
			Message: "Not authenticated",
			Type:    "auth.context",
		}
	}
	return user, nil
}

// UserResponse is the public shape of a user profile.
type UserResponse struct {
	ID                  string      `json:"id"`
	Email               *string     `json:"email"`
	Role                models.Role `json:"role"`
	Name                string      `json:"name"`
	TextSize            string      `json:"text_size"`
	DisplayMode         string      `json:"display_mode"`
	EnableLocationShare bool        `json:"enable_location_share"`
}

func userResponse(user *models.User, settings *models.UserSettings) UserResponse {
	resp := UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}
	if settings != nil {
		resp.Name = settings.Name
		resp.TextSize = settings.TextSize
		resp.DisplayMode = settings.DisplayMode
		resp.EnableLocationShare = settings.EnableLocationShare
	}
	return resp
}
