package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/tingmate/tingmate-backend/internal/config"
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/services"
	"github.com/tingmate/tingmate-backend/internal/types"
	"gorm.io/gorm"
)

// AuthHandler handles registration and login routes
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a signed bearer token and the user it identifies.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

// Register handles POST /auth/register
// @Summary Register a user
// @Description Register a new user, or upgrade an existing anonymous user in place
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration payload"
// @Success 201 {object} TokenResponse
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return types.NewAPIError(fiber.StatusBadRequest, "Invalid request body", "auth.register.body")
	}
	if req.Email == "" || req.Password == "" {
		return types.NewAPIError(fiber.StatusBadRequest, "Email and password are required", "auth.register.body")
	}

	user, err := services.RegisterUser(h.DB, req.UserID, req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		return err
	}

	return h.tokenResponse(c, user, fiber.StatusCreated)
}

// Login handles POST /auth/login
// @Summary Log in
// @Description Exchange email/password credentials for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return types.NewAPIError(fiber.StatusBadRequest, "Invalid request body", "auth.login.body")
	}

	user, err := services.AuthenticateUser(h.DB, req.Email, req.Password)
	if err != nil {
		return err
	}

	return h.tokenResponse(c, user, fiber.StatusOK)
}

func (h *AuthHandler) tokenResponse(c *fiber.Ctx, user *models.User, status int) error {
	token, err := h.signToken(user.ID)
	if err != nil {
		return err
	}

	settings, err := services.GetUserSettings(h.DB, user.ID)
	if err != nil {
		return err
	}

	return c.Status(status).JSON(TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        userResponse(user, settings),
	})
}

func (h *AuthHandler) signToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(now.Add(h.Cfg.JWTExpiry)),
	})
	return token.SignedString([]byte(h.Cfg.JWTSecret))
}
