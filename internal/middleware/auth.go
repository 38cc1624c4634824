package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/tingmate/tingmate-backend/internal/services"
	"github.com/tingmate/tingmate-backend/internal/types"
	"gorm.io/gorm"
)

// RequireUser validates the bearer token and loads the authenticated user
// into c.Locals("user"). The subject claim carries the user id; anonymous
// users hold tokens too, so registration state is never inferred from the
// token itself.
func RequireUser(jwtSecret string, db *gorm.DB) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:    []byte(jwtSecret),
		SigningMethod: "HS256",
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized("Malformed token context")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized("Malformed token claims")
			}
			subject, ok := claims["sub"].(string)
			if !ok || subject == "" {
				return unauthorized("Token subject missing")
			}

			user, err := services.GetUserByID(db, subject)
			if err != nil {
				return unauthorized("Unknown user")
			}

			c.Locals("user", user)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized("Invalid or missing token")
		},
	})
}

func unauthorized(message string) error {
	return &types.APIError{
		Code:    fiber.StatusUnauthorized,
		Message: message,
		Type:    "auth.token",
	}
}
