package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tingmate/tingmate-backend/internal/services"
	"gorm.io/gorm"
)

// ActivityHandler handles activity feed routes
type ActivityHandler struct {
	DB *gorm.DB
}

// List handles GET /activity-logs
// @Summary List activity logs
// @Description List the user's own actions plus shared actions of their group
// @Tags Activity
// @Produce json
// @Param limit query int false "Maximum entries to return (default 50, max 100)"
// @Success 200 {array} models.ActivityLog
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /activity-logs [get]
func (h *ActivityHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	logs, err := services.ListActivityLogs(h.DB, user.ID, c.QueryInt("limit"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(logs)
}
