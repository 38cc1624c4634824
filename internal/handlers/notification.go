package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tingmate/tingmate-backend/internal/services"
	"github.com/tingmate/tingmate-backend/internal/utils"
	"gorm.io/gorm"
)

// NotificationHandler handles notification inbox routes
type NotificationHandler struct {
	DB *gorm.DB
}

// List handles GET /notifications
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Param limit query int false "Maximum entries to return (default 50, max 100)"
// @Success 200 {array} models.Notification
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	notifications, err := services.ListNotifications(h.DB, user.ID, c.QueryInt("limit"))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(notifications)
}

// MarkRead handles POST /notifications/:id/read
// @Summary Mark a notification as read
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := services.MarkNotificationRead(h.DB, user.ID, c.Params("id")); err != nil {
		return err
	}

	return utils.MessageResponse(c, "Notification marked read")
}
