package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tingmate/tingmate-backend/internal/services"
	"github.com/tingmate/tingmate-backend/internal/types"
	"github.com/tingmate/tingmate-backend/internal/utils"
	"gorm.io/gorm"
)

// TaskHandler handles task routes
type TaskHandler struct {
	DB *gorm.DB
}

// List handles GET /tasks
// @Summary List tasks
// @Description List the tasks of the resolved carereceiver
// @Tags Tasks
// @Produce json
// @Success 200 {array} models.Task
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /tasks [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	tasks, err := services.ListTasks(h.DB, user)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(tasks)
}

// Create handles POST /tasks
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param body body services.TaskInput true "Task fields"
// @Success 201 {object} models.Task
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /tasks [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.TaskInput
	if err := c.BodyParser(&input); err != nil {
		return types.NewAPIError(fiber.StatusBadRequest, "Invalid request body", "task.body")
	}

	task, err := services.CreateTask(h.DB, user, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

// Update handles PATCH /tasks/:id
// @Summary Update a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Task id"
// @Param body body services.TaskInput true "Task fields"
// @Success 200 {object} models.Task
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.TaskInput
	if err := c.BodyParser(&input); err != nil {
		return types.NewAPIError(fiber.StatusBadRequest, "Invalid request body", "task.body")
	}

	task, err := services.UpdateTask(h.DB, user, c.Params("id"), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

// Delete handles DELETE /tasks/:id
// @Summary Delete a task
// @Tags Tasks
// @Produce json
// @Param id path string true "Task id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := services.DeleteTask(h.DB, user, c.Params("id")); err != nil {
		return err
	}

	return utils.MessageResponse(c, "Task deleted")
}
