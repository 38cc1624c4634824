package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tingmate/tingmate-backend/internal/services"
	"github.com/tingmate/tingmate-backend/internal/types"
	"github.com/tingmate/tingmate-backend/internal/utils"
	"gorm.io/gorm"
)

// NoteHandler handles shared note routes
type NoteHandler struct {
	DB *gorm.DB
}

// List handles GET /shared-notes
// @Summary List shared notes
// @Description List the notes of the resolved carereceiver's group
// @Tags Notes
// @Produce json
// @Success 200 {array} models.SharedNote
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /shared-notes [get]
func (h *NoteHandler) List(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	notes, err := services.ListNotes(h.DB, user)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(notes)
}

// Create handles POST /shared-notes
// @Summary Create a shared note
// @Tags Notes
// @Accept json
// @Produce json
// @Param body body services.NoteInput true "Note fields"
// @Success 201 {object} models.SharedNote
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /shared-notes [post]
func (h *NoteHandler) Create(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.NoteInput
	if err := c.BodyParser(&input); err != nil {
		return types.NewAPIError(fiber.StatusBadRequest, "Invalid request body", "note.body")
	}

	note, err := services.CreateNote(h.DB, user, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(note)
}

// Update handles PATCH /shared-notes/:id
// @Summary Update a shared note
// @Tags Notes
// @Accept json
// @Produce json
// @Param id path string true "Note id"
// @Param body body services.NoteInput true "Note fields"
// @Success 200 {object} models.SharedNote
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shared-notes/{id} [patch]
func (h *NoteHandler) Update(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var input services.NoteInput
	if err := c.BodyParser(&input); err != nil {
		return types.NewAPIError(fiber.StatusBadRequest, "Invalid request body", "note.body")
	}

	note, err := services.UpdateNote(h.DB, user, c.Params("id"), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(note)
}

// Delete handles DELETE /shared-notes/:id
// @Summary Delete a shared note
// @Tags Notes
// @Produce json
// @Param id path string true "Note id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /shared-notes/{id} [delete]
func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := services.DeleteNote(h.DB, user, c.Params("id")); err != nil {
		return err
	}

	return utils.MessageResponse(c, "Note deleted")
}
