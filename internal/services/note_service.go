package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/types"
	"gorm.io/gorm"
)

// NoteInput is the client payload for creating or updating a shared note.
type NoteInput struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// CreateNote creates a shared note attached to the resolved carereceiver.
func CreateNote(db *gorm.DB, actor *models.User, input NoteInput) (*models.SharedNote, error) {
	ownerID, err := ResolveDataOwnerForWrite(db, actor)
	if err != nil {
		return nil, err
	}
	if input.Title == nil || *input.Title == "" {
		return nil, types.NewAPIError(400, "Note title is required", "note.validation")
	}

	note := models.SharedNote{
		ID:             uuid.NewString(),
		CarereceiverID: ownerID,
		Title:          *input.Title,
		CreatedBy:      actor.ID,
		UpdatedBy:      actor.ID,
	}
	if input.Content != nil {
		note.Content = *input.Content
	}

	if err := db.Create(&note).Error; err != nil {
		return nil, err
	}

	safeBlock("note creation logging", func() error {
		return LogActivity(db, actor.ID, ownerID, models.ActionCreateSharedNote, map[string]interface{}{
			"note_title":  note.Title,
			"description": fmt.Sprintf("Created note: %s", note.Title),
		})
	})

	return &note, nil
}

// ListNotes returns the shared notes of the resolved carereceiver.
func ListNotes(db *gorm.DB, actor *models.User) ([]models.SharedNote, error) {
	ownerID, err := ResolveDataOwner(db, actor.ID, actor.Role)
	if err != nil {
		return nil, err
	}
	if ownerID == "" {
		return []models.SharedNote{}, nil
	}

	var notes []models.SharedNote
	err = db.Where("carereceiver_id = ?", ownerID).Order("created_at ASC").Find(&notes).Error
	return notes, err
}

// UpdateNote applies a partial update. Any group member may edit any of the
// group's notes; authorship is tracked, not enforced.
func UpdateNote(db *gorm.DB, actor *models.User, noteID string, input NoteInput) (*models.SharedNote, error) {
	ownerID, err := ResolveDataOwnerForWrite(db, actor)
	if err != nil {
		return nil, err
	}

	var note models.SharedNote
	if err := db.Where("id = ? AND carereceiver_id = ?", noteID, ownerID).First(&note).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAPIError(404, "Note not found", "note.notfound")
		}
		return nil, err
	}

	if input.Title != nil {
		note.Title = *input.Title
	}
	if input.Content != nil {
		note.Content = *input.Content
	}
	note.UpdatedBy = actor.ID

	if err := db.Save(&note).Error; err != nil {
		return nil, err
	}

	safeBlock("note update logging", func() error {
		return LogActivity(db, actor.ID, ownerID, models.ActionUpdateSharedNote, map[string]interface{}{
			"note_title":  note.Title,
			"description": fmt.Sprintf("Updated note: %s", note.Title),
		})
	})

	return &note, nil
}

// DeleteNote removes one of the group's notes.
func DeleteNote(db *gorm.DB, actor *models.User, noteID string) error {
	ownerID, err := ResolveDataOwnerForWrite(db, actor)
	if err != nil {
		return err
	}

	result := db.Where("id = ? AND carereceiver_id = ?", noteID, ownerID).Delete(&models.SharedNote{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.NewAPIError(404, "Note not found", "note.notfound")
	}

	safeBlock("note deletion logging", func() error {
		return LogActivity(db, actor.ID, ownerID, models.ActionDeleteSharedNote, map[string]interface{}{
			"note_id":     noteID,
			"description": "Deleted note",
		})
	})

	return nil
}

// DeleteAllNotesForCarereceiver purges every note owned by a carereceiver.
// Used by the role transition protocol only.
func DeleteAllNotesForCarereceiver(db *gorm.DB, carereceiverID string) error {
	return db.Where("carereceiver_id = ?", carereceiverID).Delete(&models.SharedNote{}).Error
}

// DeleteAllNotesCreatedBy purges every note authored by a user regardless
// of which carereceiver it is attached to. Used by the role transition
// protocol only.
func DeleteAllNotesCreatedBy(db *gorm.DB, userID string) error {
	return db.Where("created_by = ?", userID).Delete(&models.SharedNote{}).Error
}
