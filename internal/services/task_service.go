package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tingmate/tingmate-backend/internal/models"
	"github.com/tingmate/tingmate-backend/internal/types"
	"gorm.io/gorm"
)

// TaskInput is the client payload for creating or updating a task. Pointer
// fields are optional on update.
type TaskInput struct {
	Title        *string `json:"title"`
	Icon         *string `json:"icon"`
	ReminderHour *int    `json:"reminder_hour"`
	ReminderMin  *int    `json:"reminder_minute"`
	Recurrence   *struct {
		Interval    int    `json:"interval"`
		Unit        string `json:"unit"`
		DaysOfWeek  []int  `json:"days_of_week"`
		DaysOfMonth []int  `json:"days_of_month"`
	} `json:"recurrence"`
	Completed *bool `json:"completed"`
}

// CreateTask creates a task under the resolved owner on behalf of the
// acting user.
func CreateTask(db *gorm.DB, actor *models.User, input TaskInput) (*models.Task, error) {
	ownerID, err := ResolveDataOwnerForWrite(db, actor)
	if err != nil {
		return nil, err
	}
	if input.Title == nil || *input.Title == "" {
		return nil, types.NewAPIError(400, "Task title is required", "task.validation")
	}

	task := models.Task{
		ID:        uuid.NewString(),
		UserID:    ownerID,
		Title:     *input.Title,
		CreatedBy: actor.ID,
		UpdatedBy: actor.ID,
	}
	if input.Icon != nil {
		task.Icon = *input.Icon
	}
	if input.ReminderHour != nil {
		task.ReminderHour = *input.ReminderHour
	}
	if input.ReminderMin != nil {
		task.ReminderMinute = *input.ReminderMin
	}
	if err := applyRecurrence(&task, input); err != nil {
		return nil, err
	}

	if err := db.Create(&task).Error; err != nil {
		return nil, err
	}

	safeBlock("task creation logging", func() error {
		return LogActivity(db, actor.ID, ownerID, models.ActionCreateTask, map[string]interface{}{
			"task_title":  task.Title,
			"description": fmt.Sprintf("Created task: %s", task.Title),
		})
	})

	return &task, nil
}

// ListTasks returns the tasks of the resolved owner.
func ListTasks(db *gorm.DB, actor *models.User) ([]models.Task, error) {
	ownerID, err := ResolveDataOwner(db, actor.ID, actor.Role)
	if err != nil {
		return nil, err
	}
	if ownerID == "" {
		// A caregiver without a link has nothing to list.
		return []models.Task{}, nil
	}

	var tasks []models.Task
	err = db.Where("user_id = ?", ownerID).Order("created_at ASC").Find(&tasks).Error
	return tasks, err
}

// UpdateTask applies a partial update to an owner's task.
func UpdateTask(db *gorm.DB, actor *models.User, taskID string, input TaskInput) (*models.Task, error) {
	ownerID, err := ResolveDataOwnerForWrite(db, actor)
	if err != nil {
		return nil, err
	}

	var task models.Task
	if err := db.Where("id = ? AND user_id = ?", taskID, ownerID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAPIError(404, "Task not found", "task.notfound")
		}
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Icon != nil {
		task.Icon = *input.Icon
	}
	if input.ReminderHour != nil {
		task.ReminderHour = *input.ReminderHour
	}
	if input.ReminderMin != nil {
		task.ReminderMinute = *input.ReminderMin
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	if err := applyRecurrence(&task, input); err != nil {
		return nil, err
	}
	task.UpdatedBy = actor.ID

	if err := db.Save(&task).Error; err != nil {
		return nil, err
	}

	safeBlock("task update logging", func() error {
		return LogActivity(db, actor.ID, ownerID, models.ActionUpdateTask, map[string]interface{}{
			"task_title":  task.Title,
			"description": fmt.Sprintf("Updated task: %s", task.Title),
		})
	})

	return &task, nil
}

// DeleteTask removes one of the owner's tasks.
func DeleteTask(db *gorm.DB, actor *models.User, taskID string) error {
	ownerID, err := ResolveDataOwnerForWrite(db, actor)
	if err != nil {
		return err
	}

	result := db.Where("id = ? AND user_id = ?", taskID, ownerID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.NewAPIError(404, "Task not found", "task.notfound")
	}

	safeBlock("task deletion logging", func() error {
		return LogActivity(db, actor.ID, ownerID, models.ActionDeleteTask, map[string]interface{}{
			"task_id":     taskID,
			"description": "Deleted task",
		})
	})

	return nil
}

// DeleteAllTasksForUser purges every task owned by a user. Used by the role
// transition protocols only.
func DeleteAllTasksForUser(db *gorm.DB, userID string) error {
	return db.Where("user_id = ?", userID).Delete(&models.Task{}).Error
}

func applyRecurrence(task *models.Task, input TaskInput) error {
	if input.Recurrence == nil {
		return nil
	}
	task.RecurrenceInterval = &input.Recurrence.Interval
	unit := input.Recurrence.Unit
	task.RecurrenceUnit = &unit

	if input.Recurrence.DaysOfWeek != nil {
		days, err := json.Marshal(input.Recurrence.DaysOfWeek)
		if err != nil {
			return err
		}
		task.RecurrenceDaysWeek = days
	}
	if input.Recurrence.DaysOfMonth != nil {
		days, err := json.Marshal(input.Recurrence.DaysOfMonth)
		if err != nil {
			return err
		}
		task.RecurrenceDaysMonth = days
	}
	return nil
}
