package services

import (
	"errors"
	"time"

	"github.com/fivealab/planner/internal/models"
	"gorm.io/gorm"
)

// SetAchievement writes a single task's completion percentage. The value
// must be in [0,100] and the task must belong to userID. Dependent
// aggregates are always computed on demand, so nothing else is touched.
func SetAchievement(db *gorm.DB, userID, taskID uint64, value int) error {
	if value < 0 || value > 100 {
		return ErrOutOfRange
	}

	result := db.Model(&models.DailyTask{}).
		Where("id = ? AND user_id = ?", taskID, userID).
		Update("achievement", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TaskUpdate carries an optional content/subject edit for one task.
type TaskUpdate struct {
	Subject *string
	Content *string
}

// CreateTask inserts an ad hoc task for one date, with no goal reference.
func CreateTask(db *gorm.DB, userID uint64, date time.Time, subject, content string) (*models.DailyTask, error) {
	task := models.DailyTask{
		UserID:  userID,
		Date:    dateOnly(date),
		Subject: subject,
		Content: content,
	}
	if err := db.Create(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// TasksForDate lists a user's tasks on one date.
func TasksForDate(db *gorm.DB, userID uint64, date time.Time) ([]models.DailyTask, error) {
	var tasks []models.DailyTask
	d := dateOnly(date)
	err := db.Where("user_id = ? AND date = ?", userID, d).
		Order("id").
		Find(&tasks).Error
	return tasks, err
}

// UpdateTask edits a task's subject and/or content, owner checked.
func UpdateTask(db *gorm.DB, userID, taskID uint64, upd TaskUpdate) (*models.DailyTask, error) {
	var task models.DailyTask
	err := db.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	changes := map[string]interface{}{}
	if upd.Subject != nil {
		changes["subject"] = *upd.Subject
	}
	if upd.Content != nil {
		changes["content"] = *upd.Content
	}
	if len(changes) == 0 {
		return &task, nil
	}

	if err := db.Model(&task).Updates(changes).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes one task, owner checked.
func DeleteTask(db *gorm.DB, userID, taskID uint64) error {
	result := db.Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&models.DailyTask{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
