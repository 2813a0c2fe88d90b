package services

import (
	"errors"

	"github.com/fivealab/planner/internal/models"
	"gorm.io/gorm"
)

// SendMessage stores a message after checking the recipient exists.
func SendMessage(db *gorm.DB, fromID, toID uint64, body string) (*models.Message, error) {
	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", toID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	msg := models.Message{FromID: fromID, ToID: toID, Body: body}
	if err := db.Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// Conversation returns both directions of traffic between two users in
// chronological order.
func Conversation(db *gorm.DB, userID, otherID uint64) ([]models.Message, error) {
	var other models.User
	if err := db.Select("id").First(&other, otherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var msgs []models.Message
	err := db.Where("(from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)",
		userID, otherID, otherID, userID).
		Order("created_at, id").
		Find(&msgs).Error
	return msgs, err
}
