package models

import (
	"time"
)

// Message is one entry in the student/admin chat log. Messages are append
// only; they are never edited and only disappear when an endpoint user is
// deleted.
type Message struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	FromID    uint64 `gorm:"not null;index"`
	ToID      uint64 `gorm:"not null;index"`
	Body      string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// TableName overrides the table name for Message
func (Message) TableName() string {
	return "messages"
}
