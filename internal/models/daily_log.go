package models

import (
	"time"
)

// DailyLog is a user's journal entry for one date: a morning resolution and
// an evening review, written independently. At most one row per (user, date).
type DailyLog struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserID     uint64    `gorm:"not null;uniqueIndex:uidx_log_user_date"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:uidx_log_user_date"`
	Resolution string    `gorm:"type:text"`
	Review     string    `gorm:"type:text"`
	UpdatedAt  time.Time
}

// TableName overrides the table name for DailyLog
func (DailyLog) TableName() string {
	return "daily_logs"
}
