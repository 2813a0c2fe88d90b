package models

import (
	"time"
)

// DailyTask is one subject's assigned work for one date, with a completion
// percentage. Tasks created by the distributor reference their goal; ad hoc
// tasks carry no goal reference. A user may have multiple tasks for the same
// date and subject.
type DailyTask struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	UserID      uint64    `gorm:"not null;index:idx_task_user_date"`
	Date        time.Time `gorm:"type:date;not null;index:idx_task_user_date"`
	Subject     string    `gorm:"size:64;not null"`
	Content     string    `gorm:"size:255;not null"`
	Achievement int       `gorm:"not null;default:0"`
	GoalID      *uint64   `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides the table name for DailyTask
func (DailyTask) TableName() string {
	return "daily_tasks"
}
