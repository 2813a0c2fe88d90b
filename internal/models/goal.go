package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Goal is a user's stated intention to complete a unit range within a date
// window on selected weekdays. Goals are written exactly once per
// distribution request and never edited afterwards.
type Goal struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	UserID      uint64 `gorm:"not null;index"`
	PeriodLabel string `gorm:"size:32;not null"`
	Subject     string `gorm:"size:64;not null"`
	Content     string `gorm:"size:255;not null"`
	TotalUnits  int    `gorm:"not null"`
	// WeekdaySet holds the selected weekday indices (Mon=0..Sun=6) as a
	// JSON array, e.g. [0,2,4].
	WeekdaySet datatypes.JSON `gorm:"type:json"`
	CreatedAt  time.Time
}

// TableName overrides the table name for Goal
func (Goal) TableName() string {
	return "goals"
}

// Weekdays decodes the stored weekday set.
func (g *Goal) Weekdays() []int {
	var days []int
	_ = json.Unmarshal(g.WeekdaySet, &days)
	return days
}

// EncodeWeekdays renders a weekday slice into the JSON column format.
func EncodeWeekdays(days []int) datatypes.JSON {
	b, _ := json.Marshal(days)
	return datatypes.JSON(b)
}
