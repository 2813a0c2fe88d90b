package services

import (
	"time"

	"github.com/fivealab/planner/internal/models"
	"gorm.io/gorm"
)

// Day statuses for the calendar view. Dates with no tasks are omitted
// from the map rather than marked.
const (
	DayDone    = "done"
	DayPlanned = "planned"
)

// CalendarStatus maps each date in [from, to] that carries at least one
// task to "done" or "planned". A single task at 100 marks the whole day
// done, even when other tasks on it are unfinished.
func CalendarStatus(db *gorm.DB, userID uint64, from, to time.Time) (map[string]string, error) {
	if to.Before(from) {
		return nil, ErrInvalidRange
	}

	var tasks []models.DailyTask
	err := db.Where("user_id = ? AND date >= ? AND date <= ?",
		userID, dateOnly(from), dateOnly(to)).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	statuses := map[string]string{}
	for _, t := range tasks {
		key := dateOnly(t.Date).Format("2006-01-02")
		if t.Achievement == 100 {
			statuses[key] = DayDone
		} else if statuses[key] != DayDone {
			statuses[key] = DayPlanned
		}
	}
	return statuses, nil
}
