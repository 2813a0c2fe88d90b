package services

import (
	"fmt"
	"time"

	"github.com/fivealab/planner/internal/models"
	"gorm.io/gorm"
)

// DistributeInput describes one distribution request: a unit range to spread
// over the dates in [StartDate, EndDate] that fall on the selected weekdays.
// Weekday indices are Mon=0..Sun=6.
type DistributeInput struct {
	UserID    uint64
	Subject   string
	Content   string
	StartUnit int
	EndUnit   int
	StartDate time.Time
	EndDate   time.Time
	Weekdays  []int
}

// Assignment is one day's share of the distributed range.
type Assignment struct {
	Date      time.Time `json:"date"`
	StartUnit int       `json:"startUnit"`
	EndUnit   int       `json:"endUnit"`
}

// DistributeResult reports what a successful distribution wrote.
type DistributeResult struct {
	GoalID      uint64       `json:"goalId"`
	Days        int          `json:"days"`
	TotalUnits  int          `json:"totalUnits"`
	Assignments []Assignment `json:"assignments"`
	Summary     string       `json:"summary"`
}

// weekdayIndex maps time.Weekday (Sun=0) onto the Mon=0..Sun=6 convention.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// scheduleDates enumerates the dates in [start, end] whose weekday is in the
// selected set, in date order.
func scheduleDates(start, end time.Time, weekdays []int) []time.Time {
	selected := make(map[int]bool, len(weekdays))
	for _, d := range weekdays {
		selected[d] = true
	}

	var dates []time.Time
	for d := dateOnly(start); !d.After(dateOnly(end)); d = d.AddDate(0, 0, 1) {
		if selected[weekdayIndex(d)] {
			dates = append(dates, d)
		}
	}
	return dates
}

// dateOnly truncates a timestamp to its calendar date in UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Distribute splits the unit range evenly across the matching dates and
// persists one goal plus one task per date. The split is front loaded: when
// the range does not divide evenly, the earliest dates receive one extra
// unit each, so earlier dates never get less work than later ones. The goal
// and all tasks are written in a single transaction.
func Distribute(db *gorm.DB, in DistributeInput) (*DistributeResult, error) {
	if in.EndDate.Before(in.StartDate) {
		return nil, ErrInvalidRange
	}

	dates := scheduleDates(in.StartDate, in.EndDate, in.Weekdays)
	if len(dates) == 0 {
		return nil, ErrEmptySchedule
	}

	total := in.EndUnit - in.StartUnit + 1
	if total <= 0 {
		return nil, ErrInvalidRange
	}

	n := len(dates)
	base := total / n
	remainder := total % n

	assignments := make([]Assignment, 0, n)
	cursor := in.StartUnit
	for i, date := range dates {
		amount := base
		if i < remainder {
			amount++
		}
		// Zero-amount days still get a row so the calendar shows them as
		// planned; their range comes out inverted (end = start-1).
		assignments = append(assignments, Assignment{
			Date:      date,
			StartUnit: cursor,
			EndUnit:   cursor + amount - 1,
		})
		cursor += amount
	}

	goal := models.Goal{
		UserID:      in.UserID,
		PeriodLabel: fmt.Sprintf("%s~%s", dateOnly(in.StartDate).Format("2006-01-02"), dateOnly(in.EndDate).Format("2006-01-02")),
		Subject:     in.Subject,
		Content:     in.Content,
		TotalUnits:  total,
		WeekdaySet:  models.EncodeWeekdays(in.Weekdays),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&goal).Error; err != nil {
			return err
		}

		tasks := make([]models.DailyTask, 0, len(assignments))
		for _, a := range assignments {
			goalID := goal.ID
			tasks = append(tasks, models.DailyTask{
				UserID:  in.UserID,
				Date:    a.Date,
				Subject: in.Subject,
				Content: fmt.Sprintf("%s (p.%d~p.%d)", in.Content, a.StartUnit, a.EndUnit),
				GoalID:  &goalID,
			})
		}
		return tx.Create(&tasks).Error
	})
	if err != nil {
		return nil, err
	}

	return &DistributeResult{
		GoalID:      goal.ID,
		Days:        len(assignments),
		TotalUnits:  total,
		Assignments: assignments,
		Summary:     fmt.Sprintf("Distributed p.%d~p.%d over %d days", in.StartUnit, in.EndUnit, len(assignments)),
	}, nil
}
