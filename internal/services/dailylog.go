package services

import (
	"errors"
	"time"

	"github.com/fivealab/planner/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetDailyLog returns the journal entry for one date, or an empty entry
// when none was written yet.
func GetDailyLog(db *gorm.DB, userID uint64, date time.Time) (*models.DailyLog, error) {
	var log models.DailyLog
	err := db.Where("user_id = ? AND date = ?", userID, dateOnly(date)).First(&log).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.DailyLog{UserID: userID, Date: dateOnly(date)}, nil
		}
		return nil, err
	}
	return &log, nil
}

// SaveResolution upserts the morning resolution for one date, leaving an
// existing evening review untouched.
func SaveResolution(db *gorm.DB, userID uint64, date time.Time, text string) error {
	return upsertLogColumn(db, userID, date, "resolution", text)
}

// SaveReview upserts the evening review for one date, leaving an
// existing morning resolution untouched.
func SaveReview(db *gorm.DB, userID uint64, date time.Time, text string) error {
	return upsertLogColumn(db, userID, date, "review", text)
}

func upsertLogColumn(db *gorm.DB, userID uint64, date time.Time, column, text string) error {
	log := models.DailyLog{
		UserID: userID,
		Date:   dateOnly(date),
	}
	switch column {
	case "resolution":
		log.Resolution = text
	case "review":
		log.Review = text
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(&log).Error
}
