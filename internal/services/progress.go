package services

import (
	"sort"
	"time"

	"github.com/fivealab/planner/internal/models"
	"gorm.io/gorm"
)

// Performance tiers by overall average.
const (
	TierA = "A"
	TierB = "B"
	TierC = "C"
)

// Guidance template identifiers, in match priority order.
const (
	GuidanceVolatile   = "volatile"
	GuidanceImbalanced = "imbalanced"
	GuidanceStruggling = "struggling"
	GuidanceMastery    = "mastery"
)

// SubjectStats summarizes one subject's achievement over a window.
type SubjectStats struct {
	Subject string  `json:"subject"`
	Mean    float64 `json:"mean"`
	Max     int     `json:"max"`
	Min     int     `json:"min"`
	Gap     int     `json:"gap"`
	Tasks   int     `json:"tasks"`
}

// ProgressReport is the per-student aggregate for a date window.
type ProgressReport struct {
	UserID     uint64         `json:"userId"`
	From       string         `json:"from"`
	To         string         `json:"to"`
	Overall    float64        `json:"overall"`
	Tier       string         `json:"tier"`
	Volatile   bool           `json:"volatile"`
	Imbalanced bool           `json:"imbalanced"`
	Guidance   string         `json:"guidance"`
	Subjects   []SubjectStats `json:"subjects"`
}

// AggregateProgress computes per-subject stats, the overall average, the
// tier, the consistency flags and the matching guidance id for one user
// over [from, to]. The overall average weights every task row equally.
func AggregateProgress(db *gorm.DB, userID uint64, from, to time.Time) (*ProgressReport, error) {
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

	report := &ProgressReport{
		UserID: userID,
		From:   dateOnly(from).Format("2006-01-02"),
		To:     dateOnly(to).Format("2006-01-02"),
	}
	if len(tasks) == 0 {
		return report, nil
	}

	type acc struct {
		sum, n, max, min int
	}
	bySubject := map[string]*acc{}
	total := 0
	for _, t := range tasks {
		a, ok := bySubject[t.Subject]
		if !ok {
			a = &acc{max: t.Achievement, min: t.Achievement}
			bySubject[t.Subject] = a
		}
		a.sum += t.Achievement
		a.n++
		if t.Achievement > a.max {
			a.max = t.Achievement
		}
		if t.Achievement < a.min {
			a.min = t.Achievement
		}
		total += t.Achievement
	}

	for subject, a := range bySubject {
		report.Subjects = append(report.Subjects, SubjectStats{
			Subject: subject,
			Mean:    float64(a.sum) / float64(a.n),
			Max:     a.max,
			Min:     a.min,
			Gap:     a.max - a.min,
			Tasks:   a.n,
		})
	}
	sort.Slice(report.Subjects, func(i, j int) bool {
		if report.Subjects[i].Mean != report.Subjects[j].Mean {
			return report.Subjects[i].Mean > report.Subjects[j].Mean
		}
		return report.Subjects[i].Subject < report.Subjects[j].Subject
	})

	report.Overall = float64(total) / float64(len(tasks))

	switch {
	case report.Overall >= 80:
		report.Tier = TierA
	case report.Overall >= 50:
		report.Tier = TierB
	default:
		report.Tier = TierC
	}

	for _, s := range report.Subjects {
		if s.Gap >= 40 {
			report.Volatile = true
			break
		}
	}
	best := report.Subjects[0].Mean
	worst := report.Subjects[len(report.Subjects)-1].Mean
	if best-worst >= 30 {
		report.Imbalanced = true
	}

	switch {
	case report.Volatile:
		report.Guidance = GuidanceVolatile
	case report.Imbalanced:
		report.Guidance = GuidanceImbalanced
	case report.Overall < 40:
		report.Guidance = GuidanceStruggling
	default:
		report.Guidance = GuidanceMastery
	}

	return report, nil
}
