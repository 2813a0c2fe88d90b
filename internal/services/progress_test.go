package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/fivealab/planner/internal/models"
	"github.com/fivealab/planner/internal/services"
	"gorm.io/gorm"
)

func addTask(t *testing.T, db *gorm.DB, userID uint64, day time.Time, subject string, achievement int) {
	t.Helper()
	task := models.DailyTask{
		UserID:      userID,
		Date:        day,
		Subject:     subject,
		Content:     subject + " practice",
		Achievement: achievement,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("Failed to create test task: %v", err)
	}
}

func TestAggregateProgressTiers(t *testing.T) {
	from := date(2026, 3, 2)
	to := date(2026, 3, 6)

	cases := []struct {
		name   string
		values []int
		tier   string
	}{
		{"tier A at exactly 80", []int{80, 80}, services.TierA},
		{"tier B at exactly 50", []int{50, 50}, services.TierB},
		{"tier B just under 80", []int{79, 79}, services.TierB},
		{"tier C below 50", []int{49, 49}, services.TierC},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := setupTestDB(t)
			user := createStudent(t, db, "student1")
			for i, v := range tc.values {
				addTask(t, db, user.ID, from.AddDate(0, 0, i), "Math", v)
			}

			report, err := services.AggregateProgress(db, user.ID, from, to)
			if err != nil {
				t.Fatalf("AggregateProgress failed: %v", err)
			}
			if report.Tier != tc.tier {
				t.Errorf("Expected tier %s, got %s (overall %.1f)", tc.tier, report.Tier, report.Overall)
			}
		})
	}
}

func TestAggregateProgressSubjectStats(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db, "student1")
	from := date(2026, 3, 2)
	to := date(2026, 3, 6)

	addTask(t, db, user.ID, from, "Math", 90)
	addTask(t, db, user.ID, from.AddDate(0, 0, 1), "Math", 70)
	addTask(t, db, user.ID, from, "English", 40)

	report, err := services.AggregateProgress(db, user.ID, from, to)
	if err != nil {
		t.Fatalf("AggregateProgress failed: %v", err)
	}

	if len(report.Subjects) != 2 {
		t.Fatalf("Expected 2 subjects, got %d", len(report.Subjects))
	}
	// Sorted by mean descending
	if report.Subjects[0].Subject != "Math" {
		t.Errorf("Expected Math first, got %s", report.Subjects[0].Subject)
	}
	math := report.Subjects[0]
	if math.Mean != 80 || math.Max != 90 || math.Min != 70 || math.Gap != 20 {
		t.Errorf("Math stats mean=%.1f max=%d min=%d gap=%d, expected 80/90/70/20",
			math.Mean, math.Max, math.Min, math.Gap)
	}

	// Row-weighted overall: (90+70+40)/3
	want := (90.0 + 70.0 + 40.0) / 3.0
	if report.Overall != want {
		t.Errorf("Overall %.2f, expected %.2f", report.Overall, want)
	}
}

func TestAggregateProgressFlags(t *testing.T) {
	t.Run("volatile wins over imbalanced", func(t *testing.T) {
		db := setupTestDB(t)
		user := createStudent(t, db, "student1")
		from := date(2026, 3, 2)

		// Math gap 60 (volatile), English far below Math mean (imbalanced)
		addTask(t, db, user.ID, from, "Math", 100)
		addTask(t, db, user.ID, from.AddDate(0, 0, 1), "Math", 40)
		addTask(t, db, user.ID, from, "English", 20)

		report, err := services.AggregateProgress(db, user.ID, from, from.AddDate(0, 0, 4))
		if err != nil {
			t.Fatalf("AggregateProgress failed: %v", err)
		}
		if !report.Volatile {
			t.Error("Expected volatile flag")
		}
		if !report.Imbalanced {
			t.Error("Expected imbalanced flag")
		}
		if report.Guidance != services.GuidanceVolatile {
			t.Errorf("Expected volatile guidance, got %s", report.Guidance)
		}
	})

	t.Run("volatile wins over struggling", func(t *testing.T) {
		db := setupTestDB(t)
		user := createStudent(t, db, "student1")
		from := date(2026, 3, 2)

		// Overall well under 40, but the wide Math swing takes priority
		addTask(t, db, user.ID, from, "Math", 60)
		addTask(t, db, user.ID, from.AddDate(0, 0, 1), "Math", 0)
		addTask(t, db, user.ID, from, "English", 10)

		report, err := services.AggregateProgress(db, user.ID, from, from.AddDate(0, 0, 4))
		if err != nil {
			t.Fatalf("AggregateProgress failed: %v", err)
		}
		if want := 70.0 / 3.0; report.Overall != want {
			t.Errorf("Overall %.2f, expected %.2f", report.Overall, want)
		}
		if !report.Volatile {
			t.Error("Expected volatile flag")
		}
		if report.Guidance != services.GuidanceVolatile {
			t.Errorf("Expected volatile guidance, got %s", report.Guidance)
		}
	})

	t.Run("imbalanced without volatility", func(t *testing.T) {
		db := setupTestDB(t)
		user := createStudent(t, db, "student1")
		from := date(2026, 3, 2)

		addTask(t, db, user.ID, from, "Math", 90)
		addTask(t, db, user.ID, from.AddDate(0, 0, 1), "Math", 85)
		addTask(t, db, user.ID, from, "English", 50)
		addTask(t, db, user.ID, from.AddDate(0, 0, 1), "English", 55)

		report, err := services.AggregateProgress(db, user.ID, from, from.AddDate(0, 0, 4))
		if err != nil {
			t.Fatalf("AggregateProgress failed: %v", err)
		}
		if report.Volatile {
			t.Error("Did not expect volatile flag")
		}
		if !report.Imbalanced {
			t.Error("Expected imbalanced flag")
		}
		if report.Guidance != services.GuidanceImbalanced {
			t.Errorf("Expected imbalanced guidance, got %s", report.Guidance)
		}
	})

	t.Run("struggling when steady but low", func(t *testing.T) {
		db := setupTestDB(t)
		user := createStudent(t, db, "student1")
		from := date(2026, 3, 2)

		addTask(t, db, user.ID, from, "Math", 30)
		addTask(t, db, user.ID, from.AddDate(0, 0, 1), "Math", 35)

		report, err := services.AggregateProgress(db, user.ID, from, from.AddDate(0, 0, 4))
		if err != nil {
			t.Fatalf("AggregateProgress failed: %v", err)
		}
		if report.Guidance != services.GuidanceStruggling {
			t.Errorf("Expected struggling guidance, got %s", report.Guidance)
		}
	})

	t.Run("mastery when steady and solid", func(t *testing.T) {
		db := setupTestDB(t)
		user := createStudent(t, db, "student1")
		from := date(2026, 3, 2)

		addTask(t, db, user.ID, from, "Math", 85)
		addTask(t, db, user.ID, from.AddDate(0, 0, 1), "Math", 90)

		report, err := services.AggregateProgress(db, user.ID, from, from.AddDate(0, 0, 4))
		if err != nil {
			t.Fatalf("AggregateProgress failed: %v", err)
		}
		if report.Guidance != services.GuidanceMastery {
			t.Errorf("Expected mastery guidance, got %s", report.Guidance)
		}
	})
}

func TestAggregateProgressEmptyWindow(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db, "student1")

	report, err := services.AggregateProgress(db, user.ID, date(2026, 3, 2), date(2026, 3, 6))
	if err != nil {
		t.Fatalf("AggregateProgress failed: %v", err)
	}
	if len(report.Subjects) != 0 || report.Overall != 0 || report.Guidance != "" {
		t.Errorf("Expected empty report, got %+v", report)
	}
}

func TestRenderGuidance(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db, "student1")
	from := date(2026, 3, 2)

	addTask(t, db, user.ID, from, "Math", 90)
	addTask(t, db, user.ID, from.AddDate(0, 0, 1), "Math", 85)
	addTask(t, db, user.ID, from, "English", 50)

	report, err := services.AggregateProgress(db, user.ID, from, from.AddDate(0, 0, 4))
	if err != nil {
		t.Fatalf("AggregateProgress failed: %v", err)
	}

	text, err := services.RenderGuidance(report, "Jordan Kim")
	if err != nil {
		t.Fatalf("RenderGuidance failed: %v", err)
	}
	if !strings.Contains(text, "Jordan Kim") {
		t.Error("Expected guidance to mention the student's name")
	}
	if !strings.Contains(text, "Math") || !strings.Contains(text, "English") {
		t.Error("Expected imbalanced guidance to name both subjects")
	}
}
