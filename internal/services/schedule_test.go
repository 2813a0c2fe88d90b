package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fivealab/planner/internal/models"
	"github.com/fivealab/planner/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Goal{},
		&models.DailyTask{},
		&models.DailyLog{},
		&models.Message{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createStudent(t *testing.T, db *gorm.DB, username string) *models.User {
	user := models.User{
		Username:     username,
		PasswordHash: "x",
		Role:         models.RoleStudent,
		RealName:     "Test Student",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return &user
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestDistributePartition checks that every unit in the range lands on
// exactly one day and that larger shares come first.
func TestDistributePartition(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db, "student1")

	// Mon 2026-03-02 .. Sun 2026-03-15, Mon/Wed/Fri = 6 study days
	result, err := services.Distribute(db, services.DistributeInput{
		UserID:    user.ID,
		Subject:   "Math",
		Content:   "Workbook A",
		StartUnit: 1,
		EndUnit:   100,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 15),
		Weekdays:  []int{0, 2, 4},
	})
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}

	if result.Days != 6 {
		t.Errorf("Expected 6 study days, got %d", result.Days)
	}
	if result.TotalUnits != 100 {
		t.Errorf("Expected 100 total units, got %d", result.TotalUnits)
	}

	// Continuous coverage: each assignment starts where the previous ended
	expectNext := 1
	prevSize := 0
	for i, a := range result.Assignments {
		if a.StartUnit != expectNext {
			t.Errorf("Assignment %d starts at %d, expected %d", i, a.StartUnit, expectNext)
		}
		size := a.EndUnit - a.StartUnit + 1
		if size <= 0 {
			t.Errorf("Assignment %d has non-positive size", i)
		}
		if i > 0 && size > prevSize {
			t.Errorf("Assignment %d size %d exceeds earlier size %d", i, size, prevSize)
		}
		prevSize = size
		expectNext = a.EndUnit + 1
	}
	if expectNext != 101 {
		t.Errorf("Coverage ends at %d, expected 101", expectNext)
	}

	// Tasks were persisted alongside the goal
	var count int64
	db.Model(&models.DailyTask{}).Where("user_id = ? AND goal_id = ?", user.ID, result.GoalID).Count(&count)
	if count != 6 {
		t.Errorf("Expected 6 persisted tasks, got %d", count)
	}
}

// TestDistributeFrontLoadsRemainder checks the worked split of 10 units
// over 3 days: 4, 3, 3.
func TestDistributeFrontLoadsRemainder(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db, "student1")

	// Mon/Tue/Wed of one week
	result, err := services.Distribute(db, services.DistributeInput{
		UserID:    user.ID,
		Subject:   "English",
		Content:   "Reader",
		StartUnit: 1,
		EndUnit:   10,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 4),
		Weekdays:  []int{0, 1, 2},
	})
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}

	sizes := []int{}
	for _, a := range result.Assignments {
		sizes = append(sizes, a.EndUnit-a.StartUnit+1)
	}
	expected := []int{4, 3, 3}
	if len(sizes) != len(expected) {
		t.Fatalf("Expected %d assignments, got %d", len(expected), len(sizes))
	}
	for i := range expected {
		if sizes[i] != expected[i] {
			t.Errorf("Assignment %d size %d, expected %d", i, sizes[i], expected[i])
		}
	}

	if result.Assignments[0].StartUnit != 1 || result.Assignments[0].EndUnit != 4 {
		t.Errorf("First assignment is p.%d~p.%d, expected p.1~p.4",
			result.Assignments[0].StartUnit, result.Assignments[0].EndUnit)
	}
}

func TestDistributeInvalidRange(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db, "student1")

	_, err := services.Distribute(db, services.DistributeInput{
		UserID:    user.ID,
		Subject:   "Math",
		Content:   "Workbook A",
		StartUnit: 1,
		EndUnit:   10,
		StartDate: date(2026, 3, 10),
		EndDate:   date(2026, 3, 2),
		Weekdays:  []int{0},
	})
	if !errors.Is(err, services.ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange for reversed dates, got %v", err)
	}

	_, err = services.Distribute(db, services.DistributeInput{
		UserID:    user.ID,
		Subject:   "Math",
		Content:   "Workbook A",
		StartUnit: 10,
		EndUnit:   1,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 10),
		Weekdays:  []int{0},
	})
	if !errors.Is(err, services.ErrInvalidRange) {
		t.Errorf("Expected ErrInvalidRange for reversed units, got %v", err)
	}
}

func TestDistributeEmptySchedule(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db, "student1")

	// Mon 2026-03-02 .. Fri 2026-03-06 contains no Sunday
	_, err := services.Distribute(db, services.DistributeInput{
		UserID:    user.ID,
		Subject:   "Math",
		Content:   "Workbook A",
		StartUnit: 1,
		EndUnit:   10,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 6),
		Weekdays:  []int{6},
	})
	if !errors.Is(err, services.ErrEmptySchedule) {
		t.Errorf("Expected ErrEmptySchedule, got %v", err)
	}

	// Nothing persisted on failure
	var count int64
	db.Model(&models.Goal{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no goals after failed distribution, got %d", count)
	}
}

// TestDistributeFewerUnitsThanDays keeps a task row on every selected date
// even when there are more days than units: the trailing days carry an empty
// range but still show up in the plan.
func TestDistributeFewerUnitsThanDays(t *testing.T) {
	db := setupTestDB(t)
	user := createStudent(t, db, "student1")

	// 3 units over Mon-Fri of one week
	result, err := services.Distribute(db, services.DistributeInput{
		UserID:    user.ID,
		Subject:   "Science",
		Content:   "Lab notes",
		StartUnit: 5,
		EndUnit:   7,
		StartDate: date(2026, 3, 2),
		EndDate:   date(2026, 3, 6),
		Weekdays:  []int{0, 1, 2, 3, 4},
	})
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}

	if result.Days != 5 || len(result.Assignments) != 5 {
		t.Fatalf("Expected 5 assignments, got days=%d assignments=%d", result.Days, len(result.Assignments))
	}

	covered := 0
	for i, a := range result.Assignments {
		if i < 3 {
			if a.StartUnit != 5+i || a.EndUnit != 5+i {
				t.Errorf("Day %d: expected unit %d, got %d-%d", i, 5+i, a.StartUnit, a.EndUnit)
			}
			covered += a.EndUnit - a.StartUnit + 1
		} else if a.EndUnit != a.StartUnit-1 {
			t.Errorf("Day %d: expected empty range, got %d-%d", i, a.StartUnit, a.EndUnit)
		}
	}
	if covered != 3 {
		t.Errorf("Expected 3 units covered, got %d", covered)
	}

	var taskCount int64
	if err := db.Model(&models.DailyTask{}).Where("user_id = ?", user.ID).Count(&taskCount).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if taskCount != 5 {
		t.Errorf("Expected 5 task rows, got %d", taskCount)
	}

	statuses, err := services.CalendarStatus(db, user.ID, date(2026, 3, 1), date(2026, 3, 31))
	if err != nil {
		t.Fatalf("CalendarStatus failed: %v", err)
	}
	for _, day := range []string{"2026-03-05", "2026-03-06"} {
		if statuses[day] != services.DayPlanned {
			t.Errorf("Expected %s planned, got %q", day, statuses[day])
		}
	}
}
