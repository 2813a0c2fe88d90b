package services

import (
	"errors"
	"strings"
	"time"

	"github.com/fivealab/planner/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Roster signal thresholds over the trailing seven days.
const (
	SignalGreen  = "green"
	SignalYellow = "yellow"
	SignalRed    = "red"
)

// ErrInvalidCredentials is returned when a login fails, without saying
// whether the username or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAccountPending is returned when a pending account tries to log in.
var ErrAccountPending = errors.New("account awaiting approval")

// Signup registers a new account in the pending role. The account cannot
// log in until an admin approves it.
func Signup(db *gorm.DB, username, password, realName, groupLabel string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RolePending,
		RealName:     realName,
		GroupLabel:   groupLabel,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate checks a username/password pair. Pending accounts are
// rejected with ErrAccountPending so the UI can explain the state.
func Authenticate(db *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if user.Role == models.RolePending {
		return nil, ErrAccountPending
	}
	return &user, nil
}

// PendingUsers lists accounts awaiting approval, oldest first.
func PendingUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.Where("role = ?", models.RolePending).
		Order("created_at").
		Find(&users).Error
	return users, err
}

// ApproveUser moves a pending account into the student role.
func ApproveUser(db *gorm.DB, userID uint64) error {
	result := db.Model(&models.User{}).
		Where("id = ? AND role = ?", userID, models.RolePending).
		Update("role", models.RoleStudent)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RejectUser deletes a pending account outright.
func RejectUser(db *gorm.DB, userID uint64) error {
	result := db.Where("id = ? AND role = ?", userID, models.RolePending).
		Delete(&models.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUsers removes the given accounts and everything they own in one
// transaction: goals, tasks, daily logs, and messages sent or received.
func DeleteUsers(db *gorm.DB, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id IN ?", userIDs).Delete(&models.Goal{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id IN ?", userIDs).Delete(&models.DailyTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id IN ?", userIDs).Delete(&models.DailyLog{}).Error; err != nil {
			return err
		}
		if err := tx.Where("from_id IN ? OR to_id IN ?", userIDs, userIDs).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", userIDs).Delete(&models.User{}).Error
	})
}

// RosterEntry is one student row in the admin roster, with a traffic
// light signal computed from the trailing seven days of tasks.
type RosterEntry struct {
	UserID     uint64  `json:"userId"`
	Username   string  `json:"username"`
	RealName   string  `json:"realName"`
	GroupLabel string  `json:"groupLabel"`
	WeekAvg    float64 `json:"weekAvg"`
	WeekTasks  int     `json:"weekTasks"`
	Signal     string  `json:"signal"`
}

// ListStudents returns the student roster, optionally filtered by a
// case-insensitive name fragment. The signal reflects the mean
// achievement over the last seven days ending today: green at 80 and
// above, yellow at 50, red below. Students with no tasks in the window
// show red with a zero average.
func ListStudents(db *gorm.DB, nameQuery string, today time.Time) ([]RosterEntry, error) {
	var users []models.User
	q := db.Where("role = ?", models.RoleStudent)
	if nameQuery != "" {
		q = q.Where("LOWER(real_name) LIKE ?", "%"+strings.ToLower(nameQuery)+"%")
	}
	if err := q.Order("real_name").Find(&users).Error; err != nil {
		return nil, err
	}

	to := dateOnly(today)
	from := to.AddDate(0, 0, -6)

	// One aggregate over the whole window instead of a query per student.
	type weekStat struct {
		UserID    uint64
		WeekAvg   float64
		WeekTasks int
	}
	var stats []weekStat
	err := db.Model(&models.DailyTask{}).
		Select("user_id, AVG(achievement) AS week_avg, COUNT(*) AS week_tasks").
		Where("date >= ? AND date <= ?", from, to).
		Group("user_id").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	byUser := make(map[uint64]weekStat, len(stats))
	for _, s := range stats {
		byUser[s.UserID] = s
	}

	entries := make([]RosterEntry, 0, len(users))
	for _, u := range users {
		entry := RosterEntry{
			UserID:     u.ID,
			Username:   u.Username,
			RealName:   u.RealName,
			GroupLabel: u.GroupLabel,
			Signal:     SignalRed,
		}
		if s, ok := byUser[u.ID]; ok {
			entry.WeekAvg = s.WeekAvg
			entry.WeekTasks = s.WeekTasks
			switch {
			case entry.WeekAvg >= 80:
				entry.Signal = SignalGreen
			case entry.WeekAvg >= 50:
				entry.Signal = SignalYellow
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
