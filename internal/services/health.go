package services

import (
	"fmt"
	"log"

	"github.com/fivealab/planner/internal/config"
	"github.com/fivealab/planner/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck reports database connectivity and basic schema readiness.
func HealthCheck(cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	sqlDB, err := db.DB()
	if err != nil {
		result.Status = "unhealthy"
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database connection error: %v", err)
		log.Printf("Health check failed - database connection: %v", err)
		return result
	}

	if err := sqlDB.Ping(); err != nil {
		result.Status = "unhealthy"
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.ErrorMessage = fmt.Sprintf("Database ping failed: %v", err)
		log.Printf("Health check failed - database ping: %v", err)
		return result
	}

	result.Database = "ok"
	result.Details["database_type"] = cfg.DBType
	result.Details["database_name"] = cfg.DBDatabase

	if !db.Migrator().HasTable(&models.User{}) {
		result.Status = "unhealthy"
		result.Details["schema"] = "users table missing; run migrations"
		result.ErrorMessage = "schema not migrated"
		return result
	}

	return result
}

// EnsureAdmin creates the bootstrap admin account if no account with the
// configured username exists. A blank ADMIN_PASSWORD skips the bootstrap.
func EnsureAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.AdminPassword == "" {
		return nil
	}

	var count int64
	err := db.Model(&models.User{}).
		Where("username = ?", cfg.AdminUsername).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		RealName:     cfg.AdminName,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Bootstrap admin account created: %s", cfg.AdminUsername)
	return nil
}
