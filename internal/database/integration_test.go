package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/fivealab/planner/internal/config"
	"github.com/fivealab/planner/internal/database"
	"github.com/fivealab/planner/internal/models"
	"github.com/fivealab/planner/internal/services"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// TestWithPostgres runs the migration and the core write paths against a
// real PostgreSQL container. Requires Docker; skipped in short mode.
func TestWithPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:17-alpine"),
		postgres.WithDatabase("planner"),
		postgres.WithUsername("planner"),
		postgres.WithPassword("planner"),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer func() {
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate PostgreSQL container: %v", err)
		}
	}()

	host, err := pg.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := pg.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.Config{
		DBType:            "postgres",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "planner",
		DBUser:            "planner",
		DBPassword:        "planner",
		DBConnectionLimit: 5,
		JWTSecret:         "integration-secret",
	}

	var db *gorm.DB
	deadline := time.Now().Add(30 * time.Second)
	for {
		conn, err := database.Connect(cfg)
		if err == nil {
			db = conn
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Failed to connect to database: %v", err)
		}
		time.Sleep(500 * time.Millisecond)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	user := models.User{
		Username:     "student1",
		PasswordHash: "x",
		Role:         models.RoleStudent,
		RealName:     "Integration Student",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	result, err := services.Distribute(db, services.DistributeInput{
		UserID:    user.ID,
		Subject:   "Math",
		Content:   "Workbook A",
		StartUnit: 1,
		EndUnit:   10,
		StartDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
		Weekdays:  []int{0, 1, 2},
	})
	if err != nil {
		t.Fatalf("Distribute failed: %v", err)
	}
	if result.Days != 3 {
		t.Errorf("Expected 3 days, got %d", result.Days)
	}

	// The journal upsert must hit the real ON CONFLICT path
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	if err := services.SaveResolution(db, user.ID, day, "first"); err != nil {
		t.Fatalf("SaveResolution failed: %v", err)
	}
	if err := services.SaveResolution(db, user.ID, day, "second"); err != nil {
		t.Fatalf("SaveResolution upsert failed: %v", err)
	}
	entry, err := services.GetDailyLog(db, user.ID, day)
	if err != nil {
		t.Fatalf("GetDailyLog failed: %v", err)
	}
	if entry.Resolution != "second" {
		t.Errorf("Resolution %q, expected second", entry.Resolution)
	}

	var logCount int64
	db.Model(&models.DailyLog{}).Count(&logCount)
	if logCount != 1 {
		t.Errorf("Expected a single log row after upsert, got %d", logCount)
	}
}
