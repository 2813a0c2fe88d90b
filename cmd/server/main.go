package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/fivealab/planner/internal/config"
	"github.com/fivealab/planner/internal/database"
	"github.com/fivealab/planner/internal/handlers"
	"github.com/fivealab/planner/internal/middleware"
	"github.com/fivealab/planner/internal/services"
	"github.com/fivealab/planner/internal/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"

	_ "github.com/fivealab/planner/docs/api" // Swagger docs
)

// @title Planner API
// @version 1.0.0
// @description Study planning service: goal distribution, achievement tracking, progress insight
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/fivealab/planner

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name planner_session

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := services.EnsureAdmin(db, cfg); err != nil {
		log.Fatalf("Failed to bootstrap admin account: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("planner")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	planHandler := handlers.NewPlanHandler(db)
	journalHandler := handlers.NewJournalHandler(db)
	messageHandler := handlers.NewMessageHandler(db)
	adminHandler := handlers.NewAdminHandler(db)
	healthHandler := handlers.NewHealthHandler(db, cfg)

	// API routes under /api
	api := app.Group("/api")

	api.Get("/health", healthHandler.Health)

	auth := api.Group("/auth")
	auth.Post("/signup", authHandler.Signup)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)

	user := middleware.AuthUser(cfg.JWTSecret)
	admin := middleware.AuthAdmin(cfg.JWTSecret)

	plans := api.Group("/plans", user)
	plans.Post("/distribute", planHandler.Distribute)
	plans.Get("/day", planHandler.GetDay)
	plans.Post("/tasks", planHandler.CreateTask)
	plans.Put("/tasks/:id", planHandler.UpdateTask)
	plans.Delete("/tasks/:id", planHandler.DeleteTask)
	plans.Put("/tasks/:id/achievement", planHandler.SetAchievement)
	plans.Get("/progress", planHandler.Progress)
	plans.Get("/calendar", planHandler.Calendar)

	journal := api.Group("/journal", user)
	journal.Get("/", journalHandler.GetEntry)
	journal.Put("/resolution", journalHandler.SaveResolution)
	journal.Put("/review", journalHandler.SaveReview)

	messages := api.Group("/messages", user)
	messages.Post("/", messageHandler.Send)
	messages.Get("/:userId", messageHandler.Conversation)

	adminGroup := api.Group("/admin", admin)
	adminGroup.Get("/pending", adminHandler.PendingUsers)
	adminGroup.Post("/pending/:id/approve", adminHandler.ApproveUser)
	adminGroup.Post("/pending/:id/reject", adminHandler.RejectUser)
	adminGroup.Get("/students", adminHandler.Roster)
	adminGroup.Delete("/students", adminHandler.DeleteUsers)
	adminGroup.Get("/students/:id/progress", adminHandler.StudentProgress)
	adminGroup.Get("/students/:id/calendar", adminHandler.StudentCalendar)
	adminGroup.Get("/students/:id/export/csv", adminHandler.ExportCSV)
	adminGroup.Get("/students/:id/export/xlsx", adminHandler.ExportXLSX)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	var customErr *types.CustomError
	if errors.As(err, &customErr) {
		code = customErr.Code
		message = customErr.Message
		errorType = customErr.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
