package handlers

import (
	"github.com/fivealab/planner/internal/config"
	"github.com/fivealab/planner/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler handles the health endpoint
type HealthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *gorm.DB, cfg *config.Config) *HealthHandler {
	return &HealthHandler{DB: db, Cfg: cfg}
}

// Health handles GET /api/health
// @Summary Service health
// @Description Reports database connectivity and schema readiness
// @Tags Health
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Cfg, h.DB)
	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
