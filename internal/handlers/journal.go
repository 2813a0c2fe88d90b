package handlers

import (
	"time"

	"github.com/fivealab/planner/internal/services"
	"github.com/fivealab/planner/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// JournalHandler handles daily resolutions and reviews
type JournalHandler struct {
	DB *gorm.DB
}

// NewJournalHandler creates a new JournalHandler
func NewJournalHandler(db *gorm.DB) *JournalHandler {
	return &JournalHandler{DB: db}
}

type journalEntryRequest struct {
	Date string `json:"date" validate:"required"`
	Text string `json:"text" validate:"max=2000"`
}

// GetEntry handles GET /api/journal?date=YYYY-MM-DD
// @Summary Get the journal entry for one date
// @Description Returns an empty entry when nothing has been written yet
// @Tags Journal
// @Produce json
// @Param date query string false "Date, defaults to today"
// @Success 200 {object} models.DailyLog
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /journal [get]
func (h *JournalHandler) GetEntry(c *fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	date, err := parseDateQuery(c, "date", time.Now().UTC())
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "journal.validation.input")
	}

	entry, err := services.GetDailyLog(h.DB, userID, date)
	if err != nil {
		return serviceErrorResponse(c, err, "getJournal")
	}

	return c.Status(fiber.StatusOK).JSON(entry)
}

// SaveResolution handles PUT /api/journal/resolution
// @Summary Save the morning resolution for one date
// @Tags Journal
// @Accept json
// @Produce json
// @Param body body journalEntryRequest true "Date and text"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /journal/resolution [put]
func (h *JournalHandler) SaveResolution(c *fiber.Ctx) error {
	return h.saveEntry(c, services.SaveResolution, "saveResolution")
}

// SaveReview handles PUT /api/journal/review
// @Summary Save the evening review for one date
// @Tags Journal
// @Accept json
// @Produce json
// @Param body body journalEntryRequest true "Date and text"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /journal/review [put]
func (h *JournalHandler) SaveReview(c *fiber.Ctx) error {
	return h.saveEntry(c, services.SaveReview, "saveReview")
}

func (h *JournalHandler) saveEntry(c *fiber.Ctx, save func(*gorm.DB, uint64, time.Time, string) error, operation string) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	var body journalEntryRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "journal.validation.input")
	}
	if err := validate.Struct(body); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "journal.validation.input")
	}
	date, err := parseDateField("date", body.Date)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "journal.validation.input")
	}

	if err := save(h.DB, userID, date, body.Text); err != nil {
		return serviceErrorResponse(c, err, operation)
	}

	return utils.MutationSuccessResponse(c, 1)
}
