package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/fivealab/planner/internal/models"
	"github.com/fivealab/planner/internal/services"
	"github.com/fivealab/planner/internal/types"
	"github.com/fivealab/planner/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminHandler handles roster management, approvals, insight and export
type AdminHandler struct {
	DB *gorm.DB
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{DB: db}
}

type deleteUsersRequest struct {
	UserIDs []types.FlexUint64 `json:"userIds" validate:"required,min=1"`
}

// PendingUsers handles GET /api/admin/pending
// @Summary List accounts awaiting approval
// @Tags Admin
// @Produce json
// @Success 200 {array} models.User
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/pending [get]
func (h *AdminHandler) PendingUsers(c *fiber.Ctx) error {
	users, err := services.PendingUsers(h.DB)
	if err != nil {
		return serviceErrorResponse(c, err, "pendingUsers")
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

// ApproveUser handles POST /api/admin/pending/:id/approve
// @Summary Approve a pending account
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/pending/{id}/approve [post]
func (h *AdminHandler) ApproveUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid user id", fiber.StatusBadRequest, "admin.validation.input")
	}
	if err := services.ApproveUser(h.DB, userID); err != nil {
		return serviceErrorResponse(c, err, "approveUser")
	}
	return utils.MutationSuccessResponse(c, 1)
}

// RejectUser handles POST /api/admin/pending/:id/reject
// @Summary Reject and remove a pending account
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/pending/{id}/reject [post]
func (h *AdminHandler) RejectUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid user id", fiber.StatusBadRequest, "admin.validation.input")
	}
	if err := services.RejectUser(h.DB, userID); err != nil {
		return serviceErrorResponse(c, err, "rejectUser")
	}
	return utils.MutationSuccessResponse(c, 1)
}

// Roster handles GET /api/admin/students?name=...
// @Summary Student roster with a seven-day traffic light signal
// @Tags Admin
// @Produce json
// @Param name query string false "Case-insensitive name fragment"
// @Success 200 {array} services.RosterEntry
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/students [get]
func (h *AdminHandler) Roster(c *fiber.Ctx) error {
	entries, err := services.ListStudents(h.DB, c.Query("name", ""), time.Now().UTC())
	if err != nil {
		return serviceErrorResponse(c, err, "roster")
	}
	return c.Status(fiber.StatusOK).JSON(entries)
}

// DeleteUsers handles DELETE /api/admin/students
// @Summary Delete accounts and everything they own
// @Description Removes goals, tasks, journal entries and messages in one transaction
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body deleteUsersRequest true "User IDs to delete"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/students [delete]
func (h *AdminHandler) DeleteUsers(c *fiber.Ctx) error {
	var body deleteUsersRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "admin.validation.input")
	}
	if err := validate.Struct(body); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "admin.validation.input")
	}

	ids := make([]uint64, 0, len(body.UserIDs))
	for _, id := range body.UserIDs {
		ids = append(ids, id.Uint64())
	}
	if err := services.DeleteUsers(h.DB, ids); err != nil {
		return serviceErrorResponse(c, err, "deleteUsers")
	}

	return utils.MutationSuccessResponse(c, int64(len(ids)))
}

// StudentProgress handles GET /api/admin/students/:id/progress?from=...&to=...
// @Summary Progress report for one student
// @Description Per-subject averages, tier, flags and rendered guidance
// @Tags Admin
// @Produce json
// @Param id path int true "Student ID"
// @Param from query string true "Window start YYYY-MM-DD"
// @Param to query string true "Window end YYYY-MM-DD"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/students/{id}/progress [get]
func (h *AdminHandler) StudentProgress(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid user id", fiber.StatusBadRequest, "admin.validation.input")
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Student %d not found", userID))
		}
		return serviceErrorResponse(c, err, "studentProgress")
	}

	now := time.Now().UTC()
	from, err := parseDateQuery(c, "from", now.AddDate(0, 0, -6))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "admin.validation.input")
	}
	to, err := parseDateQuery(c, "to", now)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "admin.validation.input")
	}

	report, err := services.AggregateProgress(h.DB, userID, from, to)
	if err != nil {
		return serviceErrorResponse(c, err, "studentProgress")
	}

	guidance := ""
	if report.Guidance != "" {
		guidance, err = services.RenderGuidance(report, user.RealName)
		if err != nil {
			return serviceErrorResponse(c, err, "studentProgress")
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"report":   report,
		"guidance": guidance,
	})
}

// StudentCalendar handles GET /api/admin/students/:id/calendar?from=...&to=...
// @Summary Calendar statuses for one student
// @Tags Admin
// @Produce json
// @Param id path int true "Student ID"
// @Param from query string true "Window start YYYY-MM-DD"
// @Param to query string true "Window end YYYY-MM-DD"
// @Success 200 {object} map[string]string
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/students/{id}/calendar [get]
func (h *AdminHandler) StudentCalendar(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid user id", fiber.StatusBadRequest, "admin.validation.input")
	}

	now := time.Now().UTC()
	from, err := parseDateQuery(c, "from", now.AddDate(0, -1, 0))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "admin.validation.input")
	}
	to, err := parseDateQuery(c, "to", now)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "admin.validation.input")
	}

	statuses, err := services.CalendarStatus(h.DB, userID, from, to)
	if err != nil {
		return serviceErrorResponse(c, err, "studentCalendar")
	}
	return c.Status(fiber.StatusOK).JSON(statuses)
}

// ExportCSV handles GET /api/admin/students/:id/export/csv?from=...&to=...
// @Summary Export a student's tasks as CSV
// @Tags Admin
// @Produce text/csv
// @Param id path int true "Student ID"
// @Param from query string true "Window start YYYY-MM-DD"
// @Param to query string true "Window end YYYY-MM-DD"
// @Success 200 {string} string
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/students/{id}/export/csv [get]
func (h *AdminHandler) ExportCSV(c *fiber.Ctx) error {
	userID, from, to, err := h.exportWindow(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "admin.validation.input")
	}

	data, err := services.ExportTasksCSV(h.DB, userID, from, to)
	if err != nil {
		return serviceErrorResponse(c, err, "exportCSV")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="tasks_%d_%s_%s.csv"`,
			userID, from.Format("2006-01-02"), to.Format("2006-01-02")))
	return c.Status(fiber.StatusOK).Send(data)
}

// ExportXLSX handles GET /api/admin/students/:id/export/xlsx?from=...&to=...
// @Summary Export a student's tasks and journal as a workbook
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path int true "Student ID"
// @Param from query string true "Window start YYYY-MM-DD"
// @Param to query string true "Window end YYYY-MM-DD"
// @Success 200 {string} string
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /admin/students/{id}/export/xlsx [get]
func (h *AdminHandler) ExportXLSX(c *fiber.Ctx) error {
	userID, from, to, err := h.exportWindow(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "admin.validation.input")
	}

	data, filename, err := services.ExportStudentXLSX(h.DB, userID, from, to)
	if err != nil {
		return serviceErrorResponse(c, err, "exportXLSX")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Status(fiber.StatusOK).Send(data)
}

func (h *AdminHandler) exportWindow(c *fiber.Ctx) (uint64, time.Time, time.Time, error) {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, time.Time{}, time.Time{}, fmt.Errorf("invalid user id")
	}
	now := time.Now().UTC()
	from, err := parseDateQuery(c, "from", now.AddDate(0, -1, 0))
	if err != nil {
		return 0, time.Time{}, time.Time{}, err
	}
	to, err := parseDateQuery(c, "to", now)
	if err != nil {
		return 0, time.Time{}, time.Time{}, err
	}
	return userID, from, to, nil
}
