package handlers

import (
	"strconv"
	"time"

	"github.com/fivealab/planner/internal/middleware"
	"github.com/fivealab/planner/internal/services"
	"github.com/fivealab/planner/internal/types"
	"github.com/fivealab/planner/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PlanHandler handles goal distribution, daily tasks and the calendar
type PlanHandler struct {
	DB *gorm.DB
}

// NewPlanHandler creates a new PlanHandler
func NewPlanHandler(db *gorm.DB) *PlanHandler {
	return &PlanHandler{DB: db}
}

type distributeRequest struct {
	Subject   string              `json:"subject" validate:"required,max=64"`
	Content   string              `json:"content" validate:"required,max=256"`
	StartUnit int                 `json:"startUnit" validate:"min=0"`
	EndUnit   int                 `json:"endUnit" validate:"min=0"`
	StartDate string              `json:"startDate" validate:"required"`
	EndDate   string              `json:"endDate" validate:"required"`
	Weekdays  types.FlexList[int] `json:"weekdays" validate:"required,min=1,dive,min=0,max=6"`
}

type taskRequest struct {
	Date    string `json:"date" validate:"required"`
	Subject string `json:"subject" validate:"required,max=64"`
	Content string `json:"content" validate:"required,max=256"`
}

type taskUpdateRequest struct {
	Subject *string `json:"subject" validate:"omitempty,max=64"`
	Content *string `json:"content" validate:"omitempty,max=256"`
}

type achievementRequest struct {
	Value int `json:"value"`
}

// Distribute handles POST /api/plans/distribute
// @Summary Distribute a goal across weekdays
// @Description Splits a unit range over the selected weekdays in a period and creates the daily tasks
// @Tags Plans
// @Accept json
// @Produce json
// @Param body body distributeRequest true "Goal and distribution window"
// @Success 201 {object} services.DistributeResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plans/distribute [post]
func (h *PlanHandler) Distribute(c *fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	var body distributeRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "plans.validation.input")
	}
	if err := validate.Struct(body); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "plans.validation.input")
	}

	start, err := parseDateField("startDate", body.StartDate)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "plans.validation.input")
	}
	end, err := parseDateField("endDate", body.EndDate)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "plans.validation.input")
	}

	result, err := services.Distribute(h.DB, services.DistributeInput{
		UserID:    userID,
		Subject:   body.Subject,
		Content:   body.Content,
		StartUnit: body.StartUnit,
		EndUnit:   body.EndUnit,
		StartDate: start,
		EndDate:   end,
		Weekdays:  body.Weekdays.Slice(),
	})
	if err != nil {
		return serviceErrorResponse(c, err, "distribute")
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// GetDay handles GET /api/plans/day?date=YYYY-MM-DD
// @Summary List tasks for one date
// @Tags Plans
// @Produce json
// @Param date query string false "Date, defaults to today"
// @Success 200 {array} models.DailyTask
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plans/day [get]
func (h *PlanHandler) GetDay(c *fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	date, err := parseDateQuery(c, "date", time.Now().UTC())
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "plans.validation.input")
	}

	tasks, err := services.TasksForDate(h.DB, userID, date)
	if err != nil {
		return serviceErrorResponse(c, err, "getDay")
	}

	return c.Status(fiber.StatusOK).JSON(tasks)
}

// CreateTask handles POST /api/plans/tasks
// @Summary Add a task for one date
// @Tags Plans
// @Accept json
// @Produce json
// @Param body body taskRequest true "Task"
// @Success 201 {object} models.DailyTask
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plans/tasks [post]
func (h *PlanHandler) CreateTask(c *fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	var body taskRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "plans.validation.input")
	}
	if err := validate.Struct(body); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "plans.validation.input")
	}
	date, err := parseDateField("date", body.Date)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "plans.validation.input")
	}

	task, err := services.CreateTask(h.DB, userID, date, body.Subject, body.Content)
	if err != nil {
		return serviceErrorResponse(c, err, "createTask")
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

// UpdateTask handles PUT /api/plans/tasks/:id
// @Summary Edit a task's subject or content
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param body body taskUpdateRequest true "Fields to change"
// @Success 200 {object} models.DailyTask
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plans/tasks/{id} [put]
func (h *PlanHandler) UpdateTask(c *fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	taskID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid task id", fiber.StatusBadRequest, "plans.validation.input")
	}

	var body taskUpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "plans.validation.input")
	}
	if err := validate.Struct(body); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "plans.validation.input")
	}

	task, err := services.UpdateTask(h.DB, userID, taskID, services.TaskUpdate{
		Subject: body.Subject,
		Content: body.Content,
	})
	if err != nil {
		return serviceErrorResponse(c, err, "updateTask")
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

// DeleteTask handles DELETE /api/plans/tasks/:id
// @Summary Delete a task
// @Tags Plans
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plans/tasks/{id} [delete]
func (h *PlanHandler) DeleteTask(c *fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	taskID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid task id", fiber.StatusBadRequest, "plans.validation.input")
	}

	if err := services.DeleteTask(h.DB, userID, taskID); err != nil {
		return serviceErrorResponse(c, err, "deleteTask")
	}

	return utils.MutationSuccessResponse(c, 1)
}

// SetAchievement handles PUT /api/plans/tasks/:id/achievement
// @Summary Record a task's completion percentage
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param body body achievementRequest true "Completion percentage 0-100"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plans/tasks/{id}/achievement [put]
func (h *PlanHandler) SetAchievement(c *fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	taskID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid task id", fiber.StatusBadRequest, "plans.validation.input")
	}

	var body achievementRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "plans.validation.input")
	}

	if err := services.SetAchievement(h.DB, userID, taskID, body.Value); err != nil {
		return serviceErrorResponse(c, err, "setAchievement")
	}

	return utils.MutationSuccessResponse(c, 1)
}

// Progress handles GET /api/plans/progress?from=...&to=...
// @Summary Progress report for the signed-in student
// @Description Per-subject averages, overall tier, consistency flags and guidance text
// @Tags Plans
// @Produce json
// @Param from query string true "Window start YYYY-MM-DD"
// @Param to query string true "Window end YYYY-MM-DD"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plans/progress [get]
func (h *PlanHandler) Progress(c *fiber.Ctx) error {
	claims := middleware.SessionUser(c)
	if claims == nil {
		return utils.ErrorResponse(c, "user not found in context", fiber.StatusForbidden, "authorization.user")
	}

	now := time.Now().UTC()
	from, err := parseDateQuery(c, "from", now.AddDate(0, 0, -6))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "plans.validation.input")
	}
	to, err := parseDateQuery(c, "to", now)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "plans.validation.input")
	}

	report, err := services.AggregateProgress(h.DB, claims.UserID, from, to)
	if err != nil {
		return serviceErrorResponse(c, err, "progress")
	}

	guidance := ""
	if report.Guidance != "" {
		guidance, err = services.RenderGuidance(report, claims.RealName)
		if err != nil {
			return serviceErrorResponse(c, err, "progress")
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"report":   report,
		"guidance": guidance,
	})
}

// Calendar handles GET /api/plans/calendar?from=...&to=...
// @Summary Tri-state calendar statuses for a window
// @Description Maps each date carrying tasks to done or planned; dates without tasks are omitted
// @Tags Plans
// @Produce json
// @Param from query string true "Window start YYYY-MM-DD"
// @Param to query string true "Window end YYYY-MM-DD"
// @Success 200 {object} map[string]string
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plans/calendar [get]
func (h *PlanHandler) Calendar(c *fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	now := time.Now().UTC()
	from, err := parseDateQuery(c, "from", now.AddDate(0, -1, 0))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "plans.validation.input")
	}
	to, err := parseDateQuery(c, "to", now)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "plans.validation.input")
	}

	statuses, err := services.CalendarStatus(h.DB, userID, from, to)
	if err != nil {
		return serviceErrorResponse(c, err, "calendar")
	}

	return c.Status(fiber.StatusOK).JSON(statuses)
}
