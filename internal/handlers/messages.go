package handlers

import (
	"strconv"

	"github.com/fivealab/planner/internal/services"
	"github.com/fivealab/planner/internal/types"
	"github.com/fivealab/planner/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// MessageHandler handles messaging between students and admins
type MessageHandler struct {
	DB *gorm.DB
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(db *gorm.DB) *MessageHandler {
	return &MessageHandler{DB: db}
}

type sendMessageRequest struct {
	To   types.FlexUint64 `json:"to" validate:"required"`
	Body string           `json:"body" validate:"required,max=2000"`
}

// Send handles POST /api/messages
// @Summary Send a message to another user
// @Tags Messages
// @Accept json
// @Produce json
// @Param body body sendMessageRequest true "Recipient and text"
// @Success 201 {object} models.Message
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /messages [post]
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	var body sendMessageRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "messages.validation.input")
	}
	if err := validate.Struct(body); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "messages.validation.input")
	}

	msg, err := services.SendMessage(h.DB, userID, body.To.Uint64(), body.Body)
	if err != nil {
		return serviceErrorResponse(c, err, "sendMessage")
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// Conversation handles GET /api/messages/:userId
// @Summary Get the conversation with another user
// @Description Returns both directions of traffic in chronological order
// @Tags Messages
// @Produce json
// @Param userId path int true "Other user ID"
// @Success 200 {array} models.Message
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /messages/{userId} [get]
func (h *MessageHandler) Conversation(c *fiber.Ctx) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, "authorization.user")
	}

	otherID, err := strconv.ParseUint(c.Params("userId"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid user id", fiber.StatusBadRequest, "messages.validation.input")
	}

	msgs, err := services.Conversation(h.DB, userID, otherID)
	if err != nil {
		return serviceErrorResponse(c, err, "conversation")
	}

	return c.Status(fiber.StatusOK).JSON(msgs)
}
