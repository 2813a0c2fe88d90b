package handlers

import (
	"errors"
	"time"

	"github.com/fivealab/planner/internal/config"
	"github.com/fivealab/planner/internal/middleware"
	"github.com/fivealab/planner/internal/services"
	"github.com/fivealab/planner/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthHandler handles signup, login and logout
type AuthHandler struct {
	DB  *gorm.DB
	Cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg}
}

type signupRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=32"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	RealName   string `json:"realName" validate:"required,max=64"`
	GroupLabel string `json:"groupLabel" validate:"max=64"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signup handles POST /api/auth/signup
// @Summary Register a new account
// @Description Creates an account in the pending state, awaiting admin approval
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body signupRequest true "Account details"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var body signupRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "auth.validation.input")
	}
	if err := validate.Struct(body); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "auth.validation.input")
	}

	user, err := services.Signup(h.DB, body.Username, body.Password, body.RealName, body.GroupLabel)
	if err != nil {
		return serviceErrorResponse(c, err, "signup")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":       true,
		"userId":   user.ID,
		"username": user.Username,
		"role":     user.Role,
	})
}

// Login handles POST /api/auth/login
// @Summary Log in
// @Description Verifies credentials and sets the session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "auth.validation.input")
	}
	if err := validate.Struct(body); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "auth.validation.input")
	}

	user, err := services.Authenticate(h.DB, body.Username, body.Password)
	if err != nil {
		if errors.Is(err, services.ErrAccountPending) {
			return utils.ErrorResponse(c, "Account is awaiting approval", fiber.StatusForbidden, "auth.pending")
		}
		if errors.Is(err, services.ErrInvalidCredentials) {
			return utils.ErrorResponse(c, "Invalid username or password", fiber.StatusUnauthorized, "auth.credentials")
		}
		return serviceErrorResponse(c, err, "login")
	}

	ttl := time.Duration(h.Cfg.SessionTTLMins) * time.Minute
	token, err := services.NewSessionToken(h.Cfg.JWTSecret, user.ID, user.Role, user.RealName, ttl)
	if err != nil {
		return serviceErrorResponse(c, err, "login")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":       true,
		"userId":   user.ID,
		"role":     user.Role,
		"realName": user.RealName,
	})
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Clears the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}
