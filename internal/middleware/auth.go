package middleware

import (
	"github.com/fivealab/planner/internal/models"
	"github.com/fivealab/planner/internal/services"
	"github.com/fivealab/planner/internal/types"
	"github.com/gofiber/fiber/v2"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "planner_session"

// AuthAdmin validates that the request carries an admin session
func AuthAdmin(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, secret, []string{models.RoleAdmin}, "authorization.admin")
	}
}

// AuthUser validates that the request carries a student or admin session
func AuthUser(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, secret, []string{models.RoleStudent, models.RoleAdmin}, "authorization.user")
	}
}

// authorize performs the authorization check
func authorize(c *fiber.Ctx, secret string, roles []string, errorType string) error {
	token := c.Cookies(SessionCookie)
	if token == "" {
		return &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Session cookie \"" + SessionCookie + "\" not found",
			Type:    errorType,
		}
	}

	claims, err := services.ParseSessionToken(secret, token)
	if err != nil {
		return &types.CustomError{
			Code:    fiber.StatusUnauthorized,
			Message: "Invalid or expired session",
			Type:    errorType,
		}
	}

	allowed := false
	for _, r := range roles {
		if claims.Role == r {
			allowed = true
			break
		}
	}
	if !allowed {
		return &types.CustomError{
			Code:    fiber.StatusForbidden,
			Message: "Insufficient role for this resource",
			Type:    errorType,
		}
	}

	c.Locals("user", claims)

	return c.Next()
}

// SessionUser returns the claims stored by the auth middleware.
func SessionUser(c *fiber.Ctx) *services.SessionClaims {
	claims, _ := c.Locals("user").(*services.SessionClaims)
	return claims
}
