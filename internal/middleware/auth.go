package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/wardshift/backend/internal/models"
	"github.com/wardshift/backend/pkg/logger"
	"github.com/wardshift/backend/pkg/utils"
)

const (
	currentSessionKey = "currentSession"
	SessionCookieName = "token"
)

func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000,http://127.0.0.1:3000",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowCredentials: true,
	})
}

// SetSessionCookie writes the signed session credential. HTTP-only and
// strict same-site always; Secure only in production so local dev over
// plain HTTP keeps working.
func SetSessionCookie(c *fiber.Ctx, token string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(utils.TokenLifetime()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

func extractToken(c *fiber.Ctx) string {
	if cookie := c.Cookies(SessionCookieName); cookie != "" {
		return cookie
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
	if tokenString == authHeader {
		return ""
	}
	return tokenString
}

// RequireAuth gates every protected route. Verification is signature+expiry
// only; the claims are trusted without a user lookup until the token expires.
func RequireAuth(c *fiber.Ctx) error {
	tokenString := extractToken(c)
	if tokenString == "" {
		logger.Warn("session_missing", map[string]interface{}{
			"ip":   c.IP(),
			"path": c.Path(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
	}

	claims, err := utils.ValidateToken(tokenString)
	if err != nil {
		logger.Warn("session_invalid", map[string]interface{}{
			"ip":    c.IP(),
			"path":  c.Path(),
			"error": err.Error(),
		})
		ClearSessionCookie(c)
		return utils.Error(c, fiber.StatusUnauthorized, "invalid or expired session")
	}

	c.Locals(currentSessionKey, claims)
	c.Locals("userID", claims.UserID.String())
	return c.Next()
}

// RequireRole scopes a route group to one role. A valid session with the
// wrong role is not an error page situation: the response carries the
// caller's own home area so the client can send them there.
func RequireRole(role models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := GetCurrentSession(c)
		if session == nil {
			return utils.Error(c, fiber.StatusUnauthorized, "authentication required")
		}
		if session.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success":    false,
				"error":      "access denied",
				"redirectTo": session.Role.Home(),
			})
		}
		return c.Next()
	}
}

// RedirectAuthenticated sits on login/register. An already-authenticated
// caller is bounced to their role home instead of re-authenticating; a
// broken token is discarded and the request proceeds as anonymous.
func RedirectAuthenticated(c *fiber.Ctx) error {
	tokenString := extractToken(c)
	if tokenString == "" {
		return c.Next()
	}

	claims, err := utils.ValidateToken(tokenString)
	if err != nil {
		ClearSessionCookie(c)
		return c.Next()
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"redirectTo": claims.Role.Home(),
	})
}

func GetCurrentSession(c *fiber.Ctx) *utils.Claims {
	value := c.Locals(currentSessionKey)
	if value == nil {
		return nil
	}
	claims, ok := value.(*utils.Claims)
	if !ok {
		return nil
	}
	return claims
}
