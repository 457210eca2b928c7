package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDLocalKey is the key the authenticated user's ID is stored under in
// Fiber's context locals. Empty/absent means anonymous.
const UserIDLocalKey = "user_id"

// UserID returns the authenticated user's ID, or "" for anonymous requests.
func UserID(c *fiber.Ctx) string {
	if v, ok := c.Locals(UserIDLocalKey).(string); ok {
		return v
	}
	return ""
}

// RequireAuth verifies the Bearer token issued by the content host and stores
// the subject user ID in context locals. Requests without a valid token are
// rejected with 401.
func RequireAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := parseBearer(c.Get(fiber.HeaderAuthorization), secret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or missing credentials")
		}
		c.Locals(UserIDLocalKey, userID)
		return c.Next()
	}
}

// OptionalAuth resolves the user ID when a valid Bearer token is present and
// lets anonymous requests through. Used for endpoints with a viewer fallback.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID, err := parseBearer(c.Get(fiber.HeaderAuthorization), secret); err == nil {
			c.Locals(UserIDLocalKey, userID)
		}
		return c.Next()
	}
}

func parseBearer(header, secret string) (string, error) {
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == "" || secret == "" {
		return "", fmt.Errorf("no credentials")
	}

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("subject claim missing")
	}
	return sub, nil
}
