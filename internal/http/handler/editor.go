package handler

import (
	"github.com/gofiber/fiber/v2"

	"docbridge/internal/http/middleware"
	"docbridge/internal/service"
)

// EditorSession builds the per-session editor configuration for a document.
// Anonymous requests get a read-only config.
func EditorSession(svc service.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		envelope, err := svc.BuildConfig(c.UserContext(), c.Params("key"), middleware.UserID(c))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(envelope)
	}
}
