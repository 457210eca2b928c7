package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"docbridge/internal/demo"
)

// DemoStatus reports the state of the demo editor trial.
func DemoStatus(trial demo.Trial, enabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(demo.StatusAt(trial, enabled, time.Now()))
	}
}
