package handler

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

// formatsJSON describes the file formats supported by the editor: per
// extension, its document type, the editor actions it supports, and the
// formats it can be converted to.
//
//go:embed formats.json
var formatsJSON []byte

// Formats serves the supported-format catalog.
func Formats() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(formatsJSON)
	}
}
