package handler

import (
	"github.com/gofiber/fiber/v2"

	"docbridge/internal/service"
)

type convertRequest struct {
	Key        string `json:"document_key"`
	OutputType string `json:"target_format"`
}

// ConvertDocument asks the editor's conversion endpoint to render the
// document in another format and returns the resulting download link.
func ConvertDocument(svc service.ConversionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req convertRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		if req.Key == "" || req.OutputType == "" {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "document_key and target_format are required")
		}

		res, err := svc.Convert(c.UserContext(), req.Key, req.OutputType)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
