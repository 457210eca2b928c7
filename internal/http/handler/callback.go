package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docbridge/internal/model"
	"docbridge/internal/service"
)

// CallbackLiveness answers the editor's reachability probe. The editor expects
// the protocol envelope with error 0.
func CallbackLiveness() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(model.CallbackResponse{Error: 0})
	}
}

// Callback processes an editing-session notification for the addressed
// document. The response body always follows the editor's protocol envelope;
// the HTTP status distinguishes rejected requests (4xx) from failures on our
// side (5xx). tokenHeader names the request header carrying the signed token.
func Callback(svc service.CallbackService, tokenHeader string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, err := svc.HandleNotification(c.UserContext(), c.Params("key"), c.Body(), c.Get(tokenHeader))
		if err == nil {
			return c.JSON(resp)
		}

		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrAuthFailed):
			status = fiber.StatusForbidden
		case errors.Is(err, service.ErrInvalidInput):
			status = fiber.StatusBadRequest
		}

		if resp == nil {
			resp = &model.CallbackResponse{Error: 1, Message: "Invalid callback"}
		}
		return c.Status(status).JSON(resp)
	}
}
