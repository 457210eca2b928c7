package handler

import (
	"github.com/gofiber/fiber/v2"

	"docbridge/internal/http/middleware"
	"docbridge/internal/model"
	"docbridge/internal/service"
)

type permissionRequest struct {
	UserID string `json:"user_id"`
	Type   string `json:"permission_type"`
}

// ListPermissions returns the grants on a document together with the granted
// users' display data.
func ListPermissions(svc service.PermissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		grants, err := svc.List(c.UserContext(), c.Params("key"), middleware.UserID(c), c.Query("post_id"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": grants})
	}
}

// CreatePermission grants a user access to a document.
func CreatePermission(svc service.PermissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req permissionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		perm, err := svc.Create(c.UserContext(), c.Params("key"), middleware.UserID(c), c.Query("post_id"), req.UserID, model.PermissionType(req.Type))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(perm)
	}
}

// UpdatePermission changes the access level of an existing grant.
func UpdatePermission(svc service.PermissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req permissionRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		if err := svc.Update(c.UserContext(), c.Params("key"), middleware.UserID(c), c.Query("post_id"), c.Params("id"), model.PermissionType(req.Type)); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DeletePermission revokes a grant.
func DeletePermission(svc service.PermissionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Delete(c.UserContext(), c.Params("key"), middleware.UserID(c), c.Query("post_id"), c.Params("id")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
