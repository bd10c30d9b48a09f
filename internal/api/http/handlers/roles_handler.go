package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/guildkit/guild-api/internal/api/dto"
	"github.com/guildkit/guild-api/internal/repository"
	"github.com/guildkit/guild-api/pkg/util/errorutil"
)

// RolesHandler exposes role records.
type RolesHandler struct {
	roles repository.RoleRepository
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roles repository.RoleRepository) *RolesHandler {
	return &RolesHandler{roles: roles}
}

// List handles GET /roles.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	roles, err := h.roles.List(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, dto.NewRoleResponse(role))
	}
	return c.JSON(fiber.Map{"roles": out})
}

// Get handles GET /roles/:role_id.
func (h *RolesHandler) Get(c *fiber.Ctx) error {
	roleID, err := strconv.ParseInt(c.Params("role_id"), 10, 64)
	if err != nil {
		return errorutil.NewBadRequest("invalid role id")
	}

	role, err := h.roles.GetByID(c.UserContext(), roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return errorutil.NewNotFound(fmt.Sprintf("Role with ID %d doesn't exist.", roleID))
	}
	return c.JSON(dto.NewRoleResponse(*role))
}
