package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/guildkit/guild-api/internal/api/dto"
	"github.com/guildkit/guild-api/internal/auth"
	"github.com/guildkit/guild-api/internal/repository"
	"github.com/guildkit/guild-api/pkg/util/errorutil"
)

// UsersHandler exposes user records and member role grants.
type UsersHandler struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users repository.UserRepository, roles repository.RoleRepository) *UsersHandler {
	return &UsersHandler{users: users, roles: roles}
}

// Me handles GET /users/@me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	identity, _ := auth.IdentityFromContext(c)

	user, err := h.users.GetByID(c.UserContext(), identity.SubjectID)
	if err != nil {
		return err
	}
	if user == nil {
		return errorutil.NewNotFound(fmt.Sprintf("User with ID %d doesn't exist.", identity.SubjectID))
	}
	return c.JSON(dto.NewUserResponse(*user))
}

// GrantRole handles PUT /users/:member_id/roles/:role_id.
func (h *UsersHandler) GrantRole(c *fiber.Ctx) error {
	memberID, roleID, err := parseMemberRole(c)
	if err != nil {
		return err
	}

	if err := h.roles.GrantToMember(c.UserContext(), roleID, memberID, actorID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RevokeRole handles DELETE /users/:member_id/roles/:role_id.
func (h *UsersHandler) RevokeRole(c *fiber.Ctx) error {
	memberID, roleID, err := parseMemberRole(c)
	if err != nil {
		return err
	}

	if err := h.roles.RevokeFromMember(c.UserContext(), roleID, memberID, actorID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseMemberRole(c *fiber.Ctx) (memberID, roleID int64, err error) {
	memberID, err = strconv.ParseInt(c.Params("member_id"), 10, 64)
	if err != nil {
		return 0, 0, errorutil.NewBadRequest("invalid member id")
	}
	roleID, err = strconv.ParseInt(c.Params("role_id"), 10, 64)
	if err != nil {
		return 0, 0, errorutil.NewBadRequest("invalid role id")
	}
	return memberID, roleID, nil
}
