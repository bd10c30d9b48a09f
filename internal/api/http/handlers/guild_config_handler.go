package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/guildkit/guild-api/internal/api/dto"
	"github.com/guildkit/guild-api/internal/auth"
	"github.com/guildkit/guild-api/internal/service"
	"github.com/guildkit/guild-api/pkg/util/errorutil"
)

// GuildConfigHandler exposes the guild-configuration aggregate.
type GuildConfigHandler struct {
	configs *service.GuildConfigService
}

// NewGuildConfigHandler constructs handler.
func NewGuildConfigHandler(configs *service.GuildConfigService) *GuildConfigHandler {
	return &GuildConfigHandler{configs: configs}
}

// Fetch handles GET /guilds/:guild_id/config.
func (h *GuildConfigHandler) Fetch(c *fiber.Ctx) error {
	guildID, err := parseGuildID(c)
	if err != nil {
		return err
	}

	cfg, err := h.configs.FetchOrFail(c.UserContext(), guildID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewGuildConfigResponse(*cfg))
}

// Create handles POST /guilds/:guild_id/config.
func (h *GuildConfigHandler) Create(c *fiber.Ctx) error {
	guildID, err := parseGuildID(c)
	if err != nil {
		return err
	}

	var req dto.GuildConfigCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewBadRequest("invalid payload")
	}

	created, err := h.configs.Create(c.UserContext(), req.ToDomain(guildID), actorID(c))
	if err != nil {
		return err
	}
	if created == nil {
		// The store treats a duplicate as a no-op; at this surface it's a
		// conflict for the caller to resolve.
		return errorutil.NewConflict(fmt.Sprintf("Guild with ID %d already has a configuration.", guildID))
	}
	return c.Status(http.StatusCreated).JSON(dto.NewGuildConfigResponse(*created))
}

// Update handles PATCH /guilds/:guild_id/config.
func (h *GuildConfigHandler) Update(c *fiber.Ctx) error {
	guildID, err := parseGuildID(c)
	if err != nil {
		return err
	}

	var req dto.GuildConfigUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewBadRequest("invalid payload")
	}

	updated, err := h.configs.Update(c.UserContext(), guildID, req.ToPatch(), actorID(c))
	if err != nil {
		return err
	}
	if updated == nil {
		return guildConfigNotFound(guildID)
	}
	return c.JSON(dto.NewGuildConfigResponse(*updated))
}

// Delete handles DELETE /guilds/:guild_id/config. Responds with the last
// known snapshot of the removed aggregate.
func (h *GuildConfigHandler) Delete(c *fiber.Ctx) error {
	guildID, err := parseGuildID(c)
	if err != nil {
		return err
	}

	deleted, err := h.configs.Delete(c.UserContext(), guildID, actorID(c))
	if err != nil {
		return err
	}
	if deleted == nil {
		return guildConfigNotFound(guildID)
	}
	return c.JSON(dto.NewGuildConfigResponse(*deleted))
}

func parseGuildID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("guild_id")
	guildID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || guildID <= 0 {
		return 0, errorutil.NewBadRequest(fmt.Sprintf("invalid guild id %q", raw))
	}
	return guildID, nil
}

func guildConfigNotFound(guildID int64) error {
	return errorutil.NewNotFound(
		fmt.Sprintf("Guild with ID %d doesn't exist or doesn't have a configuration.", guildID))
}

func actorID(c *fiber.Ctx) *int64 {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil
	}
	id := identity.SubjectID
	return &id
}
