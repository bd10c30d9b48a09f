package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/guildkit/guild-api/internal/api/dto"
	"github.com/guildkit/guild-api/internal/domain"
	"github.com/guildkit/guild-api/internal/service"
	"github.com/guildkit/guild-api/pkg/util/errorutil"
)

// AuthHandler exposes the Discord OAuth login flow.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles GET /auth/discord: redirects to Discord's authorization page.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	url, err := h.auth.BeginLogin(c.UserContext())
	if err != nil {
		return err
	}
	return c.Redirect(url, fiber.StatusFound)
}

// Callback handles GET /auth/discord/callback: completes the code exchange
// and responds with a signed token.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return errorutil.NewBadRequest("code and state required")
	}

	user, token, expiresAt, err := h.auth.CompleteLogin(c.UserContext(), code, state)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user": dto.NewUserResponse(*user),
		"auth": dto.AuthResponse{Token: token, ExpiresAt: domain.Timestamp(expiresAt)},
	})
}
