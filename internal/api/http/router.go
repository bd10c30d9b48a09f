package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/guildkit/guild-api/internal/api/http/handlers"
	"github.com/guildkit/guild-api/internal/auth"
	"github.com/guildkit/guild-api/pkg/util/errorutil"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Roles          *handlers.RolesHandler
	GuildConfigs   *handlers.GuildConfigHandler
	AuthMiddleware *auth.Middleware
	Errors         *ErrorHandlers
}

// RegisterRoutes wires the authenticator and HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	// Every 401 carries the challenge header, whatever route raised it.
	cfg.Errors.Register("", fiber.StatusUnauthorized, func(c *fiber.Ctx, apiErr *errorutil.APIError) error {
		return WriteError(c, apiErr.WithHeader(fiber.HeaderWWWAuthenticate, "Bearer"))
	})

	app.Use(cfg.AuthMiddleware.Handle)

	app.Get("/", cfg.Health.Index)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Get("/discord", cfg.Auth.Login)
	authGroup.Get("/discord/callback", cfg.Auth.Callback)

	users := app.Group("/users", auth.RequireAuth())
	users.Get("/@me", cfg.Users.Me)
	users.Put("/:member_id/roles/:role_id", cfg.Users.GrantRole)
	users.Delete("/:member_id/roles/:role_id", cfg.Users.RevokeRole)

	roles := app.Group("/roles", auth.RequireAuth())
	roles.Get("/", cfg.Roles.List)
	roles.Get("/:role_id", cfg.Roles.Get)

	guilds := app.Group("/guilds", auth.RequireAuth())
	guilds.Get("/:guild_id/config", cfg.GuildConfigs.Fetch)
	guilds.Post("/:guild_id/config", cfg.GuildConfigs.Create)
	guilds.Patch("/:guild_id/config", cfg.GuildConfigs.Update)
	guilds.Delete("/:guild_id/config", cfg.GuildConfigs.Delete)
}
