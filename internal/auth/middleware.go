package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/guildkit/guild-api/internal/domain"
	"github.com/guildkit/guild-api/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// Middleware resolves a verified identity for each inbound request before any
// handler runs. Absent credentials leave the request anonymous; whether a
// route tolerates anonymity is decided by the route-level RequireAuth guard.
type Middleware struct {
	tokens *TokenManager
}

// NewMiddleware constructs the gate.
func NewMiddleware(tokens *TokenManager) *Middleware {
	return &Middleware{tokens: tokens}
}

// Handle extracts and verifies the bearer token. A present-but-invalid token
// fails the whole request with 401 before the route handler executes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return errorutil.NewUnauthorized("invalid or expired token")
	}

	identity, err := m.tokens.Parse(parts[1])
	if err != nil {
		return errorutil.NewUnauthorized("invalid or expired token")
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// RequireAuth rejects anonymous access to a protected route.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return errorutil.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// IdentityFromContext retrieves the verified identity, if any.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}
