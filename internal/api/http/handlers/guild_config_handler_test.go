package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/guildkit/guild-api/internal/api/http"
	"github.com/guildkit/guild-api/internal/api/http/handlers"
	"github.com/guildkit/guild-api/internal/auth"
	"github.com/guildkit/guild-api/internal/config"
	"github.com/guildkit/guild-api/internal/events"
	"github.com/guildkit/guild-api/internal/observability"
	"github.com/guildkit/guild-api/internal/persistence"
	"github.com/guildkit/guild-api/internal/repository"
	"github.com/guildkit/guild-api/internal/service"
)

const testSecret = "handler-test-secret"

type testEnv struct {
	app    *fiber.App
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens := auth.NewTokenManager(testSecret, 60)
	configRepo := repository.NewMemoryGuildConfigRepository()
	configService := service.NewGuildConfigService(configRepo, events.NewInMemoryDispatcher())

	pg := &persistence.Postgres{}
	redis := &persistence.Redis{}
	discord := service.NewDiscordProvider(config.DiscordConfig{}, http.DefaultClient)
	authService := service.NewAuthService(config.AuthConfig{JWTSecret: testSecret, TokenTTLMinutes: 60}, discord, repository.NewUserRepository(nil), redis)

	metrics := observability.NewMetrics()
	errorHandlers := httptransport.NewErrorHandlers()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), metrics, errorHandlers, 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("guild-api-test", pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(repository.NewUserRepository(nil), repository.NewRoleRepository(nil)),
		Roles:          handlers.NewRolesHandler(repository.NewRoleRepository(nil)),
		GuildConfigs:   handlers.NewGuildConfigHandler(configService),
		AuthMiddleware: auth.NewMiddleware(tokens),
		Errors:         errorHandlers,
	})

	return &testEnv{app: app, tokens: tokens}
}

func (e *testEnv) request(t *testing.T, method, path, body string, authenticated bool) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authenticated {
		token, _, err := e.tokens.Generate(7)
		require.NoError(t, err)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := e.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestIndexRequiresNoAuth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodGet, "/", "", false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"status": "OK"}, decode(t, resp))
}

func TestGuildConfigRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete} {
		resp := env.request(t, method, "/guilds/42/config", "", false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, method)
		assert.Equal(t, "Bearer", resp.Header.Get(fiber.HeaderWWWAuthenticate), method)

		body := decode(t, resp)
		assert.Len(t, body, 2)
		assert.Equal(t, "Unauthorized", body["error"])
	}
}

func TestGuildConfigLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)

	// Create with an explicit verification type; stringy snowflake accepted.
	resp := env.request(t, http.MethodPost, "/guilds/42/config",
		`{"verification_type": "DISCORD_CAPTCHA", "muted_role_id": "500"}`, true)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode(t, resp)
	assert.Equal(t, float64(42), created["guild_id"])
	assert.Equal(t, "DISCORD_CAPTCHA", created["verification_type"])
	assert.Equal(t, float64(1.0), created["xp_multiplier"])
	assert.Equal(t, float64(500), created["muted_role_id"])

	// Duplicate create is a conflict at this surface.
	resp = env.request(t, http.MethodPost, "/guilds/42/config", `{}`, true)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Partial update touches only the supplied field.
	resp = env.request(t, http.MethodPatch, "/guilds/42/config", `{"xp_enabled": true}`, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode(t, resp)
	assert.Equal(t, true, updated["xp_enabled"])
	assert.Equal(t, "DISCORD_CAPTCHA", updated["verification_type"])

	// Fetch reflects the update.
	resp = env.request(t, http.MethodGet, "/guilds/42/config", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decode(t, resp)
	assert.Equal(t, true, fetched["xp_enabled"])

	// Delete returns the last snapshot.
	resp = env.request(t, http.MethodDelete, "/guilds/42/config", "", true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	deleted := decode(t, resp)
	assert.Equal(t, true, deleted["xp_enabled"])
	assert.Equal(t, "DISCORD_CAPTCHA", deleted["verification_type"])

	// Gone now.
	resp = env.request(t, http.MethodGet, "/guilds/42/config", "", true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	notFound := decode(t, resp)
	assert.Equal(t, "Not Found", notFound["error"])
	assert.Contains(t, notFound["message"], "42")
}

func TestCreateRejectsUnknownVerificationType(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPost, "/guilds/42/config",
		`{"verification_type": "EMAIL"}`, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "Bad Request", body["error"])
	assert.Contains(t, body["message"], "verification_type")

	// The rejected create persisted nothing.
	resp = env.request(t, http.MethodGet, "/guilds/42/config", "", true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateAbsentConfigIs404(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, http.MethodPatch, "/guilds/42/config", `{"xp_enabled": true}`, true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvalidGuildIDIs400(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/guilds/abc/config", "/guilds/-5/config", "/guilds/0/config"} {
		resp := env.request(t, http.MethodGet, path, "", true)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}
