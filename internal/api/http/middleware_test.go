package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/guildkit/guild-api/internal/observability"
	"github.com/guildkit/guild-api/pkg/util/errorutil"
)

func newFaultyApp(t *testing.T, handlers *ErrorHandlers) (*fiber.App, *observability.Metrics) {
	t.Helper()
	metrics := observability.NewMetrics()

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), metrics, handlers, 0)

	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK"})
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return errorutil.NewNotFound("Guild with ID 42 doesn't exist or doesn't have a configuration.")
	})
	app.Get("/unauthorized", func(c *fiber.Ctx) error {
		return errorutil.NewUnauthorized("authentication required")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("nil map write")
	})
	app.Get("/surprise", func(c *fiber.Ctx) error {
		return io.ErrUnexpectedEOF
	})
	return app, metrics
}

func envelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestDeclaredFaultEnvelope(t *testing.T) {
	app, _ := newFaultyApp(t, NewErrorHandlers())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "application/json")

	body := envelope(t, resp)
	assert.Len(t, body, 2)
	assert.Equal(t, "Not Found", body["error"])
	assert.Equal(t, "Guild with ID 42 doesn't exist or doesn't have a configuration.", body["message"])
}

func TestPanicBecomesGeneric500(t *testing.T) {
	app, _ := newFaultyApp(t, NewErrorHandlers())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := envelope(t, resp)
	assert.Equal(t, "Internal Server Error", body["error"])
	assert.Equal(t, "Server got itself in trouble", body["message"])
}

func TestUnexpectedErrorNeverLeaksDetail(t *testing.T) {
	app, _ := newFaultyApp(t, NewErrorHandlers())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/surprise", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := envelope(t, resp)
	assert.Equal(t, "Server got itself in trouble", body["message"])
	assert.NotContains(t, body["message"], "EOF")
}

func TestRouteScopedCustomHandlerWins(t *testing.T) {
	handlers := NewErrorHandlers()
	handlers.Register("/unauthorized", http.StatusUnauthorized, func(c *fiber.Ctx, apiErr *errorutil.APIError) error {
		return WriteError(c, apiErr.WithHeader(fiber.HeaderWWWAuthenticate, "Bearer"))
	})
	app, _ := newFaultyApp(t, handlers)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/unauthorized", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get(fiber.HeaderWWWAuthenticate))

	body := envelope(t, resp)
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestLongestPrefixMatchPrefersScopedHandler(t *testing.T) {
	handlers := NewErrorHandlers()
	var rootHit, scopedHit bool
	handlers.Register("", http.StatusNotFound, func(c *fiber.Ctx, apiErr *errorutil.APIError) error {
		rootHit = true
		return WriteError(c, apiErr)
	})
	handlers.Register("/missing", http.StatusNotFound, func(c *fiber.Ctx, apiErr *errorutil.APIError) error {
		scopedHit = true
		return WriteError(c, apiErr)
	})
	app, _ := newFaultyApp(t, handlers)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)

	assert.True(t, scopedHit)
	assert.False(t, rootHit)
}

func TestMetricsRecordOutcomes(t *testing.T) {
	app, metrics := newFaultyApp(t, NewErrorHandlers())

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)

	assert.Equal(t, int64(1), metrics.RequestCount("/ok", http.MethodGet, http.StatusOK))
	assert.Equal(t, int64(1), metrics.RequestCount("/missing", http.MethodGet, http.StatusNotFound))
	assert.Equal(t, int64(1), metrics.ErrorCount("/missing", http.MethodGet, "Not Found"))
}
