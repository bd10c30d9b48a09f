package http

import (
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"

	"github.com/guildkit/guild-api/pkg/util/errorutil"
)

// ErrorHandlerFunc renders a translated fault. Returning an error falls back
// to the default envelope.
type ErrorHandlerFunc func(c *fiber.Ctx, apiErr *errorutil.APIError) error

// ErrorHandlers is a registry of route-scoped custom fault renderers, looked
// up by longest matching path prefix and status code before the default
// envelope is emitted.
type ErrorHandlers struct {
	mu       sync.RWMutex
	byPrefix map[string]map[int]ErrorHandlerFunc
}

// NewErrorHandlers creates an empty registry.
func NewErrorHandlers() *ErrorHandlers {
	return &ErrorHandlers{byPrefix: make(map[string]map[int]ErrorHandlerFunc)}
}

// Register installs a handler for faults with the given status raised under
// the path prefix. An empty prefix matches every route.
func (h *ErrorHandlers) Register(pathPrefix string, status int, fn ErrorHandlerFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.byPrefix[pathPrefix] == nil {
		h.byPrefix[pathPrefix] = make(map[int]ErrorHandlerFunc)
	}
	h.byPrefix[pathPrefix][status] = fn
}

func (h *ErrorHandlers) find(path string, status int) ErrorHandlerFunc {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	var best ErrorHandlerFunc
	bestLen := -1
	for prefix, byStatus := range h.byPrefix {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		if fn, ok := byStatus[status]; ok && len(prefix) > bestLen {
			best = fn
			bestLen = len(prefix)
		}
	}
	return best
}

// WriteError emits the uniform JSON error envelope, preserving any headers
// the fault carries.
func WriteError(c *fiber.Ctx, apiErr *errorutil.APIError) error {
	for key, value := range apiErr.Headers {
		c.Set(key, value)
	}
	c.Status(apiErr.HTTPStatus)
	return c.JSON(fiber.Map{
		"error":   apiErr.Name,
		"message": apiErr.Message,
	})
}
