package persistence

import (
	"net/http"
	"time"
)

// NewHTTPClient builds the process-wide outbound HTTP client. It is created
// once at startup and shared read-only by everything that makes outbound
// calls (OAuth exchange, webhook notifications) for the process lifetime.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 15 * time.Second,
	}
}
