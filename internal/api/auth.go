package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"
)

// requireAPIKey enforces bearer-token auth on the OpenAI-compatible
// routes when an API key is configured. With no key configured the
// middleware is a pass-through.
func (s *Server) requireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		if s.apiKey == "" {
			return next(c)
		}
		header := c.Request().Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return writeError(c, http.StatusUnauthorized, "authentication_error", "invalid or missing API key", "", "")
		}
		token := strings.TrimPrefix(header, prefix)
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.apiKey)) != 1 {
			return writeError(c, http.StatusUnauthorized, "authentication_error", "invalid or missing API key", "", "")
		}
		return next(c)
	}
}
