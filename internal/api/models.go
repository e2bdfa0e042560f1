package api

import (
	"net/http"

	"github.com/labstack/echo/v5"
)

// modelCreated matches the release timestamp the upstream service
// advertises for its model family.
const modelCreated int64 = 1709251200

func (s *Server) handleListModels(c *echo.Context) error {
	if s.gate == nil {
		return writeError(c, http.StatusInternalServerError, "server_error", "no engine configured", "", "")
	}
	id := s.gate.ModelID()

	card := ModelCard{
		ID:      id,
		Object:  "model",
		Created: modelCreated,
		OwnedBy: "local",
		Permission: []ModelPermission{
			{
				ID:            id,
				Created:       modelCreated,
				AllowSampling: true,
				AllowLogprobs: true,
				AllowView:     true,
				Organization:  "*",
			},
		},
		Capabilities: map[string]bool{
			"vision":          true,
			"chat":            true,
			"embeddings":      false,
			"text_completion": true,
		},
		ContextWindow: 131072,
		MaxTokens:     8192,
	}

	return c.JSON(http.StatusOK, ModelList{
		Object: "list",
		Data:   []ModelCard{card},
	})
}
