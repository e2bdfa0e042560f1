package api

import (
	"time"

	"github.com/labstack/echo/v5"

	"github.com/openvlm/lens/internal/logger"
)

type Server struct {
	gate      *EngineGate
	log       logger.Logger
	clock     func() time.Time
	apiKey    string
	logBodies bool
}

type ServerConfig struct {
	// APIKey, when non-empty, enables bearer-token auth on the /v1 routes.
	APIKey string

	// LogBodies logs full request and response payloads at debug level.
	LogBodies bool

	Logger logger.Logger
}

func NewServer(gate *EngineGate, cfg ServerConfig) *Server {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	return &Server{
		gate:      gate,
		log:       log,
		clock:     time.Now,
		apiKey:    cfg.APIKey,
		logBodies: cfg.LogBodies,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/chat/completions", s.handleChatCompletions, s.requireAPIKey)
	e.GET("/v1/models", s.handleListModels, s.requireAPIKey)
	e.GET("/health", s.handleHealth)
}
