package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/openvlm/lens/internal/sysinfo"
)

type HealthResponse struct {
	Status      string           `json:"status"`
	ModelLoaded bool             `json:"model_loaded"`
	ModelName   string           `json:"model_name,omitempty"`
	Device      string           `json:"device,omitempty"`
	System      sysinfo.Snapshot `json:"system"`
	Timestamp   string           `json:"timestamp"`
}

func (s *Server) handleHealth(c *echo.Context) error {
	snap := sysinfo.Collect()
	s.log.Info("system info",
		"num_cpu", snap.NumCPU,
		"ram_used_pct", snap.UsedRAMPct,
		"load_1m", snap.Load1,
	)

	resp := HealthResponse{
		Status:      "healthy",
		ModelLoaded: s.gate != nil,
		System:      snap,
		Timestamp:   s.clock().Format(time.RFC3339),
	}
	if s.gate != nil {
		resp.ModelName = s.gate.ModelID()
		resp.Device = s.gate.Device()
	}
	return c.JSON(http.StatusOK, resp)
}
