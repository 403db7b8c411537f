package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// readyTimeout bounds one dependency check
const readyTimeout = 2 * time.Second

// Pinger checks that a backing store is reachable
type Pinger func(ctx context.Context) error

// Dependency is a named readiness check
type Dependency struct {
	Name string
	Ping Pinger
}

// SystemHandler handles liveness, readiness and build information
type SystemHandler struct {
	BaseHandler
	name         string
	version      string
	startTime    time.Time
	dependencies []Dependency
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string, dependencies ...Dependency) *SystemHandler {
	return &SystemHandler{
		name:         name,
		version:      version,
		startTime:    time.Now(),
		dependencies: dependencies,
	}
}

// HealthResponse represents the liveness response
// @name HandlerHealthResponse
type HealthResponse struct {
	Name      string `json:"name" example:"storefront"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
	Time      string `json:"time" example:"2026-01-23T12:00:00Z"`
}

// ReadyResponse lists the state of every dependency
// @name HandlerReadyResponse
type ReadyResponse struct {
	Ready        bool              `json:"ready" example:"true"`
	Dependencies map[string]string `json:"dependencies"`
}

// Health godoc
// @ID           health
// @Summary      Liveness probe
// @Description  Answers as long as the process serves HTTP
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, "healthy", HealthResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Time:      time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready godoc
// @ID           ready
// @Summary      Readiness probe
// @Description  Pings postgres, mongo and redis (when enabled)
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[ReadyResponse]
// @Failure      503 {object} APIResponse[ReadyResponse]
// @Router       /ready [get]
func (h *SystemHandler) Ready(c *gin.Context) {
	resp := ReadyResponse{Ready: true, Dependencies: make(map[string]string, len(h.dependencies))}

	for _, dep := range h.dependencies {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		err := dep.Ping(ctx)
		cancel()
		if err != nil {
			logger.L(c.Request.Context()).Warn("Readiness check failed",
				zap.String("dependency", dep.Name),
				zap.Error(err),
			)
			resp.Ready = false
			resp.Dependencies[dep.Name] = "error"
			continue
		}
		resp.Dependencies[dep.Name] = "ok"
	}

	if !resp.Ready {
		c.Set(logger.GinErrorCodeKey, dto.ErrCodeUnavailable)
		c.JSON(http.StatusServiceUnavailable, dto.Envelope{
			Message: "not ready",
			Status:  http.StatusServiceUnavailable,
			Code:    dto.ErrCodeUnavailable,
			Details: resp,
		})
		return
	}
	h.Success(c, "ready", resp)
}
