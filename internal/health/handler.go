package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/eleven-am/insight-backend/internal/gateway"
	"github.com/eleven-am/insight-backend/internal/narrative"
	"github.com/eleven-am/insight-backend/internal/session"
	"github.com/labstack/echo/v4"
)

type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
)

type ComponentStatus struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type RuntimeStats struct {
	Goroutines    int    `json:"goroutines"`
	MemoryAllocMB uint64 `json:"memory_alloc_mb"`
	NumGC         uint32 `json:"num_gc"`
}

type Stats struct {
	Sessions    int          `json:"sessions"`
	Streams     int          `json:"streams"`
	Runtime     RuntimeStats `json:"runtime"`
}

type HealthResponse struct {
	Status        Status                     `json:"status"`
	Timestamp     time.Time                  `json:"timestamp"`
	UptimeSeconds int64                      `json:"uptime_seconds"`
	Stats         Stats                      `json:"stats"`
	Components    map[string]ComponentStatus `json:"components"`
}

type SessionsResponse struct {
	Total    int            `json:"total"`
	Sessions []session.Info `json:"sessions"`
}

type Handler struct {
	manager   *session.Manager
	hub       *gateway.Hub
	narrative *narrative.Client
	startTime time.Time
}

func NewHandler(manager *session.Manager, hub *gateway.Hub, gen *narrative.Client) *Handler {
	return &Handler{
		manager:   manager,
		hub:       hub,
		narrative: gen,
		startTime: time.Now(),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Liveness)
	e.GET("/health/ready", h.Readiness)
	e.GET("/health/sessions", h.Sessions)
}

func (h *Handler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Readiness never returns 503: the narrative collaborator is the only
// external dependency and losing it only degrades reports.
func (h *Handler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	components := map[string]ComponentStatus{
		"narrative": h.checkNarrative(ctx),
	}

	status := StatusHealthy
	for _, comp := range components {
		if comp.Status != StatusHealthy {
			status = StatusDegraded
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return c.JSON(http.StatusOK, HealthResponse{
		Status:        status,
		Timestamp:     time.Now().UTC(),
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		Stats: Stats{
			Sessions: h.manager.Count(),
			Streams:  h.hub.ConnCount(),
			Runtime: RuntimeStats{
				Goroutines:    runtime.NumGoroutine(),
				MemoryAllocMB: memStats.Alloc / 1024 / 1024,
				NumGC:         memStats.NumGC,
			},
		},
		Components: components,
	})
}

func (h *Handler) Sessions(c echo.Context) error {
	infos := h.manager.List()
	return c.JSON(http.StatusOK, SessionsResponse{
		Total:    len(infos),
		Sessions: infos,
	})
}

func (h *Handler) checkNarrative(ctx context.Context) ComponentStatus {
	start := time.Now()
	if h.narrative == nil {
		return ComponentStatus{
			Status:    StatusDegraded,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "narrative generator not configured",
		}
	}

	if err := h.narrative.Ping(ctx); err != nil {
		return ComponentStatus{
			Status:    StatusDegraded,
			LatencyMs: time.Since(start).Milliseconds(),
			Error:     "ping failed",
		}
	}

	return ComponentStatus{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}
