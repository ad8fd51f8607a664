package session

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/eleven-am/insight-backend/internal/alerting"
	"github.com/eleven-am/insight-backend/internal/dto"
	"github.com/eleven-am/insight-backend/internal/shared"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	manager *Manager
	log     *slog.Logger
}

func NewHandler(manager *Manager, log *slog.Logger) *Handler {
	return &Handler{
		manager: manager,
		log:     log.With("handler", "session"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/start", h.Start)
	g.POST("/:id/pause", h.Pause)
	g.POST("/:id/resume", h.Resume)
	g.POST("/:id/end", h.End)
	g.GET("/:id/report", h.Report)
}

func (h *Handler) Create(c echo.Context) error {
	var req dto.CreateSessionRequest
	if err := c.Bind(&req); err != nil {
		return shared.NewAPIError("invalid_request", "invalid request body").
			WithDetails(err.Error()).
			ToHTTP(http.StatusBadRequest)
	}
	if req.PatientRef == "" {
		return shared.BadRequest("missing_patient_ref", "patient_ref is required")
	}

	sess := h.manager.Create(CreateParams{
		PatientRef: req.PatientRef,
		Consent:    req.Consent,
		Baselines: alerting.Baselines{
			BreathingBpm:  req.BaselineBreathingBpm,
			EyeContactPct: req.BaselineEyeContactPct,
		},
	})

	return c.JSON(http.StatusCreated, h.view(sess))
}

func (h *Handler) List(c echo.Context) error {
	infos := h.manager.List()
	resp := dto.SessionListResponse{
		Total:    len(infos),
		Sessions: make([]dto.SessionSummary, len(infos)),
	}
	for i, info := range infos {
		resp.Sessions[i] = dto.SessionSummary{
			ID:         info.ID,
			PatientRef: info.PatientRef,
			State:      string(info.State),
			ElapsedSec: info.ElapsedSec,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Get(c echo.Context) error {
	sess, ok := h.manager.Get(c.Param("id"))
	if !ok {
		return shared.NotFound("session_not_found", "session not found")
	}
	return c.JSON(http.StatusOK, h.view(sess))
}

func (h *Handler) Delete(c echo.Context) error {
	if !h.manager.Remove(c.Param("id")) {
		return shared.NotFound("session_not_found", "session not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Start(c echo.Context) error {
	sess, ok := h.manager.Get(c.Param("id"))
	if !ok {
		return shared.NotFound("session_not_found", "session not found")
	}

	if err := sess.Start(); err != nil {
		if errors.Is(err, ErrConsentRequired) {
			return shared.Conflict("consent_required", "session cannot start without consent")
		}
		return shared.InternalError("start_failed", err.Error())
	}
	return c.JSON(http.StatusOK, h.view(sess))
}

func (h *Handler) Pause(c echo.Context) error {
	sess, ok := h.manager.Get(c.Param("id"))
	if !ok {
		return shared.NotFound("session_not_found", "session not found")
	}
	sess.Pause()
	return c.JSON(http.StatusOK, h.view(sess))
}

func (h *Handler) Resume(c echo.Context) error {
	sess, ok := h.manager.Get(c.Param("id"))
	if !ok {
		return shared.NotFound("session_not_found", "session not found")
	}
	sess.Resume()
	return c.JSON(http.StatusOK, h.view(sess))
}

func (h *Handler) End(c echo.Context) error {
	sess, ok := h.manager.Get(c.Param("id"))
	if !ok {
		return shared.NotFound("session_not_found", "session not found")
	}

	rep, err := sess.End(c.Request().Context())
	if err != nil {
		if errors.Is(err, ErrNotStarted) {
			return shared.Conflict("not_started", "session has not started")
		}
		return shared.InternalError("end_failed", err.Error())
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) Report(c echo.Context) error {
	sess, ok := h.manager.Get(c.Param("id"))
	if !ok {
		return shared.NotFound("session_not_found", "session not found")
	}

	rep := sess.Report()
	if rep == nil {
		return shared.NotFound("report_not_ready", "report is available once the session has ended")
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *Handler) view(sess *Session) dto.SessionResponse {
	baselines := sess.Baselines()
	resp := dto.SessionResponse{
		ID:         sess.ID(),
		PatientRef: sess.PatientRef(),
		State:      string(sess.State()),
		ElapsedSec: sess.ElapsedSec(),
		Baselines: dto.Baselines{
			BreathingBpm:  baselines.BreathingBpm,
			EyeContactPct: baselines.EyeContactPct,
		},
		Alerts: make([]dto.Alert, 0),
	}

	for _, a := range sess.Alerts() {
		resp.Alerts = append(resp.Alerts, dto.Alert{
			Severity:  string(a.Severity),
			Message:   a.Message,
			Minute:    a.Minute,
			Timestamp: a.Timestamp,
		})
	}

	if latest, ok := sess.LatestSample(); ok {
		resp.LatestSample = &dto.MetricSample{
			ElapsedSec:       latest.ElapsedSec,
			EyeContactPct:    latest.EyeContactPct,
			GazeStabilityPct: latest.GazeStabilityPct,
			BreathingBpm:     latest.BreathingBpm,
			DominantEmotion:  latest.DominantEmotion,
		}
	}

	return resp
}
