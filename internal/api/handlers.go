// Package api exposes the chart engine over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/zapponejosh/bazi-api/internal/bazi"
	"github.com/zapponejosh/bazi-api/internal/calendar"
	"github.com/zapponejosh/bazi-api/internal/config"
)

// maxBodyBytes caps batch request bodies.
const maxBodyBytes = 1 << 20

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	engine *bazi.Engine
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(engine *bazi.Engine, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		engine: engine,
		cfg:    cfg,
		logger: logger,
	}
}

// BirthRequest is one birth as sent by a client.
type BirthRequest struct {
	Date   string `json:"date"`
	Time   string `json:"time,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// BatchRequest is the body of POST /api/v1/charts/batch.
type BatchRequest struct {
	Births []BirthRequest `json:"births"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]string{
		"status":   "healthy",
		"calendar": h.cfg.CalendarBackend,
	})
}

// GetChart handles GET /api/v1/charts?date=YYYY-MM-DD&time=HH:MM&gender=male
func (h *Handlers) GetChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	birth, err := calendar.ParseBirth(q.Get("date"), q.Get("time"), q.Get("gender"))
	if err != nil {
		h.writeInputError(w, r, err)
		return
	}

	WriteSuccess(w, h.engine.Calculate(ctx, birth))
}

// BatchCharts handles POST /api/v1/charts/batch
func (h *Handlers) BatchCharts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BatchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteBadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if len(req.Births) == 0 {
		WriteBadRequest(w, "At least one birth is required")
		return
	}
	if len(req.Births) > h.cfg.BatchLimit {
		WriteBadRequest(w, fmt.Sprintf("Too many births: %d (limit %d)", len(req.Births), h.cfg.BatchLimit))
		return
	}

	births := make([]calendar.Birth, len(req.Births))
	for i, b := range req.Births {
		birth, err := calendar.ParseBirth(b.Date, b.Time, b.Gender)
		if err != nil {
			h.writeInputError(w, r, fmt.Errorf("births[%d]: %w", i, err))
			return
		}
		births[i] = birth
	}

	readings, err := h.engine.CalculateBatch(ctx, births)
	if err != nil {
		h.logger.Warn("batch calculation interrupted",
			slog.Int("births", len(births)),
			slog.Any("error", err))
		WriteUnavailable(w, "Request deadline exceeded before all charts were calculated")
		return
	}

	WriteSuccess(w, readings)
}

// writeInputError reports validation failures as 400 and anything else as
// 500. Only ErrInvalidInput is expected from the engine boundary.
func (h *Handlers) writeInputError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, calendar.ErrInvalidInput) {
		WriteBadRequest(w, err.Error())
		return
	}
	h.logger.Error("unexpected input error",
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	WriteInternalError(w, "Failed to read birth")
}
