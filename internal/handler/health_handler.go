package handler

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/voicereach/voicereach-backend/internal/metadata"
	"github.com/voicereach/voicereach-backend/internal/telephony"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db       *sql.DB
	meta     metadata.Store
	provider telephony.Provider
	logger   *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *sql.DB, meta metadata.Store, provider telephony.Provider, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:       db,
		meta:     meta,
		provider: provider,
		logger:   logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:   "healthy",
		Services: make(map[string]string),
	}

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("database health check failed", slog.String("error", err.Error()))
		response.Status = "unhealthy"
		response.Services["database"] = "unhealthy"
	} else {
		response.Services["database"] = "healthy"
	}

	if h.meta != nil {
		if err := h.meta.Health(ctx); err != nil {
			h.logger.Error("metadata store health check failed", slog.String("error", err.Error()))
			response.Status = "unhealthy"
			response.Services["metadata_store"] = "unhealthy"
		} else {
			response.Services["metadata_store"] = "healthy"
		}
	} else {
		response.Services["metadata_store"] = "not_configured"
	}

	// The provider check is informational: a degraded voice server should
	// not take the management API out of rotation.
	if h.provider != nil {
		if err := h.provider.HealthCheck(ctx); err != nil {
			h.logger.Warn("voice provider health check failed", slog.String("error", err.Error()))
			response.Services["voice_provider"] = "unhealthy"
		} else {
			response.Services["voice_provider"] = "healthy"
		}
	} else {
		response.Services["voice_provider"] = "not_configured"
	}

	if response.Status == "healthy" {
		respondSuccess(w, response)
	} else {
		respondJSON(w, http.StatusServiceUnavailable, response)
	}
}
