package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// HealthHandler handles HTTP health check requests
type HealthHandler struct {
	db     *gorm.DB
	logger zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(db *gorm.DB, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
	}
}

// ServeHTTP implements http.Handler interface
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	components := []ComponentHealth{h.checkDatabase(ctx)}

	status := HealthStatusHealthy
	statusCode := http.StatusOK
	for _, c := range components {
		if !c.Healthy {
			status = HealthStatusUnhealthy
			statusCode = http.StatusServiceUnavailable
		}
	}

	response := HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Components: components,
	}

	logEvent := h.logger.Debug()
	if status == HealthStatusUnhealthy {
		logEvent = h.logger.Warn()
	}
	logEvent.
		Str("status", string(status)).
		Int("status_code", statusCode).
		Msg("Health check completed")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode health check response")
	}
}

// checkDatabase pings PostgreSQL through the pooled connection
func (h *HealthHandler) checkDatabase(ctx context.Context) ComponentHealth {
	component := ComponentHealth{Name: "database", Healthy: true}

	sqlDB, err := h.db.DB()
	if err != nil {
		component.Healthy = false
		component.Message = "failed to access connection pool"
		return component
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		component.Healthy = false
		component.Message = "database ping failed"
	}
	return component
}
