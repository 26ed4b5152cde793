package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/barefootnomad/backend/internal/transport"
)

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus `json:"status"`
	Message    string       `json:"message,omitempty"`
	CheckedAt  time.Time    `json:"checked_at"`
	DurationMs int64        `json:"duration_ms"`
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	*transport.BaseHandler
	db Pinger
}

func NewHealthHandler(base *transport.BaseHandler, db Pinger) *HealthHandler {
	return &HealthHandler{BaseHandler: base, db: db}
}

// Ping says the process is up.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	h.WriteSuccess(w, http.StatusOK, map[string]string{"message": "pong"})
}

// Health checks the database connection.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	start := time.Now()
	entry := CheckEntry{Status: HealthHealthy}
	if h.db == nil {
		entry.Status = HealthUnhealthy
		entry.Message = "database not configured"
	} else if err := h.db.PingContext(ctx); err != nil {
		entry.Status = HealthUnhealthy
		entry.Message = "database unreachable"
		h.Logger.Warn("health check failed", "error", err)
	}
	entry.CheckedAt = time.Now()
	entry.DurationMs = time.Since(start).Milliseconds()

	resp := HealthResponse{
		Status:     entry.Status,
		CheckedAt:  entry.CheckedAt,
		Components: map[string]CheckEntry{"database": entry},
	}

	if entry.Status == HealthUnhealthy {
		h.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": transport.StatusFail,
			"error":  transport.ErrorBody{Message: "service unavailable"},
			"data":   resp,
		})
		return
	}
	h.WriteSuccess(w, http.StatusOK, resp)
}
