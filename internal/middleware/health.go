package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status      string    `json:"status"`
	Database    string    `json:"database"`
	LastChecked time.Time `json:"last_checked"`
	Uptime      string    `json:"uptime"`
	Version     string    `json:"version"`
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthCheck answers from a short cache so probes do not hammer the database.
type HealthCheck struct {
	db       Pinger
	version  string
	started  time.Time
	cacheFor time.Duration
	now      func() time.Time

	mu     sync.Mutex
	last   HealthStatus
	cached time.Time
}

func NewHealthCheck(db Pinger, version string) *HealthCheck {
	now := time.Now
	return &HealthCheck{
		db:       db,
		version:  version,
		started:  now(),
		cacheFor: 5 * time.Second,
		now:      now,
	}
}

func (h *HealthCheck) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := h.check(c.Request.Context())
		code := http.StatusOK
		if status.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	}
}

func (h *HealthCheck) check(ctx context.Context) HealthStatus {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if !h.cached.IsZero() && now.Sub(h.cached) < h.cacheFor {
		return h.last
	}

	status := HealthStatus{
		Status:      "ok",
		Database:    "ok",
		LastChecked: now,
		Uptime:      now.Sub(h.started).Round(time.Second).String(),
		Version:     h.version,
	}

	if h.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(pingCtx); err != nil {
			status.Status = "degraded"
			status.Database = "unreachable"
		}
	}

	h.last = status
	h.cached = now
	return status
}
