package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger checks the database connection.
type Pinger func(ctx context.Context) error

type Handler struct {
	ping    Pinger
	version string
	started time.Time
}

func NewHandler(ping Pinger, version string) *Handler {
	return &Handler{ping: ping, version: version, started: time.Now()}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.Check)
}

// Check answers 200 when the database responds and 503 otherwise.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, db, code := "ok", "up", http.StatusOK
	if err := h.ping(ctx); err != nil {
		_ = c.Error(err)
		status, db, code = "error", "down", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Seconds(),
		"version":   h.version,
		"database":  db,
	})
}
