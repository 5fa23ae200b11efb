package handlers

import (
	"net/http"
	"os"
	"time"

	"go-repair-ledger/internal/store"

	"github.com/gin-gonic/gin"
)

// GetSystemStatus probes the storage backend with a cheap read so the
// dashboard can show whether the books are reachable.
func (h *Handler) GetSystemStatus(c *gin.Context) {
	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = "gorm"
	}

	start := time.Now()
	_, err := h.Store.ReadAll(c.Request.Context(), store.Users)
	latency := time.Since(start)

	if err != nil {
		status := http.StatusInternalServerError
		if store.IsTransient(err) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"backend": backend,
			"healthy": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"backend":    backend,
		"healthy":    true,
		"latency_ms": latency.Milliseconds(),
	})
}
