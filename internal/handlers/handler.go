// Package handlers is the HTTP adapter over the engine. No business rules
// live here: handlers bind JSON, call the engine and translate its error
// taxonomy to status codes.
package handlers

import (
	"errors"
	"net/http"

	"go-repair-ledger/internal/engine"
	"go-repair-ledger/internal/store"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Handler carries the wired engine and raw store into the route functions.
type Handler struct {
	Engine *engine.Engine
	Store  store.Store
}

func New(e *engine.Engine, s store.Store) *Handler {
	return &Handler{Engine: e, Store: s}
}

// fail maps engine and store errors onto HTTP status codes.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case store.IsTransient(err):
		log.WithError(err).Warn("storage backend unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage backend is busy, try again"})
	default:
		log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
