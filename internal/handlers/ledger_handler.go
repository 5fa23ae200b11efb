package handlers

import (
	"net/http"
	"strconv"

	"go-repair-ledger/internal/models"

	"github.com/gin-gonic/gin"
)

// --- POST: Add a debit/credit line ---
func (h *Handler) AddLedgerEntry(c *gin.Context) {
	var entry models.LedgerEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	id, err := h.Engine.AddEntry(c.Request.Context(), entry)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// --- GET: One party's entries, (date, id) ascending ---
func (h *Handler) GetLedgerEntries(c *gin.Context) {
	party := c.Query("party")
	if party == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "party query parameter is required"})
		return
	}

	entries, err := h.Engine.Entries(c.Request.Context(), party)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// --- GET: Printable statement with running balance ---
func (h *Handler) GetStatement(c *gin.Context) {
	party := c.Query("party")
	if party == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "party query parameter is required"})
		return
	}

	st, err := h.Engine.Statement(c.Request.Context(), party)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// --- DELETE: Remove one ledger line ---
func (h *Handler) DeleteLedgerEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	if err := h.Engine.DeleteEntry(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// --- GET: Every known party name across ledger, repairs and customers ---
func (h *Handler) GetParties(c *gin.Context) {
	parties, err := h.Engine.Parties(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, parties)
}

// --- GET: Outstanding receivables, largest first ---
func (h *Handler) GetRecoveryList(c *gin.Context) {
	recovery, err := h.Engine.RecoveryList(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recovery)
}
