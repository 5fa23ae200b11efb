package handlers

import (
	"net/http"

	"go-repair-ledger/internal/engine"

	"github.com/gin-gonic/gin"
)

// --- GET: Next free invoice number for the current year ---
func (h *Handler) GetNextInvoiceNumber(c *gin.Context) {
	n, err := h.Engine.NextInvoiceNumber(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice_id": n})
}

// --- POST: Record a full invoice (lines + stock adjustment + ledger debit) ---
func (h *Handler) RecordInvoice(c *gin.Context) {
	var in engine.RecordInvoiceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := h.Engine.RecordInvoice(c.Request.Context(), in); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invoice_id": in.InvoiceID})
}

// --- GET: An invoice's line items ---
func (h *Handler) GetInvoiceItems(c *gin.Context) {
	invoiceID := c.Param("id")

	items, err := h.Engine.InvoiceItems(c.Request.Context(), invoiceID)
	if err != nil {
		fail(c, err)
		return
	}

	total, err := h.Engine.InvoiceTotal(c.Request.Context(), invoiceID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice_id": invoiceID, "items": items, "grand_total": total})
}
