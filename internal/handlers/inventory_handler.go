package handlers

import (
	"net/http"
	"strconv"

	"go-repair-ledger/internal/engine"

	"github.com/gin-gonic/gin"
)

// --- GET: Full stock list ---
func (h *Handler) GetItems(c *gin.Context) {
	items, err := h.Engine.Items(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// --- POST: Stock in a new item ---
func (h *Handler) AddItem(c *gin.Context) {
	var in engine.AddItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	id, err := h.Engine.AddItem(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// --- PUT: Edit quantity and prices ---
func (h *Handler) UpdateItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	var in struct {
		Quantity     int     `json:"quantity"`
		CostPrice    float64 `json:"cost_price"`
		SellingPrice float64 `json:"selling_price"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := h.Engine.UpdateItem(c.Request.Context(), id, in.Quantity, in.CostPrice, in.SellingPrice); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated"})
}

// --- DELETE: Remove an item ---
func (h *Handler) DeleteItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	if err := h.Engine.DeleteItem(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
}

// --- POST: Over-the-counter sale ---
// Fails with 409 when stock is short; this path never clamps.
func (h *Handler) SellItem(c *gin.Context) {
	var in struct {
		ItemID   int `json:"item_id"`
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := h.Engine.SellItem(c.Request.Context(), in.ItemID, in.Quantity); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sale recorded"})
}
