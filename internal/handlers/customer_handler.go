package handlers

import (
	"net/http"
	"strconv"

	"go-repair-ledger/internal/engine"
	"go-repair-ledger/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: All registered customers ---
func (h *Handler) GetCustomers(c *gin.Context) {
	customers, err := h.Engine.Customers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// --- POST: Register a customer, returns the generated code ---
func (h *Handler) AddCustomer(c *gin.Context) {
	var in engine.AddCustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	code, err := h.Engine.AddCustomer(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer_id": code})
}

// --- PUT: Edit a customer profile ---
func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	customer.ID = id

	if err := h.Engine.UpdateCustomer(c.Request.Context(), customer); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer updated"})
}

// --- DELETE: Remove the profile; ledger history stays ---
func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	if err := h.Engine.DeleteCustomer(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}

// --- GET: One party's net position ---
func (h *Handler) GetCustomerBalance(c *gin.Context) {
	party := c.Query("party")
	if party == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "party query parameter is required"})
		return
	}

	balance, err := h.Engine.CustomerBalance(c.Request.Context(), party)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"party": party, "balance": balance})
}
