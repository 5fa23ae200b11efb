package handlers

import (
	"net/http"
	"strconv"

	"go-repair-ledger/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: All staff profiles ---
func (h *Handler) GetEmployees(c *gin.Context) {
	employees, err := h.Engine.Employees(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, employees)
}

// --- POST: Register a staff profile ---
func (h *Handler) AddEmployee(c *gin.Context) {
	var emp models.Employee
	if err := c.ShouldBindJSON(&emp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	id, err := h.Engine.AddEmployee(c.Request.Context(), emp)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// --- PUT: Edit a staff profile ---
func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee ID"})
		return
	}

	var emp models.Employee
	if err := c.ShouldBindJSON(&emp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	emp.ID = id

	if err := h.Engine.UpdateEmployee(c.Request.Context(), emp); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee updated"})
}

// --- DELETE: Remove a profile; payroll ledger keeps the name ---
func (h *Handler) DeleteEmployee(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee ID"})
		return
	}

	if err := h.Engine.DeleteEmployee(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Employee deleted"})
}

// --- GET: Names only, for assignment dropdowns ---
func (h *Handler) GetEmployeeNames(c *gin.Context) {
	names, err := h.Engine.EmployeeNames(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// --- POST: Payroll line (work earned or payment made) ---
func (h *Handler) AddPayrollEntry(c *gin.Context) {
	var entry models.EmployeeLedgerEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	id, err := h.Engine.AddEmployeeLedgerEntry(c.Request.Context(), entry)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// --- GET: One employee's payroll ledger with running balance ---
func (h *Handler) GetPayroll(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}

	lines, err := h.Engine.EmployeeLedger(c.Request.Context(), name)
	if err != nil {
		fail(c, err)
		return
	}

	balance, err := h.Engine.EmployeeBalance(c.Request.Context(), name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "lines": lines, "balance": balance})
}

// --- DELETE: One payroll line ---
func (h *Handler) DeletePayrollEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	if err := h.Engine.DeleteEmployeeLedgerEntry(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// --- DELETE: Wipe one employee's whole payroll history ---
func (h *Handler) DeletePayroll(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}

	if err := h.Engine.DeleteEmployeeLedger(c.Request.Context(), name); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payroll history deleted"})
}
