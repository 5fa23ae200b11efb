package handlers

import (
	"net/http"

	"go-repair-ledger/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/reports/revenue ---
func (h *Handler) GetRevenueReport(c *gin.Context) {
	rep, err := h.Engine.RevenueAnalytics(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

// --- GET: /api/reports/parts-vs-labor ---
func (h *Handler) GetPartsVsLabor(c *gin.Context) {
	split, err := h.Engine.PartsVsLaborSplit(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, split)
}

// --- GET: /api/reports/monthly-revenue ---
func (h *Handler) GetMonthlyRevenue(c *gin.Context) {
	total, err := h.Engine.MonthlyRevenue(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"monthly_revenue": total})
}

// ValuationItem is one row of the stock valuation table.
type ValuationItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
	TotalCost float64 `json:"total_cost"`
}

// CategoryGroup is one category's items with a subtotal.
type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     float64         `json:"subtotal"`
}

// ValuationResponse is the full valuation report payload.
type ValuationResponse struct {
	Categories []CategoryGroup `json:"categories"`
	GrandTotal float64         `json:"grand_total"`
}

// --- GET: /api/reports/valuation ---
// Stock worth at cost price, grouped by category for the printable report.
func (h *Handler) GetStockValuation(c *gin.Context) {
	items, err := h.Engine.Items(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}

	var response ValuationResponse
	groupedMap := make(map[string]*CategoryGroup)
	var order []string

	for _, item := range items {
		catName := item.Category
		if catName == "" {
			catName = "Uncategorized"
		}
		group, exists := groupedMap[catName]
		if !exists {
			group = &CategoryGroup{CategoryName: catName}
			groupedMap[catName] = group
			order = append(order, catName)
		}

		itemTotal := float64(item.Quantity) * item.CostPrice
		group.Items = append(group.Items, ValuationItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			CostPrice: item.CostPrice,
			TotalCost: itemTotal,
		})
		group.Subtotal += itemTotal
		response.GrandTotal += itemTotal
	}

	for _, catName := range order {
		response.Categories = append(response.Categories, *groupedMap[catName])
	}
	c.JSON(http.StatusOK, response)
}

// --- GET: /api/reports/cashflow?date=2026-01-15 ---
// Defaults to today when no date is given.
func (h *Handler) GetDailyCashFlow(c *gin.Context) {
	cf, err := h.Engine.DailyCashFlow(c.Request.Context(), c.Query("date"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cf)
}

// --- POST: Record a cash-out line ---
func (h *Handler) AddExpense(c *gin.Context) {
	var exp models.Expense
	if err := c.ShouldBindJSON(&exp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	id, err := h.Engine.AddExpense(c.Request.Context(), exp)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// --- GET: Expenses, optionally filtered by date ---
func (h *Handler) GetExpenses(c *gin.Context) {
	expenses, err := h.Engine.Expenses(c.Request.Context(), c.Query("date"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}
