package main

import (
	"context"
	"os"
	"time"

	"go-repair-ledger/internal/engine"
	"go-repair-ledger/internal/handlers"
	"go-repair-ledger/internal/middleware"
	"go-repair-ledger/internal/store"
	"go-repair-ledger/internal/store/gormstore"
	"go-repair-ledger/internal/store/sheetstore"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// openStore picks the backend from STORE_BACKEND: "gorm" (default, MySQL or
// sqlite), "sheets" (Google Sheets) or "memory" (dev only, nothing persists).
func openStore() (store.Store, error) {
	switch backend := os.Getenv("STORE_BACKEND"); backend {
	case "", "gorm":
		return gormstore.Open()
	case "sheets":
		return sheetstore.Open(context.Background())
	case "memory":
		log.Warn("memory backend selected, data will not survive a restart")
		return store.NewMemStore(), nil
	default:
		log.WithField("backend", backend).Warn("unknown STORE_BACKEND, falling back to gorm")
		return gormstore.Open()
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using environment as-is")
	}

	st, err := openStore()
	if err != nil {
		log.WithError(err).Fatal("storage backend failed to open")
	}

	eng := engine.New(st)
	h := handlers.New(eng, st)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", h.Login)
	r.GET("/api/system/status", h.GetSystemStatus)

	// Only opens if we explicitly allow it in .env, for first-run setup.
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", h.Register)
		log.Warn("registration route is OPEN, disable this in production")
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// Repair desk, open to staff and admin.
		api.GET("/repairs", h.GetJobs)
		api.GET("/repairs/active", h.GetActiveJobs)
		api.GET("/repairs/history", h.GetJobHistory)
		api.POST("/repairs", h.CreateJob)
		api.PUT("/repairs/:id", h.UpdateJob)
		api.POST("/repairs/:id/close", h.CloseJob)
		api.GET("/repairs/workload", h.GetWorkload)

		// Counter sales and stock lookups.
		api.GET("/inventory", h.GetItems)
		api.POST("/inventory/sell", h.SellItem)

		// Customer-facing bookkeeping.
		api.GET("/customers", h.GetCustomers)
		api.POST("/customers", h.AddCustomer)
		api.GET("/customers/balance", h.GetCustomerBalance)
		api.GET("/ledger", h.GetLedgerEntries)
		api.GET("/ledger/statement", h.GetStatement)
		api.POST("/ledger", h.AddLedgerEntry)
		api.GET("/ledger/parties", h.GetParties)

		// Invoicing.
		api.GET("/invoices/next-number", h.GetNextInvoiceNumber)
		api.POST("/invoices", h.RecordInvoice)
		api.GET("/invoices/:id", h.GetInvoiceItems)

		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", h.AskAI)

			admin.POST("/inventory", h.AddItem)
			admin.PUT("/inventory/:id", h.UpdateItem)
			admin.DELETE("/inventory/:id", h.DeleteItem)

			admin.PUT("/customers/:id", h.UpdateCustomer)
			admin.DELETE("/customers/:id", h.DeleteCustomer)
			admin.DELETE("/ledger/:id", h.DeleteLedgerEntry)
			admin.GET("/ledger/recovery", h.GetRecoveryList)

			admin.GET("/employees", h.GetEmployees)
			admin.GET("/employees/names", h.GetEmployeeNames)
			admin.POST("/employees", h.AddEmployee)
			admin.PUT("/employees/:id", h.UpdateEmployee)
			admin.DELETE("/employees/:id", h.DeleteEmployee)
			admin.GET("/payroll", h.GetPayroll)
			admin.POST("/payroll", h.AddPayrollEntry)
			admin.DELETE("/payroll/:id", h.DeletePayrollEntry)
			admin.DELETE("/payroll", h.DeletePayroll)

			admin.GET("/reports/performance", h.GetPerformance)
			admin.GET("/reports/revenue", h.GetRevenueReport)
			admin.GET("/reports/parts-vs-labor", h.GetPartsVsLabor)
			admin.GET("/reports/monthly-revenue", h.GetMonthlyRevenue)
			admin.GET("/reports/valuation", h.GetStockValuation)
			admin.GET("/reports/cashflow", h.GetDailyCashFlow)
			admin.POST("/expenses", h.AddExpense)
			admin.GET("/expenses", h.GetExpenses)
		}
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	log.WithField("url", baseURL).Info("server starting")
	if err := r.Run(":8080"); err != nil {
		log.WithError(err).Fatal("server failed to start")
	}
}
