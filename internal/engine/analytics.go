package engine

import (
	"context"
	"fmt"
	"strings"

	"go-repair-ledger/internal/models"
	"go-repair-ledger/internal/store"
)

// AddExpense records one cash-out line and returns its id.
func (e *Engine) AddExpense(ctx context.Context, exp models.Expense) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if exp.Amount <= 0 {
		return 0, fmt.Errorf("%w: expense amount must be positive", ErrValidation)
	}
	if exp.Date == "" {
		exp.Date = e.today()
	}
	rows, err := e.store.ReadAll(ctx, store.Expenses)
	if err != nil {
		return 0, err
	}
	id, err := e.store.NextID(ctx, store.Expenses)
	if err != nil {
		return 0, err
	}
	exp.ID = id
	if err := e.store.WriteAll(ctx, store.Expenses, append(rows, exp.Row())); err != nil {
		return 0, err
	}
	return id, nil
}

// Expenses returns the cash-out lines for one date, or all of them when date
// is empty.
func (e *Engine) Expenses(ctx context.Context, date string) ([]models.Expense, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	expenses, err := e.loadExpenses(ctx)
	if err != nil {
		return nil, err
	}
	if date == "" {
		return expenses, nil
	}
	out := expenses[:0:0]
	for _, exp := range expenses {
		if exp.Date == date {
			out = append(out, exp)
		}
	}
	return out, nil
}

// DeleteExpense removes one cash-out line. Missing id is a no-op.
func (e *Engine) DeleteExpense(ctx context.Context, id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	expenses, err := e.loadExpenses(ctx)
	if err != nil {
		return err
	}
	kept := expenses[:0:0]
	for _, exp := range expenses {
		if exp.ID != id {
			kept = append(kept, exp)
		}
	}
	if len(kept) == len(expenses) {
		return nil
	}
	rows := make([]store.Row, 0, len(kept))
	for _, exp := range kept {
		rows = append(rows, exp.Row())
	}
	return e.store.WriteAll(ctx, store.Expenses, rows)
}

// CashFlow is one day's money movement: in from ledger credits, out from
// recorded expenses.
type CashFlow struct {
	Date    string  `json:"date"`
	CashIn  float64 `json:"cash_in"`
	CashOut float64 `json:"cash_out"`
	Net     float64 `json:"net"`
}

// DailyCashFlow sums ledger credits and expenses dated on the given day.
func (e *Engine) DailyCashFlow(ctx context.Context, date string) (CashFlow, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if date == "" {
		date = e.today()
	}
	cf := CashFlow{Date: date}

	entries, err := e.loadLedger(ctx)
	if err != nil {
		return cf, err
	}
	for _, entry := range entries {
		if entry.Date == date {
			cf.CashIn += entry.Credit
		}
	}

	expenses, err := e.loadExpenses(ctx)
	if err != nil {
		return cf, err
	}
	for _, exp := range expenses {
		if exp.Date == date {
			cf.CashOut += exp.Amount
		}
	}

	cf.Net = cf.CashIn - cf.CashOut
	return cf, nil
}

// RevenueReport summarizes delivered-job revenue overall and for the current
// month, with the service/parts split.
type RevenueReport struct {
	TotalRevenue float64 `json:"total_revenue"`
	MonthRevenue float64 `json:"month_revenue"`
	ServiceTotal float64 `json:"service_total"`
	PartsTotal   float64 `json:"parts_total"`
	JobsDone     int     `json:"jobs_done"`
}

// RevenueAnalytics walks delivered jobs once for the revenue report. The
// current month is keyed off completion dates ("2006-01" prefix).
func (e *Engine) RevenueAnalytics(ctx context.Context) (RevenueReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	jobs, err := e.loadRepairs(ctx)
	if err != nil {
		return RevenueReport{}, err
	}
	month := e.month()
	var rep RevenueReport
	for _, job := range jobs {
		if !job.Delivered() {
			continue
		}
		rep.JobsDone++
		rep.TotalRevenue += job.TotalCost
		rep.ServiceTotal += job.ServiceCost
		rep.PartsTotal += job.PartsCost
		if strings.HasPrefix(job.CompletionDate, month) {
			rep.MonthRevenue += job.TotalCost
		}
	}
	return rep, nil
}

// PartsVsLabor is the repair-revenue split between parts and service work.
type PartsVsLabor struct {
	PartsTotal   float64 `json:"parts_total"`
	ServiceTotal float64 `json:"service_total"`
	PartsShare   float64 `json:"parts_share"`
}

// PartsVsLaborSplit reports how delivered-job revenue divides between parts
// and labor. The share is 0 when there is no revenue at all.
func (e *Engine) PartsVsLaborSplit(ctx context.Context) (PartsVsLabor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	jobs, err := e.loadRepairs(ctx)
	if err != nil {
		return PartsVsLabor{}, err
	}
	var split PartsVsLabor
	for _, job := range jobs {
		if job.Delivered() {
			split.PartsTotal += job.PartsCost
			split.ServiceTotal += job.ServiceCost
		}
	}
	if total := split.PartsTotal + split.ServiceTotal; total > 0 {
		split.PartsShare = split.PartsTotal / total
	}
	return split, nil
}

// MonthlyRevenue sums the current month's income across both streams: sales
// rows dated this month plus repairs completed this month.
func (e *Engine) MonthlyRevenue(ctx context.Context) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	month := e.month()
	var total float64

	sales, err := e.loadSales(ctx)
	if err != nil {
		return 0, err
	}
	for _, sale := range sales {
		if strings.HasPrefix(sale.SaleDate, month) {
			total += sale.TotalAmount
		}
	}

	jobs, err := e.loadRepairs(ctx)
	if err != nil {
		return 0, err
	}
	for _, job := range jobs {
		if job.Delivered() && strings.HasPrefix(job.CompletionDate, month) {
			total += job.TotalCost
		}
	}
	return total, nil
}

func (e *Engine) loadExpenses(ctx context.Context) ([]models.Expense, error) {
	rows, err := e.store.ReadAll(ctx, store.Expenses)
	if err != nil {
		return nil, err
	}
	expenses := make([]models.Expense, 0, len(rows))
	for _, r := range rows {
		expenses = append(expenses, models.ExpenseFromRow(r))
	}
	return expenses, nil
}
