package engine

import (
	"context"
	"fmt"
	"sort"

	"go-repair-ledger/internal/models"
	"go-repair-ledger/internal/store"
)

// AddEmployee registers a staff profile and returns its id.
func (e *Engine) AddEmployee(ctx context.Context, emp models.Employee) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if emp.Name == "" {
		return 0, fmt.Errorf("%w: employee name is required", ErrValidation)
	}
	employees, err := e.loadEmployees(ctx)
	if err != nil {
		return 0, err
	}
	id, err := e.store.NextID(ctx, store.Employees)
	if err != nil {
		return 0, err
	}
	emp.ID = id
	employees = append(employees, emp)
	if err := e.saveEmployees(ctx, employees); err != nil {
		return 0, err
	}
	return id, nil
}

// Employees returns every staff profile.
func (e *Engine) Employees(ctx context.Context) ([]models.Employee, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadEmployees(ctx)
}

// EmployeeNames feeds job assignment dropdowns and the payroll party list.
func (e *Engine) EmployeeNames(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	employees, err := e.loadEmployees(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(employees))
	for _, emp := range employees {
		if emp.Name != "" {
			names = append(names, emp.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// UpdateEmployee edits a profile in place. Missing id is a no-op.
func (e *Engine) UpdateEmployee(ctx context.Context, emp models.Employee) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if emp.Name == "" {
		return fmt.Errorf("%w: employee name is required", ErrValidation)
	}
	employees, err := e.loadEmployees(ctx)
	if err != nil {
		return err
	}
	for i, cur := range employees {
		if cur.ID == emp.ID {
			employees[i] = emp
			return e.saveEmployees(ctx, employees)
		}
	}
	return nil
}

// DeleteEmployee removes the profile only; the payroll ledger keeps the name.
func (e *Engine) DeleteEmployee(ctx context.Context, id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	employees, err := e.loadEmployees(ctx)
	if err != nil {
		return err
	}
	kept := employees[:0:0]
	for _, emp := range employees {
		if emp.ID != id {
			kept = append(kept, emp)
		}
	}
	if len(kept) == len(employees) {
		return nil
	}
	return e.saveEmployees(ctx, kept)
}

// PayrollLine is one payroll ledger entry with the running balance after it.
// Positive balance means the shop owes the employee.
type PayrollLine struct {
	models.EmployeeLedgerEntry
	Balance float64 `json:"balance"`
}

// AddEmployeeLedgerEntry posts one earned/paid line and returns its id.
func (e *Engine) AddEmployeeLedgerEntry(ctx context.Context, entry models.EmployeeLedgerEntry) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if entry.EmployeeName == "" {
		return 0, fmt.Errorf("%w: employee name is required", ErrValidation)
	}
	if entry.Earned < 0 || entry.Paid < 0 {
		return 0, fmt.Errorf("%w: earned and paid cannot be negative", ErrValidation)
	}
	rows, err := e.store.ReadAll(ctx, store.EmployeeLedger)
	if err != nil {
		return 0, err
	}
	id, err := e.store.NextID(ctx, store.EmployeeLedger)
	if err != nil {
		return 0, err
	}
	entry.ID = id
	if entry.Date == "" {
		entry.Date = e.today()
	}
	if err := e.store.WriteAll(ctx, store.EmployeeLedger, append(rows, entry.Row())); err != nil {
		return 0, err
	}
	return id, nil
}

// EmployeeLedger returns one employee's entries in (date, id) order with a
// prefix-sum running balance of earned minus paid.
func (e *Engine) EmployeeLedger(ctx context.Context, name string) ([]PayrollLine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.loadEmployeeLedger(ctx)
	if err != nil {
		return nil, err
	}
	balance := 0.0
	var lines []PayrollLine
	for _, entry := range employeeEntries(entries, name) {
		balance += entry.Earned - entry.Paid
		lines = append(lines, PayrollLine{EmployeeLedgerEntry: entry, Balance: balance})
	}
	return lines, nil
}

// EmployeeBalance is cumulative earned minus cumulative paid.
func (e *Engine) EmployeeBalance(ctx context.Context, name string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.loadEmployeeLedger(ctx)
	if err != nil {
		return 0, err
	}
	balance := 0.0
	for _, entry := range entries {
		if entry.EmployeeName == name {
			balance += entry.Earned - entry.Paid
		}
	}
	return balance, nil
}

// DeleteEmployeeLedgerEntry removes one payroll line. Missing id is a no-op.
func (e *Engine) DeleteEmployeeLedgerEntry(ctx context.Context, id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.loadEmployeeLedger(ctx)
	if err != nil {
		return err
	}
	kept := entries[:0:0]
	for _, entry := range entries {
		if entry.ID != id {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return e.saveEmployeeLedger(ctx, kept)
}

// DeleteEmployeeLedger wipes an employee's whole payroll history.
func (e *Engine) DeleteEmployeeLedger(ctx context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.loadEmployeeLedger(ctx)
	if err != nil {
		return err
	}
	kept := entries[:0:0]
	for _, entry := range entries {
		if entry.EmployeeName != name {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return e.saveEmployeeLedger(ctx, kept)
}

func employeeEntries(entries []models.EmployeeLedgerEntry, name string) []models.EmployeeLedgerEntry {
	out := make([]models.EmployeeLedgerEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.EmployeeName == name {
			out = append(out, entry)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (e *Engine) loadEmployees(ctx context.Context) ([]models.Employee, error) {
	rows, err := e.store.ReadAll(ctx, store.Employees)
	if err != nil {
		return nil, err
	}
	employees := make([]models.Employee, 0, len(rows))
	for _, r := range rows {
		employees = append(employees, models.EmployeeFromRow(r))
	}
	return employees, nil
}

func (e *Engine) saveEmployees(ctx context.Context, employees []models.Employee) error {
	rows := make([]store.Row, 0, len(employees))
	for _, emp := range employees {
		rows = append(rows, emp.Row())
	}
	return e.store.WriteAll(ctx, store.Employees, rows)
}

func (e *Engine) loadEmployeeLedger(ctx context.Context) ([]models.EmployeeLedgerEntry, error) {
	rows, err := e.store.ReadAll(ctx, store.EmployeeLedger)
	if err != nil {
		return nil, err
	}
	entries := make([]models.EmployeeLedgerEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, models.EmployeeLedgerEntryFromRow(r))
	}
	return entries, nil
}

func (e *Engine) saveEmployeeLedger(ctx context.Context, entries []models.EmployeeLedgerEntry) error {
	rows := make([]store.Row, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, entry.Row())
	}
	return e.store.WriteAll(ctx, store.EmployeeLedger, rows)
}
