package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go-repair-ledger/internal/models"
	"go-repair-ledger/internal/store"
)

// InvoiceLine is one line item on a sales invoice.
type InvoiceLine struct {
	Name      string  `json:"name"`
	Qty       int     `json:"qty"`
	Rate      float64 `json:"rate"`
	ReturnQty int     `json:"return_qty"`
	Total     float64 `json:"total"`
}

// RecordInvoiceInput is the full invoice as entered. Freight, misc and the
// grand total are never stored per line; they survive only in the single
// ledger debit posted for the invoice.
type RecordInvoiceInput struct {
	InvoiceID  string        `json:"invoice_id"`
	Customer   string        `json:"customer"`
	Lines      []InvoiceLine `json:"lines"`
	Freight    float64       `json:"freight"`
	Misc       float64       `json:"misc"`
	GrandTotal float64       `json:"grand_total"`
}

// NextInvoiceNumber generates "INV-{year}-NNN": it scans existing invoice ids
// for the current year, takes the highest 3-digit suffix and increments it.
// No invoices this year, or suffixes that fail to parse, fall back to 001.
func (e *Engine) NextInvoiceNumber(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sales, err := e.loadSales(ctx)
	if err != nil {
		return "", err
	}
	prefix := fmt.Sprintf("INV-%d-", e.Now().Year())
	maxSuffix := 0
	for _, sale := range sales {
		if !strings.HasPrefix(sale.InvoiceID, prefix) {
			continue
		}
		n, err := strconv.Atoi(sale.InvoiceID[len(prefix):])
		if err != nil {
			continue
		}
		if n > maxSuffix {
			maxSuffix = n
		}
	}
	return fmt.Sprintf("%s%03d", prefix, maxSuffix+1), nil
}

// RecordInvoice persists an invoice: one sales row per line, a net-change
// inventory adjustment per line, and exactly one ledger debit for the grand
// total. Validation happens before the first write; the three mutations then
// run as ordered steps with partial application logged.
func (e *Engine) RecordInvoice(ctx context.Context, in RecordInvoiceInput) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if in.InvoiceID == "" {
		return fmt.Errorf("%w: invoice id is required", ErrValidation)
	}
	if in.Customer == "" {
		return fmt.Errorf("%w: customer is required", ErrValidation)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: an invoice needs at least one line item", ErrValidation)
	}
	for _, line := range in.Lines {
		if line.Name == "" {
			return fmt.Errorf("%w: line item name is required", ErrValidation)
		}
	}

	saleDate := e.timestamp()
	date := e.today()

	return runSteps(fmt.Sprintf("record_invoice %s", in.InvoiceID), []step{
		{"persist sales rows", func() error {
			return e.appendInvoiceLines(ctx, in, saleDate)
		}},
		{"adjust inventory", func() error {
			return e.applyNetChanges(ctx, in.Lines)
		}},
		{"post ledger debit", func() error {
			_, err := e.addLedgerEntry(ctx, models.LedgerEntry{
				PartyName:   in.Customer,
				Date:        date,
				Description: fmt.Sprintf("Invoice #%s", in.InvoiceID),
				Debit:       in.GrandTotal,
			})
			return err
		}},
	})
}

// InvoiceItems returns the sales rows sharing an invoice id.
func (e *Engine) InvoiceItems(ctx context.Context, invoiceID string) ([]models.InventorySale, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sales, err := e.loadSales(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]models.InventorySale, 0, 4)
	for _, sale := range sales {
		if sale.InvoiceID == invoiceID {
			items = append(items, sale)
		}
	}
	return items, nil
}

// InvoiceTotal recovers an invoice's grand total from the ledger: the debit
// of the most recent entry whose description mentions the invoice id. The
// total lives nowhere else, so a reposted invoice id shadows the original.
func (e *Engine) InvoiceTotal(ctx context.Context, invoiceID string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.loadLedger(ctx)
	if err != nil {
		return 0, err
	}
	needle := fmt.Sprintf("Invoice #%s", invoiceID)
	total := 0.0
	found := false
	for _, entry := range entries {
		if strings.Contains(entry.Description, needle) {
			total = entry.Debit
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("%w: no ledger entry for invoice %s", ErrNotFound, invoiceID)
	}
	return total, nil
}

// appendInvoiceLines writes one sales row per line item.
func (e *Engine) appendInvoiceLines(ctx context.Context, in RecordInvoiceInput, saleDate string) error {
	rows, err := e.store.ReadAll(ctx, store.Sales)
	if err != nil {
		return err
	}
	id, err := e.store.NextID(ctx, store.Sales)
	if err != nil {
		return err
	}
	for _, line := range in.Lines {
		sale := models.InventorySale{
			ID:             id,
			InvoiceID:      in.InvoiceID,
			CustomerName:   in.Customer,
			ItemName:       line.Name,
			QuantitySold:   line.Qty,
			SalePrice:      line.Rate,
			ReturnQuantity: line.ReturnQty,
			TotalAmount:    line.Total,
			SaleDate:       saleDate,
		}
		rows = append(rows, sale.Row())
		id++
	}
	return e.store.WriteAll(ctx, store.Sales, rows)
}

// applyNetChanges adjusts stock per line by qty minus returns, matched
// against inventory by case-insensitive name. More returned than sold raises
// stock; a deduction floors at zero; an unmatched name has no effect.
func (e *Engine) applyNetChanges(ctx context.Context, lines []InvoiceLine) error {
	items, err := e.loadInventory(ctx)
	if err != nil {
		return err
	}
	changed := false
	for _, line := range lines {
		net := line.Qty - line.ReturnQty
		if net == 0 {
			continue
		}
		for i, item := range items {
			if !strings.EqualFold(item.Name, line.Name) {
				continue
			}
			next := item.Quantity - net
			if next < 0 {
				next = 0
			}
			items[i].Quantity = next
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}
	return e.saveInventory(ctx, items)
}

func (e *Engine) loadSales(ctx context.Context) ([]models.InventorySale, error) {
	rows, err := e.store.ReadAll(ctx, store.Sales)
	if err != nil {
		return nil, err
	}
	sales := make([]models.InventorySale, 0, len(rows))
	for _, r := range rows {
		sales = append(sales, models.InventorySaleFromRow(r))
	}
	return sales, nil
}
