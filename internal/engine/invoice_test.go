package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextInvoiceNumberEmptyYear(t *testing.T) {
	e := newTestEngine("2026-05-01 09:00:00")

	n, err := e.NextInvoiceNumber(ctx())
	assert.NoError(t, err)
	assert.Equal(t, "INV-2026-001", n)
}

func TestNextInvoiceNumberIncrementsMaxSuffix(t *testing.T) {
	e := newTestEngine("2026-05-01 09:00:00")
	e.AddCustomer(ctx(), AddCustomerInput{Name: "Bilal"})

	for _, id := range []string{"INV-2026-001", "INV-2026-007"} {
		err := e.RecordInvoice(ctx(), RecordInvoiceInput{
			InvoiceID: id,
			Customer:  "Bilal",
			Lines:     []InvoiceLine{{Name: "Cable", Qty: 1, Rate: 10, Total: 10}},
		})
		assert.NoError(t, err)
	}

	n, err := e.NextInvoiceNumber(ctx())
	assert.NoError(t, err)
	assert.Equal(t, "INV-2026-008", n)
}

func TestNextInvoiceNumberIgnoresOtherYearsAndGarbage(t *testing.T) {
	e := newTestEngine("2026-05-01 09:00:00")
	e.AddCustomer(ctx(), AddCustomerInput{Name: "Bilal"})

	for _, id := range []string{"INV-2025-099", "INV-2026-xyz", "RCPT-7"} {
		e.RecordInvoice(ctx(), RecordInvoiceInput{
			InvoiceID: id,
			Customer:  "Bilal",
			Lines:     []InvoiceLine{{Name: "Cable", Qty: 1, Rate: 10, Total: 10}},
		})
	}

	n, _ := e.NextInvoiceNumber(ctx())
	assert.Equal(t, "INV-2026-001", n)
}

// The Fan Belt scenario: qty 2 at rate 500 plus 100 freight posts exactly one
// ledger debit of 1100 and moves stock from 10 to 8.
func TestRecordInvoiceFanBelt(t *testing.T) {
	e := newTestEngine("2026-05-01 09:00:00")
	e.AddCustomer(ctx(), AddCustomerInput{Name: "Bilal"})
	e.AddItem(ctx(), AddItemInput{Name: "Fan Belt", Quantity: 10, CostPrice: 300, SellingPrice: 500})

	err := e.RecordInvoice(ctx(), RecordInvoiceInput{
		InvoiceID:  "INV-2026-001",
		Customer:   "Bilal",
		Lines:      []InvoiceLine{{Name: "Fan Belt", Qty: 2, Rate: 500, Total: 1000}},
		Freight:    100,
		GrandTotal: 1100,
	})
	assert.NoError(t, err)

	entries, _ := e.Entries(ctx(), "Bilal")
	assert.Len(t, entries, 1)
	assert.Equal(t, 1100.0, entries[0].Debit)
	assert.Contains(t, entries[0].Description, "Invoice #INV-2026-001")

	items, _ := e.Items(ctx())
	assert.Equal(t, 8, items[0].Quantity)

	lines, _ := e.InvoiceItems(ctx(), "INV-2026-001")
	assert.Len(t, lines, 1)
	assert.Equal(t, "Fan Belt", lines[0].ItemName)

	total, err := e.InvoiceTotal(ctx(), "INV-2026-001")
	assert.NoError(t, err)
	assert.Equal(t, 1100.0, total)
}

func TestRecordInvoiceInventoryMatching(t *testing.T) {
	e := newTestEngine("2026-05-01 09:00:00")
	e.AddCustomer(ctx(), AddCustomerInput{Name: "Bilal"})
	e.AddItem(ctx(), AddItemInput{Name: "Fan Belt", Quantity: 3, CostPrice: 300, SellingPrice: 500})

	err := e.RecordInvoice(ctx(), RecordInvoiceInput{
		InvoiceID: "INV-2026-001",
		Customer:  "Bilal",
		Lines: []InvoiceLine{
			// Case-insensitive match; deduction floors at zero (3 - 5 → 0).
			{Name: "fan belt", Qty: 5, Rate: 500, Total: 2500},
			// No inventory match: sales row only, no stock effect.
			{Name: "Install Service", Qty: 1, Rate: 800, Total: 800},
		},
		GrandTotal: 3300,
	})
	assert.NoError(t, err)

	items, _ := e.Items(ctx())
	assert.Equal(t, 0, items[0].Quantity)

	lines, _ := e.InvoiceItems(ctx(), "INV-2026-001")
	assert.Len(t, lines, 2)
}

func TestRecordInvoiceReturnsIncreaseStock(t *testing.T) {
	e := newTestEngine("2026-05-01 09:00:00")
	e.AddCustomer(ctx(), AddCustomerInput{Name: "Bilal"})
	e.AddItem(ctx(), AddItemInput{Name: "Fan Belt", Quantity: 5, CostPrice: 300, SellingPrice: 500})

	// More returned than sold: net change -2 raises stock.
	err := e.RecordInvoice(ctx(), RecordInvoiceInput{
		InvoiceID:  "INV-2026-001",
		Customer:   "Bilal",
		Lines:      []InvoiceLine{{Name: "Fan Belt", Qty: 1, ReturnQty: 3, Rate: 500, Total: -1000}},
		GrandTotal: -1000,
	})
	assert.NoError(t, err)

	items, _ := e.Items(ctx())
	assert.Equal(t, 7, items[0].Quantity)
}

func TestRecordInvoiceValidation(t *testing.T) {
	e := newTestEngine("2026-05-01 09:00:00")

	err := e.RecordInvoice(ctx(), RecordInvoiceInput{Customer: "Bilal", Lines: []InvoiceLine{{Name: "X"}}})
	assert.ErrorIs(t, err, ErrValidation)

	err = e.RecordInvoice(ctx(), RecordInvoiceInput{InvoiceID: "INV-2026-001", Lines: []InvoiceLine{{Name: "X"}}})
	assert.ErrorIs(t, err, ErrValidation)

	err = e.RecordInvoice(ctx(), RecordInvoiceInput{InvoiceID: "INV-2026-001", Customer: "Bilal"})
	assert.ErrorIs(t, err, ErrValidation)

	// Nothing was written along the way.
	sales, _ := e.InvoiceItems(ctx(), "INV-2026-001")
	assert.Empty(t, sales)
	entries, _ := e.Entries(ctx(), "Bilal")
	assert.Empty(t, entries)
}

func TestInvoiceTotalLastEntryWins(t *testing.T) {
	e := newTestEngine("2026-05-01 09:00:00")
	e.AddCustomer(ctx(), AddCustomerInput{Name: "Bilal"})

	in := RecordInvoiceInput{
		InvoiceID:  "INV-2026-001",
		Customer:   "Bilal",
		Lines:      []InvoiceLine{{Name: "Cable", Qty: 1, Rate: 10, Total: 10}},
		GrandTotal: 10,
	}
	assert.NoError(t, e.RecordInvoice(ctx(), in))
	// Reposting the same id shadows the first total in the ledger lookup.
	in.GrandTotal = 25
	assert.NoError(t, e.RecordInvoice(ctx(), in))

	total, err := e.InvoiceTotal(ctx(), "INV-2026-001")
	assert.NoError(t, err)
	assert.Equal(t, 25.0, total)

	_, err = e.InvoiceTotal(ctx(), "INV-2099-042")
	assert.ErrorIs(t, err, ErrNotFound)
}
