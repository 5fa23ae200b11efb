package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddItemValidation(t *testing.T) {
	e := newTestEngine("2024-01-05 10:00:00")

	_, err := e.AddItem(ctx(), AddItemInput{Quantity: 5})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.AddItem(ctx(), AddItemInput{Name: "Fuse", Quantity: -1})
	assert.ErrorIs(t, err, ErrValidation)

	id, err := e.AddItem(ctx(), AddItemInput{Name: "Fuse", Quantity: 5, CostPrice: 10, SellingPrice: 20})
	assert.NoError(t, err)
	assert.Equal(t, 1, id)

	items, _ := e.Items(ctx())
	assert.Equal(t, "2024-01-05", items[0].ImportDate)
}

func TestUpdateAndDeleteItem(t *testing.T) {
	e := newTestEngine("2024-01-05 10:00:00")
	id, _ := e.AddItem(ctx(), AddItemInput{Name: "Fuse", Quantity: 5, CostPrice: 10, SellingPrice: 20})

	assert.NoError(t, e.UpdateItem(ctx(), id, 8, 12, 25))
	items, _ := e.Items(ctx())
	assert.Equal(t, 8, items[0].Quantity)
	assert.Equal(t, 12.0, items[0].CostPrice)

	// Unknown id is a no-op, not an error.
	assert.NoError(t, e.UpdateItem(ctx(), 99, 1, 1, 1))
	assert.NoError(t, e.DeleteItem(ctx(), 99))
	items, _ = e.Items(ctx())
	assert.Len(t, items, 1)

	assert.NoError(t, e.DeleteItem(ctx(), id))
	items, _ = e.Items(ctx())
	assert.Empty(t, items)
}

// The sale path fails hard on short stock, unlike the repair-completion
// deduction which clamps.
func TestSellItemInsufficientStock(t *testing.T) {
	e := newTestEngine("2024-01-05 10:00:00")
	id, _ := e.AddItem(ctx(), AddItemInput{Name: "Fuse", Quantity: 3, CostPrice: 10, SellingPrice: 20})

	err := e.SellItem(ctx(), id, 5)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Quantity untouched, no sales row written.
	items, _ := e.Items(ctx())
	assert.Equal(t, 3, items[0].Quantity)

	err = e.SellItem(ctx(), 99, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	err = e.SellItem(ctx(), id, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSellItemDeductsAndRecordsSale(t *testing.T) {
	e := newTestEngine("2024-01-05 10:00:00")
	id, _ := e.AddItem(ctx(), AddItemInput{Name: "Fuse", Quantity: 3, CostPrice: 10, SellingPrice: 20})

	assert.NoError(t, e.SellItem(ctx(), id, 2))

	items, _ := e.Items(ctx())
	assert.Equal(t, 1, items[0].Quantity)

	sales, _ := e.loadSales(ctx())
	assert.Len(t, sales, 1)
	assert.Equal(t, "Fuse", sales[0].ItemName)
	assert.Equal(t, 2, sales[0].QuantitySold)
	assert.Equal(t, 40.0, sales[0].TotalAmount)
}

func TestValuation(t *testing.T) {
	e := newTestEngine("2024-01-05 10:00:00")
	e.AddItem(ctx(), AddItemInput{Name: "Fuse", Quantity: 3, CostPrice: 10, SellingPrice: 20})
	e.AddItem(ctx(), AddItemInput{Name: "Belt", Quantity: 2, CostPrice: 300, SellingPrice: 500})

	total, err := e.Valuation(ctx())
	assert.NoError(t, err)
	assert.Equal(t, 630.0, total)
}

func TestRevenueAnalyticsAndSplit(t *testing.T) {
	e := newTestEngine("2024-03-05 10:00:00")

	j1, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "A"})
	j2, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "B"})
	e.CreateJob(ctx(), CreateJobInput{ClientName: "C"}) // stays open, excluded

	assert.NoError(t, e.CloseJob(ctx(), CloseJobInput{ID: j1, ServiceCost: 500, PartsCost: 200}))
	assert.NoError(t, e.CloseJob(ctx(), CloseJobInput{ID: j2, ServiceCost: 100, PartsCost: 300}))

	rep, err := e.RevenueAnalytics(ctx())
	assert.NoError(t, err)
	assert.Equal(t, 2, rep.JobsDone)
	assert.Equal(t, 1100.0, rep.TotalRevenue)
	assert.Equal(t, 1100.0, rep.MonthRevenue)
	assert.Equal(t, 600.0, rep.ServiceTotal)
	assert.Equal(t, 500.0, rep.PartsTotal)

	split, err := e.PartsVsLaborSplit(ctx())
	assert.NoError(t, err)
	assert.Equal(t, 500.0, split.PartsTotal)
	assert.Equal(t, 600.0, split.ServiceTotal)
	assert.InDelta(t, 500.0/1100.0, split.PartsShare, 1e-9)
}

func TestMonthlyRevenueSumsBothStreams(t *testing.T) {
	e := newTestEngine("2024-03-05 10:00:00")
	e.AddCustomer(ctx(), AddCustomerInput{Name: "Bilal"})
	itemID, _ := e.AddItem(ctx(), AddItemInput{Name: "Fuse", Quantity: 10, CostPrice: 10, SellingPrice: 20})

	jobID, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "A"})
	assert.NoError(t, e.CloseJob(ctx(), CloseJobInput{ID: jobID, ServiceCost: 700}))
	assert.NoError(t, e.SellItem(ctx(), itemID, 3))

	total, err := e.MonthlyRevenue(ctx())
	assert.NoError(t, err)
	assert.Equal(t, 760.0, total)
}
