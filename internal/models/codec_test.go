package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-repair-ledger/internal/store"
)

func TestRepairJobUsedPartsCell(t *testing.T) {
	job := RepairJob{
		ID:         3,
		ClientName: "Ali",
		UsedParts: []UsedPart{
			{PartRef: "7", Qty: 2, UnitPrice: 120, IsStock: true},
			{PartRef: "thermal paste", Qty: 1, IsStock: false},
		},
	}

	row := job.Row()
	// Parts travel as one JSON cell, not free text.
	assert.Contains(t, row["used_parts"], `"part_ref":"7"`)

	back := RepairJobFromRow(row)
	assert.Equal(t, job.UsedParts, back.UsedParts)
}

func TestRepairJobFromRowTolerantOfBadCells(t *testing.T) {
	job := RepairJobFromRow(store.Row{
		"id":           "5",
		"client_name":  "Ali",
		"service_cost": "not a number",
		"used_parts":   "{corrupt",
		"is_late":      "maybe",
	})
	assert.Equal(t, 5, job.ID)
	assert.Equal(t, 0.0, job.ServiceCost)
	assert.Nil(t, job.UsedParts)
	assert.False(t, job.IsLate)
}

func TestCustomerRoundTrip(t *testing.T) {
	c := Customer{
		ID:             7,
		CustomerID:     "C007",
		Name:           "Bilal",
		City:           "Lahore",
		OpeningBalance: -250.5,
	}
	back := CustomerFromRow(c.Row())
	assert.Equal(t, c, back)
}
