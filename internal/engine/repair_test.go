package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-repair-ledger/internal/models"
)

func TestCreateJobDefaultsAndValidation(t *testing.T) {
	e := newTestEngine("2024-01-05 10:00:00")

	id, err := e.CreateJob(ctx(), CreateJobInput{ClientName: "Ali", DeviceModel: "X100"})
	assert.NoError(t, err)
	assert.Equal(t, 1, id)

	jobs, _ := e.Jobs(ctx())
	assert.Len(t, jobs, 1)
	assert.Equal(t, models.StatusPending, jobs[0].Status)
	assert.Equal(t, "2024-01-05", jobs[0].StartDate)

	// Client name is mandatory.
	_, err = e.CreateJob(ctx(), CreateJobInput{DeviceModel: "X100"})
	assert.ErrorIs(t, err, ErrValidation)

	// A job cannot be born in the terminal state.
	_, err = e.CreateJob(ctx(), CreateJobInput{ClientName: "Ali", Status: models.StatusDelivered})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.CreateJob(ctx(), CreateJobInput{ClientName: "Ali", Status: "Paused"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateJobKeepsTotalCostInvariant(t *testing.T) {
	e := newTestEngine("2024-01-05 10:00:00")
	id, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "Ali"})

	err := e.UpdateJob(ctx(), UpdateJobInput{ID: id, ServiceCost: 300, PartsCost: 150})
	assert.NoError(t, err)

	jobs, _ := e.Jobs(ctx())
	assert.Equal(t, 450.0, jobs[0].TotalCost)
	assert.Equal(t, jobs[0].ServiceCost+jobs[0].PartsCost, jobs[0].TotalCost)
}

// The delivery scenario: due 2024-01-10, closed on 2024-01-15 with 500+200.
func TestCloseJobLateWithLedgerDebit(t *testing.T) {
	e := newTestEngine("2024-01-05 10:00:00")
	id, _ := e.CreateJob(ctx(), CreateJobInput{
		ClientName: "Ali", DeviceModel: "X100", DueDate: "2024-01-10",
	})

	e.Now = func() time.Time {
		return time.Date(2024, 1, 15, 18, 0, 0, 0, time.UTC)
	}
	err := e.CloseJob(ctx(), CloseJobInput{ID: id, ServiceCost: 500, PartsCost: 200})
	assert.NoError(t, err)

	jobs, _ := e.Jobs(ctx())
	job := jobs[0]
	assert.Equal(t, 700.0, job.TotalCost)
	assert.True(t, job.IsLate)
	assert.Equal(t, "2024-01-15", job.CompletionDate)
	assert.Equal(t, models.StatusDelivered, job.Status)

	entries, _ := e.Entries(ctx(), "Ali")
	assert.Len(t, entries, 1)
	assert.Equal(t, 700.0, entries[0].Debit)
	assert.Contains(t, entries[0].Description, "Repair Job #1")

	// No consumed parts, so inventory stays untouched.
	items, _ := e.Items(ctx())
	assert.Empty(t, items)
}

func TestCloseJobOnTimeAndMissingDueDate(t *testing.T) {
	e := newTestEngine("2024-01-05 10:00:00")
	onTime, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "Sara", DueDate: "2024-01-05"})
	noDue, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "Sara"})
	badDue, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "Sara", DueDate: "soonish"})

	for _, id := range []int{onTime, noDue, badDue} {
		assert.NoError(t, e.CloseJob(ctx(), CloseJobInput{ID: id, ServiceCost: 100}))
	}

	history, _ := e.JobHistory(ctx())
	assert.Len(t, history, 3)
	for _, job := range history {
		assert.False(t, job.IsLate)
	}
}

func TestCloseJobIsTerminalAndIdempotent(t *testing.T) {
	e := newTestEngine("2024-01-05 10:00:00")
	id, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "Ali"})

	assert.NoError(t, e.CloseJob(ctx(), CloseJobInput{ID: id, ServiceCost: 500}))
	// Second close and any later update are silent no-ops.
	assert.NoError(t, e.CloseJob(ctx(), CloseJobInput{ID: id, ServiceCost: 999}))
	assert.NoError(t, e.UpdateJob(ctx(), UpdateJobInput{ID: id, ServiceCost: 999}))
	// So is touching an id that never existed.
	assert.NoError(t, e.CloseJob(ctx(), CloseJobInput{ID: 42, ServiceCost: 999}))

	jobs, _ := e.Jobs(ctx())
	assert.Equal(t, 500.0, jobs[0].TotalCost)

	entries, _ := e.Entries(ctx(), "Ali")
	assert.Len(t, entries, 1)
}

func TestUpdateJobToDeliveredRunsCloseBundle(t *testing.T) {
	e := newTestEngine("2024-01-05 10:00:00")
	itemID, _ := e.AddItem(ctx(), AddItemInput{Name: "Battery", Quantity: 5, CostPrice: 80, SellingPrice: 120})
	jobID, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "Ali"})

	err := e.UpdateJob(ctx(), UpdateJobInput{
		ID:          jobID,
		ServiceCost: 200,
		PartsCost:   240,
		Status:      models.StatusDelivered,
		UsedParts: []models.UsedPart{
			{PartRef: "1", Qty: 2, UnitPrice: 120, IsStock: true},
			{PartRef: "thermal paste", Qty: 1, UnitPrice: 0, IsStock: false},
		},
	})
	assert.NoError(t, err)

	jobs, _ := e.Jobs(ctx())
	assert.Equal(t, models.StatusDelivered, jobs[0].Status)
	assert.Equal(t, 440.0, jobs[0].TotalCost)

	items, _ := e.Items(ctx())
	assert.Equal(t, itemID, items[0].ID)
	assert.Equal(t, 3, items[0].Quantity)

	entries, _ := e.Entries(ctx(), "Ali")
	assert.Len(t, entries, 1)
	assert.Equal(t, 440.0, entries[0].Debit)
}

func TestCloseJobDeductionClampsAtZero(t *testing.T) {
	e := newTestEngine("2024-01-05 10:00:00")
	itemID, _ := e.AddItem(ctx(), AddItemInput{Name: "Fuse", Quantity: 2, CostPrice: 10, SellingPrice: 20})
	jobID, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "Ali"})

	err := e.CloseJob(ctx(), CloseJobInput{
		ID:          jobID,
		ServiceCost: 100,
		Consumed: []ConsumedPart{
			{ItemID: itemID, Qty: 5},
			{ItemID: 99, Qty: 1}, // unknown item, skipped
		},
	})
	assert.NoError(t, err)

	items, _ := e.Items(ctx())
	assert.Equal(t, 0, items[0].Quantity)
}

func TestActiveJobsSortedByDueDate(t *testing.T) {
	e := newTestEngine("2024-01-05 10:00:00")
	late, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "A", DueDate: "2024-02-01"})
	soon, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "B", DueDate: "2024-01-10"})
	done, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "C", DueDate: "2024-01-01"})
	assert.NoError(t, e.CloseJob(ctx(), CloseJobInput{ID: done}))

	active, _ := e.ActiveJobs(ctx())
	assert.Len(t, active, 2)
	assert.Equal(t, soon, active[0].ID)
	assert.Equal(t, late, active[1].ID)
}

func TestWorkloadAndPerformance(t *testing.T) {
	e := newTestEngine("2024-01-05 10:00:00")

	j1, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "A", AssignedTo: "Tariq", DueDate: "2024-01-10"})
	j2, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "B", AssignedTo: "Tariq", DueDate: "2024-01-01"})
	j3, _ := e.CreateJob(ctx(), CreateJobInput{ClientName: "C", AssignedTo: "Tariq", DueDate: "2024-01-20"})
	e.CreateJob(ctx(), CreateJobInput{ClientName: "D", AssignedTo: "Noor"})
	e.CreateJob(ctx(), CreateJobInput{ClientName: "E"}) // unassigned, not counted

	// Tariq delivers three jobs, one of them late.
	for _, id := range []int{j1, j2, j3} {
		assert.NoError(t, e.CloseJob(ctx(), CloseJobInput{ID: id, ServiceCost: 100}))
	}

	workload, _ := e.Workload(ctx())
	assert.Equal(t, []TechWorkload{{AssignedTo: "Noor", ActiveJobs: 1}}, workload)

	perf, _ := e.Performance(ctx())
	// Noor has zero completions and is omitted, not reported at 0%.
	assert.Len(t, perf, 1)
	assert.Equal(t, "Tariq", perf[0].AssignedTo)
	assert.Equal(t, 3, perf[0].TotalCompleted)
	assert.Equal(t, 1, perf[0].TotalLate)
	assert.Equal(t, 66.7, perf[0].OnTimeRate)
}
