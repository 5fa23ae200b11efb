package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"go-repair-ledger/internal/models"
	"go-repair-ledger/internal/store"

	log "github.com/sirupsen/logrus"
)

// CreateJobInput carries the intake form for a new repair ticket.
type CreateJobInput struct {
	ClientName  string `json:"client_name"`
	DeviceModel string `json:"device_model"`
	Issue       string `json:"issue"`
	Status      string `json:"status"`
	Phone       string `json:"phone"`
	AssignedTo  string `json:"assigned_to"`
	DueDate     string `json:"due_date"`
}

// UpdateJobInput carries an intermediate update to a not-yet-delivered job.
type UpdateJobInput struct {
	ID          int               `json:"id"`
	ServiceCost float64           `json:"service_cost"`
	PartsCost   float64           `json:"parts_cost"`
	UsedParts   []models.UsedPart `json:"used_parts"`
	Status      string            `json:"status"`
}

// ConsumedPart names a stock item deducted when a job is delivered.
type ConsumedPart struct {
	ItemID int `json:"item_id"`
	Qty    int `json:"qty"`
}

// CloseJobInput is the terminal delivery bundle: final costs, the billable
// part list, and the stock items consumed.
type CloseJobInput struct {
	ID          int               `json:"id"`
	ServiceCost float64           `json:"service_cost"`
	PartsCost   float64           `json:"parts_cost"`
	UsedParts   []models.UsedPart `json:"used_parts"`
	Consumed    []ConsumedPart    `json:"consumed"`
}

// CreateJob opens a new ticket. Status defaults to Pending; a job can never
// be born Delivered because delivery must go through CloseJob's side-effect
// bundle.
func (e *Engine) CreateJob(ctx context.Context, in CreateJobInput) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if in.ClientName == "" {
		return 0, fmt.Errorf("%w: client name is required", ErrValidation)
	}
	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	if status == models.StatusDelivered {
		return 0, fmt.Errorf("%w: a new job cannot start as Delivered, use the close operation", ErrValidation)
	}
	if status != models.StatusPending && status != models.StatusInProgress {
		return 0, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	jobs, err := e.loadRepairs(ctx)
	if err != nil {
		return 0, err
	}
	id, err := e.store.NextID(ctx, store.Repairs)
	if err != nil {
		return 0, err
	}

	jobs = append(jobs, models.RepairJob{
		ID:          id,
		ClientName:  in.ClientName,
		DeviceModel: in.DeviceModel,
		Issue:       in.Issue,
		Status:      status,
		Phone:       in.Phone,
		CreatedAt:   e.timestamp(),
		AssignedTo:  in.AssignedTo,
		StartDate:   e.today(),
		DueDate:     in.DueDate,
	})
	if err := e.saveRepairs(ctx, jobs); err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"job": id, "client": in.ClientName}).Info("repair job created")
	return id, nil
}

// UpdateJob applies an intermediate update. A missing id or an already
// delivered job is a no-op. Setting status to Delivered is redirected to the
// close operation so the lateness/ledger/stock bundle always runs.
func (e *Engine) UpdateJob(ctx context.Context, in UpdateJobInput) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if in.Status == models.StatusDelivered {
		return e.closeJob(ctx, CloseJobInput{
			ID:          in.ID,
			ServiceCost: in.ServiceCost,
			PartsCost:   in.PartsCost,
			UsedParts:   in.UsedParts,
			Consumed:    stockConsumed(in.UsedParts),
		})
	}

	jobs, err := e.loadRepairs(ctx)
	if err != nil {
		return err
	}
	for i, job := range jobs {
		if job.ID != in.ID || job.Delivered() {
			continue
		}
		jobs[i].ServiceCost = in.ServiceCost
		jobs[i].PartsCost = in.PartsCost
		jobs[i].TotalCost = in.ServiceCost + in.PartsCost
		jobs[i].UsedParts = in.UsedParts
		if in.Status != "" {
			jobs[i].Status = in.Status
		}
		return e.saveRepairs(ctx, jobs)
	}
	return nil
}

// CloseJob delivers a job: freezes lateness, debits the client's ledger and
// deducts consumed stock.
func (e *Engine) CloseJob(ctx context.Context, in CloseJobInput) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closeJob(ctx, in)
}

func (e *Engine) closeJob(ctx context.Context, in CloseJobInput) error {
	jobs, err := e.loadRepairs(ctx)
	if err != nil {
		return err
	}

	idx := -1
	for i, job := range jobs {
		if job.ID == in.ID {
			idx = i
			break
		}
	}
	// Missing or already delivered: no-op by contract, callers that need a
	// hard failure must check existence first.
	if idx == -1 || jobs[idx].Delivered() {
		return nil
	}

	completion := e.today()
	isLate := false
	if due := jobs[idx].DueDate; due != "" {
		if dueDate, err := time.Parse(models.DateLayout, due); err == nil {
			completionDate, _ := time.Parse(models.DateLayout, completion)
			isLate = completionDate.After(dueDate)
		}
	}

	job := jobs[idx]
	jobs[idx].ServiceCost = in.ServiceCost
	jobs[idx].PartsCost = in.PartsCost
	jobs[idx].TotalCost = in.ServiceCost + in.PartsCost
	jobs[idx].UsedParts = in.UsedParts
	jobs[idx].Status = models.StatusDelivered
	jobs[idx].CompletionDate = completion
	jobs[idx].IsLate = isLate

	total := in.ServiceCost + in.PartsCost

	return runSteps(fmt.Sprintf("close_job %d", in.ID), []step{
		{"update job", func() error {
			return e.saveRepairs(ctx, jobs)
		}},
		{"post ledger debit", func() error {
			_, err := e.addLedgerEntry(ctx, models.LedgerEntry{
				PartyName:   job.ClientName,
				Date:        completion,
				Description: fmt.Sprintf("Repair Job #%d - %s", job.ID, job.DeviceModel),
				Debit:       total,
			})
			return err
		}},
		{"deduct stock", func() error {
			return e.deductClamped(ctx, in.Consumed)
		}},
	})
}

// partRefID resolves a stock part's PartRef, which holds the inventory item
// id for IsStock parts.
func partRefID(ref string) (int, bool) {
	id, err := strconv.Atoi(ref)
	return id, err == nil && id > 0
}

// stockConsumed derives the deduction list from the billable parts that came
// out of inventory.
func stockConsumed(parts []models.UsedPart) []ConsumedPart {
	var consumed []ConsumedPart
	for _, p := range parts {
		if p.IsStock {
			if id, ok := partRefID(p.PartRef); ok {
				consumed = append(consumed, ConsumedPart{ItemID: id, Qty: p.Qty})
			}
		}
	}
	return consumed
}

// ActiveJobs returns not-yet-delivered jobs, soonest due first. Jobs without
// a due date sort ahead, matching the legacy ascending text sort.
func (e *Engine) ActiveJobs(ctx context.Context) ([]models.RepairJob, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	jobs, err := e.loadRepairs(ctx)
	if err != nil {
		return nil, err
	}
	active := jobs[:0:0]
	for _, job := range jobs {
		if !job.Delivered() {
			active = append(active, job)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].DueDate < active[j].DueDate
	})
	return active, nil
}

// JobHistory returns delivered jobs, most recently completed first.
func (e *Engine) JobHistory(ctx context.Context) ([]models.RepairJob, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	jobs, err := e.loadRepairs(ctx)
	if err != nil {
		return nil, err
	}
	history := jobs[:0:0]
	for _, job := range jobs {
		if job.Delivered() {
			history = append(history, job)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].CompletionDate > history[j].CompletionDate
	})
	return history, nil
}

// Jobs returns every job, newest intake first.
func (e *Engine) Jobs(ctx context.Context) ([]models.RepairJob, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	jobs, err := e.loadRepairs(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt > jobs[j].CreatedAt
	})
	return jobs, nil
}

// TechWorkload counts a technician's open jobs.
type TechWorkload struct {
	AssignedTo string `json:"assigned_to"`
	ActiveJobs int    `json:"active_jobs"`
}

// Workload groups active jobs per assigned technician.
func (e *Engine) Workload(ctx context.Context) ([]TechWorkload, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	jobs, err := e.loadRepairs(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, job := range jobs {
		if !job.Delivered() && job.AssignedTo != "" {
			counts[job.AssignedTo]++
		}
	}
	out := make([]TechWorkload, 0, len(counts))
	for name, n := range counts {
		out = append(out, TechWorkload{AssignedTo: name, ActiveJobs: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignedTo < out[j].AssignedTo })
	return out, nil
}

// TechPerformance summarizes a technician's delivered jobs. OnTimeRate is a
// percentage rounded to one decimal; technicians with zero completions are
// omitted entirely rather than reported with an undefined rate.
type TechPerformance struct {
	AssignedTo     string  `json:"assigned_to"`
	TotalCompleted int     `json:"total_completed"`
	TotalLate      int     `json:"total_late"`
	OnTimeRate     float64 `json:"on_time_rate"`
}

// Performance reports delivered/late counts and on-time rate per technician.
func (e *Engine) Performance(ctx context.Context) ([]TechPerformance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	jobs, err := e.loadRepairs(ctx)
	if err != nil {
		return nil, err
	}
	type tally struct{ completed, late int }
	counts := map[string]*tally{}
	for _, job := range jobs {
		if !job.Delivered() || job.AssignedTo == "" {
			continue
		}
		t := counts[job.AssignedTo]
		if t == nil {
			t = &tally{}
			counts[job.AssignedTo] = t
		}
		t.completed++
		if job.IsLate {
			t.late++
		}
	}
	out := make([]TechPerformance, 0, len(counts))
	for name, t := range counts {
		rate := 100 * float64(t.completed-t.late) / float64(t.completed)
		out = append(out, TechPerformance{
			AssignedTo:     name,
			TotalCompleted: t.completed,
			TotalLate:      t.late,
			OnTimeRate:     math.Round(rate*10) / 10,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssignedTo < out[j].AssignedTo })
	return out, nil
}

func (e *Engine) loadRepairs(ctx context.Context) ([]models.RepairJob, error) {
	rows, err := e.store.ReadAll(ctx, store.Repairs)
	if err != nil {
		return nil, err
	}
	jobs := make([]models.RepairJob, 0, len(rows))
	for _, r := range rows {
		jobs = append(jobs, models.RepairJobFromRow(r))
	}
	return jobs, nil
}

func (e *Engine) saveRepairs(ctx context.Context, jobs []models.RepairJob) error {
	rows := make([]store.Row, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, j.Row())
	}
	return e.store.WriteAll(ctx, store.Repairs, rows)
}
