package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go-repair-ledger/internal/models"
	"go-repair-ledger/internal/store"
)

// StatementLine is one ledger entry with the running balance after it.
type StatementLine struct {
	models.LedgerEntry
	Balance float64 `json:"balance"`
}

// Statement is a party's ordered entries with running balances. When the
// party is a registered customer with an opening balance, the first line is a
// synthetic ID 0 "Opening Balance" row that exists only in the view, never in
// the store.
type Statement struct {
	Party   string          `json:"party"`
	Lines   []StatementLine `json:"lines"`
	Balance float64         `json:"balance"`
}

// AddEntry posts one debit/credit line against a party and returns its id.
func (e *Engine) AddEntry(ctx context.Context, entry models.LedgerEntry) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if entry.PartyName == "" {
		return 0, fmt.Errorf("%w: party name is required", ErrValidation)
	}
	if entry.Debit < 0 || entry.Credit < 0 {
		return 0, fmt.Errorf("%w: debit and credit cannot be negative", ErrValidation)
	}
	return e.addLedgerEntry(ctx, entry)
}

// addLedgerEntry appends without locking; close_job and record_invoice call
// it from inside their own critical sections.
func (e *Engine) addLedgerEntry(ctx context.Context, entry models.LedgerEntry) (int, error) {
	rows, err := e.store.ReadAll(ctx, store.Ledger)
	if err != nil {
		return 0, err
	}
	id, err := e.store.NextID(ctx, store.Ledger)
	if err != nil {
		return 0, err
	}
	entry.ID = id
	if entry.Date == "" {
		entry.Date = e.today()
	}
	if err := e.store.WriteAll(ctx, store.Ledger, append(rows, entry.Row())); err != nil {
		return 0, err
	}
	return id, nil
}

// Entries returns a party's ledger lines ordered by (date, id) ascending.
func (e *Engine) Entries(ctx context.Context, party string) ([]models.LedgerEntry, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	return partyEntries(entries, party), nil
}

// Statement builds the printable view: entries in (date, id) order with a
// prefix-sum running balance, seeded by the customer's opening balance when
// one is registered under the same name (case-insensitive lookup).
func (e *Engine) Statement(ctx context.Context, party string) (Statement, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.loadLedger(ctx)
	if err != nil {
		return Statement{}, err
	}
	opening, err := e.openingBalance(ctx, party)
	if err != nil {
		return Statement{}, err
	}

	st := Statement{Party: party}
	balance := 0.0
	if opening != 0 {
		line := StatementLine{LedgerEntry: models.LedgerEntry{
			ID:          0,
			PartyName:   party,
			Description: "Opening Balance",
		}}
		if opening > 0 {
			line.Debit = opening
		} else {
			line.Credit = math.Abs(opening)
		}
		balance = opening
		line.Balance = balance
		st.Lines = append(st.Lines, line)
	}
	for _, entry := range partyEntries(entries, party) {
		balance += entry.Debit - entry.Credit
		st.Lines = append(st.Lines, StatementLine{LedgerEntry: entry, Balance: balance})
	}
	st.Balance = balance
	return st, nil
}

// DeleteEntry removes one ledger line. Missing id is a no-op.
func (e *Engine) DeleteEntry(ctx context.Context, id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.loadLedger(ctx)
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
	return e.saveLedger(ctx, kept)
}

// Parties merges three independent name sources: ledger parties, repair
// clients and registered customers. A name in any one source is a party, so
// ledger history survives customer deletion.
func (e *Engine) Parties(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	seen := map[string]bool{}

	entries, err := e.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		seen[entry.PartyName] = true
	}

	jobs, err := e.loadRepairs(ctx)
	if err != nil {
		return nil, err
	}
	for _, job := range jobs {
		seen[job.ClientName] = true
	}

	customers, err := e.loadCustomers(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range customers {
		seen[c.Name] = true
	}

	delete(seen, "")
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// CustomerBalance is the party's net position: opening balance plus debits
// minus credits.
func (e *Engine) CustomerBalance(ctx context.Context, party string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.loadLedger(ctx)
	if err != nil {
		return 0, err
	}
	opening, err := e.openingBalance(ctx, party)
	if err != nil {
		return 0, err
	}
	balance := opening
	for _, entry := range partyEntries(entries, party) {
		balance += entry.Debit - entry.Credit
	}
	return balance, nil
}

// categoryKeywords drives the recovery report's transaction classifier. The
// match is a case-insensitive substring scan over debit descriptions: a
// description hitting several keywords counts in several categories, and one
// hitting none counts as "other". Heuristic only.
var categoryKeywords = []string{"inverter", "charger", "kit"}

// RecoveryLine is one customer's outstanding position in the recovery report.
type RecoveryLine struct {
	Party          string         `json:"party"`
	TotalSales     float64        `json:"total_sales"`
	TotalPaid      float64        `json:"total_paid"`
	OpeningBalance float64        `json:"opening_balance"`
	NetOutstanding float64        `json:"net_outstanding"`
	Categories     map[string]int `json:"categories"`
}

// RecoveryList reports every customer's receivable, largest outstanding
// first, with debit transactions bucketed by the keyword classifier.
func (e *Engine) RecoveryList(ctx context.Context) ([]RecoveryLine, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := e.loadLedger(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := e.loadCustomers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RecoveryLine, 0, len(customers))
	for _, c := range customers {
		line := RecoveryLine{
			Party:          c.Name,
			OpeningBalance: c.OpeningBalance,
			Categories:     map[string]int{},
		}
		for _, entry := range partyEntries(entries, c.Name) {
			line.TotalSales += entry.Debit
			line.TotalPaid += entry.Credit
			if entry.Debit > 0 {
				for _, cat := range classifyDescription(entry.Description) {
					line.Categories[cat]++
				}
			}
		}
		line.NetOutstanding = line.TotalSales - line.TotalPaid + line.OpeningBalance
		out = append(out, line)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NetOutstanding > out[j].NetOutstanding
	})
	return out, nil
}

// classifyDescription returns every matching category, or ["other"] when
// nothing matches.
func classifyDescription(desc string) []string {
	lower := strings.ToLower(desc)
	var cats []string
	for _, kw := range categoryKeywords {
		if strings.Contains(lower, kw) {
			cats = append(cats, kw)
		}
	}
	if len(cats) == 0 {
		return []string{"other"}
	}
	return cats
}

// openingBalance resolves a party's registered opening balance by
// case-insensitive name match; unregistered parties open at zero.
func (e *Engine) openingBalance(ctx context.Context, party string) (float64, error) {
	customers, err := e.loadCustomers(ctx)
	if err != nil {
		return 0, err
	}
	for _, c := range customers {
		if strings.EqualFold(c.Name, party) {
			return c.OpeningBalance, nil
		}
	}
	return 0, nil
}

// partyEntries filters by exact name and sorts by (date, id) ascending.
func partyEntries(entries []models.LedgerEntry, party string) []models.LedgerEntry {
	out := make([]models.LedgerEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.PartyName == party {
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

func (e *Engine) loadLedger(ctx context.Context) ([]models.LedgerEntry, error) {
	rows, err := e.store.ReadAll(ctx, store.Ledger)
	if err != nil {
		return nil, err
	}
	entries := make([]models.LedgerEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, models.LedgerEntryFromRow(r))
	}
	return entries, nil
}

func (e *Engine) saveLedger(ctx context.Context, entries []models.LedgerEntry) error {
	rows := make([]store.Row, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, entry.Row())
	}
	return e.store.WriteAll(ctx, store.Ledger, rows)
}
