package engine

import (
	"context"
	"fmt"

	"go-repair-ledger/internal/models"
	"go-repair-ledger/internal/store"
)

// AddCustomerInput is the registration form.
type AddCustomerInput struct {
	Name           string  `json:"name"`
	City           string  `json:"city"`
	Phone          string  `json:"phone"`
	OpeningBalance float64 `json:"opening_balance"`
	Address        string  `json:"address"`
	NIC            string  `json:"nic"`
}

// AddCustomer registers a customer and returns the generated display code,
// e.g. "C007".
func (e *Engine) AddCustomer(ctx context.Context, in AddCustomerInput) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if in.Name == "" {
		return "", fmt.Errorf("%w: customer name is required", ErrValidation)
	}

	customers, err := e.loadCustomers(ctx)
	if err != nil {
		return "", err
	}
	id, err := e.store.NextID(ctx, store.Customers)
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("C%03d", id)
	customers = append(customers, models.Customer{
		ID:             id,
		CustomerID:     code,
		Name:           in.Name,
		City:           in.City,
		Phone:          in.Phone,
		OpeningBalance: in.OpeningBalance,
		Address:        in.Address,
		NIC:            in.NIC,
	})
	if err := e.saveCustomers(ctx, customers); err != nil {
		return "", err
	}
	return code, nil
}

// Customers returns every registered customer.
func (e *Engine) Customers(ctx context.Context) ([]models.Customer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadCustomers(ctx)
}

// UpdateCustomer edits a profile in place. Missing id is a no-op. The name is
// the ledger key, so renaming here orphans the old name's history.
func (e *Engine) UpdateCustomer(ctx context.Context, c models.Customer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c.Name == "" {
		return fmt.Errorf("%w: customer name is required", ErrValidation)
	}
	customers, err := e.loadCustomers(ctx)
	if err != nil {
		return err
	}
	for i, cur := range customers {
		if cur.ID == c.ID {
			c.CustomerID = cur.CustomerID
			customers[i] = c
			return e.saveCustomers(ctx, customers)
		}
	}
	return nil
}

// DeleteCustomer removes the profile only. Ledger entries under the name stay
// and the name remains a valid party.
func (e *Engine) DeleteCustomer(ctx context.Context, id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	customers, err := e.loadCustomers(ctx)
	if err != nil {
		return err
	}
	kept := customers[:0:0]
	for _, c := range customers {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(customers) {
		return nil
	}
	return e.saveCustomers(ctx, kept)
}

func (e *Engine) loadCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := e.store.ReadAll(ctx, store.Customers)
	if err != nil {
		return nil, err
	}
	customers := make([]models.Customer, 0, len(rows))
	for _, r := range rows {
		customers = append(customers, models.CustomerFromRow(r))
	}
	return customers, nil
}

func (e *Engine) saveCustomers(ctx context.Context, customers []models.Customer) error {
	rows := make([]store.Row, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, c.Row())
	}
	return e.store.WriteAll(ctx, store.Customers, rows)
}
