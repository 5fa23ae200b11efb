package engine

import (
	"context"
	"fmt"

	"go-repair-ledger/internal/models"
	"go-repair-ledger/internal/store"

	log "github.com/sirupsen/logrus"
)

// AddItemInput is the stock-in form.
type AddItemInput struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	ImportDate   string  `json:"import_date"`
	Quantity     int     `json:"quantity"`
	CostPrice    float64 `json:"cost_price"`
	SellingPrice float64 `json:"selling_price"`
}

// AddItem registers a new inventory item and returns its id.
func (e *Engine) AddItem(ctx context.Context, in AddItemInput) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if in.Name == "" {
		return 0, fmt.Errorf("%w: item name is required", ErrValidation)
	}
	if in.Quantity < 0 {
		return 0, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}
	if in.ImportDate == "" {
		in.ImportDate = e.today()
	}

	items, err := e.loadInventory(ctx)
	if err != nil {
		return 0, err
	}
	id, err := e.store.NextID(ctx, store.Inventory)
	if err != nil {
		return 0, err
	}
	items = append(items, models.InventoryItem{
		ID:           id,
		Name:         in.Name,
		Category:     in.Category,
		ImportDate:   in.ImportDate,
		Quantity:     in.Quantity,
		CostPrice:    in.CostPrice,
		SellingPrice: in.SellingPrice,
	})
	if err := e.saveInventory(ctx, items); err != nil {
		return 0, err
	}
	return id, nil
}

// Items returns the full inventory in insertion order.
func (e *Engine) Items(ctx context.Context) ([]models.InventoryItem, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadInventory(ctx)
}

// UpdateItem edits quantity and prices. Missing id is a no-op.
func (e *Engine) UpdateItem(ctx context.Context, id, quantity int, cost, sell float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}
	items, err := e.loadInventory(ctx)
	if err != nil {
		return err
	}
	for i, item := range items {
		if item.ID == id {
			items[i].Quantity = quantity
			items[i].CostPrice = cost
			items[i].SellingPrice = sell
			return e.saveInventory(ctx, items)
		}
	}
	return nil
}

// DeleteItem removes an item. Missing id is a no-op.
func (e *Engine) DeleteItem(ctx context.Context, id int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	items, err := e.loadInventory(ctx)
	if err != nil {
		return err
	}
	kept := items[:0:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return e.saveInventory(ctx, kept)
}

// SellItem is the over-the-counter sale: unlike the repair-completion
// deduction it refuses to oversell. The stock check happens before any
// mutation, then the deduction and the sales record are written.
func (e *Engine) SellItem(ctx context.Context, itemID, qty int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}
	items, err := e.loadInventory(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i, item := range items {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w: item %d", ErrNotFound, itemID)
	}
	if items[idx].Quantity < qty {
		return fmt.Errorf("%w: %s has %d in stock, requested %d",
			ErrInsufficientStock, items[idx].Name, items[idx].Quantity, qty)
	}

	item := items[idx]
	items[idx].Quantity -= qty

	return runSteps(fmt.Sprintf("sell_item %d", itemID), []step{
		{"deduct stock", func() error {
			return e.saveInventory(ctx, items)
		}},
		{"record sale", func() error {
			return e.appendSale(ctx, models.InventorySale{
				ItemName:     item.Name,
				QuantitySold: qty,
				SalePrice:    item.SellingPrice,
				TotalAmount:  float64(qty) * item.SellingPrice,
				SaleDate:     e.timestamp(),
			})
		}},
	})
}

// Valuation is the stock's worth at cost price.
func (e *Engine) Valuation(ctx context.Context) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	items, err := e.loadInventory(ctx)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, item := range items {
		total += float64(item.Quantity) * item.CostPrice
	}
	return total, nil
}

// deductClamped is the repair-completion deduction: quantities floor at zero
// and unknown items are skipped. The job is already delivered and the parts
// already handed over, so the books follow reality instead of blocking it.
func (e *Engine) deductClamped(ctx context.Context, consumed []ConsumedPart) error {
	if len(consumed) == 0 {
		return nil
	}
	items, err := e.loadInventory(ctx)
	if err != nil {
		return err
	}
	changed := false
	for _, c := range consumed {
		for i, item := range items {
			if item.ID != c.ItemID {
				continue
			}
			next := item.Quantity - c.Qty
			if next < 0 {
				log.WithFields(log.Fields{
					"item":      item.Name,
					"have":      item.Quantity,
					"requested": c.Qty,
				}).Warn("stock deduction clamped to zero")
				next = 0
			}
			items[i].Quantity = next
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return e.saveInventory(ctx, items)
}

func (e *Engine) loadInventory(ctx context.Context) ([]models.InventoryItem, error) {
	rows, err := e.store.ReadAll(ctx, store.Inventory)
	if err != nil {
		return nil, err
	}
	items := make([]models.InventoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, models.InventoryItemFromRow(r))
	}
	return items, nil
}

func (e *Engine) saveInventory(ctx context.Context, items []models.InventoryItem) error {
	rows := make([]store.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, item.Row())
	}
	return e.store.WriteAll(ctx, store.Inventory, rows)
}

// appendSale writes one sales row with a fresh id.
func (e *Engine) appendSale(ctx context.Context, sale models.InventorySale) error {
	rows, err := e.store.ReadAll(ctx, store.Sales)
	if err != nil {
		return err
	}
	id, err := e.store.NextID(ctx, store.Sales)
	if err != nil {
		return err
	}
	sale.ID = id
	return e.store.WriteAll(ctx, store.Sales, append(rows, sale.Row()))
}
