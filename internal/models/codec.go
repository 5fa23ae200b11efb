package models

import (
	"encoding/json"
	"strconv"

	"go-repair-ledger/internal/store"
)

// Row codecs: every entity knows how to serialize itself into the string
// cells of the tabular store and how to load itself back. Lenient on the way
// in (bad cells read as zero values), exact on the way out.

func itoa(n int) string { return strconv.Itoa(n) }

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func btoa(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Row serializes the job. UsedParts goes into its cell as JSON, a typed
// list rather than the free-text blob the legacy sheet carried.
func (j RepairJob) Row() store.Row {
	parts, _ := json.Marshal(j.UsedParts)
	return store.Row{
		"id":              itoa(j.ID),
		"client_name":     j.ClientName,
		"device_model":    j.DeviceModel,
		"issue":           j.Issue,
		"status":          j.Status,
		"phone":           j.Phone,
		"created_at":      j.CreatedAt,
		"service_cost":    ftoa(j.ServiceCost),
		"parts_cost":      ftoa(j.PartsCost),
		"total_cost":      ftoa(j.TotalCost),
		"used_parts":      string(parts),
		"assigned_to":     j.AssignedTo,
		"start_date":      j.StartDate,
		"due_date":        j.DueDate,
		"completion_date": j.CompletionDate,
		"is_late":         btoa(j.IsLate),
	}
}

func RepairJobFromRow(r store.Row) RepairJob {
	var parts []UsedPart
	if raw := r["used_parts"]; raw != "" {
		_ = json.Unmarshal([]byte(raw), &parts)
	}
	return RepairJob{
		ID:             r.Int("id"),
		ClientName:     r["client_name"],
		DeviceModel:    r["device_model"],
		Issue:          r["issue"],
		Status:         r["status"],
		Phone:          r["phone"],
		CreatedAt:      r["created_at"],
		ServiceCost:    r.Float("service_cost"),
		PartsCost:      r.Float("parts_cost"),
		TotalCost:      r.Float("total_cost"),
		UsedParts:      parts,
		AssignedTo:     r["assigned_to"],
		StartDate:      r["start_date"],
		DueDate:        r["due_date"],
		CompletionDate: r["completion_date"],
		IsLate:         r.Bool("is_late"),
	}
}

func (i InventoryItem) Row() store.Row {
	return store.Row{
		"id":            itoa(i.ID),
		"name":          i.Name,
		"category":      i.Category,
		"import_date":   i.ImportDate,
		"quantity":      itoa(i.Quantity),
		"cost_price":    ftoa(i.CostPrice),
		"selling_price": ftoa(i.SellingPrice),
	}
}

func InventoryItemFromRow(r store.Row) InventoryItem {
	return InventoryItem{
		ID:           r.Int("id"),
		Name:         r["name"],
		Category:     r["category"],
		ImportDate:   r["import_date"],
		Quantity:     r.Int("quantity"),
		CostPrice:    r.Float("cost_price"),
		SellingPrice: r.Float("selling_price"),
	}
}

func (e LedgerEntry) Row() store.Row {
	return store.Row{
		"id":          itoa(e.ID),
		"party_name":  e.PartyName,
		"date":        e.Date,
		"description": e.Description,
		"debit":       ftoa(e.Debit),
		"credit":      ftoa(e.Credit),
	}
}

func LedgerEntryFromRow(r store.Row) LedgerEntry {
	return LedgerEntry{
		ID:          r.Int("id"),
		PartyName:   r["party_name"],
		Date:        r["date"],
		Description: r["description"],
		Debit:       r.Float("debit"),
		Credit:      r.Float("credit"),
	}
}

func (e EmployeeLedgerEntry) Row() store.Row {
	return store.Row{
		"id":            itoa(e.ID),
		"employee_name": e.EmployeeName,
		"date":          e.Date,
		"type":          e.Type,
		"description":   e.Description,
		"earned":        ftoa(e.Earned),
		"paid":          ftoa(e.Paid),
	}
}

func EmployeeLedgerEntryFromRow(r store.Row) EmployeeLedgerEntry {
	return EmployeeLedgerEntry{
		ID:           r.Int("id"),
		EmployeeName: r["employee_name"],
		Date:         r["date"],
		Type:         r["type"],
		Description:  r["description"],
		Earned:       r.Float("earned"),
		Paid:         r.Float("paid"),
	}
}

func (c Customer) Row() store.Row {
	return store.Row{
		"id":              itoa(c.ID),
		"customer_id":     c.CustomerID,
		"name":            c.Name,
		"city":            c.City,
		"phone":           c.Phone,
		"opening_balance": ftoa(c.OpeningBalance),
		"address":         c.Address,
		"nic":             c.NIC,
	}
}

func CustomerFromRow(r store.Row) Customer {
	return Customer{
		ID:             r.Int("id"),
		CustomerID:     r["customer_id"],
		Name:           r["name"],
		City:           r["city"],
		Phone:          r["phone"],
		OpeningBalance: r.Float("opening_balance"),
		Address:        r["address"],
		NIC:            r["nic"],
	}
}

func (s InventorySale) Row() store.Row {
	return store.Row{
		"id":              itoa(s.ID),
		"invoice_id":      s.InvoiceID,
		"customer_name":   s.CustomerName,
		"item_name":       s.ItemName,
		"quantity_sold":   itoa(s.QuantitySold),
		"sale_price":      ftoa(s.SalePrice),
		"return_quantity": itoa(s.ReturnQuantity),
		"total_amount":    ftoa(s.TotalAmount),
		"sale_date":       s.SaleDate,
	}
}

func InventorySaleFromRow(r store.Row) InventorySale {
	return InventorySale{
		ID:             r.Int("id"),
		InvoiceID:      r["invoice_id"],
		CustomerName:   r["customer_name"],
		ItemName:       r["item_name"],
		QuantitySold:   r.Int("quantity_sold"),
		SalePrice:      r.Float("sale_price"),
		ReturnQuantity: r.Int("return_quantity"),
		TotalAmount:    r.Float("total_amount"),
		SaleDate:       r["sale_date"],
	}
}

func (e Employee) Row() store.Row {
	return store.Row{
		"id":     itoa(e.ID),
		"name":   e.Name,
		"role":   e.Role,
		"phone":  e.Phone,
		"salary": ftoa(e.Salary),
		"cnic":   e.CNIC,
	}
}

func EmployeeFromRow(r store.Row) Employee {
	return Employee{
		ID:     r.Int("id"),
		Name:   r["name"],
		Role:   r["role"],
		Phone:  r["phone"],
		Salary: r.Float("salary"),
		CNIC:   r["cnic"],
	}
}

func (e Expense) Row() store.Row {
	return store.Row{
		"id":          itoa(e.ID),
		"date":        e.Date,
		"description": e.Description,
		"amount":      ftoa(e.Amount),
		"category":    e.Category,
	}
}

func ExpenseFromRow(r store.Row) Expense {
	return Expense{
		ID:          r.Int("id"),
		Date:        r["date"],
		Description: r["description"],
		Amount:      r.Float("amount"),
		Category:    r["category"],
	}
}

func (u User) Row() store.Row {
	return store.Row{
		"id":            itoa(u.ID),
		"username":      u.Username,
		"password_hash": u.PasswordHash,
		"role":          u.Role,
	}
}

func UserFromRow(r store.Row) User {
	return User{
		ID:           r.Int("id"),
		Username:     r["username"],
		PasswordHash: r["password_hash"],
		Role:         r["role"],
	}
}
