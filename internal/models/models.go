package models

// Date layouts used across the engine. Dates live in rows as plain strings;
// a cell that fails to parse is treated as "no date", never as an error.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02 15:04:05"
)

// Repair job statuses. Delivered is terminal: a delivered job is read-only.
const (
	StatusPending    = "Pending"
	StatusInProgress = "InProgress"
	StatusDelivered  = "Delivered"
)

// UsedPart is one billable part line on a repair job. IsStock marks parts
// taken from inventory (and therefore deducted at delivery) as opposed to
// parts bought in for the job. For stock parts PartRef holds the inventory
// item id; for bought-in parts it is free text.
type UsedPart struct {
	PartRef   string  `json:"part_ref"`
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	IsStock   bool    `json:"is_stock"`
}

// RepairJob is a repair ticket from intake to delivery.
type RepairJob struct {
	ID             int        `json:"id"`
	ClientName     string     `json:"client_name"`
	DeviceModel    string     `json:"device_model"`
	Issue          string     `json:"issue"`
	Status         string     `json:"status"`
	Phone          string     `json:"phone"`
	CreatedAt      string     `json:"created_at"`
	ServiceCost    float64    `json:"service_cost"`
	PartsCost      float64    `json:"parts_cost"`
	TotalCost      float64    `json:"total_cost"`
	UsedParts      []UsedPart `json:"used_parts"`
	AssignedTo     string     `json:"assigned_to"`
	StartDate      string     `json:"start_date"`
	DueDate        string     `json:"due_date"`
	CompletionDate string     `json:"completion_date"`
	IsLate         bool       `json:"is_late"`
}

// Delivered reports whether the job has reached its terminal state.
func (j RepairJob) Delivered() bool {
	return j.Status == StatusDelivered
}

// InventoryItem is one stocked part/product. Quantity never goes negative.
type InventoryItem struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	ImportDate   string  `json:"import_date"`
	Quantity     int     `json:"quantity"`
	CostPrice    float64 `json:"cost_price"`
	SellingPrice float64 `json:"selling_price"`
}

// LedgerEntry is one debit/credit line against a party (customer name).
// PartyName is a free-text key, not a foreign key: matching elsewhere is by
// exact string comparison, so renaming a customer orphans their history.
type LedgerEntry struct {
	ID          int     `json:"id"`
	PartyName   string  `json:"party_name"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}

// EmployeeLedgerEntry mirrors LedgerEntry for staff: earned replaces debit,
// paid replaces credit. Positive balance means the shop owes the employee.
type EmployeeLedgerEntry struct {
	ID           int     `json:"id"`
	EmployeeName string  `json:"employee_name"`
	Date         string  `json:"date"`
	Type         string  `json:"type"`
	Description  string  `json:"description"`
	Earned       float64 `json:"earned"`
	Paid         float64 `json:"paid"`
}

// Customer is a registered client profile. CustomerID is a display code like
// "C007"; the ledger still references customers by name only.
type Customer struct {
	ID             int     `json:"id"`
	CustomerID     string  `json:"customer_id"`
	Name           string  `json:"name"`
	City           string  `json:"city"`
	Phone          string  `json:"phone"`
	OpeningBalance float64 `json:"opening_balance"`
	Address        string  `json:"address"`
	NIC            string  `json:"nic"`
}

// InventorySale is one invoice line. An invoice is the set of lines sharing
// an InvoiceID; invoice-level totals (freight, misc, grand total) live only
// in the ledger entry posted alongside the lines.
type InventorySale struct {
	ID             int     `json:"id"`
	InvoiceID      string  `json:"invoice_id"`
	CustomerName   string  `json:"customer_name"`
	ItemName       string  `json:"item_name"`
	QuantitySold   int     `json:"quantity_sold"`
	SalePrice      float64 `json:"sale_price"`
	ReturnQuantity int     `json:"return_quantity"`
	TotalAmount    float64 `json:"total_amount"`
	SaleDate       string  `json:"sale_date"`
}

// Employee is a staff profile; names feed job assignment and the payroll
// ledger party list.
type Employee struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	Phone  string  `json:"phone"`
	Salary float64 `json:"salary"`
	CNIC   string  `json:"cnic"`
}

// Expense is a cash-out line for the daily cash flow report.
type Expense struct {
	ID          int     `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
}

// User is a dashboard login. Only the HTTP adapter touches this.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}
