package fees

import (
	"fmt"
	"time"

	"schoolfees-backend/models"
)

// placeholderPrefix marks rows synthesized from a fee structure with no
// persisted demand yet.
const placeholderPrefix = "new-"

// DemandRow is one line of the cashier's fee table: either a persisted demand
// or a placeholder synthesized from the fee catalog. The two cases carry
// different data, so this is a sealed sum type; callers type-switch on
// PersistedRow / PlaceholderRow instead of checking a flag.
type DemandRow interface {
	RowID() string
	StructureID() string
	FeeType() string
	DueDate() *time.Time
	TotalAmount() float64
	Discount() float64
	DemandAmount() float64
	PaidAmount() float64
	Balance() float64
	Status() string

	sealed()
}

// PersistedRow wraps an existing FeeDemand annotated with its category name.
type PersistedRow struct {
	Demand  models.FeeDemand
	FeeName string
}

func (r PersistedRow) RowID() string        { return r.Demand.Id }
func (r PersistedRow) StructureID() string  { return r.Demand.FeeStructureID }
func (r PersistedRow) FeeType() string      { return r.FeeName }
func (r PersistedRow) DueDate() *time.Time  { return r.Demand.DueDate }
func (r PersistedRow) TotalAmount() float64 { return r.Demand.OriginalAmount }
func (r PersistedRow) Discount() float64    { return r.Demand.DiscountAmount }
func (r PersistedRow) DemandAmount() float64 {
	return r.Demand.DemandAmount
}
func (r PersistedRow) PaidAmount() float64 { return r.Demand.PaidAmount }
func (r PersistedRow) Balance() float64    { return r.Demand.BalanceAmount }
func (r PersistedRow) Status() string      { return r.Demand.PaymentStatus }
func (r PersistedRow) sealed()             {}

// PlaceholderRow stands in for a fee structure the student has no demand for
// yet. The full structure amount is owed; a real demand is materialized on
// first payment.
type PlaceholderRow struct {
	Structure models.FeeStructure
	FeeName   string
}

func (r PlaceholderRow) RowID() string         { return placeholderPrefix + r.Structure.Id }
func (r PlaceholderRow) StructureID() string   { return r.Structure.Id }
func (r PlaceholderRow) FeeType() string       { return r.FeeName }
func (r PlaceholderRow) DueDate() *time.Time   { return nil }
func (r PlaceholderRow) TotalAmount() float64  { return r.Structure.Amount }
func (r PlaceholderRow) Discount() float64     { return 0 }
func (r PlaceholderRow) DemandAmount() float64 { return r.Structure.Amount }
func (r PlaceholderRow) PaidAmount() float64   { return 0 }
func (r PlaceholderRow) Balance() float64      { return r.Structure.Amount }
func (r PlaceholderRow) Status() string        { return models.StatusPending }
func (r PlaceholderRow) sealed()               {}

// CheckRowRef verifies a client-supplied row reference against the resolved
// row. The client echoes is_new and the structure id alongside the row id;
// a mismatch means its fee table is stale, e.g. a placeholder it still shows
// has since been materialized.
func CheckRowRef(row DemandRow, isNew bool, structureID string) error {
	_, placeholder := row.(PlaceholderRow)
	if isNew != placeholder {
		return fmt.Errorf("row %s no longer matches its table entry, reload fee demands", row.RowID())
	}
	if structureID != "" && structureID != row.StructureID() {
		return fmt.Errorf("row %s refers to a different fee structure, reload fee demands", row.RowID())
	}
	return nil
}

// RowView is the JSON shape served to the fee table.
type RowView struct {
	ID             string     `json:"id"`
	FeeStructureID string     `json:"fee_structure_id"`
	FeeType        string     `json:"fee_type"`
	DueDate        *time.Time `json:"due_date"`
	TotalAmount    float64    `json:"total_amount"`
	Discount       float64    `json:"discount"`
	DemandAmount   float64    `json:"demand_amount"`
	PaidAmount     float64    `json:"paid_amount"`
	BalanceAmount  float64    `json:"balance_amount"`
	PaymentStatus  string     `json:"payment_status"`
	IsNew          bool       `json:"is_new"`
}

func View(row DemandRow) RowView {
	_, isNew := row.(PlaceholderRow)
	return RowView{
		ID:             row.RowID(),
		FeeStructureID: row.StructureID(),
		FeeType:        row.FeeType(),
		DueDate:        row.DueDate(),
		TotalAmount:    row.TotalAmount(),
		Discount:       row.Discount(),
		DemandAmount:   row.DemandAmount(),
		PaidAmount:     row.PaidAmount(),
		BalanceAmount:  row.Balance(),
		PaymentStatus:  row.Status(),
		IsNew:          isNew,
	}
}
