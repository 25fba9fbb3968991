package fees

import (
	"errors"

	"schoolfees-backend/utils"
)

// Local validation errors, reported before any gateway call is made.
var (
	ErrNoStudent      = errors.New("no student selected")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrExceedsBalance = errors.New("payment amount exceeds balance amount")
	ErrNoneSelected   = errors.New("select at least one fee to pay")
	ErrNoAllocations  = errors.New("enter payment amounts")
)

// PlanLine allocates an amount against one demand row.
type PlanLine struct {
	Row    DemandRow
	Amount float64
}

// Plan is a validated set of allocations ready for one gateway submission.
type Plan struct {
	Lines []PlanLine
}

func (p Plan) Total() float64 {
	var sum float64
	for _, l := range p.Lines {
		sum += l.Amount
	}
	return utils.Round2(sum)
}

func (p Plan) Empty() bool { return len(p.Lines) == 0 }

// SinglePlan validates one payment amount against one row.
func SinglePlan(row DemandRow, amount float64) (Plan, error) {
	if amount <= 0 {
		return Plan{}, ErrInvalidAmount
	}
	if amount > row.Balance() {
		return Plan{}, ErrExceedsBalance
	}
	return Plan{Lines: []PlanLine{{Row: row, Amount: utils.Round2(amount)}}}, nil
}

// ClampAllocation bounds a per-row allocation to [0, balance], mirroring what
// the allocation form enforces at input time.
func ClampAllocation(row DemandRow, amount float64) float64 {
	if amount < 0 {
		return 0
	}
	if amount > row.Balance() {
		return row.Balance()
	}
	return utils.Round2(amount)
}

// BulkPlan builds a plan from per-row allocations, keyed by row id. Rows with
// a zero allocation are dropped; out-of-range values are clamped; the total
// must come out positive. Line order follows the rows slice.
func BulkPlan(rows []DemandRow, allocations map[string]float64) (Plan, error) {
	var lines []PlanLine
	for _, row := range rows {
		amount, ok := allocations[row.RowID()]
		if !ok {
			continue
		}
		amount = ClampAllocation(row, amount)
		if amount <= 0 {
			continue
		}
		lines = append(lines, PlanLine{Row: row, Amount: amount})
	}
	plan := Plan{Lines: lines}
	if plan.Total() <= 0 {
		return Plan{}, ErrNoAllocations
	}
	return plan, nil
}
