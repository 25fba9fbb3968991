package fees

import (
	"context"
	"fmt"
	"time"

	"schoolfees-backend/models"
	"schoolfees-backend/utils"
)

// PaymentDetails carries the fields shared by every line of one payment
// action (single or bulk).
type PaymentDetails struct {
	Method          string
	Date            time.Time
	ReferenceNumber string
	Notes           string
	AcademicYear    string
}

// AppliedPayment reports one recorded payment line. BalanceBefore is the
// demand's balance prior to this payment; the receipt prints it.
type AppliedPayment struct {
	DemandID      string  `json:"fee_demand_id"`
	FeeType       string  `json:"fee_type"`
	BalanceBefore float64 `json:"balance_before"`
	Amount        float64 `json:"amount"`
	PaidAmount    float64 `json:"paid_amount"`
	BalanceAmount float64 `json:"balance_amount"`
	PaymentStatus string  `json:"payment_status"`
}

// Result is the outcome of one confirmed payment submission.
type Result struct {
	ReceiptNo string           `json:"receipt_no"`
	Payments  []AppliedPayment `json:"payments"`
}

func (r Result) Total() float64 {
	var sum float64
	for _, p := range r.Payments {
		sum += p.Amount
	}
	return utils.Round2(sum)
}

// Gateway is the persistence boundary of the payment flow. ApplyPlan must be
// atomic: either every line of the plan is recorded or none is.
type Gateway interface {
	ActiveStructures(ctx context.Context, grade string) ([]models.FeeStructure, error)
	DemandsForStudent(ctx context.Context, studentID string) ([]models.FeeDemand, error)
	ApplyPlan(ctx context.Context, studentID string, plan Plan, details PaymentDetails) (Result, error)
	// SaveReceipt stores the audit copy. Callers treat failure as log-only:
	// the payment has already been committed.
	SaveReceipt(ctx context.Context, receipt models.FeeReceipt) error
}

// Applier performs the primitive writes ExecutePlan sequences. A Gateway's
// ApplyPlan implementation runs ExecutePlan against an Applier bound to one
// database transaction.
type Applier interface {
	// MaterializeDemand converts a placeholder row into a persisted demand
	// and returns it with its generated id.
	MaterializeDemand(studentID string, row PlaceholderRow, academicYear string) (models.FeeDemand, error)
	// RecordPayment applies one amount against an existing demand id and
	// returns the rolled-up line result.
	RecordPayment(demandID, studentID string, line PlanLine, details PaymentDetails, receiptNo string) (AppliedPayment, error)
}

// ExecutePlan runs every line of a plan through the applier. For placeholder
// rows the demand is materialized first and the payment is recorded against
// the returned id, so the create-then-pay ordering holds by construction.
func ExecutePlan(a Applier, studentID string, plan Plan, details PaymentDetails, receiptNo string) (Result, error) {
	if plan.Empty() {
		return Result{}, ErrNoAllocations
	}
	res := Result{ReceiptNo: receiptNo}
	for _, line := range plan.Lines {
		demandID := line.Row.RowID()
		if placeholder, ok := line.Row.(PlaceholderRow); ok {
			demand, err := a.MaterializeDemand(studentID, placeholder, details.AcademicYear)
			if err != nil {
				return Result{}, fmt.Errorf("create demand for %s: %w", line.Row.FeeType(), err)
			}
			demandID = demand.Id
		}
		applied, err := a.RecordPayment(demandID, studentID, line, details, receiptNo)
		if err != nil {
			return Result{}, fmt.Errorf("apply payment for %s: %w", line.Row.FeeType(), err)
		}
		res.Payments = append(res.Payments, applied)
	}
	return res, nil
}

// NewReceiptNo generates a receipt number for one payment action.
func NewReceiptNo() string {
	return fmt.Sprintf("RCP-%d", time.Now().UnixMilli())
}
