package fees

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolfees-backend/models"
)

// recordingApplier logs every primitive write so tests can assert ordering.
type recordingApplier struct {
	calls      []string
	failPayFor string
}

func (a *recordingApplier) MaterializeDemand(studentID string, row PlaceholderRow, academicYear string) (models.FeeDemand, error) {
	id := "gen-" + row.Structure.Id
	a.calls = append(a.calls, "materialize:"+row.Structure.Id)
	return models.FeeDemand{
		Id:             id,
		StudentID:      studentID,
		FeeStructureID: row.Structure.Id,
		AcademicYear:   academicYear,
		OriginalAmount: row.Structure.Amount,
		DemandAmount:   row.Structure.Amount,
		BalanceAmount:  row.Structure.Amount,
		PaymentStatus:  models.StatusPending,
	}, nil
}

func (a *recordingApplier) RecordPayment(demandID, studentID string, line PlanLine, details PaymentDetails, receiptNo string) (AppliedPayment, error) {
	a.calls = append(a.calls, "pay:"+demandID)
	if a.failPayFor != "" && demandID == a.failPayFor {
		return AppliedPayment{}, errors.New("deadlock detected")
	}
	balance := line.Row.Balance() - line.Amount
	paid := line.Row.PaidAmount() + line.Amount
	return AppliedPayment{
		DemandID:      demandID,
		FeeType:       line.Row.FeeType(),
		BalanceBefore: line.Row.Balance(),
		Amount:        line.Amount,
		PaidAmount:    paid,
		BalanceAmount: balance,
		PaymentStatus: models.DeriveStatus(paid, balance),
	}, nil
}

func TestExecutePlanMaterializesBeforePaying(t *testing.T) {
	rows := []DemandRow{
		persistedRow("d1", 5000, 0),
		PlaceholderRow{Structure: structure("s2", "Transport", 1200), FeeName: "Transport"},
	}
	plan, err := BulkPlan(rows, map[string]float64{"d1": 1000, "new-s2": 1200})
	require.NoError(t, err)

	applier := &recordingApplier{}
	res, err := ExecutePlan(applier, "student-1", plan, testDetails(), "RCP-9")
	require.NoError(t, err)

	// Persisted rows are paid directly; placeholders are created first and
	// paid against the generated id.
	assert.Equal(t, []string{"pay:d1", "materialize:s2", "pay:gen-s2"}, applier.calls)

	assert.Equal(t, "RCP-9", res.ReceiptNo)
	require.Len(t, res.Payments, 2)
	assert.Equal(t, "d1", res.Payments[0].DemandID)
	assert.Equal(t, "gen-s2", res.Payments[1].DemandID)
	assert.Equal(t, models.StatusPaid, res.Payments[1].PaymentStatus)
	assert.Equal(t, 2200.0, res.Total())
}

func TestExecutePlanStopsOnFirstFailure(t *testing.T) {
	rows := []DemandRow{
		persistedRow("d1", 5000, 0),
		persistedRow("d2", 1200, 0),
		persistedRow("d3", 300, 0),
	}
	plan, err := BulkPlan(rows, map[string]float64{"d1": 100, "d2": 100, "d3": 100})
	require.NoError(t, err)

	applier := &recordingApplier{failPayFor: "d2"}
	_, err = ExecutePlan(applier, "student-1", plan, testDetails(), "RCP-9")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Fee d2"))

	// d3 is never attempted; the transaction wrapping the applier rolls the
	// earlier lines back.
	assert.Equal(t, []string{"pay:d1", "pay:d2"}, applier.calls)
}

func TestExecutePlanRejectsEmptyPlan(t *testing.T) {
	_, err := ExecutePlan(&recordingApplier{}, "student-1", Plan{}, testDetails(), "RCP-9")
	assert.ErrorIs(t, err, ErrNoAllocations)
}

func TestNewReceiptNo(t *testing.T) {
	n := NewReceiptNo()
	assert.True(t, strings.HasPrefix(n, "RCP-"))
	assert.Greater(t, len(n), len("RCP-"))
}
