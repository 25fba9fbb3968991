package fees

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolfees-backend/models"
)

// fakeGateway implements Gateway with canned behavior for session tests.
type fakeGateway struct {
	applyErr   error
	applyCalls int
	lastPlan   Plan
}

func (f *fakeGateway) ActiveStructures(ctx context.Context, grade string) ([]models.FeeStructure, error) {
	return nil, nil
}

func (f *fakeGateway) DemandsForStudent(ctx context.Context, studentID string) ([]models.FeeDemand, error) {
	return nil, nil
}

func (f *fakeGateway) ApplyPlan(ctx context.Context, studentID string, plan Plan, details PaymentDetails) (Result, error) {
	f.applyCalls++
	f.lastPlan = plan
	if f.applyErr != nil {
		return Result{}, f.applyErr
	}
	res := Result{ReceiptNo: "RCP-1"}
	for _, line := range plan.Lines {
		res.Payments = append(res.Payments, AppliedPayment{
			DemandID:      line.Row.RowID(),
			FeeType:       line.Row.FeeType(),
			BalanceBefore: line.Row.Balance(),
			Amount:        line.Amount,
			PaidAmount:    line.Row.PaidAmount() + line.Amount,
			BalanceAmount: line.Row.Balance() - line.Amount,
			PaymentStatus: models.DeriveStatus(line.Row.PaidAmount()+line.Amount, line.Row.Balance()-line.Amount),
		})
	}
	return res, nil
}

func (f *fakeGateway) SaveReceipt(ctx context.Context, receipt models.FeeReceipt) error {
	return nil
}

func testStudent() models.Student {
	return models.Student{Id: "student-1", FullName: "Asha Rao", Grade: "5"}
}

func testDetails() PaymentDetails {
	return PaymentDetails{
		Method:       models.MethodCash,
		Date:         time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		AcademicYear: "2026",
	}
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from    State
		event   event
		want    State
		wantErr bool
	}{
		{from: Idle, event: eventSelect, want: Selecting},
		{from: Selecting, event: eventSelect, want: Selecting},
		{from: Selecting, event: eventConfirm, want: Confirming},
		{from: Confirming, event: eventSubmit, want: Submitting},
		{from: Submitting, event: eventSucceed, want: ShowingReceipt},
		{from: Submitting, event: eventFail, want: Confirming},
		{from: ShowingReceipt, event: eventReset, want: Idle},
		{from: Confirming, event: eventReset, want: Idle},

		{from: Idle, event: eventConfirm, wantErr: true},
		{from: Idle, event: eventSubmit, wantErr: true},
		{from: Selecting, event: eventSubmit, wantErr: true},
		{from: Confirming, event: eventSelect, wantErr: true},
		{from: Confirming, event: eventSucceed, wantErr: true},
		{from: Submitting, event: eventSelect, wantErr: true},
		{from: Submitting, event: eventSubmit, wantErr: true},
		{from: ShowingReceipt, event: eventSubmit, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.from.String()+"_"+eventName(tt.event), func(t *testing.T) {
			got, err := transition(tt.from, tt.event)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSessionHappyPath(t *testing.T) {
	row := persistedRow("d1", 5000, 0)
	gw := &fakeGateway{}

	s := NewSession(testStudent())
	assert.Equal(t, Idle, s.State())

	require.NoError(t, s.Select([]DemandRow{row}))
	assert.Equal(t, Selecting, s.State())

	plan, err := SinglePlan(row, 2000)
	require.NoError(t, err)
	require.NoError(t, s.Confirm(plan))
	assert.Equal(t, Confirming, s.State())

	res, err := s.Submit(context.Background(), gw, testDetails())
	require.NoError(t, err)
	assert.Equal(t, ShowingReceipt, s.State())
	assert.Equal(t, "RCP-1", res.ReceiptNo)
	require.Len(t, res.Payments, 1)
	assert.Equal(t, 2000.0, res.Payments[0].Amount)
	assert.Equal(t, models.StatusPartial, res.Payments[0].PaymentStatus)

	got, err := s.Result()
	require.NoError(t, err)
	assert.Equal(t, res, got)
}

func TestSessionGuards(t *testing.T) {
	row := persistedRow("d1", 5000, 0)

	t.Run("no student", func(t *testing.T) {
		s := NewSession(models.Student{})
		assert.ErrorIs(t, s.Select([]DemandRow{row}), ErrNoStudent)
	})

	t.Run("empty selection", func(t *testing.T) {
		s := NewSession(testStudent())
		assert.ErrorIs(t, s.Select(nil), ErrNoneSelected)
	})

	t.Run("confirm before select", func(t *testing.T) {
		s := NewSession(testStudent())
		plan, err := SinglePlan(row, 100)
		require.NoError(t, err)
		assert.ErrorIs(t, s.Confirm(plan), ErrInvalidTransition)
	})

	t.Run("plan over unselected row", func(t *testing.T) {
		other := persistedRow("d2", 300, 0)
		s := NewSession(testStudent())
		require.NoError(t, s.Select([]DemandRow{row}))
		plan, err := SinglePlan(other, 100)
		require.NoError(t, err)
		assert.ErrorContains(t, s.Confirm(plan), "unselected row")
	})

	t.Run("submit before confirm", func(t *testing.T) {
		s := NewSession(testStudent())
		require.NoError(t, s.Select([]DemandRow{row}))
		_, err := s.Submit(context.Background(), &fakeGateway{}, testDetails())
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("result before success", func(t *testing.T) {
		s := NewSession(testStudent())
		_, err := s.Result()
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestSessionFailureAllowsRetry(t *testing.T) {
	row := persistedRow("d1", 5000, 0)
	gw := &fakeGateway{applyErr: errors.New("connection reset")}

	s := NewSession(testStudent())
	require.NoError(t, s.Select([]DemandRow{row}))
	plan, err := SinglePlan(row, 2000)
	require.NoError(t, err)
	require.NoError(t, s.Confirm(plan))

	_, err = s.Submit(context.Background(), gw, testDetails())
	require.Error(t, err)
	assert.Equal(t, Confirming, s.State())

	// The plan survives the failure; retrying needs no re-entry.
	gw.applyErr = nil
	res, err := s.Submit(context.Background(), gw, testDetails())
	require.NoError(t, err)
	assert.Equal(t, ShowingReceipt, s.State())
	assert.Equal(t, 2, gw.applyCalls)
	require.Len(t, gw.lastPlan.Lines, 1)
	assert.Equal(t, 2000.0, res.Payments[0].Amount)
}

func TestSessionReset(t *testing.T) {
	row := persistedRow("d1", 5000, 0)
	s := NewSession(testStudent())
	require.NoError(t, s.Select([]DemandRow{row}))
	plan, err := SinglePlan(row, 2000)
	require.NoError(t, err)
	require.NoError(t, s.Confirm(plan))

	s.Reset()
	assert.Equal(t, Idle, s.State())

	// A fresh selection starts the flow over.
	require.NoError(t, s.Select([]DemandRow{row}))
	assert.Equal(t, Selecting, s.State())
}
