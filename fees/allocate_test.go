package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func persistedRow(id string, demandAmt, paid float64) PersistedRow {
	return PersistedRow{Demand: demand(id, "s-"+id, demandAmt, paid), FeeName: "Fee " + id}
}

func TestSinglePlan(t *testing.T) {
	row := persistedRow("d1", 5000, 2000) // balance 3000

	tests := []struct {
		name    string
		amount  float64
		wantErr error
	}{
		{name: "full balance", amount: 3000},
		{name: "partial", amount: 1500.50},
		{name: "zero", amount: 0, wantErr: ErrInvalidAmount},
		{name: "negative", amount: -10, wantErr: ErrInvalidAmount},
		{name: "over balance", amount: 3000.01, wantErr: ErrExceedsBalance},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := SinglePlan(row, tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, plan.Empty())
				return
			}
			require.NoError(t, err)
			require.Len(t, plan.Lines, 1)
			assert.Equal(t, tt.amount, plan.Lines[0].Amount)
			assert.Equal(t, "d1", plan.Lines[0].Row.RowID())
		})
	}
}

func TestClampAllocation(t *testing.T) {
	row := persistedRow("d1", 1000, 400) // balance 600

	assert.Equal(t, 0.0, ClampAllocation(row, -5))
	assert.Equal(t, 0.0, ClampAllocation(row, 0))
	assert.Equal(t, 250.0, ClampAllocation(row, 250))
	assert.Equal(t, 600.0, ClampAllocation(row, 600))
	assert.Equal(t, 600.0, ClampAllocation(row, 9999))
}

func TestBulkPlan(t *testing.T) {
	rows := []DemandRow{
		persistedRow("d1", 5000, 0),    // balance 5000
		persistedRow("d2", 1200, 200),  // balance 1000
		persistedRow("d3", 300, 300),   // balance 0
		PlaceholderRow{Structure: structure("s4", "Exam Fee", 450), FeeName: "Exam Fee"},
	}

	t.Run("drops zero lines and keeps row order", func(t *testing.T) {
		plan, err := BulkPlan(rows, map[string]float64{
			"new-s4": 450,
			"d1":     2000,
			"d2":     0,
		})
		require.NoError(t, err)
		require.Len(t, plan.Lines, 2)
		assert.Equal(t, "d1", plan.Lines[0].Row.RowID())
		assert.Equal(t, "new-s4", plan.Lines[1].Row.RowID())
		assert.Equal(t, 2450.0, plan.Total())
	})

	t.Run("clamps over-balance allocations", func(t *testing.T) {
		plan, err := BulkPlan(rows, map[string]float64{"d2": 5000})
		require.NoError(t, err)
		require.Len(t, plan.Lines, 1)
		assert.Equal(t, 1000.0, plan.Lines[0].Amount)
	})

	t.Run("settled rows take nothing", func(t *testing.T) {
		_, err := BulkPlan(rows, map[string]float64{"d3": 100})
		assert.ErrorIs(t, err, ErrNoAllocations)
	})

	t.Run("no allocations at all", func(t *testing.T) {
		_, err := BulkPlan(rows, nil)
		assert.ErrorIs(t, err, ErrNoAllocations)

		_, err = BulkPlan(rows, map[string]float64{"d1": 0, "d2": -50})
		assert.ErrorIs(t, err, ErrNoAllocations)
	})
}

func TestPlanTotalRounds(t *testing.T) {
	plan := Plan{Lines: []PlanLine{
		{Row: persistedRow("d1", 100, 0), Amount: 0.1},
		{Row: persistedRow("d2", 100, 0), Amount: 0.2},
	}}
	assert.Equal(t, 0.3, plan.Total())
}
