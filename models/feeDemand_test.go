package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name    string
		paid    float64
		balance float64
		want    string
	}{
		{name: "untouched", paid: 0, balance: 5000, want: StatusPending},
		{name: "partially paid", paid: 2000, balance: 3000, want: StatusPartial},
		{name: "settled", paid: 5000, balance: 0, want: StatusPaid},
		{name: "overpaid rounds to paid", paid: 5000.01, balance: -0.01, want: StatusPaid},
		{name: "zero demand", paid: 0, balance: 0, want: StatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.paid, tt.balance))
		})
	}
}
