package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"schoolfees-backend/fees"
	"schoolfees-backend/models"
)

// Every gateway operation pins search_path inside its own transaction, so a
// gateway without a tenant schema must refuse to touch the pool at all.
func TestFeeGatewayRefusesMissingSchema(t *testing.T) {
	ctx := context.Background()

	for _, schema := range []string{"", "   "} {
		gw := NewFeeGateway(nil, schema)

		_, err := gw.ActiveStructures(ctx, "5")
		assert.ErrorContains(t, err, "tenant schema missing")

		_, err = gw.DemandsForStudent(ctx, "student-1")
		assert.ErrorContains(t, err, "tenant schema missing")

		_, err = gw.StudentWithGuardians(ctx, "student-1")
		assert.ErrorContains(t, err, "tenant schema missing")

		_, err = gw.ApplyPlan(ctx, "student-1", fees.Plan{}, fees.PaymentDetails{})
		assert.ErrorContains(t, err, "tenant schema missing")

		err = gw.SaveReceipt(ctx, models.FeeReceipt{})
		assert.ErrorContains(t, err, "tenant schema missing")
	}
}
