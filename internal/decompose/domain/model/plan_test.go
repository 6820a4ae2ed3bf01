package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_Inverse(t *testing.T) {
	testCases := []struct {
		name     string
		kind     TransformKind
		expected TransformKind
	}{
		{name: "extract inverts to absorb", kind: TransformExtractEntities, expected: TransformAbsorbEntities},
		{name: "absorb inverts to extract", kind: TransformAbsorbEntities, expected: TransformExtractEntities},
		{name: "convert inverts to restore", kind: TransformConvertToLink, expected: TransformRestoreEmbedded},
		{name: "restore inverts to convert", kind: TransformRestoreEmbedded, expected: TransformConvertToLink},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := Transform{Kind: tc.kind, FieldName: "customer", LinkField: "customer_id", TargetEntity: "customers"}
			inv := tr.Inverse()
			assert.Equal(t, tc.expected, inv.Kind)
			assert.Equal(t, tr.FieldName, inv.FieldName)
			assert.Equal(t, tr.LinkField, inv.LinkField)
			assert.Equal(t, tr.TargetEntity, inv.TargetEntity)

			// Inverting twice round-trips.
			assert.True(t, tr.Equal(inv.Inverse()))
		})
	}
}

func validPlan() *RewritePlan {
	extractUsers := Transform{Kind: TransformExtractEntities, Entities: []string{"users"}}
	extractOrders := Transform{Kind: TransformExtractEntities, Entities: []string{"orders"}}
	convert := Transform{Kind: TransformConvertToLink, FieldName: "customer", LinkField: "customer_id", TargetEntity: "users"}

	return &RewritePlan{
		ID: "plan-1",
		Steps: []MigrationStep{
			{ID: "s1", BoundaryID: "svc-users", Forward: extractUsers, Rollback: extractUsers.Inverse()},
			{ID: "s2", BoundaryID: "svc-orders", Forward: extractOrders, Rollback: extractOrders.Inverse()},
			{ID: "s3", BoundaryID: "svc-orders", EntityName: "orders", Forward: convert, Rollback: convert.Inverse()},
		},
	}
}

func TestRewritePlan_Validate(t *testing.T) {
	t.Run("well ordered plan is valid", func(t *testing.T) {
		assert.NoError(t, validPlan().Validate())
	})

	t.Run("link before source extraction rejected", func(t *testing.T) {
		plan := validPlan()
		plan.Steps[1], plan.Steps[2] = plan.Steps[2], plan.Steps[1]
		assert.ErrorIs(t, plan.Validate(), ErrStepOutOfOrder)
	})

	t.Run("link before target extraction rejected", func(t *testing.T) {
		plan := validPlan()
		plan.Steps[0], plan.Steps[1] = plan.Steps[1], plan.Steps[0]
		plan.Steps[1], plan.Steps[2] = plan.Steps[2], plan.Steps[1]
		assert.ErrorIs(t, plan.Validate(), ErrStepOutOfOrder)
	})

	t.Run("mismatched rollback rejected", func(t *testing.T) {
		plan := validPlan()
		plan.Steps[2].Rollback = Transform{Kind: TransformAbsorbEntities}
		assert.ErrorIs(t, plan.Validate(), ErrRollbackMismatch)
	})
}

func TestRewritePlan_StepsForBoundary(t *testing.T) {
	plan := validPlan()

	steps := plan.StepsForBoundary("svc-orders")
	require.Len(t, steps, 2)
	assert.Equal(t, "s2", steps[0].ID)
	assert.Equal(t, "s3", steps[1].ID)

	assert.Empty(t, plan.StepsForBoundary("svc-missing"))
}
