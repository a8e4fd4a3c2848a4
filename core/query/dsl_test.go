package query

import (
	"testing"

	"github.com/asaidimu/go-sysparm/core/schema"
	"github.com/stretchr/testify/assert"
)

func TestOperator_IsStandard(t *testing.T) {
	assert.True(t, OperatorStartsWith.IsStandard())
	assert.True(t, OperatorNotIn.IsStandard())
	assert.True(t, OperatorBetween.IsStandard())
	assert.False(t, OperatorAnd.IsStandard())
	assert.False(t, OperatorOrderBy.IsStandard())
	assert.False(t, Operator("SAMEAS").IsStandard())
}

func TestOperator_Logical(t *testing.T) {
	tests := []struct {
		op   Operator
		want schema.LogicalOperator
		ok   bool
	}{
		{OperatorAnd, schema.LogicalAnd, true},
		{OperatorOr, schema.LogicalOr, true},
		{OperatorNewQuery, schema.LogicalNq, true},
		{OperatorEq, "", false},
		{OperatorOrderByDesc, "", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			got, ok := tt.op.Logical()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFragment_String(t *testing.T) {
	tests := []struct {
		name     string
		fragment Fragment
		want     string
	}{
		{"condition", Fragment{Kind: FragmentCondition, Field: "state", Operator: OperatorNeq, Operand: "closed"}, "state!=closed"},
		{"empty operand", Fragment{Kind: FragmentCondition, Field: "assigned_to", Operator: OperatorIsEmpty}, "assigned_toISEMPTY"},
		{"connector", Fragment{Kind: FragmentConnector, Operator: OperatorNewQuery}, "^NQ"},
		{"ordering", Fragment{Kind: FragmentOrdering, Field: "number", Operator: OperatorOrderByDesc}, "ORDERBYDESCnumber"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fragment.String())
		})
	}
}

func TestFragmentKind_String(t *testing.T) {
	assert.Equal(t, "condition", FragmentCondition.String())
	assert.Equal(t, "connector", FragmentConnector.String())
	assert.Equal(t, "ordering", FragmentOrdering.String())
	assert.Equal(t, "unknown", FragmentKind(9).String())
}
