package automation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		conditions []RuleCondition
		context    map[string]interface{}
		want       bool
	}{
		{
			name:       "no conditions matches everything",
			conditions: nil,
			context:    map[string]interface{}{"stage": "Lead"},
			want:       true,
		},
		{
			name:       "empty conditions matches empty context",
			conditions: []RuleCondition{},
			context:    map[string]interface{}{},
			want:       true,
		},
		{
			name: "missing field never matches",
			conditions: []RuleCondition{
				{Field: "stage", Operator: OperatorEquals, Value: "Lead"},
			},
			context: map[string]interface{}{"priority": "High"},
			want:    false,
		},
		{
			name: "equals matches",
			conditions: []RuleCondition{
				{Field: "stage", Operator: OperatorEquals, Value: "Closed"},
			},
			context: map[string]interface{}{"stage": "Closed"},
			want:    true,
		},
		{
			name: "equals compares across types",
			conditions: []RuleCondition{
				{Field: "count", Operator: OperatorEquals, Value: "3"},
			},
			context: map[string]interface{}{"count": 3},
			want:    true,
		},
		{
			name: "not_equals",
			conditions: []RuleCondition{
				{Field: "stage", Operator: OperatorNotEquals, Value: "Lead"},
			},
			context: map[string]interface{}{"stage": "Negotiation"},
			want:    true,
		},
		{
			name: "contains",
			conditions: []RuleCondition{
				{Field: "title", Operator: OperatorContains, Value: "urgent"},
			},
			context: map[string]interface{}{"title": "very urgent deal"},
			want:    true,
		},
		{
			name: "contains miss",
			conditions: []RuleCondition{
				{Field: "title", Operator: OperatorContains, Value: "urgent"},
			},
			context: map[string]interface{}{"title": "routine deal"},
			want:    false,
		},
		{
			name: "gt numeric",
			conditions: []RuleCondition{
				{Field: "value", Operator: OperatorGreaterThan, Value: 1000},
			},
			context: map[string]interface{}{"value": 2500.0},
			want:    true,
		},
		{
			name: "gt numeric strings compare as numbers",
			conditions: []RuleCondition{
				{Field: "value", Operator: OperatorGreaterThan, Value: "9"},
			},
			context: map[string]interface{}{"value": "10"},
			want:    true,
		},
		{
			name: "lt numeric",
			conditions: []RuleCondition{
				{Field: "value", Operator: OperatorLessThan, Value: 100},
			},
			context: map[string]interface{}{"value": 250},
			want:    false,
		},
		{
			name: "gt falls back to lexicographic for non-numbers",
			conditions: []RuleCondition{
				{Field: "stage", Operator: OperatorGreaterThan, Value: "Analyzing"},
			},
			context: map[string]interface{}{"stage": "Lead"},
			want:    true,
		},
		{
			name: "unknown operator never matches",
			conditions: []RuleCondition{
				{Field: "stage", Operator: "between", Value: "Lead"},
			},
			context: map[string]interface{}{"stage": "Lead"},
			want:    false,
		},
		{
			name: "all clauses must match",
			conditions: []RuleCondition{
				{Field: "stage", Operator: OperatorEquals, Value: "Lead"},
				{Field: "value", Operator: OperatorGreaterThan, Value: 1000},
			},
			context: map[string]interface{}{"stage": "Lead", "value": 500},
			want:    false,
		},
		{
			name: "multiple clauses all matching",
			conditions: []RuleCondition{
				{Field: "stage", Operator: OperatorEquals, Value: "Lead"},
				{Field: "value", Operator: OperatorGreaterThan, Value: 1000},
			},
			context: map[string]interface{}{"stage": "Lead", "value": 5000},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.conditions, tt.context))
		})
	}
}

func TestEvaluateDoesNotMutateContext(t *testing.T) {
	context := map[string]interface{}{"stage": "Lead"}
	Evaluate([]RuleCondition{
		{Field: "stage", Operator: OperatorEquals, Value: "Lead"},
	}, context)

	assert.Equal(t, map[string]interface{}{"stage": "Lead"}, context)
}
