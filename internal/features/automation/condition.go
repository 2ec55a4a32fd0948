package automation

import (
	"fmt"
	"strconv"
	"strings"
)

// Evaluate applies the rule predicate to the event payload or record
// snapshot. An empty clause list is unconditionally true; a clause whose
// field is absent from the context is false. Evaluation is total: it never
// errors and never mutates the context.
func Evaluate(conditions []RuleCondition, context map[string]interface{}) bool {
	for _, cond := range conditions {
		val, exists := context[cond.Field]
		if !exists {
			return false
		}

		match := false
		switch cond.Operator {
		case OperatorEquals:
			match = fmt.Sprintf("%v", val) == fmt.Sprintf("%v", cond.Value)
		case OperatorNotEquals:
			match = fmt.Sprintf("%v", val) != fmt.Sprintf("%v", cond.Value)
		case OperatorContains:
			match = strings.Contains(fmt.Sprintf("%v", val), fmt.Sprintf("%v", cond.Value))
		case OperatorGreaterThan:
			match = compare(val, cond.Value) > 0
		case OperatorLessThan:
			match = compare(val, cond.Value) < 0
		default:
			match = false
		}

		if !match {
			return false
		}
	}
	return true
}

// compare orders two scalars: numerically when both sides parse as numbers,
// lexicographically otherwise.
func compare(a, b interface{}) int {
	as := fmt.Sprintf("%v", a)
	bs := fmt.Sprintf("%v", b)

	af, aerr := strconv.ParseFloat(as, 64)
	bf, berr := strconv.ParseFloat(bs, 64)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(as, bs)
}
