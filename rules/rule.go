package rules

import (
	"github.com/expr-lang/expr/vm"
)

// ActionFunc runs one phase of the turn when its rule's condition is true.
type ActionFunc func(env RuleEnv, turn *Turn) error

// Rule is the atomic unit of turn behavior: a condition → action pair.
// The engine evaluates rules by priority and uses Category + Exclusive
// to keep conflicting phases from spending the same pool.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Category     string      // grouping for exclusive semantics
	Exclusive    bool        // if true, blocks lower-priority rules in same category
	ConditionSrc string      // expr source (preserved for serialization)
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}
