package rules

import "github.com/expr-lang/expr/vm"

// AdjustFunc mutates the goal environment when a rule's condition is true.
type AdjustFunc func(env *GoalEnv)

// Rule is one named step of the goal computation: a condition → adjustment pair.
// Rules run in priority order and each sees the environment as left by the
// rules before it.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	ConditionSrc string      // expr source (preserved for logging)
	program      *vm.Program // compiled bytecode
	Adjust       AdjustFunc
}
