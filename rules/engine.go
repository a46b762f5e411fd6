package rules

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine runs compiled goal rules against one turn's observations.
// It is built once per match and is read-only afterwards.
type Engine struct {
	rules []*Rule
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Rules returns the rule names in evaluation order.
func (e *Engine) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// Evaluate runs every rule in priority order against env and returns the
// resulting environment plus the names of the rules that fired.
func (e *Engine) Evaluate(env GoalEnv) (GoalEnv, []string) {
	var fired []string
	for _, r := range e.rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}
		match, ok := result.(bool)
		if !ok || !match {
			continue
		}
		r.Adjust(&env)
		fired = append(fired, r.Name)
		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "default", env.Default, "goal", env.Goal)
	}
	return env, fired
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		if r.Adjust == nil {
			return nil, fmt.Errorf("rule %q has no adjustment", r.Name)
		}
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(GoalEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
