package rules

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Engine runs compiled rules against each deploy turn.
// Rules fire in priority order; exclusive rules block lower-priority rules
// in the same category.
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

// Names lists the rules in evaluation order.
func (e *Engine) Names() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// Evaluate runs every rule against the turn. The environment is rebuilt
// before each rule so conditions see what earlier phases spent. A failing
// condition or action is logged and the remaining rules still run.
func (e *Engine) Evaluate(t *Turn) {
	fired := make(map[string]bool) // category → exclusive rule already fired

	for _, r := range e.rules {
		if fired[r.Category] {
			continue
		}
		env := newEnv(t)

		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}

		match, ok := result.(bool)
		if !ok || !match {
			continue
		}

		t.Fired = append(t.Fired, r.Name)
		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category, "sp", env.SP, "mp", env.MP)

		if err := r.Action(env, t); err != nil {
			slog.Error("rule action error", "rule", r.Name, "error", err)
		}

		if r.Exclusive {
			fired[r.Category] = true
		}
	}

	if len(t.Fired) == 0 {
		slog.Debug("no rule fired", "turn", t.Number, "sp", t.Board.SP, "mp", t.Board.MP)
	}
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(RuleEnv{}), expr.AsBool())
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
