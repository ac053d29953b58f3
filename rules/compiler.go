package rules

import (
	"log/slog"
	"sort"
)

const (
	RuleOpening = "opening"
	RuleDefend  = "defend"
	RuleAttack  = "attack"
)

// CompileDoctrine generates the turn's rule set. Each phase has a default
// condition that the doctrine's conditions map may replace by rule name.
func CompileDoctrine(d Doctrine) []*Rule {
	d.Validate()
	rules := []*Rule{
		{
			Name:         RuleOpening,
			Priority:     1000,
			Category:     "structures",
			ConditionSrc: `Turn == 0`,
			Action:       ActionOpen,
		},
		{
			Name:         RuleDefend,
			Priority:     500,
			Category:     "structures",
			ConditionSrc: `SP >= MinStructureCost()`,
			Action:       ActionDefend,
		},
		{
			Name:         RuleAttack,
			Priority:     100,
			Category:     "mobile",
			Exclusive:    true,
			ConditionSrc: `MP >= LightUnitCost()`,
			Action:       ActionAttack,
		},
	}

	known := make(map[string]bool, len(rules))
	for _, r := range rules {
		known[r.Name] = true
		if src, ok := d.Conditions[r.Name]; ok && src != "" {
			r.ConditionSrc = src
		}
	}
	var unknown []string
	for name := range d.Conditions {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		slog.Warn("doctrine overrides unknown rules", "doctrine", d.Name, "rules", unknown)
	}
	return rules
}

// DefaultRules is the rule set of the default doctrine.
func DefaultRules() []*Rule {
	return CompileDoctrine(DefaultDoctrine())
}
