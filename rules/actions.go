package rules

import (
	"fmt"
	"log/slog"
)

func ActionOpen(env RuleEnv, t *Turn) error {
	t.Opened = t.Planner.Open(t.Board, &t.Plan, t.Opening)
	slog.Debug("opening built", "mode", string(t.Opening.Mode), "placed", t.Opened, "sp_left", t.Board.SP)
	return nil
}

func ActionDefend(env RuleEnv, t *Turn) error {
	rep, err := t.Planner.Defend(t.Board, &t.Plan)
	t.Defense = &rep
	if err != nil {
		return fmt.Errorf("defend: %w", err)
	}
	slog.Debug("defense built",
		"threatened", rep.Threatened,
		"threat_spawn", rep.Threat.Spawn.String(),
		"threat_damage", rep.Threat.Damage,
		"committed", len(rep.Committed),
		"spent", rep.Spent,
	)
	return nil
}

func ActionAttack(env RuleEnv, t *Turn) error {
	rep := t.Planner.Attack(t.Board, &t.Plan)
	t.Attack = &rep
	slog.Debug("attack chosen",
		"decision", string(rep.Decision),
		"spawn", rep.Lane.Spawn.String(),
		"damage", rep.Lane.Damage,
		"breach", rep.Breach,
		"spawned", rep.Spawned,
	)
	return nil
}
