package rules

import (
	"github.com/nstehr/rampart/arena"
	"github.com/nstehr/rampart/greedy"
)

// Turn carries one deploy frame through the fired rules. Actions spend from
// Board, append to Plan and leave their reports behind for the journal.
type Turn struct {
	Number      int
	Health      float64
	EnemyHealth float64
	Board       *arena.Board
	Planner     *greedy.Planner
	Opening     greedy.Opening
	Plan        greedy.Plan

	Fired   []string
	Opened  int
	Defense *greedy.DefenseReport
	Attack  *greedy.AttackReport
}

// RuleEnv is the expr environment: a snapshot of the turn as the previous
// rules left it, plus helpers callable from conditions.
type RuleEnv struct {
	Turn        int
	SP          float64
	MP          float64
	Health      float64
	EnemyHealth float64

	board   *arena.Board
	planner *greedy.Planner
}

func newEnv(t *Turn) RuleEnv {
	return RuleEnv{
		Turn:        t.Number,
		SP:          t.Board.SP,
		MP:          t.Board.MP,
		Health:      t.Health,
		EnemyHealth: t.EnemyHealth,
		board:       t.Board,
		planner:     t.Planner,
	}
}

// MinStructureCost is the SP floor of the defense loop.
func (e RuleEnv) MinStructureCost() float64 {
	if e.board == nil || e.planner == nil {
		return 0
	}
	return e.planner.MinSpend(e.board.Catalog())
}

// LightUnitCost is the MP price of one Scout.
func (e RuleEnv) LightUnitCost() float64 {
	if e.board == nil {
		return 0
	}
	return greedy.LightUnitCost(e.board.Catalog())
}

func (e RuleEnv) EnemyTurrets() int { return e.count(arena.Opponent, isTurret) }
func (e RuleEnv) OwnTurrets() int   { return e.count(arena.Self, isTurret) }

func (e RuleEnv) EnemyStructures() int { return e.count(arena.Opponent, nil) }
func (e RuleEnv) OwnStructures() int   { return e.count(arena.Self, nil) }

func isTurret(k arena.Kind) bool { return k == arena.Turret }

// count tallies side's structures, optionally filtered by kind.
func (e RuleEnv) count(side arena.Side, match func(arena.Kind) bool) int {
	if e.board == nil {
		return 0
	}
	n := 0
	for _, u := range e.board.Units() {
		if u.Owner == side && (match == nil || match(u.Kind)) {
			n++
		}
	}
	return n
}
