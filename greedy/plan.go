package greedy

import (
	"fmt"

	"github.com/nstehr/rampart/arena"
)

// Op tags the variant of an Action.
type Op uint8

const (
	OpSpawn Op = iota
	OpUpgrade
)

// Action is one command for the turn: spawn a unit of Kind at At, or upgrade
// the structure standing at At (Kind is then the structure's kind).
type Action struct {
	Op   Op
	Kind arena.Kind
	At   arena.Position
}

func Spawn(k arena.Kind, at arena.Position) Action {
	return Action{Op: OpSpawn, Kind: k, At: at}
}

func Upgrade(k arena.Kind, at arena.Position) Action {
	return Action{Op: OpUpgrade, Kind: k, At: at}
}

// Apply commits the action against b's ledger.
func (a Action) Apply(b *arena.Board) error {
	if a.Op == OpUpgrade {
		return b.Upgrade(a.At)
	}
	return b.Spawn(a.Kind, a.At)
}

// Legal reports whether Apply would succeed on b.
func (a Action) Legal(b *arena.Board) bool {
	if a.Op == OpUpgrade {
		u, ok := b.At(a.At)
		return ok && u.Kind == a.Kind && b.CanUpgrade(a.At)
	}
	return b.CanSpawn(a.Kind, a.At)
}

func (a Action) String() string {
	if a.Op == OpUpgrade {
		return fmt.Sprintf("upgrade %s %s", a.Kind, a.At)
	}
	return fmt.Sprintf("spawn %s %s", a.Kind, a.At)
}

// PlacementOption is a scored defensive candidate. Options are ranked by
// Score alone.
type PlacementOption struct {
	Action Action
	Score  float64
}

// Plan is the ordered list of actions committed during one turn.
type Plan struct {
	Actions []Action
}

func (p *Plan) Add(a Action) { p.Actions = append(p.Actions, a) }

func (p *Plan) Len() int { return len(p.Actions) }
