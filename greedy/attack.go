package greedy

import (
	"log/slog"
	"math"

	"github.com/nstehr/rampart/arena"
)

// Decision is the outcome class of an attack phase.
type Decision string

const (
	DecisionRush   Decision = "rush"
	DecisionSiege  Decision = "siege"
	DecisionHold   Decision = "hold"
	DecisionNoLane Decision = "no_lane"
)

// AttackReport summarizes one Attack call.
type AttackReport struct {
	Lane     Route
	Breach   bool
	Decision Decision
	Spawned  int
}

// openEdge lists side's edge cells free of structures.
func openEdge(b *arena.Board, side arena.Side) []arena.Position {
	var out []arena.Position
	for _, p := range arena.Edges(side) {
		if !b.Blocked(p) {
			out = append(out, p)
		}
	}
	return out
}

// Lane picks our attack route among starts: the one taking the least damage
// from opponent structures, first in order on ties. With preferBreach only
// breaching routes compete unless none breach.
func Lane(b *arena.Board, starts []arena.Position, preferBreach bool) (Route, bool) {
	routes := lanes(b, arena.Self, starts)
	if preferBreach {
		if hits := breaching(routes, arena.Self); len(hits) > 0 {
			routes = hits
		}
	}
	return cheapest(routes)
}

// Attack commits MP to the cheapest lane. A breaching lane the light units
// can survive is rushed with Scouts; otherwise the configured fallback
// decides between a Demolisher siege and holding MP.
func (p *Planner) Attack(b *arena.Board, plan *Plan) AttackReport {
	var starts []arena.Position
	for _, c := range arena.Edges(arena.Self) {
		if b.CanSpawn(arena.Scout, c) {
			starts = append(starts, c)
		}
	}
	lane, ok := Lane(b, starts, p.opts.PreferBreach)
	if !ok {
		return AttackReport{Decision: DecisionNoLane}
	}
	rep := AttackReport{Lane: lane, Breach: lane.Breaches(arena.Self)}

	scout := b.Catalog().Stats(arena.Scout, false)
	fallback := p.opts.OnNoBreach
	if rep.Breach {
		count := 0.0
		if scout.MobileCost > 0 {
			count = math.Floor(b.MP / scout.MobileCost)
		}
		if count*scout.Health > lane.Damage {
			rep.Decision = DecisionRush
			rep.Spawned = spawnAll(b, plan, arena.Scout, lane.Spawn)
			slog.Debug("rushing", "spawn", lane.Spawn.String(), "scouts", rep.Spawned, "damage", lane.Damage)
			return rep
		}
		fallback = p.opts.OnOutgunned
	}

	if fallback == Siege {
		rep.Decision = DecisionSiege
		rep.Spawned = spawnAll(b, plan, arena.Demolisher, lane.Spawn)
	} else {
		rep.Decision = DecisionHold
	}
	slog.Debug("attack fallback", "decision", string(rep.Decision), "breach", rep.Breach, "damage", lane.Damage, "spawned", rep.Spawned)
	return rep
}

func spawnAll(b *arena.Board, plan *Plan, k arena.Kind, at arena.Position) int {
	n := 0
	// Mobile costs are validated positive, so MP runs out; the cap is a backstop.
	for n < 1000 && b.CanSpawn(k, at) {
		a := Spawn(k, at)
		if err := a.Apply(b); err != nil {
			break
		}
		plan.Add(a)
		n++
	}
	return n
}
