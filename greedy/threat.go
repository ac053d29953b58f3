package greedy

import (
	"github.com/nstehr/rampart/arena"
	"github.com/nstehr/rampart/navigation"
)

// shooter is a structure that damages mobile units passing within range.
type shooter struct {
	at     arena.Position
	rng    float64
	damage float64
}

func shooters(b *arena.Board, defender arena.Side) []shooter {
	cat := b.Catalog()
	var out []shooter
	for p, u := range b.Units() {
		if u.Owner != defender {
			continue
		}
		st := cat.Of(u)
		if st.Damage <= 0 {
			continue
		}
		out = append(out, shooter{at: p, rng: st.Range, damage: st.Damage})
	}
	return out
}

// PredictDamage totals the damage a unit walking path takes from defender's
// structures: at every cell, each structure with that cell in range deals
// its configured damage once. Range and damage come from the board's catalog.
func PredictDamage(b *arena.Board, path arena.Path, defender arena.Side) float64 {
	guns := shooters(b, defender)
	if len(guns) == 0 {
		return 0
	}
	total := 0.0
	for _, cell := range path {
		for _, g := range guns {
			if cell.Distance(g.at) <= g.rng {
				total += g.damage
			}
		}
	}
	return total
}

// Route is a spawn cell, the path a unit spawned there walks, and the damage
// predicted along it.
type Route struct {
	Spawn  arena.Position
	Path   arena.Path
	Damage float64
}

// Breaches reports whether a unit fielded by attacker on this route scores.
func (r Route) Breaches(attacker arena.Side) bool { return r.Path.Breaches(attacker) }

// lanes routes a unit from each start and predicts the damage attacker takes
// along it. Starts the pathfinder cannot leave are dropped.
func lanes(b *arena.Board, attacker arena.Side, starts []arena.Position) []Route {
	out := make([]Route, 0, len(starts))
	for _, s := range starts {
		path := navigation.Route(b, s)
		if len(path) == 0 {
			continue
		}
		out = append(out, Route{Spawn: s, Path: path, Damage: PredictDamage(b, path, attacker.Other())})
	}
	return out
}

// cheapest returns the least-damage route; the earliest wins ties.
func cheapest(routes []Route) (Route, bool) {
	if len(routes) == 0 {
		return Route{}, false
	}
	best := routes[0]
	for _, r := range routes[1:] {
		if r.Damage < best.Damage {
			best = r
		}
	}
	return best, true
}

func breaching(routes []Route, attacker arena.Side) []Route {
	var out []Route
	for _, r := range routes {
		if r.Breaches(attacker) {
			out = append(out, r)
		}
	}
	return out
}

// Threat finds the opponent's best attack: among open opponent edge cells
// whose route breaches our edge, the one taking the least damage from our
// structures. ok is false when no opponent spawn can reach us.
func Threat(b *arena.Board) (Route, bool) {
	var starts []arena.Position
	for _, p := range arena.Edges(arena.Opponent) {
		if !b.Blocked(p) {
			starts = append(starts, p)
		}
	}
	return cheapest(breaching(lanes(b, arena.Opponent, starts), arena.Opponent))
}
