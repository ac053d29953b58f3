package greedy

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/rampart/arena"
	"golang.org/x/sync/errgroup"
)

// DefenseReport summarizes one Defend call.
type DefenseReport struct {
	// Threat is the opponent's best lane before anything was committed.
	Threat     Route
	Threatened bool
	Committed  []PlacementOption
	Spent      float64
}

// Defend greedily spends SP on the structural action that most raises the
// damage along the opponent's best breaching lane. After every commit the
// lane is re-derived, since the new structure may have moved it. Actions are
// applied to b through its ledger and appended to plan.
func (p *Planner) Defend(b *arena.Board, plan *Plan) (DefenseReport, error) {
	var rep DefenseReport
	cat := b.Catalog()
	floor := p.MinSpend(cat)
	start := b.SP

	maxIter := arena.Size * arena.Half
	if c := MinStructureCost(cat); c > 0 {
		maxIter = int(start / c)
	}

	for iter := 0; iter < maxIter && b.SP >= floor; iter++ {
		threat, ok := Threat(b)
		if !ok {
			slog.Debug("no breaching opponent lane", "sp", b.SP)
			break
		}
		if iter == 0 {
			rep.Threat, rep.Threatened = threat, true
		}

		exclude := make(map[arena.Position]bool, len(threat.Path)*2)
		for _, c := range threat.Path {
			exclude[c] = true
		}
		if lane, ok := Lane(b, openEdge(b, arena.Self), p.opts.PreferBreach); ok {
			for _, c := range lane.Path {
				exclude[c] = true
			}
		}

		cands := candidates(b, exclude)
		if len(cands) == 0 {
			break
		}
		scored, err := p.score(b, cands, threat)
		if err != nil {
			return rep, fmt.Errorf("score defense candidates: %w", err)
		}
		best := pick(scored)
		if best.Score <= 0 {
			slog.Debug("no improving structure", "sp", b.SP, "threat_damage", threat.Damage)
			break
		}

		before := b.SP
		if err := best.Action.Apply(b); err != nil {
			return rep, fmt.Errorf("commit %s: %w", best.Action, err)
		}
		plan.Add(best.Action)
		rep.Committed = append(rep.Committed, best)
		rep.Spent += before - b.SP
		slog.Debug("committed structure", "action", best.Action.String(), "score", best.Score, "sp_left", b.SP)
	}
	return rep, nil
}

// candidates enumerates legal structural actions on our half, x ascending
// then y ascending, and Wall, Turret, upgrade within a cell.
func candidates(b *arena.Board, exclude map[arena.Position]bool) []Action {
	var out []Action
	for x := 0; x < arena.Size; x++ {
		for y := 0; y < arena.Half; y++ {
			at := arena.Position{X: x, Y: y}
			if !at.InBounds() || exclude[at] {
				continue
			}
			if u, ok := b.At(at); ok {
				if u.Kind == arena.Turret && b.CanUpgrade(at) {
					out = append(out, Upgrade(arena.Turret, at))
				}
				continue
			}
			for _, k := range []arena.Kind{arena.Wall, arena.Turret} {
				if b.CanSpawn(k, at) {
					out = append(out, Spawn(k, at))
				}
			}
		}
	}
	return out
}

func (p *Planner) weight(a Action) float64 {
	if a.Op == OpUpgrade {
		return 1
	}
	switch a.Kind {
	case arena.Wall:
		return p.opts.WallWeight
	case arena.Turret:
		return p.opts.TurretWeight
	}
	return 1
}

// score evaluates every candidate on a private copy of b. Results are stored
// by candidate index so the reduction stays in enumeration order.
func (p *Planner) score(b *arena.Board, cands []Action, threat Route) ([]PlacementOption, error) {
	out := make([]PlacementOption, len(cands))
	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for i, a := range cands {
		g.Go(func() error {
			v, err := p.eval.MarginalValue(b, a, threat, arena.Self)
			if err != nil {
				return err
			}
			out[i] = PlacementOption{Action: a, Score: v * p.weight(a)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// pick returns the highest scoring option; the earliest wins ties.
func pick(opts []PlacementOption) PlacementOption {
	best := opts[0]
	for _, o := range opts[1:] {
		if o.Score > best.Score {
			best = o
		}
	}
	return best
}
