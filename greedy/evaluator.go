package greedy

import (
	"fmt"

	"github.com/nstehr/rampart/arena"
	"github.com/nstehr/rampart/navigation"
)

// Evaluator scores one hypothetical structural change against a reference
// route.
type Evaluator struct {
	// Repath re-runs the route from its spawn cell on the hypothetical board,
	// so placements that bend the lane are scored on the lane the attacker
	// would actually walk. Off, the reference path is scored as given.
	Repath bool
}

// MarginalValue applies a to a copy of b and returns the change in damage
// defender deals along the reference route. b is never modified. Actions the
// ledger would reject fail with arena.ErrIllegalAction.
func (e Evaluator) MarginalValue(b *arena.Board, a Action, ref Route, defender arena.Side) (float64, error) {
	if !a.Legal(b) {
		return 0, fmt.Errorf("evaluate %s: %w", a, arena.ErrIllegalAction)
	}
	baseline := PredictDamage(b, ref.Path, defender)

	hypo := b.Clone()
	if err := a.Apply(hypo); err != nil {
		return 0, fmt.Errorf("evaluate %s: %w", a, err)
	}
	path := ref.Path
	if e.Repath {
		path = navigation.Route(hypo, ref.Spawn)
	}
	return PredictDamage(hypo, path, defender) - baseline, nil
}
