// Package greedy is the per-turn decision core: it predicts damage along
// attack lanes, greedily spends SP on the structure that most punishes the
// opponent's best lane, and commits MP to our own cheapest lane.
package greedy

import (
	"fmt"
	"math"

	"github.com/nstehr/rampart/arena"
)

// Fallback is what the attack selector does with MP when rushing with light
// units is off the table.
type Fallback string

const (
	// Hold keeps MP for a later turn.
	Hold Fallback = "hold"
	// Siege spends MP on heavy units down the chosen lane.
	Siege Fallback = "siege"
)

// ParseFallback accepts "hold" or "siege".
func ParseFallback(s string) (Fallback, error) {
	switch f := Fallback(s); f {
	case Hold, Siege:
		return f, nil
	}
	return "", fmt.Errorf("unknown fallback %q (want hold or siege)", s)
}

// Options tunes the planner. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	WallWeight   float64
	TurretWeight float64
	// MinSpend overrides the minimum structure action cost when positive.
	MinSpend float64
	// PreferBreach restricts lane choice to breaching lanes when any exist.
	PreferBreach bool
	// OnOutgunned applies when the lane breaches but the rush would die.
	OnOutgunned Fallback
	// OnNoBreach applies when no chosen lane reaches the far edge.
	OnNoBreach Fallback
	Repath     bool
	// Workers bounds concurrent candidate scoring; 1 scores sequentially.
	Workers int
}

func DefaultOptions() Options {
	return Options{
		WallWeight:   2,
		TurretWeight: 1,
		PreferBreach: true,
		OnOutgunned:  Hold,
		OnNoBreach:   Siege,
		Repath:       true,
		Workers:      1,
	}
}

// Planner runs the defense, attack and opening phases of a turn.
type Planner struct {
	opts Options
	eval Evaluator
}

func NewPlanner(opts Options) *Planner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Planner{opts: opts, eval: Evaluator{Repath: opts.Repath}}
}

func (p *Planner) Options() Options { return p.opts }

// MinStructureCost is the cheapest structural action under c: placing a
// Wall, placing a Turret or upgrading a Turret.
func MinStructureCost(c *arena.Catalog) float64 {
	return math.Min(c.Stats(arena.Wall, false).StructureCost,
		math.Min(c.Stats(arena.Turret, false).StructureCost, c.UpgradeCost(arena.Turret)))
}

// MinSpend is the SP floor below which the defense loop stops.
func (p *Planner) MinSpend(c *arena.Catalog) float64 {
	if p.opts.MinSpend > 0 {
		return p.opts.MinSpend
	}
	return MinStructureCost(c)
}

// LightUnitCost is the MP price of one Scout.
func LightUnitCost(c *arena.Catalog) float64 {
	return c.Stats(arena.Scout, false).MobileCost
}
