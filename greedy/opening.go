package greedy

import (
	"fmt"
	"log/slog"

	"github.com/nstehr/rampart/arena"
)

// OpeningMode selects the first-turn layout.
type OpeningMode string

const (
	// OpeningEdgeWalls walls every own edge cell except the tip of each edge,
	// leaving two spawn lanes at the bottom corner.
	OpeningEdgeWalls OpeningMode = "edge_walls"
	// OpeningFixed builds the listed walls, then the listed turrets.
	OpeningFixed OpeningMode = "fixed"
	OpeningNone  OpeningMode = "none"
)

func ParseOpeningMode(s string) (OpeningMode, error) {
	switch m := OpeningMode(s); m {
	case OpeningEdgeWalls, OpeningFixed, OpeningNone:
		return m, nil
	}
	return "", fmt.Errorf("unknown opening mode %q", s)
}

type Opening struct {
	Mode    OpeningMode
	Walls   []arena.Position
	Turrets []arena.Position
}

// Open builds the opening layout through b's ledger. Entries that are
// illegal or unaffordable are skipped. It returns the number of structures
// placed.
func (p *Planner) Open(b *arena.Board, plan *Plan, o Opening) int {
	var want []Action
	switch o.Mode {
	case OpeningEdgeWalls:
		for _, e := range []arena.Edge{arena.BottomLeft, arena.BottomRight} {
			for _, c := range arena.EdgeCells(e)[1:] {
				want = append(want, Spawn(arena.Wall, c))
			}
		}
	case OpeningFixed:
		for _, c := range o.Walls {
			want = append(want, Spawn(arena.Wall, c))
		}
		for _, c := range o.Turrets {
			want = append(want, Spawn(arena.Turret, c))
		}
	}

	placed := 0
	for _, a := range want {
		if !a.Legal(b) {
			slog.Debug("opening entry skipped", "action", a.String(), "sp", b.SP)
			continue
		}
		if err := a.Apply(b); err != nil {
			continue
		}
		plan.Add(a)
		placed++
	}
	return placed
}
