package agent

import (
	"log/slog"

	"github.com/nstehr/rampart/arena"
	"github.com/nstehr/rampart/greedy"
	"github.com/nstehr/rampart/ipc"
	"github.com/nstehr/rampart/model"
)

// buildBoard ingests a state frame into a fresh board: every structure of
// both players, upgrade flags from list 7, and our SP and MP. Structures
// flagged for removal still stand this turn. Entries the board rejects are
// logged and skipped.
func buildBoard(cat *arena.Catalog, gs model.GameState) *arena.Board {
	b := arena.NewBoard(cat)
	self := gs.Self()
	b.SP, b.MP = self.SP, self.MP
	ingest(b, gs.P1Units, arena.Self)
	ingest(b, gs.P2Units, arena.Opponent)
	if n := len(model.UnitList(gs.P1Units, model.ListRemove)); n > 0 {
		slog.Debug("own structures pending removal", "count", n)
	}
	return b
}

func ingest(b *arena.Board, lists [][]model.UnitEntry, owner arena.Side) {
	upgraded := make(map[arena.Position]bool)
	for _, e := range model.UnitList(lists, model.ListUpgrade) {
		upgraded[arena.Position{X: e.X, Y: e.Y}] = true
	}
	for _, k := range arena.Kinds() {
		if !b.Catalog().Stats(k, false).Stationary {
			continue
		}
		for _, e := range model.UnitList(lists, int(k)) {
			p := arena.Position{X: e.X, Y: e.Y}
			u := arena.Unit{Kind: k, Owner: owner, Health: e.Health, Upgraded: upgraded[p]}
			if err := b.Place(p, u); err != nil {
				slog.Warn("skipping structure", "owner", owner.String(), "id", e.ID, "error", err)
			}
		}
	}
}

// commands renders the plan as the engine's two command lines.
func commands(cat *arena.Catalog, plan greedy.Plan) ipc.TurnCommands {
	var tc ipc.TurnCommands
	for _, a := range plan.Actions {
		if a.Op == greedy.OpUpgrade {
			tc.Structures = append(tc.Structures, ipc.Command{Shorthand: cat.UpgradeShorthand(), X: a.At.X, Y: a.At.Y})
			continue
		}
		st := cat.Stats(a.Kind, false)
		c := ipc.Command{Shorthand: st.Shorthand, X: a.At.X, Y: a.At.Y}
		if st.Stationary {
			tc.Structures = append(tc.Structures, c)
		} else {
			tc.Mobile = append(tc.Mobile, c)
		}
	}
	return tc
}
