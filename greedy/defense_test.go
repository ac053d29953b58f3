package greedy

import (
	"slices"
	"testing"

	"github.com/nstehr/rampart/arena"
)

func TestDefendEmptyBoardBuildsTurret(t *testing.T) {
	b := arena.NewBoard(sampleCatalog(t))
	b.SP = 6
	lane, ok := Lane(b, openEdge(b, arena.Self), true)
	if !ok {
		t.Fatal("no attack lane on an open board")
	}

	var plan Plan
	rep, err := NewPlanner(DefaultOptions()).Defend(b, &plan)
	if err != nil {
		t.Fatalf("Defend: %v", err)
	}
	if !rep.Threatened || len(rep.Committed) == 0 {
		t.Fatalf("expected commits against the open threat, got %+v", rep)
	}
	first := rep.Committed[0]
	if first.Action.Op != OpSpawn || first.Action.Kind != arena.Turret {
		t.Errorf("first commit = %s, want a turret spawn", first.Action)
	}
	if first.Score <= 0 {
		t.Errorf("first commit score = %v, want > 0", first.Score)
	}
	if slices.Contains(rep.Threat.Path, first.Action.At) {
		t.Errorf("committed %s on the threat path", first.Action.At)
	}
	if slices.Contains(lane.Path, first.Action.At) {
		t.Errorf("committed %s on our own attack lane", first.Action.At)
	}
	if plan.Len() != len(rep.Committed) {
		t.Errorf("plan has %d actions, report %d", plan.Len(), len(rep.Committed))
	}
	sp, mp := planCost(plan, b.Catalog())
	if sp != rep.Spent || mp != 0 {
		t.Errorf("plan cost = (%v, %v), want (%v, 0)", sp, mp, rep.Spent)
	}
	if b.SP != 6-rep.Spent {
		t.Errorf("SP left = %v, want %v", b.SP, 6-rep.Spent)
	}
}

// planCost sums the SP and MP a plan spends under catalog c.
func planCost(p Plan, c *arena.Catalog) (sp, mp float64) {
	for _, a := range p.Actions {
		if a.Op == OpUpgrade {
			sp += c.UpgradeCost(a.Kind)
			continue
		}
		st := c.Stats(a.Kind, false)
		if st.Stationary {
			sp += st.StructureCost
		} else {
			mp += st.MobileCost
		}
	}
	return sp, mp
}

// An undefended board still gets a turret when SP allows one, since any turret
// improves on zero damage; "commits nothing" only holds when nothing is affordable.
func TestDefendNoDefendersUnaffordable(t *testing.T) {
	b := arena.NewBoard(sampleCatalog(t))
	b.SP = 0.5
	b.MP = 3

	var plan Plan
	p := NewPlanner(DefaultOptions())
	rep, err := p.Defend(b, &plan)
	if err != nil {
		t.Fatalf("Defend: %v", err)
	}
	if len(rep.Committed) != 0 || plan.Len() != 0 {
		t.Errorf("committed %d actions with no affordable candidate", len(rep.Committed))
	}

	att := p.Attack(b, &plan)
	if att.Lane.Damage != 0 {
		t.Errorf("lane damage on an undefended board = %v, want 0", att.Lane.Damage)
	}
}

func TestDefendBelowMinimumCost(t *testing.T) {
	b := arena.NewBoard(sampleCatalog(t))
	b.SP = 1
	opts := DefaultOptions()
	opts.MinSpend = 2

	var plan Plan
	rep, err := NewPlanner(opts).Defend(b, &plan)
	if err != nil {
		t.Fatalf("Defend: %v", err)
	}
	if len(rep.Committed) != 0 || b.SP != 1 {
		t.Errorf("committed %d actions, SP %v; want none and SP 1", len(rep.Committed), b.SP)
	}
	if rep.Threatened {
		t.Error("loop should stop before sweeping threats")
	}
}

func TestDefendNoThreat(t *testing.T) {
	b := arena.NewBoard(sampleCatalog(t))
	b.SP = 20
	for x := 0; x < arena.Size; x++ {
		place(t, b, arena.Wall, arena.Opponent, false, pos(x, 14))
	}

	var plan Plan
	rep, err := NewPlanner(DefaultOptions()).Defend(b, &plan)
	if err != nil {
		t.Fatalf("Defend: %v", err)
	}
	if rep.Threatened || len(rep.Committed) != 0 {
		t.Errorf("report = %+v, want nothing against a sealed opponent", rep)
	}
	if b.SP != 20 {
		t.Errorf("SP = %v, want 20", b.SP)
	}
}

func TestDefendCostAndIterationBound(t *testing.T) {
	cat := sampleCatalog(t)
	for _, sp := range []float64{0, 1, 2, 3.5, 7} {
		b := arena.NewBoard(cat)
		b.SP = sp
		place(t, b, arena.Turret, arena.Opponent, false, pos(13, 16), pos(10, 17))
		place(t, b, arena.Turret, arena.Self, false, pos(20, 10))

		var plan Plan
		rep, err := NewPlanner(DefaultOptions()).Defend(b, &plan)
		if err != nil {
			t.Fatalf("SP %v: Defend: %v", sp, err)
		}
		spent, _ := planCost(plan, cat)
		if spent > sp {
			t.Errorf("SP %v: spent %v", sp, spent)
		}
		if limit := int(sp / MinStructureCost(cat)); len(rep.Committed) > limit {
			t.Errorf("SP %v: %d iterations, bound %d", sp, len(rep.Committed), limit)
		}
		if b.SP < 0 {
			t.Errorf("SP %v: pool went negative: %v", sp, b.SP)
		}
	}
}

func TestDefendDeterministicAcrossWorkers(t *testing.T) {
	cat := sampleCatalog(t)
	build := func() *arena.Board {
		b := arena.NewBoard(cat)
		b.SP = 8
		place(t, b, arena.Turret, arena.Self, false, pos(4, 11), pos(22, 11))
		place(t, b, arena.Wall, arena.Self, false, pos(12, 12))
		place(t, b, arena.Turret, arena.Opponent, true, pos(13, 18))
		return b
	}

	run := func(workers int) Plan {
		opts := DefaultOptions()
		opts.Workers = workers
		var plan Plan
		if _, err := NewPlanner(opts).Defend(build(), &plan); err != nil {
			t.Fatalf("Defend(workers=%d): %v", workers, err)
		}
		return plan
	}

	seq, par := run(1), run(4)
	if seq.Len() == 0 {
		t.Fatal("expected some commits")
	}
	if seq.Len() != par.Len() {
		t.Fatalf("sequential committed %d, parallel %d", seq.Len(), par.Len())
	}
	for i := range seq.Actions {
		if seq.Actions[i] != par.Actions[i] {
			t.Errorf("action %d: sequential %s, parallel %s", i, seq.Actions[i], par.Actions[i])
		}
	}
}

func TestCandidatesOrder(t *testing.T) {
	b := arena.NewBoard(sampleCatalog(t))
	b.SP = 10
	place(t, b, arena.Turret, arena.Self, false, pos(3, 10))

	cands := candidates(b, nil)
	if len(cands) < 3 {
		t.Fatalf("only %d candidates", len(cands))
	}
	// Column 0 has a single in-bounds cell of our half: (0,13).
	if cands[0] != Spawn(arena.Wall, pos(0, 13)) || cands[1] != Spawn(arena.Turret, pos(0, 13)) {
		t.Errorf("first candidates = %s, %s", cands[0], cands[1])
	}
	found := false
	for i := 1; i < len(cands); i++ {
		prev, cur := cands[i-1].At, cands[i].At
		if cur.X < prev.X || (cur.X == prev.X && cur.Y < prev.Y) {
			t.Fatalf("candidate %d at %s comes after %s", i, cur, prev)
		}
		if cands[i] == Upgrade(arena.Turret, pos(3, 10)) {
			found = true
		}
	}
	if !found {
		t.Error("missing upgrade candidate for the own turret")
	}

	excl := map[arena.Position]bool{pos(0, 13): true}
	if c := candidates(b, excl); c[0].At == pos(0, 13) {
		t.Error("excluded cell still offered")
	}
}

func TestPickFirstWinsTies(t *testing.T) {
	opts := []PlacementOption{
		{Action: Spawn(arena.Wall, pos(1, 12)), Score: 5},
		{Action: Spawn(arena.Turret, pos(1, 12)), Score: 5},
		{Action: Spawn(arena.Wall, pos(2, 12)), Score: 3},
	}
	if got := pick(opts); got.Action != opts[0].Action {
		t.Errorf("pick = %s, want the first of the tied options", got.Action)
	}
}
