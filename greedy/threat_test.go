package greedy

import (
	"testing"

	"github.com/nstehr/rampart/arena"
	"github.com/nstehr/rampart/model"
)

func sampleCatalog(t *testing.T) *arena.Catalog {
	t.Helper()
	cfg, err := model.ParseConfig(model.SampleConfig)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	c, err := arena.NewCatalog(cfg)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func pos(x, y int) arena.Position { return arena.Position{X: x, Y: y} }

func place(t *testing.T, b *arena.Board, k arena.Kind, owner arena.Side, upgraded bool, cells ...arena.Position) {
	t.Helper()
	for _, c := range cells {
		u := arena.Unit{Kind: k, Owner: owner, Health: 60, Upgraded: upgraded}
		if err := b.Place(c, u); err != nil {
			t.Fatalf("Place(%s, %s): %v", k, c, err)
		}
	}
}

func TestPredictDamageTwoTurrets(t *testing.T) {
	b := arena.NewBoard(sampleCatalog(t))
	place(t, b, arena.Turret, arena.Opponent, false, pos(12, 6), pos(14, 6))
	path := arena.Path{pos(13, 5), pos(13, 6), pos(13, 7)}

	if got := PredictDamage(b, path, arena.Opponent); got != 30 {
		t.Errorf("PredictDamage = %v, want 30", got)
	}
	if got := PredictDamage(b, path, arena.Opponent); got != 30 {
		t.Errorf("second PredictDamage = %v, want 30", got)
	}
	if got := PredictDamage(b, path, arena.Self); got != 0 {
		t.Errorf("damage from the side without turrets = %v, want 0", got)
	}
}

func TestPredictDamageRangeAndTier(t *testing.T) {
	b := arena.NewBoard(sampleCatalog(t))
	place(t, b, arena.Turret, arena.Self, false, pos(10, 10))
	place(t, b, arena.Turret, arena.Self, true, pos(16, 10))
	// Walls and supports deal no damage.
	place(t, b, arena.Wall, arena.Self, false, pos(13, 9))
	place(t, b, arena.Support, arena.Self, false, pos(13, 8))

	tests := []struct {
		name string
		path arena.Path
		want float64
	}{
		{"out of range", arena.Path{pos(13, 13)}, 0},
		{"base turret at 2.24", arena.Path{pos(12, 11)}, 5},
		{"3 from both turrets", arena.Path{pos(13, 10)}, 15},
		{"upgraded reach only", arena.Path{pos(16, 13)}, 15},
		{"both", arena.Path{pos(12, 11), pos(16, 13), pos(5, 5)}, 20},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := PredictDamage(b, tc.path, arena.Self); got != tc.want {
				t.Errorf("PredictDamage = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestPredictDamageEmptyBoard(t *testing.T) {
	b := arena.NewBoard(sampleCatalog(t))
	for _, r := range lanes(b, arena.Self, arena.Edges(arena.Self)) {
		if r.Damage != 0 {
			t.Errorf("lane from %s predicts %v damage on an empty board", r.Spawn, r.Damage)
		}
	}
}

func TestThreatEmptyBoard(t *testing.T) {
	b := arena.NewBoard(sampleCatalog(t))
	r, ok := Threat(b)
	if !ok {
		t.Fatal("expected a threat on an open board")
	}
	if r.Spawn != pos(13, 27) {
		t.Errorf("threat spawn = %s, want the first opponent edge cell (13,27)", r.Spawn)
	}
	if r.Damage != 0 || !r.Breaches(arena.Opponent) {
		t.Errorf("threat = %+v, want a zero-damage breach", r)
	}
}

func TestThreatSealed(t *testing.T) {
	b := arena.NewBoard(sampleCatalog(t))
	for x := 0; x < arena.Size; x++ {
		place(t, b, arena.Wall, arena.Opponent, false, pos(x, 14))
	}
	if r, ok := Threat(b); ok {
		t.Errorf("sealed opponent should pose no threat, got %+v", r)
	}
}

func TestThreatPrefersCheapestLane(t *testing.T) {
	b := arena.NewBoard(sampleCatalog(t))
	// Cover the bottom-right approach so lanes ending there cost damage.
	place(t, b, arena.Turret, arena.Self, true, pos(20, 8), pos(23, 10), pos(17, 6))
	r, ok := Threat(b)
	if !ok {
		t.Fatal("expected a threat")
	}
	for _, other := range lanes(b, arena.Opponent, openEdge(b, arena.Opponent)) {
		if other.Breaches(arena.Opponent) && other.Damage < r.Damage {
			t.Errorf("lane from %s takes %v < threat damage %v", other.Spawn, other.Damage, r.Damage)
		}
	}
}
