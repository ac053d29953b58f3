package arena

import (
	"errors"
	"fmt"
	"iter"
)

// ErrIllegalAction is returned by the ledger for spawns and upgrades the game
// would reject: out of bounds, wrong half, occupied or empty cell, or
// insufficient resource.
var ErrIllegalAction = errors.New("illegal action")

// Unit is a structure standing on the board. It holds no references, so a
// copied Board never aliases the original's units.
type Unit struct {
	Kind     Kind
	Owner    Side
	Health   float64
	Upgraded bool
}

type slot struct {
	unit Unit
	used bool
}

// Board is the acting player's view of one turn: every structure on the arena
// plus the acting side's SP and MP pools. Cells are a fixed array, so copying
// a Board by value yields an independent snapshot.
type Board struct {
	catalog *Catalog
	cells   [cellCount]slot
	SP      float64
	MP      float64
}

func NewBoard(c *Catalog) *Board {
	return &Board{catalog: c}
}

func (b *Board) Catalog() *Catalog { return b.catalog }

// Clone returns an independent copy for hypothetical play.
func (b *Board) Clone() *Board {
	cp := *b
	return &cp
}

// At returns the structure at p, if any.
func (b *Board) At(p Position) (Unit, bool) {
	if !p.InBounds() {
		return Unit{}, false
	}
	s := b.cells[p.Index()]
	return s.unit, s.used
}

// Blocked reports whether a mobile unit cannot stand on p.
func (b *Board) Blocked(p Position) bool {
	if !p.InBounds() {
		return true
	}
	return b.cells[p.Index()].used
}

// Place puts an existing structure on the board without charging for it.
// Used when ingesting the engine's view of the arena.
func (b *Board) Place(p Position, u Unit) error {
	if !p.InBounds() {
		return fmt.Errorf("place %s at %s: %w: out of bounds", u.Kind, p, ErrIllegalAction)
	}
	if !b.catalog.Stats(u.Kind, false).Stationary {
		return fmt.Errorf("place %s at %s: %w: not a structure", u.Kind, p, ErrIllegalAction)
	}
	if b.cells[p.Index()].used {
		return fmt.Errorf("place %s at %s: %w: occupied", u.Kind, p, ErrIllegalAction)
	}
	b.cells[p.Index()] = slot{unit: u, used: true}
	return nil
}

// Units yields every structure in row-major order.
func (b *Board) Units() iter.Seq2[Position, Unit] {
	return func(yield func(Position, Unit) bool) {
		for i := range b.cells {
			if !b.cells[i].used {
				continue
			}
			if !yield(Position{X: i % Size, Y: i / Size}, b.cells[i].unit) {
				return
			}
		}
	}
}

// CanSpawn applies the game's placement rules for the acting side:
// structures go on any empty own-half cell, mobile units on an own edge cell
// free of structures, and the matching pool must cover the cost.
func (b *Board) CanSpawn(k Kind, p Position) bool {
	return b.spawnError(k, p) == nil
}

func (b *Board) spawnError(k Kind, p Position) error {
	if k >= numKinds {
		return fmt.Errorf("unknown kind %d", k)
	}
	if !p.InBounds() {
		return errors.New("out of bounds")
	}
	if p.Owner() != Self {
		return errors.New("outside own half")
	}
	if b.cells[p.Index()].used {
		return errors.New("occupied")
	}
	st := b.catalog.Stats(k, false)
	if st.Stationary {
		if b.SP < st.StructureCost {
			return fmt.Errorf("need %.2f SP, have %.2f", st.StructureCost, b.SP)
		}
		return nil
	}
	if !OnEdge(p, Self) {
		return errors.New("mobile units spawn on an own edge")
	}
	if b.MP < st.MobileCost {
		return fmt.Errorf("need %.2f MP, have %.2f", st.MobileCost, b.MP)
	}
	return nil
}

// Spawn charges the cost of k and, for structures, occupies p. Mobile units
// leave the board immediately; only their cost is recorded.
func (b *Board) Spawn(k Kind, p Position) error {
	if err := b.spawnError(k, p); err != nil {
		return fmt.Errorf("spawn %s at %s: %w: %v", k, p, ErrIllegalAction, err)
	}
	st := b.catalog.Stats(k, false)
	if st.Stationary {
		b.SP -= st.StructureCost
		b.cells[p.Index()] = slot{unit: Unit{Kind: k, Owner: Self, Health: st.Health}, used: true}
		return nil
	}
	b.MP -= st.MobileCost
	return nil
}

// CanUpgrade reports whether the acting side can upgrade its structure at p.
func (b *Board) CanUpgrade(p Position) bool {
	return b.upgradeError(p) == nil
}

func (b *Board) upgradeError(p Position) error {
	u, ok := b.At(p)
	if !ok {
		return errors.New("no structure")
	}
	if u.Owner != Self {
		return errors.New("not ours")
	}
	if u.Upgraded {
		return errors.New("already upgraded")
	}
	if cost := b.catalog.UpgradeCost(u.Kind); b.SP < cost {
		return fmt.Errorf("need %.2f SP, have %.2f", cost, b.SP)
	}
	return nil
}

// Upgrade charges the upgrade cost and switches the structure at p to its
// upgraded stats. Health grows by the difference between tiers.
func (b *Board) Upgrade(p Position) error {
	if err := b.upgradeError(p); err != nil {
		return fmt.Errorf("upgrade at %s: %w: %v", p, ErrIllegalAction, err)
	}
	s := &b.cells[p.Index()]
	b.SP -= b.catalog.UpgradeCost(s.unit.Kind)
	s.unit.Health += b.catalog.Stats(s.unit.Kind, true).Health - b.catalog.Stats(s.unit.Kind, false).Health
	s.unit.Upgraded = true
	return nil
}
