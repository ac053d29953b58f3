package arena

import (
	"fmt"

	"github.com/nstehr/rampart/model"
)

// Kind is a unit type, numbered in unitInformation order.
type Kind uint8

const (
	Wall Kind = iota
	Support
	Turret
	Scout
	Demolisher
	Interceptor

	numKinds
)

var kindNames = [numKinds]string{"wall", "support", "turret", "scout", "demolisher", "interceptor"}

func (k Kind) String() string {
	if k >= numKinds {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Kinds lists every unit kind in config order.
func Kinds() []Kind {
	return []Kind{Wall, Support, Turret, Scout, Demolisher, Interceptor}
}

// UnitStats is one tier of a unit kind as the game configuration defines it.
type UnitStats struct {
	Shorthand     string
	StructureCost float64 // SP
	MobileCost    float64 // MP
	Health        float64
	Range         float64
	Damage        float64 // per-frame damage against mobile units
	Stationary    bool
}

// Catalog resolves unit stats from the game configuration. It is built once
// per game and read-only afterwards, so boards and workers share it freely.
type Catalog struct {
	base     [numKinds]UnitStats
	upgraded [numKinds]UnitStats
	upgrade  string
}

// NewCatalog builds a catalog from a validated configuration.
func NewCatalog(cfg model.Config) (*Catalog, error) {
	if len(cfg.UnitInformation) < int(numKinds)+2 {
		return nil, fmt.Errorf("%w: %d unit entries, want %d", model.ErrMalformedConfig, len(cfg.UnitInformation), numKinds+2)
	}
	c := &Catalog{
		upgrade: cfg.UnitInformation[model.ListUpgrade].Shorthand,
	}
	for _, k := range Kinds() {
		info := cfg.UnitInformation[k]
		if info.UnitCategory == nil || info.StartHealth == nil {
			return nil, fmt.Errorf("%w: %s (%s) lacks category or health", model.ErrMalformedConfig, k, info.Shorthand)
		}
		base := UnitStats{
			Shorthand:     info.Shorthand,
			StructureCost: deref(info.Cost1),
			MobileCost:    deref(info.Cost2),
			Health:        *info.StartHealth,
			Range:         info.AttackRange,
			Damage:        info.AttackDamageWalker,
			Stationary:    *info.UnitCategory == model.CategoryStructure,
		}
		up := base
		if u := info.Upgrade; u != nil {
			overlay(&up.StructureCost, u.Cost1)
			overlay(&up.MobileCost, u.Cost2)
			overlay(&up.Health, u.StartHealth)
			overlay(&up.Range, u.AttackRange)
			overlay(&up.Damage, u.AttackDamageWalker)
		}
		c.base[k] = base
		c.upgraded[k] = up
	}
	for _, k := range []Kind{Wall, Support, Turret} {
		if !c.base[k].Stationary {
			return nil, fmt.Errorf("%w: %s must be a structure", model.ErrMalformedConfig, k)
		}
	}
	for _, k := range []Kind{Scout, Demolisher, Interceptor} {
		if c.base[k].Stationary {
			return nil, fmt.Errorf("%w: %s must be a mobile unit", model.ErrMalformedConfig, k)
		}
	}
	return c, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func overlay(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// Stats returns the base or upgraded tier of k.
func (c *Catalog) Stats(k Kind, upgraded bool) UnitStats {
	if upgraded {
		return c.upgraded[k]
	}
	return c.base[k]
}

// Of returns the live stats of a placed unit.
func (c *Catalog) Of(u Unit) UnitStats { return c.Stats(u.Kind, u.Upgraded) }

// UpgradeCost is the SP price of upgrading a structure of kind k.
func (c *Catalog) UpgradeCost(k Kind) float64 { return c.upgraded[k].StructureCost }

// UpgradeShorthand is the command tag for upgrades ("UP").
func (c *Catalog) UpgradeShorthand() string { return c.upgrade }
