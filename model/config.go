package model

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrMalformedConfig marks a game configuration the engine cannot reason
// about: schema violations, missing unit kinds, or missing cost/health stats.
var ErrMalformedConfig = errors.New("malformed game configuration")

// UnitCategory values from unitInformation.
const (
	CategoryStructure = 0
	CategoryMobile    = 1
)

// requiredUnits is the number of leading unitInformation entries that describe
// real units (wall, support, turret, scout, demolisher, interceptor).
const requiredUnits = 6

// Config is the game configuration sent once before the first frame.
type Config struct {
	UnitInformation []UnitInformation `json:"unitInformation"`
}

type UnitInformation struct {
	Display            string       `json:"display"`
	Shorthand          string       `json:"shorthand"`
	Cost1              *float64     `json:"cost1,omitempty"`
	Cost2              *float64     `json:"cost2,omitempty"`
	StartHealth        *float64     `json:"startHealth,omitempty"`
	AttackRange        float64      `json:"attackRange"`
	AttackDamageWalker float64      `json:"attackDamageWalker"`
	UnitCategory       *int         `json:"unitCategory,omitempty"`
	Upgrade            *UnitUpgrade `json:"upgrade,omitempty"`
}

// UnitUpgrade overlays the base stats once a structure is upgraded.
type UnitUpgrade struct {
	Cost1              *float64 `json:"cost1,omitempty"`
	Cost2              *float64 `json:"cost2,omitempty"`
	StartHealth        *float64 `json:"startHealth,omitempty"`
	AttackRange        *float64 `json:"attackRange,omitempty"`
	AttackDamageWalker *float64 `json:"attackDamageWalker,omitempty"`
}

//go:embed config.schema.json
var configSchemaSrc string

//go:embed sample_config.json
var SampleConfig []byte

var configSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("config.schema.json", configSchemaSrc)
})

// ParseConfig validates the raw configuration against the embedded schema and
// checks that every unit kind the planner needs carries its stats.
func ParseConfig(data []byte) (Config, error) {
	schema, err := configSchema()
	if err != nil {
		return Config{}, fmt.Errorf("compile config schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	if err := schema.Validate(doc); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrMalformedConfig, err)
	}
	for i := 0; i < requiredUnits; i++ {
		if err := cfg.UnitInformation[i].check(); err != nil {
			return Config{}, fmt.Errorf("%w: unitInformation[%d]: %v", ErrMalformedConfig, i, err)
		}
	}
	return cfg, nil
}

func (u UnitInformation) check() error {
	if u.UnitCategory == nil {
		return fmt.Errorf("%s: missing unitCategory", u.Shorthand)
	}
	if u.StartHealth == nil {
		return fmt.Errorf("%s: missing startHealth", u.Shorthand)
	}
	switch *u.UnitCategory {
	case CategoryStructure:
		if u.Cost1 == nil || *u.Cost1 <= 0 {
			return fmt.Errorf("%s: structure needs a positive cost1", u.Shorthand)
		}
	case CategoryMobile:
		if u.Cost2 == nil || *u.Cost2 <= 0 {
			return fmt.Errorf("%s: mobile unit needs a positive cost2", u.Shorthand)
		}
	}
	return nil
}
