package rules

import (
	"embed"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/nstehr/rampart/arena"
	"github.com/nstehr/rampart/greedy"
	"gopkg.in/yaml.v3"
)

//go:embed doctrines/*.yaml
var presets embed.FS

// Doctrine is the strategy file: planner weights, shortfall policies, the
// opening layout and optional per-rule condition overrides. Fields missing
// from the file keep their DefaultDoctrine values.
type Doctrine struct {
	Name              string            `yaml:"name"`
	WallWeight        float64           `yaml:"wall_weight"`
	TurretWeight      float64           `yaml:"turret_weight"`
	MinStructureSpend float64           `yaml:"min_structure_spend"`
	PreferBreach      bool              `yaml:"prefer_breach"`
	OnOutgunned       string            `yaml:"on_outgunned"`
	OnNoBreach        string            `yaml:"on_no_breach"`
	Repath            bool              `yaml:"repath"`
	Workers           int               `yaml:"workers"`
	Opening           OpeningLayout     `yaml:"opening"`
	Conditions        map[string]string `yaml:"conditions"`
}

// OpeningLayout is the first-turn build. Cells are [x, y] pairs.
type OpeningLayout struct {
	Mode    string   `yaml:"mode"`
	Walls   [][2]int `yaml:"walls"`
	Turrets [][2]int `yaml:"turrets"`
}

// DefaultDoctrine mirrors greedy.DefaultOptions with an edge-wall opening.
func DefaultDoctrine() Doctrine {
	o := greedy.DefaultOptions()
	return Doctrine{
		Name:         "greed",
		WallWeight:   o.WallWeight,
		TurretWeight: o.TurretWeight,
		PreferBreach: o.PreferBreach,
		OnOutgunned:  string(o.OnOutgunned),
		OnNoBreach:   string(o.OnNoBreach),
		Repath:       o.Repath,
		Workers:      o.Workers,
		Opening:      OpeningLayout{Mode: string(greedy.OpeningEdgeWalls)},
	}
}

// LoadDoctrine reads a doctrine from a YAML file, or from the built-in
// presets when ref is a bare preset name such as "fortress".
func LoadDoctrine(ref string) (Doctrine, error) {
	raw, err := os.ReadFile(ref)
	if err != nil && !strings.ContainsAny(ref, `/\.`) {
		raw, err = presets.ReadFile(path.Join("doctrines", ref+".yaml"))
	}
	if err != nil {
		return Doctrine{}, fmt.Errorf("load doctrine %s: %w", ref, err)
	}
	return ParseDoctrine(raw)
}

// ParseDoctrine decodes YAML over the defaults, clamps it and checks the
// named policies.
func ParseDoctrine(raw []byte) (Doctrine, error) {
	d := DefaultDoctrine()
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Doctrine{}, fmt.Errorf("doctrine: %w", err)
	}
	d.Validate()
	if _, _, err := d.Planner(); err != nil {
		return Doctrine{}, fmt.Errorf("doctrine %q: %w", d.Name, err)
	}
	return d, nil
}

// Validate clamps all numeric knobs to their valid ranges.
func (d *Doctrine) Validate() {
	d.WallWeight = clamp(d.WallWeight, 0, 100)
	d.TurretWeight = clamp(d.TurretWeight, 0, 100)
	d.MinStructureSpend = clamp(d.MinStructureSpend, 0, 1000)
	d.Workers = clampInt(d.Workers, 1, 64)
	d.OnOutgunned = strings.ToLower(strings.TrimSpace(d.OnOutgunned))
	d.OnNoBreach = strings.ToLower(strings.TrimSpace(d.OnNoBreach))
	d.Opening.Mode = strings.ToLower(strings.TrimSpace(d.Opening.Mode))
}

// Planner converts the doctrine into planner options and an opening.
func (d Doctrine) Planner() (greedy.Options, greedy.Opening, error) {
	outgunned, err := greedy.ParseFallback(d.OnOutgunned)
	if err != nil {
		return greedy.Options{}, greedy.Opening{}, fmt.Errorf("on_outgunned: %w", err)
	}
	noBreach, err := greedy.ParseFallback(d.OnNoBreach)
	if err != nil {
		return greedy.Options{}, greedy.Opening{}, fmt.Errorf("on_no_breach: %w", err)
	}
	mode, err := greedy.ParseOpeningMode(d.Opening.Mode)
	if err != nil {
		return greedy.Options{}, greedy.Opening{}, fmt.Errorf("opening: %w", err)
	}
	opts := greedy.Options{
		WallWeight:   d.WallWeight,
		TurretWeight: d.TurretWeight,
		MinSpend:     d.MinStructureSpend,
		PreferBreach: d.PreferBreach,
		OnOutgunned:  outgunned,
		OnNoBreach:   noBreach,
		Repath:       d.Repath,
		Workers:      d.Workers,
	}
	return opts, greedy.Opening{Mode: mode, Walls: cells(d.Opening.Walls), Turrets: cells(d.Opening.Turrets)}, nil
}

func cells(pairs [][2]int) []arena.Position {
	out := make([]arena.Position, len(pairs))
	for i, p := range pairs {
		out[i] = arena.Position{X: p[0], Y: p[1]}
	}
	return out
}

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clamp restricts v to [min, max].
func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
