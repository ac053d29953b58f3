package model

import (
	"encoding/json"
	"fmt"
)

// Frame phases carried in turnInfo[0].
const (
	PhaseDeploy = 0
	PhaseAction = 1
	PhaseEnd    = 2
)

// Indices into the per-player unit lists. The first six follow
// unitInformation order; the last two are pending removals and upgrades.
const (
	ListRemove  = 6
	ListUpgrade = 7
)

// GameState is one frame from the game engine. p1 is always the acting player.
type GameState struct {
	TurnInfo []int         `json:"turnInfo"`
	P1Stats  []float64     `json:"p1Stats"`
	P2Stats  []float64     `json:"p2Stats"`
	P1Units  [][]UnitEntry `json:"p1Units"`
	P2Units  [][]UnitEntry `json:"p2Units"`
}

// Player is the decoded [health, SP, MP, time] stats tuple.
type Player struct {
	Health float64
	SP     float64
	MP     float64
	TimeMs float64
}

// UnitEntry is a unit as the engine reports it: [x, y, health, id].
type UnitEntry struct {
	X      int
	Y      int
	Health float64
	ID     string
}

func (u *UnitEntry) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("unit entry: %w", err)
	}
	if len(raw) < 2 {
		return fmt.Errorf("unit entry: want at least [x, y], got %d fields", len(raw))
	}
	var x, y float64
	if err := json.Unmarshal(raw[0], &x); err != nil {
		return fmt.Errorf("unit entry x: %w", err)
	}
	if err := json.Unmarshal(raw[1], &y); err != nil {
		return fmt.Errorf("unit entry y: %w", err)
	}
	u.X, u.Y = int(x), int(y)
	if len(raw) > 2 {
		if err := json.Unmarshal(raw[2], &u.Health); err != nil {
			return fmt.Errorf("unit entry health: %w", err)
		}
	}
	if len(raw) > 3 {
		// Ids arrive as strings from the live engine and as numbers from some replays.
		var id any
		if err := json.Unmarshal(raw[3], &id); err != nil {
			return fmt.Errorf("unit entry id: %w", err)
		}
		u.ID = fmt.Sprint(id)
	}
	return nil
}

func (u UnitEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{u.X, u.Y, u.Health, u.ID})
}

// ParseGameState decodes a single state frame.
func ParseGameState(data []byte) (GameState, error) {
	var gs GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return GameState{}, fmt.Errorf("unmarshal game state: %w", err)
	}
	if len(gs.TurnInfo) < 2 {
		return GameState{}, fmt.Errorf("game state: turnInfo has %d fields, want at least 2", len(gs.TurnInfo))
	}
	return gs, nil
}

func (gs GameState) Turn() int { return gs.TurnInfo[1] }

// Self returns the acting player's stats.
func (gs GameState) Self() Player { return playerStats(gs.P1Stats) }

// Enemy returns the opponent's stats.
func (gs GameState) Enemy() Player { return playerStats(gs.P2Stats) }

func playerStats(s []float64) Player {
	var p Player
	fields := []*float64{&p.Health, &p.SP, &p.MP, &p.TimeMs}
	for i := 0; i < len(s) && i < len(fields); i++ {
		*fields[i] = s[i]
	}
	return p
}

// UnitList returns list i of a player's units, or nil when the frame omits it.
func UnitList(lists [][]UnitEntry, i int) []UnitEntry {
	if i < 0 || i >= len(lists) {
		return nil
	}
	return lists[i]
}
