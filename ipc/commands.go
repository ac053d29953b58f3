package ipc

import (
	"encoding/json"
	"fmt"
)

// Command is one deployment, encoded as the engine's ["FF", x, y] triple.
// Upgrades use the upgrade shorthand ("UP") in the structure line.
type Command struct {
	Shorthand string
	X, Y      int
}

func (c Command) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{c.Shorthand, c.X, c.Y})
}

func (c *Command) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw) != 3 {
		return fmt.Errorf("command has %d fields, want 3", len(raw))
	}
	if err := json.Unmarshal(raw[0], &c.Shorthand); err != nil {
		return fmt.Errorf("command shorthand: %w", err)
	}
	if err := json.Unmarshal(raw[1], &c.X); err != nil {
		return fmt.Errorf("command x: %w", err)
	}
	if err := json.Unmarshal(raw[2], &c.Y); err != nil {
		return fmt.Errorf("command y: %w", err)
	}
	return nil
}

// TurnCommands is the deploy-phase answer: structures and upgrades go out
// first, mobile units second.
type TurnCommands struct {
	Structures []Command
	Mobile     []Command
}

// Reply renders the two command lines. Empty lists are sent as [] so the
// engine always gets both lines.
func (t TurnCommands) Reply() *Reply {
	return &Reply{Lines: []any{orEmpty(t.Structures), orEmpty(t.Mobile)}}
}

func orEmpty(cs []Command) []Command {
	if cs == nil {
		return []Command{}
	}
	return cs
}
