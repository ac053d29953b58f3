package agent

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nstehr/rampart/arena"
)

// EventKind identifies a notable change between consecutive deploy turns.
type EventKind string

const (
	EventStructuresLost EventKind = "structures_lost"
	EventBreached       EventKind = "breached"
	EventScored         EventKind = "scored"
	EventEnemyFortified EventKind = "enemy_fortified"
	EventLowHealth      EventKind = "low_health"
)

// Event is detected by diffing consecutive turn snapshots. Events are
// logged and written to the journal.
type Event struct {
	Kind   EventKind
	Turn   int
	Detail string
}

func (e Event) String() string { return fmt.Sprintf("%s: %s", e.Kind, e.Detail) }

// fortifyThreshold is how many new enemy turrets in one turn count as a
// build-up worth noting.
const fortifyThreshold = 3

// lowHealthMark is the health below which we flag the game as critical.
const lowHealthMark = 10

// turnSnapshot captures the diffable fields of a deploy turn.
type turnSnapshot struct {
	turn         int
	health       float64
	enemyHealth  float64
	own          map[arena.Position]arena.Kind
	enemyTurrets int
}

func takeSnapshot(turn int, health, enemyHealth float64, b *arena.Board) turnSnapshot {
	s := turnSnapshot{
		turn:        turn,
		health:      health,
		enemyHealth: enemyHealth,
		own:         make(map[arena.Position]arena.Kind),
	}
	for p, u := range b.Units() {
		switch {
		case u.Owner == arena.Self:
			s.own[p] = u.Kind
		case u.Kind == arena.Turret:
			s.enemyTurrets++
		}
	}
	return s
}

// detectEvents compares the current snapshot against the previous one.
// Returns nil if prev is nil (first turn).
func detectEvents(prev *turnSnapshot, cur turnSnapshot) []Event {
	if prev == nil {
		return nil
	}

	var events []Event

	// 1. structures_lost: own structures from last turn are gone
	lost := make(map[arena.Kind]int)
	n := 0
	for p, k := range prev.own {
		if _, ok := cur.own[p]; !ok {
			lost[k]++
			n++
		}
	}
	if n > 0 {
		events = append(events, Event{
			Kind:   EventStructuresLost,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("lost %d structures (%s)", n, formatKinds(lost)),
		})
	}

	// 2. breached: the opponent scored on us
	if d := prev.health - cur.health; d > 0 {
		events = append(events, Event{
			Kind:   EventBreached,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("health %.0f → %.0f", prev.health, cur.health),
		})
	}

	// 3. scored: our attack got through
	if d := prev.enemyHealth - cur.enemyHealth; d > 0 {
		events = append(events, Event{
			Kind:   EventScored,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("enemy health %.0f → %.0f", prev.enemyHealth, cur.enemyHealth),
		})
	}

	// 4. enemy_fortified: a burst of new enemy turrets
	if added := cur.enemyTurrets - prev.enemyTurrets; added >= fortifyThreshold {
		events = append(events, Event{
			Kind:   EventEnemyFortified,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("enemy turrets %d → %d", prev.enemyTurrets, cur.enemyTurrets),
		})
	}

	// 5. low_health: crossed the critical mark this turn
	if prev.health >= lowHealthMark && cur.health < lowHealthMark {
		events = append(events, Event{
			Kind:   EventLowHealth,
			Turn:   cur.turn,
			Detail: fmt.Sprintf("health down to %.0f", cur.health),
		})
	}

	return events
}

func formatKinds(counts map[arena.Kind]int) string {
	parts := make([]string, 0, len(counts))
	for k, c := range counts {
		parts = append(parts, fmt.Sprintf("%d %s", c, k))
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}

func formatEvents(events []Event) []string {
	if len(events) == 0 {
		return nil
	}
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.String()
	}
	return out
}
