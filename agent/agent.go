package agent

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nstehr/rampart/arena"
	"github.com/nstehr/rampart/greedy"
	"github.com/nstehr/rampart/ipc"
	"github.com/nstehr/rampart/journal"
	"github.com/nstehr/rampart/model"
	"github.com/nstehr/rampart/rules"
)

// Agent owns the decision-making for one game: it holds the catalog built
// from the config frame and answers every deploy frame with a turn plan.
type Agent struct {
	Engine  *rules.Engine
	Planner *greedy.Planner
	Opening greedy.Opening
	Journal *journal.Writer // optional

	catalog *arena.Catalog
	prev    *turnSnapshot
}

func New(engine *rules.Engine, planner *greedy.Planner, opening greedy.Opening, j *journal.Writer) *Agent {
	return &Agent{Engine: engine, Planner: planner, Opening: opening, Journal: j}
}

// Register wires the agent's handlers onto conn.
func (a *Agent) Register(conn *ipc.Connection) {
	conn.RegisterHandler(ipc.KindConfig, a.HandleConfig)
	conn.RegisterHandler(ipc.KindDeploy, a.HandleDeploy)
	conn.RegisterHandler(ipc.KindAction, a.HandleAction)
	conn.RegisterHandler(ipc.KindEnd, a.HandleEnd)
}

// HandleConfig builds the unit catalog. A malformed config leaves the agent
// without one, and deploy frames get empty replies until a valid config
// arrives.
func (a *Agent) HandleConfig(f ipc.Frame) (*ipc.Reply, error) {
	a.catalog, a.prev = nil, nil
	cfg, err := model.ParseConfig(f.Data)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cat, err := arena.NewCatalog(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	a.catalog = cat
	slog.Info("game configured",
		"wall_cost", cat.Stats(arena.Wall, false).StructureCost,
		"turret_cost", cat.Stats(arena.Turret, false).StructureCost,
		"scout_cost", cat.Stats(arena.Scout, false).MobileCost,
	)
	return nil, nil
}

// HandleDeploy plays one turn. It always replies with both command lines so
// the engine is never left waiting.
func (a *Agent) HandleDeploy(f ipc.Frame) (*ipc.Reply, error) {
	if a.catalog == nil {
		slog.Warn("deploy frame before a valid config; passing the turn")
		return ipc.TurnCommands{}.Reply(), nil
	}
	gs, err := model.ParseGameState(f.Data)
	if err != nil {
		slog.Error("unreadable deploy frame; passing the turn", "error", err)
		return ipc.TurnCommands{}.Reply(), nil
	}

	start := time.Now()
	self, enemy := gs.Self(), gs.Enemy()
	board := buildBoard(a.catalog, gs)
	turn := &rules.Turn{
		Number:      gs.Turn(),
		Health:      self.Health,
		EnemyHealth: enemy.Health,
		Board:       board,
		Planner:     a.Planner,
		Opening:     a.Opening,
	}

	snap := takeSnapshot(turn.Number, self.Health, enemy.Health, board)
	events := detectEvents(a.prev, snap)
	a.prev = &snap
	for _, e := range events {
		slog.Info("turn event", "turn", e.Turn, "kind", string(e.Kind), "detail", e.Detail)
	}

	a.Engine.Evaluate(turn)
	cmds := commands(a.catalog, turn.Plan)
	elapsed := time.Since(start)

	slog.Info("turn played",
		"turn", turn.Number,
		"health", self.Health,
		"enemy_health", enemy.Health,
		"sp", fmt.Sprintf("%.1f→%.1f", self.SP, board.SP),
		"mp", fmt.Sprintf("%.1f→%.1f", self.MP, board.MP),
		"structures", len(cmds.Structures),
		"mobile", len(cmds.Mobile),
		"fired", turn.Fired,
		"elapsed", elapsed,
	)

	if a.Journal != nil {
		rec := record(turn, self, start, elapsed, events)
		if err := a.Journal.Write(rec); err != nil {
			slog.Warn("journal write failed", "error", err)
		}
	}
	return cmds.Reply(), nil
}

// HandleAction ignores the per-frame battle updates; decisions happen only
// in deploy frames.
func (a *Agent) HandleAction(f ipc.Frame) (*ipc.Reply, error) {
	return nil, nil
}

// HandleEnd reports the result and stops the read loop.
func (a *Agent) HandleEnd(f ipc.Frame) (*ipc.Reply, error) {
	gs, err := model.ParseGameState(f.Data)
	if err != nil {
		slog.Warn("unreadable end frame", "error", err)
		return nil, ipc.ErrEndOfGame
	}
	self, enemy := gs.Self(), gs.Enemy()
	slog.Info("game ended", "turn", gs.Turn(), "health", self.Health, "enemy_health", enemy.Health, "won", self.Health > enemy.Health)
	return nil, ipc.ErrEndOfGame
}

func record(t *rules.Turn, before model.Player, start time.Time, elapsed time.Duration, events []Event) journal.Record {
	rec := journal.Record{
		Turn:        t.Number,
		At:          start.UTC(),
		ElapsedMs:   float64(elapsed.Microseconds()) / 1000,
		Health:      t.Health,
		EnemyHealth: t.EnemyHealth,
		SPBefore:    before.SP,
		MPBefore:    before.MP,
		SPAfter:     t.Board.SP,
		MPAfter:     t.Board.MP,
		Fired:       t.Fired,
		Plan:        make([]string, len(t.Plan.Actions)),
		Events:      formatEvents(events),
	}
	for i, act := range t.Plan.Actions {
		rec.Plan[i] = act.String()
	}
	if t.Defense != nil && t.Defense.Threatened {
		rec.Threat = lane(t.Defense.Threat, arena.Opponent)
	}
	if t.Attack != nil {
		rec.Decision = string(t.Attack.Decision)
		if t.Attack.Decision != greedy.DecisionNoLane {
			rec.Attack = lane(t.Attack.Lane, arena.Self)
		}
	}
	return rec
}

func lane(r greedy.Route, attacker arena.Side) *journal.Lane {
	return &journal.Lane{
		X:      r.Spawn.X,
		Y:      r.Spawn.Y,
		Damage: r.Damage,
		Breach: r.Breaches(attacker),
		Length: len(r.Path),
	}
}
