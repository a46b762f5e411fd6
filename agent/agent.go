package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/nstehr/bastion/arena"
	"github.com/nstehr/bastion/ipc"
	"github.com/nstehr/bastion/rules"
	"github.com/nstehr/bastion/strategy"
)

var ErrNoConfig = errors.New("turn received before match config")

// Recorder persists each turn's decision.
type Recorder interface {
	Record(d strategy.Decision) error
}

// Agent owns the decision-making for a single match.
type Agent struct {
	profile  *rules.Profile
	rng      *rand.Rand
	recorder Recorder

	match  matchRules
	engine *strategy.Engine
}

// New creates an agent for one match. recorder may be nil.
func New(profile *rules.Profile, rng *rand.Rand, recorder Recorder) *Agent {
	return &Agent{profile: profile, rng: rng, recorder: recorder}
}

// Register wires the agent's handlers into conn.
func (a *Agent) Register(conn *ipc.Connection) {
	conn.RegisterHandler(ipc.TypeConfig, a.HandleConfig)
	conn.RegisterHandler(ipc.TypeTurn, a.HandleTurn)
	conn.RegisterHandler(ipc.TypeFrame, a.HandleFrame)
	conn.RegisterHandler(ipc.TypeEnd, a.HandleEnd)
}

// HandleConfig reads the match constants and starts a fresh engine.
func (a *Agent) HandleConfig(env ipc.Envelope) (*ipc.TurnSubmission, error) {
	var cfg ipc.ConfigMessage
	if err := json.Unmarshal(env.Data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	a.match = rulesFromConfig(cfg)
	engine, err := strategy.NewEngine(a.profile, a.match.units, a.rng)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	a.engine = engine

	slog.Info("match configured",
		"units", len(cfg.UnitInformation),
		"mpBase", a.match.schedule.MPBase,
		"mpInterval", a.match.schedule.MPInterval,
		"spIncome", a.match.schedule.SPIncome,
	)
	return nil, nil
}

// HandleTurn decides and returns this turn's build and deploy lists.
func (a *Agent) HandleTurn(env ipc.Envelope) (*ipc.TurnSubmission, error) {
	if a.engine == nil {
		return nil, ErrNoConfig
	}
	var frame ipc.FrameMessage
	if err := json.Unmarshal(env.Data, &frame); err != nil {
		return nil, fmt.Errorf("unmarshal turn frame: %w", err)
	}

	snap := snapshotFromFrame(frame, a.match.units)
	slog.Debug("turn received",
		"turn", snap.Turn,
		"health", snap.Self.Health,
		"sp", snap.Self.SP,
		"mp", snap.Self.MP,
		"enemyHealth", snap.Enemy.Health,
		"structures", len(snap.Structures),
	)

	board := arena.New(snap, a.match.units, a.match.schedule)
	decision := a.engine.Turn(snap, board)

	if a.recorder != nil {
		if err := a.recorder.Record(decision); err != nil {
			slog.Warn("failed to record turn", "turn", decision.Turn, "error", err)
		}
	}

	sub := submissionFromCommands(decision.Commands, a.match)
	return &sub, nil
}

// HandleFrame feeds an action frame's events to the engine. Frames need no reply.
func (a *Agent) HandleFrame(env ipc.Envelope) (*ipc.TurnSubmission, error) {
	if a.engine == nil {
		return nil, nil
	}
	var frame struct {
		Events map[string][]json.RawMessage `json:"events"`
	}
	if err := json.Unmarshal(env.Data, &frame); err != nil {
		return nil, fmt.Errorf("unmarshal action frame: %w", err)
	}
	if events := parseEvents(frame.Events); len(events) > 0 {
		a.engine.Observe(events)
	}
	return nil, nil
}

func (a *Agent) HandleEnd(env ipc.Envelope) (*ipc.TurnSubmission, error) {
	var frame ipc.FrameMessage
	if err := json.Unmarshal(env.Data, &frame); err != nil {
		return nil, fmt.Errorf("unmarshal end frame: %w", err)
	}
	self, enemy := playerFromStats(frame.P1Stats), playerFromStats(frame.P2Stats)
	attrs := []any{"turn", frameTurn(frame), "health", self.Health, "enemyHealth", enemy.Health}
	if a.engine != nil {
		st := a.engine.State()
		attrs = append(attrs, "failures", st.FailureCount, "side", st.Side.String())
	}
	slog.Info("match over", attrs...)
	return nil, nil
}
