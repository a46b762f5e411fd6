package strategy

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/nstehr/bastion/model"
	"github.com/nstehr/bastion/rules"
)

// turnContext is the read-only input of one decision pass plus its plan.
type turnContext struct {
	turn  int
	self  model.Player
	enemy model.Player
	board Board
	plan  *Plan
}

// Decision summarizes one turn for logging and the journal.
type Decision struct {
	Turn         int
	Side         Side
	Phase        Phase
	Goal         float64
	SP           float64
	MP           float64
	Committed    bool
	FailureCount int
	Commands     []model.Command
}

// Engine runs the per-turn pipeline: offense planning, defense, commit,
// failure bookkeeping. It is single-threaded and owns its State.
type Engine struct {
	profile   *rules.Profile
	units     model.UnitTable
	state     *State
	scheduler *Scheduler
	defense   *Defense
	ingest    *Ingest
}

// NewEngine builds an engine for one match. rng drives lane choice; pass a
// fixed seed for reproducible play.
func NewEngine(p *rules.Profile, units model.UnitTable, rng *rand.Rand) (*Engine, error) {
	if units == nil {
		units = model.DefaultUnitTable()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(0, 0))
	}
	goals, err := rules.NewProfileEngine(p)
	if err != nil {
		return nil, fmt.Errorf("build goal rules: %w", err)
	}
	return &Engine{
		profile:   p,
		units:     units,
		state:     NewState(p),
		scheduler: NewScheduler(p, goals, rng),
		defense:   NewDefense(p, units),
		ingest:    NewIngest(p),
	}, nil
}

// State returns a copy of the current cross-turn state.
func (e *Engine) State() State { return e.state.Clone() }

// Turn decides the commands for one turn.
func (e *Engine) Turn(snap model.Snapshot, b Board) Decision {
	tc := &turnContext{
		turn:  snap.Turn,
		self:  snap.Self,
		enemy: snap.Enemy,
		board: b,
		plan:  NewPlan(b, e.units, snap.Self.SP, snap.Self.MP),
	}

	e.scheduler.Begin(e.state, tc)
	e.defense.Run(e.state, tc)
	committed := e.scheduler.Commit(e.state, tc)
	e.endTurn(snap.Enemy.Health, tc.plan.MP())

	d := Decision{
		Turn:         snap.Turn,
		Side:         e.state.Side,
		Phase:        e.state.Phase,
		Goal:         e.state.GoalResource,
		SP:           tc.plan.SP(),
		MP:           tc.plan.MP(),
		Committed:    committed,
		FailureCount: e.state.FailureCount,
		Commands:     tc.plan.Commands(),
	}
	slog.Info("turn decided",
		"turn", d.Turn,
		"side", d.Side.String(),
		"phase", d.Phase.String(),
		"goal", d.Goal,
		"commands", len(d.Commands),
		"committed", d.Committed,
		"failures", d.FailureCount,
	)
	return d
}

// Observe applies one action frame's events.
func (e *Engine) Observe(events []model.BattleEvent) {
	e.ingest.Apply(e.state, events)
}

// endTurn tracks how long the enemy has gone undamaged and counts a failure
// when MP sits spent with no effect for longer than the window.
func (e *Engine) endTurn(enemyHealth, remainingMP float64) {
	st := e.state
	if enemyHealth != st.LastEnemyHealth {
		st.TurnsSinceDamage = 0
		st.LastEnemyHealth = enemyHealth
		return
	}
	st.TurnsSinceDamage++
	if e.profile.TrackFailures && remainingMP < e.profile.FailureMP && st.TurnsSinceDamage > e.profile.FailureWindow {
		st.FailureCount++
		slog.Info("wave failure recorded", "failures", st.FailureCount, "turnsSinceDamage", st.TurnsSinceDamage)
	}
}
