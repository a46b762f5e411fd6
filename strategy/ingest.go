package strategy

import (
	"log/slog"

	"github.com/nstehr/bastion/model"
	"github.com/nstehr/bastion/rules"
)

// Ingest folds action-frame events into the persistent tactic and hit flags.
// Flags are sticky: nothing here clears them.
type Ingest struct {
	profile *rules.Profile
}

func NewIngest(p *rules.Profile) *Ingest {
	return &Ingest{profile: p}
}

func isProbe(c, probe model.Cell) bool { return c == probe || c == probe.Mirror() }

// Apply processes one frame's events in order.
func (in *Ingest) Apply(st *State, events []model.BattleEvent) {
	p := in.profile

	// Wall sightings win over stagger sightings from the same frame.
	for _, ev := range events {
		if ev.Kind != model.EventSpawn || ev.Owner != model.Opponent || !ev.Unit.Stationary() {
			continue
		}
		if ev.Unit == model.Wall && isProbe(ev.Cell, p.WallTacticProbe) && st.ObservedTactic != TacticWall {
			st.ObservedTactic = TacticWall
			slog.Info("opponent tactic observed", "tactic", st.ObservedTactic.String(), "cell", ev.Cell.String())
		}
	}
	for _, ev := range events {
		if ev.Kind != model.EventSpawn || ev.Owner != model.Opponent || !ev.Unit.Stationary() {
			continue
		}
		if !isProbe(ev.Cell, p.StaggerProbe) || st.ObservedTactic == TacticWall {
			continue
		}
		next := TacticStaggerTurret
		if ev.Unit == model.Wall {
			next = TacticStaggerWall
		}
		if st.ObservedTactic != next {
			st.ObservedTactic = next
			slog.Info("opponent tactic observed", "tactic", next.String(), "cell", ev.Cell.String())
		}
	}

	for _, ev := range events {
		if ev.Kind != model.EventBreach || ev.Owner != model.Opponent {
			continue
		}
		if ev.Cell.X <= model.HalfArena-1 {
			st.LeftHit = true
		} else {
			st.RightHit = true
		}
		slog.Debug("breach observed", "cell", ev.Cell.String(), "damage", ev.Damage)
	}
}
