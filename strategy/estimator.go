package strategy

import (
	"log/slog"

	"github.com/nstehr/bastion/model"
	"github.com/nstehr/bastion/rules"
)

// Estimate scores one candidate spawn cell.
type Estimate struct {
	Cell    model.Cell
	Edge    model.Edge // target edge with the lower damage
	Damage  float64
	Blocked bool // neither edge's path reaches the opponent's side
}

// Estimator ranks candidate spawn cells by the damage a wave would take.
type Estimator struct {
	profile *rules.Profile
}

func NewEstimator(p *rules.Profile) *Estimator {
	return &Estimator{profile: p}
}

// Score evaluates c toward both target edges. Ties go to the right edge.
func (e *Estimator) Score(b Board, c model.Cell) Estimate {
	left, leftExit := e.edgeDamage(b, c, model.TopLeft)
	right, rightExit := e.edgeDamage(b, c, model.TopRight)
	est := Estimate{Cell: c, Edge: model.TopRight, Damage: right, Blocked: !leftExit && !rightExit}
	if left < right {
		est.Edge = model.TopLeft
		est.Damage = left
	}
	return est
}

// Best returns the lowest-damage candidate. The first candidate wins ties,
// so the profile's center-out ordering favors central lanes. The result is
// Blocked only when no candidate reaches the opponent's side.
func (e *Estimator) Best(b Board) Estimate {
	var best Estimate
	blocked := true
	for i, c := range e.profile.CandidateSpawns {
		est := e.Score(b, c)
		slog.Debug("spawn candidate", "cell", c.String(), "edge", est.Edge.String(), "damage", est.Damage, "blocked", est.Blocked)
		blocked = blocked && est.Blocked
		if i == 0 || est.Damage < best.Damage {
			best = est
		}
	}
	best.Blocked = blocked
	return best
}

// edgeDamage sums the attacker damage along the path from c toward edge and
// applies the breakthrough bonus or the non-viable penalty.
func (e *Estimator) edgeDamage(b Board, c model.Cell, edge model.Edge) (float64, bool) {
	p := e.profile
	path := b.SimulatePath(c, edge)
	last, ok := path.Last()
	if !ok {
		return p.BlockedPenalty, false
	}

	exited := model.TopLeft.Contains(last) || model.TopRight.Contains(last)
	var damage float64
	switch {
	case exited && !p.Extreme(c.X):
		damage -= p.BreakthroughBonus
	case !exited && !p.Extreme(c.X):
		damage = p.BlockedPenalty
	}

	for _, cell := range path.Cells {
		for _, a := range b.AttackersThreatening(cell, model.Self) {
			damage += p.AttackerDamage(a)
		}
	}
	return damage, exited
}
