package strategy

import (
	"slices"

	"github.com/nstehr/bastion/model"
	"github.com/nstehr/bastion/rules"
)

// startingHealth is every player's health at turn 0.
const startingHealth = 30

// Side is the attack lane the scheduler is working toward.
type Side int

const (
	SideUnset Side = iota
	SideLeft
	SideRight
	SideCenter
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideCenter:
		return "center"
	}
	return "unset"
}

// Phase is the offense scheduler's position in its per-turn cycle.
type Phase int

const (
	Scanning Phase = iota
	LaneSelected
	GapOpening
	Committing
	Cooldown
)

func (p Phase) String() string {
	switch p {
	case LaneSelected:
		return "lane_selected"
	case GapOpening:
		return "gap_opening"
	case Committing:
		return "committing"
	case Cooldown:
		return "cooldown"
	}
	return "scanning"
}

// Tactic is the opponent's inferred defensive pattern.
type Tactic int

const (
	TacticNone Tactic = iota
	TacticWall
	TacticStaggerTurret
	TacticStaggerWall
)

// String returns the name rule conditions compare against.
func (t Tactic) String() string {
	switch t {
	case TacticWall:
		return rules.TacticWall
	case TacticStaggerTurret:
		return rules.TacticStaggerTurret
	case TacticStaggerWall:
		return rules.TacticStaggerWall
	}
	return rules.TacticNone
}

func (t Tactic) Staggered() bool { return t == TacticStaggerTurret || t == TacticStaggerWall }

// State is everything the engine carries from one turn to the next.
// Only the engine mutates it.
type State struct {
	Side           Side
	GapCell        *model.Cell // back-row cell held open for the wave
	GoalResource   float64     // MP needed before committing
	Default        float64     // decoy size from the last goal computation
	Phase          Phase
	ObservedTactic Tactic

	LeftHit  bool
	RightHit bool

	TurnsSinceDamage int
	FailureCount     int
	LastEnemyHealth  float64

	Maintained []model.Cell // ordered set; only grows
	maintained map[model.Cell]bool
}

// NewState returns the match-start state for a profile.
func NewState(p *rules.Profile) *State {
	s := &State{
		GoalResource:    p.InitialGoal,
		LastEnemyHealth: startingHealth,
		maintained:      make(map[model.Cell]bool),
	}
	for _, c := range p.Perimeter {
		s.maintain(c)
	}
	return s
}

// maintain adds c to the maintained set, keeping insertion order.
func (s *State) maintain(c model.Cell) bool {
	if s.maintained[c] {
		return false
	}
	s.maintained[c] = true
	s.Maintained = append(s.Maintained, c)
	return true
}

// GapOpen reports whether the defense should keep the gap clear this turn.
func (s *State) GapOpen() bool {
	return s.GapCell != nil && (s.Phase == GapOpening || s.Phase == Committing)
}

// Clone returns a deep copy safe to hand outside the engine.
func (s *State) Clone() State {
	c := *s
	if s.GapCell != nil {
		g := *s.GapCell
		c.GapCell = &g
	}
	c.Maintained = slices.Clone(s.Maintained)
	c.maintained = make(map[model.Cell]bool, len(s.maintained))
	for k, v := range s.maintained {
		c.maintained[k] = v
	}
	return c
}
