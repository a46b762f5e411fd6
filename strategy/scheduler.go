package strategy

import (
	"log/slog"
	"math/rand/v2"

	"github.com/nstehr/bastion/model"
	"github.com/nstehr/bastion/rules"
)

// Scheduler decides when and where the offensive wave goes.
type Scheduler struct {
	profile   *rules.Profile
	goals     *rules.Engine
	estimator *Estimator
	rng       *rand.Rand
}

func NewScheduler(p *rules.Profile, goals *rules.Engine, rng *rand.Rand) *Scheduler {
	return &Scheduler{profile: p, goals: goals, estimator: NewEstimator(p), rng: rng}
}

func (s *Scheduler) randomSide() Side {
	if s.rng.IntN(2) == 0 {
		return SideLeft
	}
	return SideRight
}

// Begin picks the lane, recomputes the goal from the current board and
// decides whether the gap opens this turn. It runs before the defense pass.
func (s *Scheduler) Begin(st *State, tc *turnContext) {
	p := s.profile
	opening := st.Phase == GapOpening && st.Side == SideCenter
	st.Phase = Scanning

	if tc.turn < p.ScanFromTurn {
		st.GoalResource = p.InitialGoal
		st.Default = p.BaseDefault
		return
	}

	best := s.estimator.Best(tc.board)
	if p.CenterLane && !p.Extreme(best.Cell.X) {
		// An opened center gap stays put until the wave goes out; otherwise
		// it follows the current best lane.
		if !opening || st.GapCell == nil {
			gap := model.Cell{X: best.Cell.X, Y: model.HalfArena - 1}
			st.GapCell = &gap
		}
		st.Side = SideCenter
		st.GoalResource = p.CenterGoal
		st.Default = float64(p.ScoutDecoy)
		st.Phase = LaneSelected
	} else {
		st.GapCell = nil
		if st.Side == SideUnset || st.Side == SideCenter {
			st.Side = s.randomSide()
		}
		if p.Toggles.BoardTacticProbe {
			s.probeBoard(st, tc.board)
		}
		s.computeGoal(st, tc)
	}

	projected := tc.board.ProjectedResource(model.MP, 1, 0)
	if projected >= st.GoalResource {
		if st.Side != SideCenter {
			gap := p.Lane(st.Side == SideLeft).Gap
			st.GapCell = &gap
		}
		st.Phase = GapOpening
	}

	slog.Info("offense planned",
		"turn", tc.turn,
		"side", st.Side.String(),
		"phase", st.Phase.String(),
		"goal", st.GoalResource,
		"projectedMP", projected,
		"bestSpawn", best.Cell.String(),
		"bestEdge", best.Edge.String(),
		"bestDamage", best.Damage,
		"blocked", best.Blocked,
	)
}

// probeBoard re-derives the opponent's tactic from structures at the lane's
// probe cells.
func (s *Scheduler) probeBoard(st *State, b Board) {
	wallProbe, staggerProbe := s.profile.WallTacticProbe, s.profile.StaggerProbe
	if st.Side == SideRight {
		wallProbe, staggerProbe = wallProbe.Mirror(), staggerProbe.Mirror()
	}
	if u, ok := b.UnitAt(wallProbe); ok && u.Owner == model.Opponent && u.Kind == model.Wall && !u.PendingRemoval {
		st.ObservedTactic = TacticWall
		return
	}
	if st.ObservedTactic == TacticWall {
		return
	}
	if u, ok := b.UnitAt(staggerProbe); ok && u.Owner == model.Opponent && !u.PendingRemoval {
		if u.Kind == model.Wall {
			st.ObservedTactic = TacticStaggerWall
		} else if st.ObservedTactic != TacticStaggerWall {
			st.ObservedTactic = TacticStaggerTurret
		}
	}
}

// laneEnv gathers the observations the goal rules read for the current side.
func (s *Scheduler) laneEnv(st *State, tc *turnContext) rules.GoalEnv {
	lane := s.profile.Lane(st.Side == SideLeft)
	env := rules.GoalEnv{
		Turn:         tc.turn,
		MP:           tc.self.MP,
		Spawnable:    int(tc.self.MP),
		EnemyHealth:  tc.enemy.Health,
		Tactic:       st.ObservedTactic.String(),
		FailureCount: st.FailureCount,
		LeadOccupied: tc.board.Occupied(lane.StaggerLead),
	}
	for _, c := range lane.DensityFront {
		if upgradedEnemyTurret(tc.board, c) {
			env.UpFront++
		}
	}
	for _, c := range lane.DensityBack {
		if upgradedEnemyTurret(tc.board, c) {
			env.Behind++
		}
	}
	if u, ok := tc.board.UnitAt(lane.EnemyWall); ok && u.Owner == model.Opponent && u.Kind == model.Wall && !u.PendingRemoval {
		env.HasWall = true
	}
	return env
}

func upgradedEnemyTurret(b Board, c model.Cell) bool {
	u, ok := b.UnitAt(c)
	return ok && u.Owner == model.Opponent && u.Kind == model.Turret && u.Upgraded
}

func (s *Scheduler) computeGoal(st *State, tc *turnContext) {
	out, fired := s.goals.Evaluate(s.laneEnv(st, tc))
	st.GoalResource = out.Goal
	st.Default = out.Default
	slog.Debug("goal computed", "goal", out.Goal, "default", out.Default, "rules", fired)
}

// trapped reports whether one of our own structures blocks the wave's exit.
func (s *Scheduler) trapped(st *State, plan *Plan) bool {
	switch st.Side {
	case SideLeft, SideRight:
		for _, c := range s.profile.Lane(st.Side == SideLeft).Trap {
			if plan.Present(c) {
				return true
			}
		}
		return false
	case SideCenter:
		return st.GapCell == nil || plan.Present(*st.GapCell)
	}
	return true
}

// Commit spends the whole MP pool once it meets the goal and the lane is
// clear. It runs after the defense pass and reports whether a wave went out.
func (s *Scheduler) Commit(st *State, tc *turnContext) bool {
	p := s.profile
	if tc.plan.MP() < st.GoalResource || s.trapped(st, tc.plan) {
		return false
	}
	st.Phase = Committing

	var sent int
	if st.Side == SideCenter {
		decoy, bulk := p.CenterSpawns[0], p.CenterSpawns[1]
		if st.GapCell.X > model.HalfArena-1 {
			decoy, bulk = bulk, decoy
		}
		sent += tc.plan.Spawn(model.Scout, decoy, p.ScoutDecoy)
		sent += tc.plan.Spawn(model.Scout, bulk, p.BulkCount)
	} else {
		lane := p.Lane(st.Side == SideLeft)
		decoy := int(st.Default)
		switch {
		case st.ObservedTactic.Staggered():
			sent += tc.plan.Spawn(model.Scout, lane.StaggerDecoy, decoy)
		case st.ObservedTactic == TacticWall:
			sent += tc.plan.Spawn(model.Scout, lane.WallDecoy, decoy)
		}
		sent += tc.plan.Spawn(model.Scout, lane.BulkSpawn, p.BulkCount)
	}

	slog.Info("wave committed", "turn", tc.turn, "side", st.Side.String(), "units", sent, "goal", st.GoalResource)

	st.GapCell = nil
	if st.Side != SideCenter {
		st.Side = s.randomSide()
	}
	st.Phase = Cooldown
	return true
}
