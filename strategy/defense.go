package strategy

import (
	"cmp"
	"log/slog"
	"slices"

	"github.com/nstehr/bastion/model"
	"github.com/nstehr/bastion/rules"
)

// Defense keeps the perimeter standing. Run is idempotent against a fixed
// board: every request goes through the Plan, which drops anything already
// satisfied.
type Defense struct {
	profile *rules.Profile
	units   model.UnitTable
}

func NewDefense(p *rules.Profile, units model.UnitTable) *Defense {
	return &Defense{profile: p, units: units}
}

// Run issues this turn's defensive commands in priority order.
func (d *Defense) Run(st *State, tc *turnContext) {
	p := d.profile
	plan := tc.plan

	open := d.openCells(st)
	d.manageGap(st, plan, open)

	if len(p.ExtraTurrets) > 0 && tc.turn == p.ExtraTurn {
		for _, c := range p.ExtraTurrets {
			st.maintain(c)
		}
	}

	for _, c := range slices.Clone(st.Maintained) {
		if open[c] || plan.Present(c) {
			continue
		}
		if plan.Spawn(model.Turret, c, 1) > 0 && p.Reinforce {
			d.reinforce(st, tc, c, open)
		}
	}

	for _, c := range biasByHits(p.Anchors, st) {
		plan.Upgrade(c)
	}

	for _, c := range p.Walls {
		plan.Spawn(model.Wall, c, 1)
		plan.Upgrade(c)
	}

	d.supports(plan, open)

	destroyed := d.prune(st, plan, open)

	if destroyed <= p.BaseSPIncome {
		for _, c := range biasByHits(st.Maintained, st) {
			if !open[c] {
				plan.Upgrade(c)
			}
		}
	}

	slog.Debug("defense planned", "turn", tc.turn, "commands", len(plan.Commands()), "sp", plan.SP(), "reclaimed", destroyed)
}

// openCells are the cells that must stay clear for the wave this turn.
func (d *Defense) openCells(st *State) map[model.Cell]bool {
	open := make(map[model.Cell]bool)
	if !st.GapOpen() {
		return open
	}
	open[*st.GapCell] = true
	switch st.Side {
	case SideLeft, SideRight:
		for _, c := range d.profile.Lane(st.Side == SideLeft).Blockade {
			open[c] = true
		}
	case SideCenter:
		if d.profile.ClearGapColumn {
			for y := 0; y < model.HalfArena; y++ {
				c := model.Cell{X: st.GapCell.X, Y: y}
				if model.InBounds(c) {
					open[c] = true
				}
			}
		}
	}
	return open
}

// manageGap clears the open cells and holds the blockades on closed lanes.
func (d *Defense) manageGap(st *State, plan *Plan, open map[model.Cell]bool) {
	cells := make([]model.Cell, 0, len(open))
	for c := range open {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, func(a, b model.Cell) int {
		return cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
	})
	for _, c := range cells {
		if plan.Remove(c) > 0 {
			slog.Info("gap opened", "cell", c.String(), "side", st.Side.String())
		}
	}

	for _, left := range []bool{true, false} {
		for _, c := range d.profile.Lane(left).Blockade {
			if !open[c] {
				plan.Spawn(model.Turret, c, 1)
			}
		}
	}
}

// reinforce backs a rebuilt cell with a second turret directly behind it.
func (d *Defense) reinforce(st *State, tc *turnContext, c model.Cell, open map[model.Cell]bool) {
	if tc.turn == 0 || c.Y < d.profile.ReinforceRow || tc.plan.SP() < 1 {
		return
	}
	if !model.InBounds(model.Cell{X: c.X, Y: c.Y - 3}) {
		return
	}
	behind := c.Behind()
	if open[behind] {
		return
	}
	if tc.plan.Spawn(model.Turret, behind, 1) > 0 && st.maintain(behind) {
		slog.Debug("perimeter reinforced", "cell", behind.String())
	}
}

// supports unlocks the support tiers: all of them once every anchor is
// upgraded, otherwise only while SP plus income clears the bracket.
func (d *Defense) supports(plan *Plan, open map[model.Cell]bool) {
	p := d.profile
	anchored := true
	for _, c := range p.Anchors {
		u, ok := plan.board.UnitAt(c)
		if !ok || u.Owner != model.Self || !u.Upgraded {
			anchored = false
			break
		}
	}
	for _, c := range p.Supports {
		if open[c] {
			continue
		}
		if anchored || plan.SP()+p.BaseSPIncome >= p.SupportBracket {
			plan.Spawn(model.Support, c, 1)
		}
		if anchored || plan.SP()+p.BaseSPIncome >= p.SupportBracket {
			plan.Upgrade(c)
		}
	}
}

// prune removes weak structures, weakest first, while the SP reclaimed stays
// within what can be rebuilt next turn. It returns the SP value removed.
func (d *Defense) prune(st *State, plan *Plan, open map[model.Cell]bool) float64 {
	p := d.profile
	type candidate struct {
		cell model.Cell
		unit model.StationaryUnit
	}
	var cands []candidate
	seen := make(map[model.Cell]bool)
	for _, c := range append(slices.Clone(st.Maintained), p.Walls...) {
		if seen[c] || open[c] {
			continue
		}
		seen[c] = true
		if u, ok := plan.board.UnitAt(c); ok && u.Owner == model.Self {
			cands = append(cands, candidate{cell: c, unit: u})
		}
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return cmp.Compare(a.unit.Health, b.unit.Health)
	})

	highSP := plan.SP() >= p.PruneHighSP
	var destroyed float64
	for _, cand := range cands {
		u := cand.unit
		cost := d.units.Cost(u.Kind, model.SP)
		if u.PendingRemoval {
			destroyed += cost
			continue
		}
		if plan.SP()+p.BaseSPIncome < destroyed+cost {
			continue
		}
		weak := u.Health < p.PruneLowHealth
		if highSP {
			weak = u.Health < p.PruneHealth || (p.PruneHalf && 2*u.Health <= u.MaxHealth)
		}
		if weak && plan.Remove(cand.cell) > 0 {
			destroyed += cost
			slog.Debug("structure pruned", "cell", cand.cell.String(), "health", u.Health)
		}
	}
	return destroyed
}

// biasByHits orders cells so the breached half comes first. With both or
// neither half breached the halves alternate.
func biasByHits(cells []model.Cell, st *State) []model.Cell {
	var left, right []model.Cell
	for _, c := range cells {
		if c.LeftHalf() {
			left = append(left, c)
		} else {
			right = append(right, c)
		}
	}
	switch {
	case st.LeftHit && !st.RightHit:
		return append(left, right...)
	case st.RightHit && !st.LeftHit:
		return append(right, left...)
	}
	out := make([]model.Cell, 0, len(cells))
	for i := 0; i < max(len(left), len(right)); i++ {
		if i < len(left) {
			out = append(out, left[i])
		}
		if i < len(right) {
			out = append(out, right[i])
		}
	}
	return out
}
