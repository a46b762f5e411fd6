package strategy

import (
	"log/slog"
	"math"

	"github.com/nstehr/bastion/model"
)

// Plan buffers one turn's commands against the board as it stood at the
// start of the turn. Every request is advisory: anything the board or the
// remaining resources rule out is silently skipped, so re-issuing a request
// that is already satisfied is a no-op.
type Plan struct {
	board    Board
	units    model.UnitTable
	sp, mp   float64
	commands []model.Command
	built    map[model.Cell]model.UnitKind
	upgraded map[model.Cell]bool
	removed  map[model.Cell]bool
}

func NewPlan(b Board, units model.UnitTable, sp, mp float64) *Plan {
	return &Plan{
		board:    b,
		units:    units,
		sp:       sp,
		mp:       mp,
		built:    make(map[model.Cell]model.UnitKind),
		upgraded: make(map[model.Cell]bool),
		removed:  make(map[model.Cell]bool),
	}
}

// SP and MP are what is left after the commands planned so far.
func (p *Plan) SP() float64 { return p.sp }
func (p *Plan) MP() float64 { return p.mp }

// Commands returns the planned commands in issue order.
func (p *Plan) Commands() []model.Command { return p.commands }

// Present reports whether a structure stands at c or is planned there.
func (p *Plan) Present(c model.Cell) bool {
	if _, ok := p.built[c]; ok {
		return true
	}
	return p.board.Occupied(c)
}

// friendly returns our structure at c, whether on the board or planned.
func (p *Plan) friendly(c model.Cell) (model.StationaryUnit, bool) {
	if kind, ok := p.built[c]; ok {
		return model.StationaryUnit{Kind: kind, Owner: model.Self}, true
	}
	u, ok := p.board.UnitAt(c)
	if !ok || u.Owner != model.Self {
		return model.StationaryUnit{}, false
	}
	return u, true
}

// Spawn requests count units of kind at c and returns how many were planned.
// Structures ignore count and need a free cell; mobile units are clamped to
// what the remaining MP buys.
func (p *Plan) Spawn(kind model.UnitKind, c model.Cell, count int) int {
	if kind.Stationary() {
		if p.Present(c) {
			return 0
		}
		cost := p.units.Cost(kind, model.SP)
		if p.sp < cost {
			return 0
		}
		p.sp -= cost
		p.built[c] = kind
		p.add(model.SpawnCommand(kind, c, 1))
		return 1
	}

	if count <= 0 || p.board.Occupied(c) {
		return 0
	}
	cost := p.units.Cost(kind, model.MP)
	if cost <= 0 {
		return 0
	}
	n := min(count, int(math.Floor(p.mp/cost)))
	if n <= 0 {
		return 0
	}
	p.mp -= float64(n) * cost
	p.add(model.SpawnCommand(kind, c, n))
	return n
}

// Upgrade requests an upgrade of our structure at c.
func (p *Plan) Upgrade(c model.Cell) int {
	if p.upgraded[c] || p.removed[c] {
		return 0
	}
	u, ok := p.friendly(c)
	if !ok || u.Upgraded || u.PendingRemoval {
		return 0
	}
	cost := p.units[u.Kind].UpgradeCost
	if cost <= 0 || p.sp < cost {
		return 0
	}
	p.sp -= cost
	p.upgraded[c] = true
	p.add(model.UpgradeCommand(c))
	return 1
}

// Remove requests removal of our structure at c. The cell stays occupied
// until the end of the turn.
func (p *Plan) Remove(c model.Cell) int {
	if p.removed[c] {
		return 0
	}
	u, ok := p.board.UnitAt(c)
	if !ok || u.Owner != model.Self || u.PendingRemoval {
		return 0
	}
	p.removed[c] = true
	p.add(model.RemoveCommand(c))
	return 1
}

// Removing reports whether c is being removed, this turn or already.
func (p *Plan) Removing(c model.Cell) bool {
	if p.removed[c] {
		return true
	}
	u, ok := p.board.UnitAt(c)
	return ok && u.PendingRemoval
}

func (p *Plan) add(cmd model.Command) {
	slog.Debug("command planned", "command", cmd.String(), "sp", p.sp, "mp", p.mp)
	p.commands = append(p.commands, cmd)
}
