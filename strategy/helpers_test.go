package strategy

import (
	"math/rand/v2"
	"testing"

	"github.com/nstehr/bastion/arena"
	"github.com/nstehr/bastion/model"
	"github.com/nstehr/bastion/rules"
)

// scriptedBoard overrides selected adapter answers on top of a real board.
type scriptedBoard struct {
	*arena.Board
	paths     map[model.Cell]map[model.Edge][]model.Cell
	attackers map[model.Cell][]model.StationaryUnit
	projected *float64
}

func (b *scriptedBoard) SimulatePath(start model.Cell, edge model.Edge) model.PathResult {
	if byEdge, ok := b.paths[start]; ok {
		return model.PathResult{Cells: byEdge[edge]}
	}
	return b.Board.SimulatePath(start, edge)
}

func (b *scriptedBoard) AttackersThreatening(c model.Cell, target model.Owner) []model.StationaryUnit {
	if b.attackers != nil {
		return b.attackers[c]
	}
	return b.Board.AttackersThreatening(c, target)
}

func (b *scriptedBoard) ProjectedResource(pool model.Pool, turnsAhead int, spent float64) float64 {
	if b.projected != nil && pool == model.MP {
		return *b.projected
	}
	return b.Board.ProjectedResource(pool, turnsAhead, spent)
}

func snapshot(turn int, sp, mp, enemyHealth float64, structures map[model.Cell]model.StationaryUnit) model.Snapshot {
	snap := model.Snapshot{
		Turn:  turn,
		Self:  model.Player{Health: 30, SP: sp, MP: mp},
		Enemy: model.Player{Health: enemyHealth, SP: 10, MP: 10},
	}
	for c, u := range structures {
		snap.Place(c, u)
	}
	return snap
}

func realBoard(snap model.Snapshot) *arena.Board {
	return arena.New(snap, nil, arena.DefaultSchedule())
}

func scripted(snap model.Snapshot) *scriptedBoard {
	return &scriptedBoard{Board: realBoard(snap)}
}

func mustProfile(t *testing.T, name string) *rules.Profile {
	t.Helper()
	p, err := rules.LookupProfile(name)
	if err != nil {
		t.Fatalf("LookupProfile(%q) failed: %v", name, err)
	}
	return &p
}

// sideLaneProfile is hivemind without the center lane, so the scheduler
// always works a side lane.
func sideLaneProfile(t *testing.T) *rules.Profile {
	p := mustProfile(t, "hivemind")
	p.CenterLane = false
	return p
}

func seeded(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, 0)) }

func ownTurret(upgraded bool) model.StationaryUnit {
	return model.StationaryUnit{Kind: model.Turret, Owner: model.Self, Health: 75, MaxHealth: 75, Upgraded: upgraded}
}

func ownUnit(kind model.UnitKind, health, maxHealth float64, upgraded bool) model.StationaryUnit {
	return model.StationaryUnit{Kind: kind, Owner: model.Self, Health: health, MaxHealth: maxHealth, Upgraded: upgraded}
}

func enemyUnit(kind model.UnitKind, upgraded bool) model.StationaryUnit {
	return model.StationaryUnit{Kind: kind, Owner: model.Opponent, Health: 60, MaxHealth: 60, Upgraded: upgraded}
}

// fullPerimeter places an upgraded friendly turret on every perimeter cell.
func fullPerimeter(p *rules.Profile) map[model.Cell]model.StationaryUnit {
	out := make(map[model.Cell]model.StationaryUnit)
	for _, c := range p.Perimeter {
		out[c] = ownTurret(true)
	}
	return out
}

// completeBoard is a fully built and upgraded defense for the profile.
func completeBoard(p *rules.Profile) map[model.Cell]model.StationaryUnit {
	out := fullPerimeter(p)
	for _, c := range p.Walls {
		out[c] = ownUnit(model.Wall, 120, 120, true)
	}
	for _, left := range []bool{true, false} {
		for _, c := range p.Lane(left).Blockade {
			out[c] = ownTurret(true)
		}
	}
	for _, c := range p.Supports {
		out[c] = ownUnit(model.Support, 30, 30, true)
	}
	return out
}

func newContext(snap model.Snapshot, b Board) *turnContext {
	return &turnContext{
		turn:  snap.Turn,
		self:  snap.Self,
		enemy: snap.Enemy,
		board: b,
		plan:  NewPlan(b, model.DefaultUnitTable(), snap.Self.SP, snap.Self.MP),
	}
}

func countKind(cmds []model.Command, kind model.CommandKind) int {
	n := 0
	for _, c := range cmds {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

func hasCommand(cmds []model.Command, want model.Command) bool {
	for _, c := range cmds {
		if c == want {
			return true
		}
	}
	return false
}

func countUnit(cmds []model.Command, kind model.UnitKind) int {
	n := 0
	for _, c := range cmds {
		if c.Kind == model.CommandSpawn && c.Unit == kind {
			n++
		}
	}
	return n
}
