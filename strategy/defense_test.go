package strategy

import (
	"slices"
	"testing"

	"github.com/nstehr/bastion/model"
)

func TestDefenseIdempotent(t *testing.T) {
	for _, name := range []string{"hivemind", "cathivemind", "traditionalist"} {
		t.Run(name, func(t *testing.T) {
			p := mustProfile(t, name)
			d := NewDefense(p, model.DefaultUnitTable())
			st := NewState(p)
			snap := snapshot(3, 100, 0, 30, nil)
			tc := newContext(snap, realBoard(snap))

			d.Run(st, tc)
			first := len(tc.plan.Commands())
			if first == 0 {
				t.Fatal("first run on an empty board issued no commands")
			}
			d.Run(st, tc)
			if again := len(tc.plan.Commands()); again != first {
				t.Errorf("second run added %d commands: %v", again-first, tc.plan.Commands()[first:])
			}
		})
	}
}

func TestDefenseCorrectBoardIssuesNothing(t *testing.T) {
	for _, name := range []string{"hivemind", "cathivemind", "traditionalist"} {
		t.Run(name, func(t *testing.T) {
			p := mustProfile(t, name)
			snap := snapshot(6, 50, 0, 30, completeBoard(p))
			tc := newContext(snap, realBoard(snap))

			NewDefense(p, model.DefaultUnitTable()).Run(NewState(p), tc)
			if cmds := tc.plan.Commands(); len(cmds) != 0 {
				t.Errorf("commands on a complete board: %v", cmds)
			}
		})
	}
}

func TestDefenseRebuildWithinBudget(t *testing.T) {
	p := mustProfile(t, "hivemind")
	snap := snapshot(3, 4, 0, 30, nil)
	tc := newContext(snap, realBoard(snap))

	NewDefense(p, model.DefaultUnitTable()).Run(NewState(p), tc)
	cmds := tc.plan.Commands()
	want := []model.Command{
		model.SpawnCommand(model.Turret, p.Perimeter[0], 1),
		model.SpawnCommand(model.Turret, p.Perimeter[1], 1),
	}
	if !slices.Equal(cmds, want) {
		t.Errorf("commands = %v, want %v", cmds, want)
	}
}

func TestDefenseAnchorsBeforeWalls(t *testing.T) {
	p := mustProfile(t, "cathivemind")
	board := completeBoard(p)
	anchor := model.Cell{X: 3, Y: 13}
	board[anchor] = ownTurret(false)
	for _, c := range p.Walls {
		delete(board, c)
	}
	snap := snapshot(6, 4, 0, 30, board)
	tc := newContext(snap, realBoard(snap))

	NewDefense(p, model.DefaultUnitTable()).Run(NewState(p), tc)
	want := []model.Command{model.UpgradeCommand(anchor)}
	if cmds := tc.plan.Commands(); !slices.Equal(cmds, want) {
		t.Errorf("commands = %v, want %v", cmds, want)
	}
}

func TestDefenseOpensSideGap(t *testing.T) {
	p := mustProfile(t, "hivemind")
	gap := model.Cell{X: 1, Y: 13}
	st := NewState(p)
	st.Side = SideLeft
	st.GapCell = &gap
	st.Phase = GapOpening
	snap := snapshot(8, 0, 0, 30, fullPerimeter(p))
	tc := newContext(snap, realBoard(snap))

	NewDefense(p, model.DefaultUnitTable()).Run(st, tc)
	cmds := tc.plan.Commands()
	if !hasCommand(cmds, model.RemoveCommand(gap)) {
		t.Errorf("gap %v not removed: %v", gap, cmds)
	}

	// Once the gap is gone it must not be rebuilt while open.
	structures := fullPerimeter(p)
	delete(structures, gap)
	snap = snapshot(9, 50, 0, 30, structures)
	tc = newContext(snap, realBoard(snap))
	NewDefense(p, model.DefaultUnitTable()).Run(st, tc)
	if hasCommand(tc.plan.Commands(), model.SpawnCommand(model.Turret, gap, 1)) {
		t.Errorf("gap %v rebuilt while open", gap)
	}

	st.Phase = Scanning
	tc = newContext(snap, realBoard(snap))
	NewDefense(p, model.DefaultUnitTable()).Run(st, tc)
	if !hasCommand(tc.plan.Commands(), model.SpawnCommand(model.Turret, gap, 1)) {
		t.Errorf("gap %v not rebuilt once closed: %v", gap, tc.plan.Commands())
	}
}

func TestDefenseBlockades(t *testing.T) {
	p := mustProfile(t, "cathivemind")
	left := p.Lane(true).Blockade
	right := p.Lane(false).Blockade
	structures := make(map[model.Cell]model.StationaryUnit)
	for _, c := range left {
		structures[c] = ownTurret(false)
	}
	gap := p.Lane(true).Gap
	st := NewState(p)
	st.Side = SideLeft
	st.GapCell = &gap
	st.Phase = GapOpening
	snap := snapshot(8, 100, 0, 30, structures)
	tc := newContext(snap, realBoard(snap))

	NewDefense(p, model.DefaultUnitTable()).Run(st, tc)
	cmds := tc.plan.Commands()
	for _, c := range left {
		if !hasCommand(cmds, model.RemoveCommand(c)) {
			t.Errorf("open lane blockade %v not removed", c)
		}
	}
	for _, c := range right {
		if !hasCommand(cmds, model.SpawnCommand(model.Turret, c, 1)) {
			t.Errorf("closed lane blockade %v not placed", c)
		}
	}
}

func TestDefenseClearsCenterColumn(t *testing.T) {
	p := mustProfile(t, "cathivemind")
	gap := model.Cell{X: 10, Y: 13}
	column := []model.Cell{gap, {X: 10, Y: 12}, {X: 10, Y: 11}}
	structures := make(map[model.Cell]model.StationaryUnit)
	for _, c := range column {
		structures[c] = ownTurret(false)
	}
	st := NewState(p)
	st.Side = SideCenter
	st.GapCell = &gap
	st.Phase = GapOpening
	snap := snapshot(8, 100, 0, 30, structures)
	tc := newContext(snap, realBoard(snap))

	NewDefense(p, model.DefaultUnitTable()).Run(st, tc)
	cmds := tc.plan.Commands()
	for _, c := range column {
		if !hasCommand(cmds, model.RemoveCommand(c)) {
			t.Errorf("column cell %v not removed: %v", c, cmds)
		}
	}
	for _, c := range p.Lane(true).Blockade {
		if !hasCommand(cmds, model.SpawnCommand(model.Turret, c, 1)) {
			t.Errorf("blockade %v not held during a center wave", c)
		}
	}
}

func TestDefensePrunesWeakestFirst(t *testing.T) {
	p := mustProfile(t, "hivemind")
	structures := fullPerimeter(p)
	structures[model.Cell{X: 5, Y: 13}] = ownUnit(model.Turret, 20, 75, true)
	structures[model.Cell{X: 6, Y: 13}] = ownUnit(model.Turret, 10, 75, true)
	structures[model.Cell{X: 7, Y: 13}] = ownUnit(model.Turret, 30, 75, true)
	snap := snapshot(8, 0, 0, 30, structures)
	tc := newContext(snap, realBoard(snap))

	NewDefense(p, model.DefaultUnitTable()).Run(NewState(p), tc)
	want := []model.Command{
		model.RemoveCommand(model.Cell{X: 6, Y: 13}),
		model.RemoveCommand(model.Cell{X: 5, Y: 13}),
	}
	if cmds := tc.plan.Commands(); !slices.Equal(cmds, want) {
		t.Errorf("commands = %v, want %v", cmds, want)
	}
}

func TestDefensePruneThresholdDependsOnSP(t *testing.T) {
	p := mustProfile(t, "cathivemind")
	cell := model.Cell{X: 5, Y: 13}

	tests := []struct {
		name   string
		sp     float64
		health float64
		pruned bool
	}{
		{"high sp below 30", 20, 25, true},
		{"high sp at 30", 20, 30, false},
		{"low sp below 30", 10, 25, false},
		{"low sp below 20", 10, 15, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			structures := completeBoard(p)
			structures[cell] = ownUnit(model.Turret, tt.health, 75, true)
			snap := snapshot(8, tt.sp, 0, 30, structures)
			tc := newContext(snap, realBoard(snap))

			NewDefense(p, model.DefaultUnitTable()).Run(NewState(p), tc)
			if got := hasCommand(tc.plan.Commands(), model.RemoveCommand(cell)); got != tt.pruned {
				t.Errorf("pruned = %v, want %v", got, tt.pruned)
			}
		})
	}
}

func TestDefenseReinforcesRebuiltCells(t *testing.T) {
	p := mustProfile(t, "cathivemind")
	st := NewState(p)
	snap := snapshot(3, 200, 0, 30, nil)
	tc := newContext(snap, realBoard(snap))

	NewDefense(p, model.DefaultUnitTable()).Run(st, tc)
	behind := model.Cell{X: 5, Y: 12}
	if !slices.Contains(st.Maintained, behind) {
		t.Errorf("Maintained = %v, want %v added", st.Maintained, behind)
	}
	if !hasCommand(tc.plan.Commands(), model.SpawnCommand(model.Turret, behind, 1)) {
		t.Errorf("no reinforcement at %v", behind)
	}

	st = NewState(p)
	snap = snapshot(0, 200, 0, 30, nil)
	tc = newContext(snap, realBoard(snap))
	NewDefense(p, model.DefaultUnitTable()).Run(st, tc)
	if len(st.Maintained) != len(p.Perimeter) {
		t.Errorf("turn 0 grew Maintained to %d cells, want %d", len(st.Maintained), len(p.Perimeter))
	}
}

func TestDefenseExtraTurrets(t *testing.T) {
	p := mustProfile(t, "cathivemind")
	st := NewState(p)
	snap := snapshot(p.ExtraTurn, 200, 0, 30, nil)
	tc := newContext(snap, realBoard(snap))

	NewDefense(p, model.DefaultUnitTable()).Run(st, tc)
	for _, c := range p.ExtraTurrets {
		if !slices.Contains(st.Maintained, c) {
			t.Errorf("extra turret %v not maintained from turn %d", c, p.ExtraTurn)
		}
	}
}

func TestBiasByHits(t *testing.T) {
	cells := []model.Cell{{X: 3, Y: 13}, {X: 24, Y: 13}, {X: 10, Y: 13}, {X: 17, Y: 13}}
	tests := []struct {
		name        string
		left, right bool
		want        []model.Cell
	}{
		{"neither", false, false, []model.Cell{{X: 3, Y: 13}, {X: 24, Y: 13}, {X: 10, Y: 13}, {X: 17, Y: 13}}},
		{"both", true, true, []model.Cell{{X: 3, Y: 13}, {X: 24, Y: 13}, {X: 10, Y: 13}, {X: 17, Y: 13}}},
		{"left", true, false, []model.Cell{{X: 3, Y: 13}, {X: 10, Y: 13}, {X: 24, Y: 13}, {X: 17, Y: 13}}},
		{"right", false, true, []model.Cell{{X: 24, Y: 13}, {X: 17, Y: 13}, {X: 3, Y: 13}, {X: 10, Y: 13}}},
	}
	for _, tt := range tests {
		st := &State{LeftHit: tt.left, RightHit: tt.right}
		if got := biasByHits(cells, st); !slices.Equal(got, tt.want) {
			t.Errorf("%s: biasByHits = %v, want %v", tt.name, got, tt.want)
		}
	}
}
