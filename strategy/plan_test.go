package strategy

import (
	"testing"

	"github.com/nstehr/bastion/model"
)

func TestPlanSpawnStructure(t *testing.T) {
	c := model.Cell{X: 5, Y: 13}
	b := realBoard(snapshot(3, 3, 0, 30, nil))
	plan := NewPlan(b, model.DefaultUnitTable(), 3, 0)

	if n := plan.Spawn(model.Turret, c, 1); n != 1 {
		t.Fatalf("Spawn(turret) = %d, want 1", n)
	}
	if plan.SP() != 1 {
		t.Errorf("SP() = %v, want 1", plan.SP())
	}
	if n := plan.Spawn(model.Turret, c, 1); n != 0 {
		t.Errorf("second Spawn on the same cell = %d, want 0", n)
	}
	if n := plan.Spawn(model.Turret, model.Cell{X: 6, Y: 13}, 1); n != 0 {
		t.Errorf("Spawn without SP = %d, want 0", n)
	}
	if n := plan.Spawn(model.Wall, model.Cell{X: 6, Y: 13}, 1); n != 1 {
		t.Errorf("Spawn(wall) with 1 SP = %d, want 1", n)
	}
	if len(plan.Commands()) != 2 {
		t.Errorf("Commands() = %v, want 2 commands", plan.Commands())
	}
}

func TestPlanSpawnOnOccupiedCell(t *testing.T) {
	c := model.Cell{X: 5, Y: 13}
	b := realBoard(snapshot(3, 10, 0, 30, map[model.Cell]model.StationaryUnit{c: ownTurret(false)}))
	plan := NewPlan(b, model.DefaultUnitTable(), 10, 0)
	if n := plan.Spawn(model.Turret, c, 1); n != 0 {
		t.Errorf("Spawn on occupied cell = %d, want 0", n)
	}
}

func TestPlanSpawnMobileClamps(t *testing.T) {
	b := realBoard(snapshot(3, 0, 7.5, 30, nil))
	plan := NewPlan(b, model.DefaultUnitTable(), 0, 7.5)

	if n := plan.Spawn(model.Scout, model.Cell{X: 14, Y: 0}, 999); n != 7 {
		t.Errorf("Spawn(scout, 999) = %d, want 7", n)
	}
	if plan.MP() != 0.5 {
		t.Errorf("MP() = %v, want 0.5", plan.MP())
	}
	if n := plan.Spawn(model.Scout, model.Cell{X: 13, Y: 0}, 5); n != 0 {
		t.Errorf("Spawn with no MP left = %d, want 0", n)
	}
	cmds := plan.Commands()
	if len(cmds) != 1 || cmds[0].Count != 7 {
		t.Errorf("Commands() = %v, want one spawn of 7", cmds)
	}
}

func TestPlanUpgrade(t *testing.T) {
	own := model.Cell{X: 5, Y: 13}
	done := model.Cell{X: 6, Y: 13}
	theirs := model.Cell{X: 5, Y: 14}
	leaving := model.Cell{X: 7, Y: 13}
	fresh := model.Cell{X: 8, Y: 13}
	pending := ownTurret(false)
	pending.PendingRemoval = true
	b := realBoard(snapshot(3, 20, 0, 30, map[model.Cell]model.StationaryUnit{
		own:     ownTurret(false),
		done:    ownTurret(true),
		theirs:  enemyUnit(model.Turret, false),
		leaving: pending,
	}))
	plan := NewPlan(b, model.DefaultUnitTable(), 20, 0)

	tests := []struct {
		name string
		cell model.Cell
		want int
	}{
		{"own turret", own, 1},
		{"again", own, 0},
		{"already upgraded", done, 0},
		{"opponent", theirs, 0},
		{"pending removal", leaving, 0},
		{"empty", fresh, 0},
	}
	for _, tt := range tests {
		if got := plan.Upgrade(tt.cell); got != tt.want {
			t.Errorf("%s: Upgrade(%v) = %d, want %d", tt.name, tt.cell, got, tt.want)
		}
	}

	plan.Spawn(model.Turret, fresh, 1)
	if got := plan.Upgrade(fresh); got != 1 {
		t.Errorf("Upgrade(planned turret) = %d, want 1", got)
	}
	if plan.SP() != 20-4-2-4 {
		t.Errorf("SP() = %v, want %v", plan.SP(), 20-4-2-4)
	}
}

func TestPlanRemove(t *testing.T) {
	own := model.Cell{X: 5, Y: 13}
	theirs := model.Cell{X: 5, Y: 14}
	leaving := model.Cell{X: 7, Y: 13}
	pending := ownTurret(false)
	pending.PendingRemoval = true
	b := realBoard(snapshot(3, 0, 0, 30, map[model.Cell]model.StationaryUnit{
		own:     ownTurret(false),
		theirs:  enemyUnit(model.Wall, false),
		leaving: pending,
	}))
	plan := NewPlan(b, model.DefaultUnitTable(), 0, 0)

	if got := plan.Remove(own); got != 1 {
		t.Errorf("Remove(own) = %d, want 1", got)
	}
	if got := plan.Remove(own); got != 0 {
		t.Errorf("second Remove(own) = %d, want 0", got)
	}
	if got := plan.Remove(theirs); got != 0 {
		t.Errorf("Remove(opponent) = %d, want 0", got)
	}
	if got := plan.Remove(leaving); got != 0 {
		t.Errorf("Remove(pending) = %d, want 0", got)
	}
	if !plan.Removing(own) || !plan.Removing(leaving) || plan.Removing(theirs) {
		t.Error("Removing() does not reflect planned and pending removals")
	}
	if !plan.Present(own) {
		t.Error("a cell being removed is still occupied this turn")
	}
	if got := plan.Upgrade(own); got != 0 {
		t.Errorf("Upgrade(removed) = %d, want 0", got)
	}
}
