package strategy

import (
	"slices"
	"testing"

	"github.com/nstehr/bastion/model"
)

func TestEngineFailureCountNonDecreasing(t *testing.T) {
	p := mustProfile(t, "hivemind")
	eng, err := NewEngine(p, nil, seeded(1))
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}

	prev := 0
	for turn := 0; turn < 10; turn++ {
		snap := snapshot(turn, 0, 0, 30, fullPerimeter(p))
		d := eng.Turn(snap, realBoard(snap))
		if d.FailureCount < prev {
			t.Fatalf("turn %d: FailureCount dropped from %d to %d", turn, prev, d.FailureCount)
		}
		prev = d.FailureCount
	}
	// Turns 0 and 1 fill the window; every later idle turn counts.
	if prev != 8 {
		t.Errorf("FailureCount = %d, want 8 after ten idle turns", prev)
	}

	// Damage resets the idle streak but never the failure record.
	snap := snapshot(10, 0, 0, 25, fullPerimeter(p))
	d := eng.Turn(snap, realBoard(snap))
	if d.FailureCount != prev {
		t.Errorf("FailureCount = %d after enemy damage, want %d", d.FailureCount, prev)
	}
	if eng.State().TurnsSinceDamage != 0 {
		t.Errorf("TurnsSinceDamage = %d, want 0 after enemy damage", eng.State().TurnsSinceDamage)
	}
}

func TestEngineFailuresUntracked(t *testing.T) {
	p := mustProfile(t, "cathivemind")
	eng, err := NewEngine(p, nil, seeded(1))
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	for turn := 0; turn < 10; turn++ {
		snap := snapshot(turn, 0, 0, 30, nil)
		eng.Turn(snap, realBoard(snap))
	}
	if got := eng.State().FailureCount; got != 0 {
		t.Errorf("FailureCount = %d, want 0 when failures are not tracked", got)
	}
}

func TestEngineObserveFeedsScheduler(t *testing.T) {
	p := sideLaneProfile(t)
	eng, err := NewEngine(p, nil, seeded(9))
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	eng.Observe([]model.BattleEvent{spawnAt(2, 14, model.Turret, model.Opponent)})
	if eng.State().ObservedTactic != TacticStaggerTurret {
		t.Fatalf("ObservedTactic = %v, want stagger_turret", eng.State().ObservedTactic)
	}

	snap := snapshot(3, 0, 40, 30, nil)
	b := scripted(snap)
	projected := 40.0
	b.projected = &projected
	d := eng.Turn(snap, b)
	if !d.Committed {
		t.Fatalf("no wave with 40 MP and an open lane (goal %v)", d.Goal)
	}
	var decoy *model.Command
	for i, c := range d.Commands {
		if c.Kind == model.CommandSpawn && c.Unit == model.Scout && c.Count < 40 && c.Count > 0 {
			if c.Cell == p.Lane(true).StaggerDecoy || c.Cell == p.Lane(false).StaggerDecoy {
				decoy = &d.Commands[i]
			}
		}
	}
	if decoy == nil {
		t.Errorf("no stagger decoy in %v", d.Commands)
	}
}

func TestEngineDeterministicWithSeed(t *testing.T) {
	p := sideLaneProfile(t)
	run := func() []Side {
		eng, err := NewEngine(p, nil, seeded(2024))
		if err != nil {
			t.Fatalf("NewEngine failed: %v", err)
		}
		projected := 40.0
		var sides []Side
		for turn := 2; turn < 12; turn++ {
			snap := snapshot(turn, 0, 40, 30, nil)
			b := scripted(snap)
			b.projected = &projected
			eng.Turn(snap, b)
			sides = append(sides, eng.State().Side)
		}
		return sides
	}

	a, b := run(), run()
	if !slices.Equal(a, b) {
		t.Errorf("lane sequences differ with the same seed:\n%v\n%v", a, b)
	}
}

func TestEngineStateIsACopy(t *testing.T) {
	p := mustProfile(t, "hivemind")
	eng, err := NewEngine(p, nil, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	st := eng.State()
	st.Maintained[0] = model.Cell{X: 13, Y: 0}
	st.FailureCount = 99
	if got := eng.State(); got.Maintained[0] == st.Maintained[0] || got.FailureCount == 99 {
		t.Error("mutating State() leaked into the engine")
	}
}
