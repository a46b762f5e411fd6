package rules

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/nstehr/bastion/model"
)

var ErrUnknownProfile = errors.New("unknown profile")

// Lane is the geometry of one side attack lane, described for the left side.
// The right lane is its mirror image.
type Lane struct {
	Gap          model.Cell   `mapstructure:"gap"`          // back-row cell opened for the wave
	Blockade     []model.Cell `mapstructure:"blockade"`     // turrets held at the lane mouth while closed
	Trap         []model.Cell `mapstructure:"trap"`         // any structure here blocks our own wave
	BulkSpawn    model.Cell   `mapstructure:"bulkSpawn"`    // back-edge cell for the main wave
	StaggerDecoy model.Cell   `mapstructure:"staggerDecoy"` // forward cell for the stagger decoy
	WallDecoy    model.Cell   `mapstructure:"wallDecoy"`    // forward cell for the wall-breach decoy
	EnemyWall    model.Cell   `mapstructure:"enemyWall"`    // opponent's lane-mouth wall cell
	StaggerLead  model.Cell   `mapstructure:"staggerLead"`  // opponent cell that makes a stagger dangerous
	DensityFront []model.Cell `mapstructure:"densityFront"` // opponent cells counted as "up front"
	DensityBack  []model.Cell `mapstructure:"densityBack"`  // opponent cells counted as "behind"
}

func mirrorAll(cells []model.Cell) []model.Cell {
	out := make([]model.Cell, len(cells))
	for i, c := range cells {
		out[i] = c.Mirror()
	}
	return out
}

// Mirror returns the lane reflected onto the right side.
func (l Lane) Mirror() Lane {
	return Lane{
		Gap:          l.Gap.Mirror(),
		Blockade:     mirrorAll(l.Blockade),
		Trap:         mirrorAll(l.Trap),
		BulkSpawn:    l.BulkSpawn.Mirror(),
		StaggerDecoy: l.StaggerDecoy.Mirror(),
		WallDecoy:    l.WallDecoy.Mirror(),
		EnemyWall:    l.EnemyWall.Mirror(),
		StaggerLead:  l.StaggerLead.Mirror(),
		DensityFront: mirrorAll(l.DensityFront),
		DensityBack:  mirrorAll(l.DensityBack),
	}
}

// Toggles switch the rules that only some strategy variants apply.
type Toggles struct {
	FailurePenalty   bool `mapstructure:"failurePenalty"`   // goal += FailurePenaltyStep * failures
	StaggerWallCap   bool `mapstructure:"staggerWallCap"`   // decoy size capped when the stagger uses walls
	WallFloor        bool `mapstructure:"wallFloor"`        // lane wall without a wall tactic raises the goal
	BoardTacticProbe bool `mapstructure:"boardTacticProbe"` // re-derive the tactic from the board each turn
	StaggerDensity   bool `mapstructure:"staggerDensity"`   // density adds on top of the stagger-turret increment
}

// Profile is the full table of tunables for one strategy variant. It is
// resolved once per match and shared read-only by every component.
type Profile struct {
	Name    string  `mapstructure:"name"`
	Toggles Toggles `mapstructure:"toggles"`

	// Damage estimator.
	CandidateSpawns      []model.Cell `mapstructure:"candidateSpawns"`
	ExtremeColumns       []int        `mapstructure:"extremeColumns"`
	BreakthroughBonus    float64      `mapstructure:"breakthroughBonus"`
	BlockedPenalty       float64      `mapstructure:"blockedPenalty"`
	TurretDamage         float64      `mapstructure:"turretDamage"`
	UpgradedTurretDamage float64      `mapstructure:"upgradedTurretDamage"`

	// Offense scheduler.
	CenterLane      bool    `mapstructure:"centerLane"`
	ScanFromTurn    int     `mapstructure:"scanFromTurn"`
	InitialGoal     float64 `mapstructure:"initialGoal"`
	CenterGoal      float64 `mapstructure:"centerGoal"`
	BaseDefault     float64 `mapstructure:"baseDefault"`
	EarlyTurn       int     `mapstructure:"earlyTurn"`
	EarlyDefault    float64 `mapstructure:"earlyDefault"`
	LowMPCutoff     float64 `mapstructure:"lowMPCutoff"`
	LowMPDefault    float64 `mapstructure:"lowMPDefault"`
	WallDefault     float64 `mapstructure:"wallDefault"`
	StaggerLeadCap  float64 `mapstructure:"staggerLeadCap"`
	StaggerWallCap  float64 `mapstructure:"staggerWallCap"`
	BaseGoalOffset  float64 `mapstructure:"baseGoalOffset"`
	BaseGoalCap     float64 `mapstructure:"baseGoalCap"`
	WallFloor       float64 `mapstructure:"wallFloor"`
	LethalCutoff    float64 `mapstructure:"lethalCutoff"`
	LethalMargin    float64 `mapstructure:"lethalMargin"`
	StaggerFloor    float64 `mapstructure:"staggerFloor"`
	GoalCeiling     float64 `mapstructure:"goalCeiling"`
	CeilingFallback float64 `mapstructure:"ceilingFallback"`
	FailurePenalty  float64 `mapstructure:"failurePenaltyStep"`
	TrackFailures   bool    `mapstructure:"trackFailures"`
	FailureWindow   int     `mapstructure:"failureWindow"`
	FailureMP       float64 `mapstructure:"failureMP"`
	ScoutDecoy      int     `mapstructure:"scoutDecoy"`
	BulkCount       int     `mapstructure:"bulkCount"`

	// Lane geometry and tactic probes.
	CenterSpawns    [2]model.Cell `mapstructure:"centerSpawns"` // left and right center back-edge cells
	LeftLane        Lane          `mapstructure:"leftLane"`
	ClearGapColumn  bool          `mapstructure:"clearGapColumn"`
	WallTacticProbe model.Cell    `mapstructure:"wallTacticProbe"`
	StaggerProbe    model.Cell    `mapstructure:"staggerProbe"`

	// Defense policy.
	Perimeter      []model.Cell `mapstructure:"perimeter"`
	Walls          []model.Cell `mapstructure:"walls"`
	Anchors        []model.Cell `mapstructure:"anchors"`
	Supports       []model.Cell `mapstructure:"supports"`
	SupportBracket float64      `mapstructure:"supportBracket"`
	BaseSPIncome   float64      `mapstructure:"baseSPIncome"`
	Reinforce      bool         `mapstructure:"reinforce"`
	ReinforceRow   int          `mapstructure:"reinforceRow"` // only cells on or above this row are reinforced
	ExtraTurn      int          `mapstructure:"extraTurn"`
	ExtraTurrets   []model.Cell `mapstructure:"extraTurrets"`
	PruneHighSP    float64      `mapstructure:"pruneHighSP"`
	PruneHealth    float64      `mapstructure:"pruneHealth"`
	PruneLowHealth float64      `mapstructure:"pruneLowHealth"`
	PruneHalf      bool         `mapstructure:"pruneHalf"`
}

// Lane returns the lane geometry for the left or right side.
func (p *Profile) Lane(left bool) Lane {
	if left {
		return p.LeftLane
	}
	return p.LeftLane.Mirror()
}

// Extreme reports whether column x is one of the two outermost spawn columns.
func (p *Profile) Extreme(x int) bool { return slices.Contains(p.ExtremeColumns, x) }

// AttackerDamage is the estimator's per-attacker cost for a structure.
func (p *Profile) AttackerDamage(u model.StationaryUnit) float64 {
	if u.Upgraded {
		return p.UpgradedTurretDamage
	}
	return p.TurretDamage
}

// Validate repairs values that would make the engine misbehave.
func (p *Profile) Validate() {
	p.BlockedPenalty = math.Max(p.BlockedPenalty, 0)
	p.BreakthroughBonus = math.Max(p.BreakthroughBonus, 0)
	p.ScanFromTurn = max(p.ScanFromTurn, 0)
	p.FailureWindow = max(p.FailureWindow, 0)
	p.ScoutDecoy = clampInt(p.ScoutDecoy, 0, 100)
	p.BulkCount = clampInt(p.BulkCount, 1, 10000)
	if p.GoalCeiling <= 0 {
		p.GoalCeiling = math.MaxInt32
	}
	if len(p.ExtremeColumns) == 0 {
		p.ExtremeColumns = []int{1, model.ArenaSize - 2}
	}
	if len(p.CandidateSpawns) == 0 {
		p.CandidateSpawns = defaultCandidates()
	}
	p.CandidateSpawns = slices.DeleteFunc(p.CandidateSpawns, func(c model.Cell) bool { return !model.InBounds(c) })
}

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// defaultCandidates are the front-row spawn columns, center out in mirrored
// pairs, with the two extreme columns last.
func defaultCandidates() []model.Cell {
	xs := []int{13, 14, 11, 16, 9, 18, 7, 20, 5, 22, 4, 23, 1, 26}
	out := make([]model.Cell, len(xs))
	for i, x := range xs {
		out[i] = model.Cell{X: x, Y: model.HalfArena}
	}
	return out
}

func row(y int, xs ...int) []model.Cell {
	out := make([]model.Cell, len(xs))
	for i, x := range xs {
		out[i] = model.Cell{X: x, Y: y}
	}
	return out
}

func span(from, to, step int) []int {
	var xs []int
	for x := from; x <= to; x += step {
		xs = append(xs, x)
	}
	return xs
}

func baseProfile() Profile {
	return Profile{
		CandidateSpawns:      defaultCandidates(),
		ExtremeColumns:       []int{1, 26},
		BreakthroughBonus:    50,
		BlockedPenalty:       10000,
		TurretDamage:         3,
		UpgradedTurretDamage: 20,

		CenterLane:      true,
		ScanFromTurn:    2,
		InitialGoal:     9999,
		CenterGoal:      17,
		BaseDefault:     4,
		EarlyTurn:       5,
		EarlyDefault:    5,
		LowMPCutoff:     15.99,
		LowMPDefault:    5,
		WallDefault:     5,
		StaggerLeadCap:  5,
		StaggerWallCap:  4,
		BaseGoalOffset:  8.99,
		BaseGoalCap:     19.99,
		WallFloor:       16.99,
		LethalCutoff:    12,
		LethalMargin:    2,
		StaggerFloor:    15,
		GoalCeiling:     20,
		CeilingFallback: 12,
		FailurePenalty:  2,
		FailureWindow:   2,
		FailureMP:       1,
		ScoutDecoy:      5,
		BulkCount:       999,
		CenterSpawns:    [2]model.Cell{{X: 13, Y: 0}, {X: 14, Y: 0}},
		LeftLane: Lane{
			Gap:          model.Cell{X: 1, Y: 13},
			Trap:         row(13, 1),
			BulkSpawn:    model.Cell{X: 14, Y: 0},
			StaggerDecoy: model.Cell{X: 8, Y: 5},
			WallDecoy:    model.Cell{X: 12, Y: 1},
			EnemyWall:    model.Cell{X: 0, Y: 14},
			StaggerLead:  model.Cell{X: 3, Y: 14},
			DensityFront: row(14, span(0, 4, 1)...),
			DensityBack:  row(15, span(1, 4, 1)...),
		},
		WallTacticProbe: model.Cell{X: 1, Y: 14},
		StaggerProbe:    model.Cell{X: 2, Y: 14},

		Anchors:      row(13, 3, 24, 10, 17),
		BaseSPIncome: 5,
		ReinforceRow: 12,
	}
}

// Hivemind is the default variant: a full back-row turret line, anchor
// upgrades gating support tiers, and the failure-aware goal.
func Hivemind() Profile {
	p := baseProfile()
	p.Name = "hivemind"
	p.Toggles = Toggles{FailurePenalty: true, StaggerWallCap: true, WallFloor: true, BoardTacticProbe: true, StaggerDensity: true}
	p.TrackFailures = true
	p.LeftLane.Trap = []model.Cell{{X: 1, Y: 13}, {X: 1, Y: 12}}
	p.Perimeter = append(row(13, 0, 27), row(13, span(1, 26, 1)...)...)
	p.Supports = append(row(12, 15, 12, 17, 10, 19, 8, 21, 6), row(11, 15, 12, 17, 10, 19, 8, 21, 6)...)
	p.SupportBracket = 12
	p.PruneHighSP = 0
	p.PruneHalf = true
	return p
}

// CatHivemind keeps corner walls and lane-mouth blockades, reinforces
// rebuilt cells, and prunes on absolute health.
func CatHivemind() Profile {
	p := baseProfile()
	p.Name = "cathivemind"
	p.Toggles = Toggles{WallFloor: true}
	p.LeftLane.Blockade = []model.Cell{{X: 1, Y: 13}, {X: 1, Y: 12}, {X: 2, Y: 12}}
	p.LeftLane.Trap = []model.Cell{{X: 1, Y: 13}, {X: 1, Y: 12}}
	p.ClearGapColumn = true
	p.Perimeter = append(row(13, span(2, 25, 1)...), model.Cell{X: 24, Y: 12})
	p.Walls = row(13, 0, 27)
	p.Supports = row(12, span(8, 22, 2)...)
	p.SupportBracket = 13
	p.Reinforce = true
	p.ExtraTurn = 5
	p.ExtraTurrets = row(12, 3, 4)
	p.PruneHighSP = 15
	p.PruneHealth = 30
	p.PruneLowHealth = 20
	return p
}

// Traditionalist never opens a center gap and prunes very conservatively
// when SP is short.
func Traditionalist() Profile {
	p := CatHivemind()
	p.Name = "traditionalist"
	p.CenterLane = false
	p.Supports = row(12, span(7, 23, 1)...)
	p.ExtraTurrets = row(12, 3, 4, 5)
	p.PruneLowHealth = 10
	return p
}

var registry = map[string]func() Profile{
	"hivemind":       Hivemind,
	"cathivemind":    CatHivemind,
	"traditionalist": Traditionalist,
}

// ProfileNames lists the built-in profiles in sorted order.
func ProfileNames() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LookupProfile returns a validated copy of the named built-in profile.
func LookupProfile(name string) (Profile, error) {
	build, ok := registry[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (have %v)", ErrUnknownProfile, name, ProfileNames())
	}
	p := build()
	p.Validate()
	return p, nil
}
