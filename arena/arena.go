// Package arena answers occupancy, threat, routing and resource-projection
// questions about a single turn's board. It is the engine-side stand-in for
// the match simulator and mirrors its published rules.
package arena

import (
	"fmt"
	"math"

	"github.com/nstehr/bastion/model"
)

// Schedule describes how resources accrue between turns.
type Schedule struct {
	MPBase     float64 `mapstructure:"mpBase"`     // MP gained per turn before ramp-ups
	MPGrowth   float64 `mapstructure:"mpGrowth"`   // extra MP per ramp-up
	MPInterval int     `mapstructure:"mpInterval"` // turns per ramp-up
	MPDecay    float64 `mapstructure:"mpDecay"`    // fraction of unspent MP lost each turn
	SPIncome   float64 `mapstructure:"spIncome"`   // SP gained per turn
}

// DefaultSchedule returns the stock match resource rules.
func DefaultSchedule() Schedule {
	return Schedule{MPBase: 5, MPGrowth: 1, MPInterval: 10, MPDecay: 0.25, SPIncome: 5}
}

// Board is an immutable view over one snapshot.
type Board struct {
	snap     model.Snapshot
	units    model.UnitTable
	schedule Schedule
	maxRange float64
}

func New(snap model.Snapshot, units model.UnitTable, schedule Schedule) *Board {
	if units == nil {
		units = model.DefaultUnitTable()
	}
	b := &Board{snap: snap, units: units, schedule: schedule}
	for _, s := range units {
		b.maxRange = math.Max(b.maxRange, math.Max(s.AttackRange, s.UpgradedRange))
	}
	return b
}

// Snapshot returns the underlying turn snapshot.
func (b *Board) Snapshot() model.Snapshot { return b.snap }

// Units returns the unit table the board was built with.
func (b *Board) Units() model.UnitTable { return b.units }

// mustBeInBounds panics: an out-of-bounds query is a caller bug.
func mustBeInBounds(c model.Cell) {
	if !model.InBounds(c) {
		panic(fmt.Sprintf("arena: cell %v is out of bounds", c))
	}
}

func (b *Board) Occupied(c model.Cell) bool {
	mustBeInBounds(c)
	_, ok := b.snap.Structures[c]
	return ok
}

func (b *Board) UnitAt(c model.Cell) (model.StationaryUnit, bool) {
	mustBeInBounds(c)
	u, ok := b.snap.Structures[c]
	return u, ok
}

// AttackersThreatening returns the structures that would shoot a mobile unit
// owned by target standing on c. Results are ordered by row, then column.
func (b *Board) AttackersThreatening(c model.Cell, target model.Owner) []model.StationaryUnit {
	mustBeInBounds(c)
	reach := int(math.Ceil(b.maxRange))
	var out []model.StationaryUnit
	for y := c.Y - reach; y <= c.Y+reach; y++ {
		for x := c.X - reach; x <= c.X+reach; x++ {
			at := model.Cell{X: x, Y: y}
			u, ok := b.snap.Structures[at]
			if !ok || u.Owner == target {
				continue
			}
			stats := b.units[u.Kind]
			if stats.DamageFor(u.Upgraded) <= 0 {
				continue
			}
			if model.Distance(c, at) <= stats.Range(u.Upgraded) {
				out = append(out, u)
			}
		}
	}
	return out
}

// ProjectedResource estimates our pool after turnsAhead more turns, starting
// from the snapshot value minus what this turn has already committed.
func (b *Board) ProjectedResource(pool model.Pool, turnsAhead int, spent float64) float64 {
	if turnsAhead < 1 {
		turnsAhead = 1
	}
	if pool == model.SP {
		return b.snap.Self.SP - spent + float64(turnsAhead)*b.schedule.SPIncome
	}
	mp := b.snap.Self.MP - spent
	turn := b.snap.Turn
	for i := 0; i < turnsAhead; i++ {
		turn++
		mp *= 1 - b.schedule.MPDecay
		rampUps := 0
		if b.schedule.MPInterval > 0 {
			rampUps = turn / b.schedule.MPInterval
		}
		mp += b.schedule.MPBase + b.schedule.MPGrowth*float64(rampUps)
		mp = math.Round(mp*10) / 10
	}
	return mp
}
