package agent

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nstehr/bastion/arena"
	"github.com/nstehr/bastion/ipc"
	"github.com/nstehr/bastion/model"
)

// matchRules is what the config line tells us about the match. It is built
// once and shared read-only by everything that follows.
type matchRules struct {
	units      model.UnitTable
	schedule   arena.Schedule
	shorthands []string
}

// rulesFromConfig overlays the config's unit table and resource schedule on
// the stock values. Entries the config leaves out keep their defaults.
func rulesFromConfig(cfg ipc.ConfigMessage) matchRules {
	units := model.DefaultUnitTable()
	shorthands := append([]string(nil), ipc.DefaultShorthands...)

	for i, info := range cfg.UnitInformation {
		kind := model.UnitKind(i)
		if !kind.Valid() {
			break
		}
		if info.Shorthand != "" {
			shorthands[i] = info.Shorthand
		}
		units[kind] = statsFromInfo(info, units[kind])
	}

	schedule := arena.DefaultSchedule()
	if r := cfg.Resources; r.BitsPerRound > 0 {
		schedule = arena.Schedule{
			MPBase:     r.BitsPerRound,
			MPGrowth:   r.BitGrowthRate,
			MPInterval: r.TurnIntervalForBitSchedule,
			MPDecay:    r.BitDecayPerRound,
			SPIncome:   r.CoresPerRound,
		}
		if schedule.MPInterval <= 0 {
			schedule.MPInterval = arena.DefaultSchedule().MPInterval
		}
	}

	return matchRules{units: units, schedule: schedule, shorthands: shorthands}
}

func statsFromInfo(info ipc.UnitInformation, fallback model.UnitStats) model.UnitStats {
	s := model.UnitStats{
		SPCost:      info.Cost1,
		MPCost:      info.Cost2,
		Health:      info.StartHealth,
		AttackRange: info.AttackRange,
		Damage:      info.AttackDamageWalker,
	}
	if s.Health <= 0 {
		s.Health = fallback.Health
	}
	if s.SPCost <= 0 && s.MPCost <= 0 {
		s.SPCost, s.MPCost = fallback.SPCost, fallback.MPCost
	}

	// Upgrades only override the fields they name.
	s.UpgradeCost, s.UpgradedHealth = s.SPCost, s.Health
	s.UpgradedRange, s.UpgradedDamage = s.AttackRange, s.Damage
	if up := info.Upgrade; up != nil {
		if up.Cost1 > 0 {
			s.UpgradeCost = up.Cost1
		}
		if up.StartHealth > 0 {
			s.UpgradedHealth = up.StartHealth
		}
		if up.AttackRange > 0 {
			s.UpgradedRange = up.AttackRange
		}
		if up.AttackDamageWalker > 0 {
			s.UpgradedDamage = up.AttackDamageWalker
		}
	}
	return s
}

func (m matchRules) shorthand(kind model.UnitKind) string {
	if int(kind) < len(m.shorthands) {
		return m.shorthands[kind]
	}
	return kind.String()
}

// unitRow is one [x, y, health, id] entry of a frame's unit list.
type unitRow struct {
	cell   model.Cell
	health float64
}

func parseUnitRow(raw json.RawMessage) (unitRow, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return unitRow{}, fmt.Errorf("unmarshal unit row: %w", err)
	}
	if len(fields) < 3 {
		return unitRow{}, fmt.Errorf("unit row has %d fields, want at least 3", len(fields))
	}
	var x, y, health float64
	for i, dst := range []*float64{&x, &y, &health} {
		if err := json.Unmarshal(fields[i], dst); err != nil {
			return unitRow{}, fmt.Errorf("unit row field %d: %w", i, err)
		}
	}
	c := model.Cell{X: int(x), Y: int(y)}
	if !model.InBounds(c) {
		return unitRow{}, fmt.Errorf("unit row cell %v out of bounds", c)
	}
	return unitRow{cell: c, health: health}, nil
}

// snapshotFromFrame converts a turn frame into the engine's view of the board.
// p1 is always this player.
func snapshotFromFrame(f ipc.FrameMessage, units model.UnitTable) model.Snapshot {
	snap := model.Snapshot{
		Turn:  frameTurn(f),
		Self:  playerFromStats(f.P1Stats),
		Enemy: playerFromStats(f.P2Stats),
	}
	placeUnits(&snap, f.P1Units, model.Self, units)
	placeUnits(&snap, f.P2Units, model.Opponent, units)
	return snap
}

func frameTurn(f ipc.FrameMessage) int {
	if len(f.TurnInfo) > 1 {
		return int(f.TurnInfo[1])
	}
	return 0
}

func playerFromStats(stats []float64) model.Player {
	var p model.Player
	if len(stats) > 0 {
		p.Health = stats[0]
	}
	if len(stats) > 1 {
		p.SP = stats[1]
	}
	if len(stats) > 2 {
		p.MP = stats[2]
	}
	return p
}

// placeUnits adds structures first, then applies the removal and upgrade
// markers to whatever stands on those cells.
func placeUnits(snap *model.Snapshot, lists [][]json.RawMessage, owner model.Owner, units model.UnitTable) {
	for idx := 0; idx < len(lists) && idx <= int(model.Turret); idx++ {
		kind := model.UnitKind(idx)
		for _, raw := range lists[idx] {
			row, err := parseUnitRow(raw)
			if err != nil {
				slog.Warn("skipping unit row", "kind", kind.String(), "owner", owner.String(), "error", err)
				continue
			}
			snap.Place(row.cell, model.StationaryUnit{
				Kind:      kind,
				Owner:     owner,
				Health:    row.health,
				MaxHealth: units[kind].Health,
			})
		}
	}

	for _, idx := range []int{ipc.RemovalIndex, ipc.UpgradeIndex} {
		if idx >= len(lists) {
			continue
		}
		for _, raw := range lists[idx] {
			row, err := parseUnitRow(raw)
			if err != nil {
				slog.Warn("skipping marker row", "index", idx, "owner", owner.String(), "error", err)
				continue
			}
			u, ok := snap.Structures[row.cell]
			if !ok || u.Owner != owner {
				slog.Debug("marker without structure", "index", idx, "cell", row.cell.String())
				continue
			}
			if idx == ipc.RemovalIndex {
				u.PendingRemoval = true
			} else {
				u.Upgraded = true
				if h := units[u.Kind].UpgradedHealth; h > 0 {
					u.MaxHealth = h
				}
			}
			snap.Structures[row.cell] = u
		}
	}
}

// submissionFromCommands splits the plan into the build list (structures,
// upgrades, removals) and the deploy list (one row per mobile unit).
func submissionFromCommands(cmds []model.Command, m matchRules) ipc.TurnSubmission {
	var sub ipc.TurnSubmission
	for _, cmd := range cmds {
		x, y := cmd.Cell.X, cmd.Cell.Y
		switch cmd.Kind {
		case model.CommandUpgrade:
			sub.Build = append(sub.Build, ipc.NewPlacement(ipc.ShorthandUpgrade, x, y))
		case model.CommandRemove:
			sub.Build = append(sub.Build, ipc.NewPlacement(ipc.ShorthandRemove, x, y))
		case model.CommandSpawn:
			if cmd.Unit.Stationary() {
				sub.Build = append(sub.Build, ipc.NewPlacement(m.shorthand(cmd.Unit), x, y))
				continue
			}
			for range cmd.Count {
				sub.Deploy = append(sub.Deploy, ipc.NewPlacement(m.shorthand(cmd.Unit), x, y))
			}
		}
	}
	return sub
}
