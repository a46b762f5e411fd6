package agent

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nstehr/bastion/ipc"
	"github.com/nstehr/bastion/model"
)

// parseEvents extracts the spawn and breach events of an action frame. A
// malformed row is logged and skipped; the rest of the frame still counts.
func parseEvents(events map[string][]json.RawMessage) []model.BattleEvent {
	var out []model.BattleEvent
	for _, raw := range events[ipc.EventSpawn] {
		ev, err := parseSpawn(raw)
		if err != nil {
			slog.Warn("skipping spawn event", "error", err)
			continue
		}
		out = append(out, ev)
	}
	for _, raw := range events[ipc.EventBreach] {
		ev, err := parseBreach(raw)
		if err != nil {
			slog.Warn("skipping breach event", "error", err)
			continue
		}
		out = append(out, ev)
	}
	return out
}

// parseSpawn reads [[x, y], typeIndex, id, owner].
func parseSpawn(raw json.RawMessage) (model.BattleEvent, error) {
	fields, err := eventFields(raw, 4)
	if err != nil {
		return model.BattleEvent{}, err
	}
	ev := model.BattleEvent{Kind: model.EventSpawn}
	if ev.Cell, err = eventCell(fields[0]); err != nil {
		return model.BattleEvent{}, err
	}
	if ev.Unit, err = eventKind(fields[1]); err != nil {
		return model.BattleEvent{}, err
	}
	ev.ID = eventID(fields[2])
	if ev.Owner, err = eventOwner(fields[3]); err != nil {
		return model.BattleEvent{}, err
	}
	return ev, nil
}

// parseBreach reads [[x, y], damage, typeIndex, id, owner].
func parseBreach(raw json.RawMessage) (model.BattleEvent, error) {
	fields, err := eventFields(raw, 5)
	if err != nil {
		return model.BattleEvent{}, err
	}
	ev := model.BattleEvent{Kind: model.EventBreach}
	if ev.Cell, err = eventCell(fields[0]); err != nil {
		return model.BattleEvent{}, err
	}
	if err := json.Unmarshal(fields[1], &ev.Damage); err != nil {
		return model.BattleEvent{}, fmt.Errorf("breach damage: %w", err)
	}
	if ev.Unit, err = eventKind(fields[2]); err != nil {
		return model.BattleEvent{}, err
	}
	ev.ID = eventID(fields[3])
	if ev.Owner, err = eventOwner(fields[4]); err != nil {
		return model.BattleEvent{}, err
	}
	return ev, nil
}

func eventFields(raw json.RawMessage, want int) ([]json.RawMessage, error) {
	var fields []json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	if len(fields) < want {
		return nil, fmt.Errorf("event has %d fields, want %d", len(fields), want)
	}
	return fields, nil
}

func eventCell(raw json.RawMessage) (model.Cell, error) {
	var xy []float64
	if err := json.Unmarshal(raw, &xy); err != nil {
		return model.Cell{}, fmt.Errorf("event location: %w", err)
	}
	if len(xy) != 2 {
		return model.Cell{}, fmt.Errorf("event location has %d coordinates", len(xy))
	}
	c := model.Cell{X: int(xy[0]), Y: int(xy[1])}
	if !model.InBounds(c) {
		return model.Cell{}, fmt.Errorf("event location %v out of bounds", c)
	}
	return c, nil
}

func eventKind(raw json.RawMessage) (model.UnitKind, error) {
	var idx float64
	if err := json.Unmarshal(raw, &idx); err != nil {
		return 0, fmt.Errorf("event unit type: %w", err)
	}
	kind := model.UnitKind(idx)
	if !kind.Valid() {
		return 0, fmt.Errorf("event unit type %v not a unit", idx)
	}
	return kind, nil
}

// eventID accepts the id as a string or a bare number.
func eventID(raw json.RawMessage) string {
	return strings.Trim(string(raw), `"`)
}

func eventOwner(raw json.RawMessage) (model.Owner, error) {
	var owner float64
	if err := json.Unmarshal(raw, &owner); err != nil {
		return 0, fmt.Errorf("event owner: %w", err)
	}
	switch int(owner) {
	case ipc.OwnerSelf:
		return model.Self, nil
	case ipc.OwnerOpponent:
		return model.Opponent, nil
	}
	return 0, fmt.Errorf("event owner %v unknown", owner)
}
