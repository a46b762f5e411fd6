package ipc

import "encoding/json"

// Message types, derived from the shape of each line.
const (
	TypeConfig = "config"
	TypeTurn   = "turn"
	TypeFrame  = "action_frame"
	TypeEnd    = "end_game"
)

// ConfigMessage is the first line of a match.
type ConfigMessage struct {
	UnitInformation []UnitInformation `json:"unitInformation"`
	Resources       Resources         `json:"resources"`
}

// UnitInformation is one entry of the config's unit table, in type-index order.
type UnitInformation struct {
	Shorthand          string       `json:"shorthand"`
	StartHealth        float64      `json:"startHealth"`
	AttackRange        float64      `json:"attackRange"`
	AttackDamageWalker float64      `json:"attackDamageWalker"`
	Cost1              float64      `json:"cost1"` // SP
	Cost2              float64      `json:"cost2"` // MP
	Upgrade            *UnitUpgrade `json:"upgrade,omitempty"`
}

type UnitUpgrade struct {
	StartHealth        float64 `json:"startHealth"`
	AttackRange        float64 `json:"attackRange"`
	AttackDamageWalker float64 `json:"attackDamageWalker"`
	Cost1              float64 `json:"cost1"`
}

type Resources struct {
	BitsPerRound               float64 `json:"bitsPerRound"`
	BitGrowthRate              float64 `json:"bitGrowthRate"`
	TurnIntervalForBitSchedule int     `json:"turnIntervalForBitSchedule"`
	BitDecayPerRound           float64 `json:"bitDecayPerRound"`
	CoresPerRound              float64 `json:"coresPerRound"`
	StartingHP                 float64 `json:"startingHP"`
}

// FrameMessage is a turn, action or end-of-game frame. Unit lists are indexed
// by type (0..5), then the removal (6) and upgrade (7) markers; each row is
// [x, y, health, id]. Rows stay raw so one bad row does not sink the frame.
type FrameMessage struct {
	TurnInfo []float64                    `json:"turnInfo"`
	P1Stats  []float64                    `json:"p1Stats"` // health, SP, MP, time
	P2Stats  []float64                    `json:"p2Stats"`
	P1Units  [][]json.RawMessage          `json:"p1Units"`
	P2Units  [][]json.RawMessage          `json:"p2Units"`
	Events   map[string][]json.RawMessage `json:"events"`
}

// Event list keys used by the engine.
const (
	EventSpawn  = "spawn"
	EventBreach = "breach"
)

// Player flags in event rows.
const (
	OwnerSelf     = 1
	OwnerOpponent = 2
)

// Unit list indices beyond the six unit types.
const (
	RemovalIndex = 6
	UpgradeIndex = 7
)
