package model

import "fmt"

// UnitKind indexes the match engine's unit table. The order matches the
// type index used on the wire.
type UnitKind int

const (
	Wall UnitKind = iota
	Support
	Turret
	Scout
	Demolisher
	Interceptor
)

var unitKindNames = [...]string{"wall", "support", "turret", "scout", "demolisher", "interceptor"}

func (k UnitKind) String() string {
	if k >= 0 && int(k) < len(unitKindNames) {
		return unitKindNames[k]
	}
	return fmt.Sprintf("unit(%d)", int(k))
}

// Stationary reports whether the kind is a structure placed with SP.
func (k UnitKind) Stationary() bool { return k >= Wall && k <= Turret }

// Valid reports whether k is a known unit kind.
func (k UnitKind) Valid() bool { return k >= Wall && k <= Interceptor }

type Owner int

const (
	Self Owner = iota
	Opponent
)

func (o Owner) String() string {
	if o == Self {
		return "self"
	}
	return "opponent"
}

// StationaryUnit is a structure on the board. The engine only reads these.
type StationaryUnit struct {
	Kind           UnitKind
	Owner          Owner
	Health         float64
	MaxHealth      float64
	Upgraded       bool
	PendingRemoval bool
}

func (u StationaryUnit) TypeName() string { return u.Kind.String() }

// Pool names one of the two spendable resources.
type Pool int

const (
	SP Pool = iota // structure points
	MP             // mobile points
)

func (p Pool) String() string {
	if p == SP {
		return "SP"
	}
	return "MP"
}

type Player struct {
	Health float64 `json:"health"`
	SP     float64 `json:"sp"`
	MP     float64 `json:"mp"`
}

// Snapshot is the board and resources at the start of a turn.
type Snapshot struct {
	Turn       int                     `json:"turn"`
	Self       Player                  `json:"self"`
	Enemy      Player                  `json:"enemy"`
	Structures map[Cell]StationaryUnit `json:"-"`
}

// Place records a structure, replacing whatever was there.
func (s *Snapshot) Place(c Cell, u StationaryUnit) {
	if s.Structures == nil {
		s.Structures = make(map[Cell]StationaryUnit)
	}
	s.Structures[c] = u
}

// PathResult is the route a mobile unit would take. The last cell is where it
// leaves the board or gets stuck.
type PathResult struct {
	Cells []Cell
}

// Last returns the final cell, false for an empty path.
func (p PathResult) Last() (Cell, bool) {
	if len(p.Cells) == 0 {
		return Cell{}, false
	}
	return p.Cells[len(p.Cells)-1], true
}

// Breakthrough reports whether the path ends on the given edge.
func (p PathResult) Breakthrough(e Edge) bool {
	last, ok := p.Last()
	return ok && e.Contains(last)
}

type CommandKind int

const (
	CommandSpawn CommandKind = iota
	CommandUpgrade
	CommandRemove
)

func (k CommandKind) String() string {
	switch k {
	case CommandSpawn:
		return "spawn"
	case CommandUpgrade:
		return "upgrade"
	case CommandRemove:
		return "remove"
	}
	return fmt.Sprintf("command(%d)", int(k))
}

// Command is a single order submitted as part of a turn.
type Command struct {
	Kind  CommandKind
	Unit  UnitKind // spawn only
	Cell  Cell
	Count int // spawn only
}

func SpawnCommand(kind UnitKind, c Cell, count int) Command {
	return Command{Kind: CommandSpawn, Unit: kind, Cell: c, Count: count}
}

func UpgradeCommand(c Cell) Command { return Command{Kind: CommandUpgrade, Cell: c} }

func RemoveCommand(c Cell) Command { return Command{Kind: CommandRemove, Cell: c} }

func (c Command) String() string {
	if c.Kind == CommandSpawn {
		return fmt.Sprintf("spawn %dx %s at %v", c.Count, c.Unit, c.Cell)
	}
	return fmt.Sprintf("%s %v", c.Kind, c.Cell)
}

type EventKind int

const (
	EventSpawn EventKind = iota
	EventBreach
)

// BattleEvent is one entry from an action frame.
type BattleEvent struct {
	Kind   EventKind
	Cell   Cell
	Unit   UnitKind
	ID     string
	Owner  Owner
	Damage float64 // breach only
}
