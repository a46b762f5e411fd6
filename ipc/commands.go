package ipc

// Build-list shorthands for the two non-spawn actions.
const (
	ShorthandUpgrade = "UP"
	ShorthandRemove  = "RM"
)

// DefaultShorthands are the stock unit codes in type-index order.
var DefaultShorthands = []string{"FF", "EF", "DF", "PI", "EI", "SI"}

// Placement is one [shorthand, x, y] row of a build or deploy list.
type Placement [3]any

func NewPlacement(shorthand string, x, y int) Placement {
	return Placement{shorthand, x, y}
}

// TurnSubmission is the reply to a turn frame: structures first, then mobile
// units, each list sent as its own line.
type TurnSubmission struct {
	Build  []Placement
	Deploy []Placement
}
