package model

import (
	"fmt"
	"math"
)

// The arena is a 28x28 diamond. Our half is y < 14; the opponent's half is y >= 14.
const (
	ArenaSize = 28
	HalfArena = ArenaSize / 2
)

// Cell is an arena coordinate. X runs left to right, Y runs from our back
// corner (0) to the opponent's (27).
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) String() string { return fmt.Sprintf("[%d,%d]", c.X, c.Y) }

// Behind returns the cell one row closer to our back corner.
func (c Cell) Behind() Cell { return Cell{X: c.X, Y: c.Y - 1} }

// Mirror reflects the cell across the vertical center line.
func (c Cell) Mirror() Cell { return Cell{X: ArenaSize - 1 - c.X, Y: c.Y} }

// LeftHalf reports whether the cell is on the left half of the board
// (x at or below the center column).
func (c Cell) LeftHalf() bool { return c.X < HalfArena }

// InBounds reports whether c lies inside the diamond.
func InBounds(c Cell) bool {
	if c.Y < 0 || c.Y >= ArenaSize {
		return false
	}
	if c.Y < HalfArena {
		return c.X >= HalfArena-1-c.Y && c.X <= HalfArena+c.Y
	}
	return c.X >= c.Y-HalfArena && c.X <= ArenaSize+HalfArena-1-c.Y
}

// Distance is the Euclidean distance used for attack ranges.
func Distance(a, b Cell) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Edge is one of the four diagonal borders of the diamond.
type Edge int

const (
	TopRight Edge = iota
	TopLeft
	BottomLeft
	BottomRight
)

func (e Edge) String() string {
	switch e {
	case TopRight:
		return "top_right"
	case TopLeft:
		return "top_left"
	case BottomLeft:
		return "bottom_left"
	case BottomRight:
		return "bottom_right"
	}
	return fmt.Sprintf("edge(%d)", int(e))
}

// Contains reports whether c sits on the edge.
func (e Edge) Contains(c Cell) bool {
	if !InBounds(c) {
		return false
	}
	switch e {
	case TopRight:
		return c.X+c.Y == ArenaSize+HalfArena-1
	case TopLeft:
		return c.Y-c.X == HalfArena
	case BottomLeft:
		return c.X+c.Y == HalfArena-1
	case BottomRight:
		return c.X-c.Y == HalfArena
	}
	return false
}

// Cells lists the edge from the center column outwards.
func (e Edge) Cells() []Cell {
	out := make([]Cell, 0, HalfArena)
	for n := 0; n < HalfArena; n++ {
		switch e {
		case TopRight:
			out = append(out, Cell{X: HalfArena + n, Y: ArenaSize - 1 - n})
		case TopLeft:
			out = append(out, Cell{X: HalfArena - 1 - n, Y: ArenaSize - 1 - n})
		case BottomLeft:
			out = append(out, Cell{X: HalfArena - 1 - n, Y: n})
		case BottomRight:
			out = append(out, Cell{X: HalfArena + n, Y: n})
		}
	}
	return out
}

// Direction returns the unit step (dx, dy) a unit heading for this edge
// makes progress along.
func (e Edge) Direction() (int, int) {
	switch e {
	case TopRight:
		return 1, 1
	case TopLeft:
		return -1, 1
	case BottomLeft:
		return -1, -1
	}
	return 1, -1
}

// Opposite is the edge a unit spawned on e travels toward by default.
func (e Edge) Opposite() Edge {
	switch e {
	case TopRight:
		return BottomLeft
	case TopLeft:
		return BottomRight
	case BottomLeft:
		return TopRight
	}
	return TopLeft
}
