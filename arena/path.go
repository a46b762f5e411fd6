package arena

import "github.com/nstehr/bastion/model"

const (
	moveNone = iota
	moveHorizontal
	moveVertical
)

type node struct {
	blocked         bool
	visitedIdeal    bool
	visitedValidate bool
	pathLength      int
}

// router follows the match engine's routing rule: find the most "ideal"
// reachable tile for the target edge, flood path lengths back from it, then
// walk downhill preferring to alternate axes.
type router struct {
	grid   [model.ArenaSize][model.ArenaSize]node
	edge   model.Edge
	ends   map[model.Cell]bool
	dx, dy int
}

func newRouter(b *Board, edge model.Edge) *router {
	r := &router{edge: edge, ends: make(map[model.Cell]bool, model.HalfArena)}
	r.dx, r.dy = edge.Direction()
	for x := range r.grid {
		for y := range r.grid[x] {
			r.grid[x][y].pathLength = -1
		}
	}
	for c := range b.snap.Structures {
		if model.InBounds(c) {
			r.grid[c.X][c.Y].blocked = true
		}
	}
	for _, c := range edge.Cells() {
		r.ends[c] = true
	}
	return r
}

// SimulatePath returns the route a mobile unit spawned at start would take
// toward edge. A start cell holding a structure yields an empty path.
func (b *Board) SimulatePath(start model.Cell, edge model.Edge) model.PathResult {
	mustBeInBounds(start)
	if b.Occupied(start) {
		return model.PathResult{}
	}
	r := newRouter(b, edge)
	r.validate(r.idealTile(start))
	return model.PathResult{Cells: r.walk(start)}
}

func neighbors(c model.Cell) [4]model.Cell {
	return [4]model.Cell{
		{X: c.X, Y: c.Y + 1},
		{X: c.X, Y: c.Y - 1},
		{X: c.X + 1, Y: c.Y},
		{X: c.X - 1, Y: c.Y},
	}
}

func (r *router) at(c model.Cell) *node { return &r.grid[c.X][c.Y] }

func (r *router) open(c model.Cell) bool { return model.InBounds(c) && !r.at(c).blocked }

func (r *router) idealness(c model.Cell) int {
	if r.ends[c] {
		return 1 << 30
	}
	score := 0
	if r.dy == 1 {
		score += model.ArenaSize * c.Y
	} else {
		score += model.ArenaSize * (model.ArenaSize - 1 - c.Y)
	}
	if r.dx == 1 {
		score += c.X
	} else {
		score += model.ArenaSize - 1 - c.X
	}
	return score
}

func (r *router) idealTile(start model.Cell) model.Cell {
	best := r.idealness(start)
	ideal := start
	r.at(start).visitedIdeal = true
	queue := []model.Cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range neighbors(cur) {
			if !r.open(n) {
				continue
			}
			if score := r.idealness(n); score > best {
				best = score
				ideal = n
			}
			if !r.at(n).visitedIdeal {
				r.at(n).visitedIdeal = true
				queue = append(queue, n)
			}
		}
	}
	return ideal
}

func (r *router) validate(ideal model.Cell) {
	var queue []model.Cell
	if r.ends[ideal] {
		for _, c := range r.edge.Cells() {
			r.at(c).pathLength = 0
			r.at(c).visitedValidate = true
			queue = append(queue, c)
		}
	} else {
		r.at(ideal).pathLength = 0
		r.at(ideal).visitedValidate = true
		queue = append(queue, ideal)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		tile := r.at(cur)
		if tile.blocked {
			continue
		}
		for _, n := range neighbors(cur) {
			if !r.open(n) || r.at(n).visitedValidate {
				continue
			}
			r.at(n).pathLength = tile.pathLength + 1
			r.at(n).visitedValidate = true
			queue = append(queue, n)
		}
	}
}

func (r *router) walk(start model.Cell) []model.Cell {
	path := []model.Cell{start}
	cur := start
	dir := moveNone
	for steps := 0; r.at(cur).pathLength > 0 && steps < model.ArenaSize*model.ArenaSize; steps++ {
		next := r.nextMove(cur, dir)
		if next == cur {
			break
		}
		if next.X == cur.X {
			dir = moveVertical
		} else {
			dir = moveHorizontal
		}
		path = append(path, next)
		cur = next
	}
	return path
}

func (r *router) nextMove(cur model.Cell, dir int) model.Cell {
	ideal := cur
	best := r.at(cur).pathLength
	for _, n := range neighbors(cur) {
		if !r.open(n) || !r.at(n).visitedValidate {
			continue
		}
		length := r.at(n).pathLength
		if length > best {
			continue
		}
		if length == best && !r.betterDirection(cur, n, ideal, dir) {
			continue
		}
		ideal = n
		best = length
	}
	return ideal
}

func (r *router) betterDirection(prev, candidate, bestSoFar model.Cell, dir int) bool {
	switch {
	case dir == moveHorizontal && candidate.X != bestSoFar.X:
		return prev.Y != candidate.Y
	case dir == moveVertical && candidate.Y != bestSoFar.Y:
		return prev.X != candidate.X
	case dir == moveNone:
		return prev.Y != candidate.Y
	}
	if candidate.Y == bestSoFar.Y {
		return (r.dx == 1 && candidate.X > bestSoFar.X) || (r.dx == -1 && candidate.X < bestSoFar.X)
	}
	if candidate.X == bestSoFar.X {
		return (r.dy == 1 && candidate.Y > bestSoFar.Y) || (r.dy == -1 && candidate.Y < bestSoFar.Y)
	}
	return true
}
