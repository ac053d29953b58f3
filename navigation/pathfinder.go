// Package navigation reproduces the game engine's routing for mobile units:
// a unit walks toward the edge opposite its spawn quadrant and, when that
// edge is walled off, settles for the reachable cell closest to it.
package navigation

import (
	"math"

	"github.com/nstehr/rampart/arena"
)

// Grid is the occupancy view the pathfinder needs. *arena.Board satisfies it.
type Grid interface {
	Blocked(p arena.Position) bool
}

type axis uint8

const (
	axisNone axis = iota
	axisHorizontal
	axisVertical
)

const unreached = -1

// TargetEdge is the edge a unit spawned at start heads for.
func TargetEdge(start arena.Position) arena.Edge {
	left := start.X < arena.Half
	bottom := start.Y < arena.Half
	switch {
	case left && bottom:
		return arena.TopRight
	case left:
		return arena.BottomRight
	case bottom:
		return arena.TopLeft
	default:
		return arena.BottomLeft
	}
}

// Route returns the path a mobile unit spawned at start would walk on g.
// A blocked or out-of-bounds start yields nil.
func Route(g Grid, start arena.Position) arena.Path {
	return RouteTo(g, start, arena.EdgeCells(TargetEdge(start)))
}

// RouteTo routes start toward an explicit set of endpoints.
func RouteTo(g Grid, start arena.Position, endpoints []arena.Position) arena.Path {
	if len(endpoints) == 0 || !start.InBounds() || g.Blocked(start) {
		return nil
	}
	s := newSearch(g, endpoints)
	s.measure(s.mostIdeal(start))
	return s.walk(start)
}

type search struct {
	grid      Grid
	endpoints []arena.Position
	isEnd     [arena.Size * arena.Size]bool
	pathLen   [arena.Size * arena.Size]int
	dx, dy    int // target direction, +1 or -1 per axis
}

func newSearch(g Grid, endpoints []arena.Position) *search {
	s := &search{grid: g, endpoints: endpoints, dx: 1, dy: 1}
	for _, e := range endpoints {
		if e.InBounds() {
			s.isEnd[e.Index()] = true
		}
	}
	if endpoints[0].X < arena.Half {
		s.dx = -1
	}
	if endpoints[0].Y < arena.Half {
		s.dy = -1
	}
	return s
}

func (s *search) passable(p arena.Position) bool {
	return p.InBounds() && !s.grid.Blocked(p)
}

func neighbors(p arena.Position) [4]arena.Position {
	return [4]arena.Position{
		{X: p.X, Y: p.Y + 1},
		{X: p.X, Y: p.Y - 1},
		{X: p.X + 1, Y: p.Y},
		{X: p.X - 1, Y: p.Y},
	}
}

// idealness ranks cells by closeness to the target edge. Rows dominate
// columns; endpoints outrank everything.
func (s *search) idealness(p arena.Position) int {
	if s.isEnd[p.Index()] {
		return math.MaxInt
	}
	v := 0
	if s.dy == 1 {
		v += arena.Size * p.Y
	} else {
		v += arena.Size * (arena.Size - 1 - p.Y)
	}
	if s.dx == 1 {
		v += p.X
	} else {
		v += arena.Size - 1 - p.X
	}
	return v
}

// mostIdeal floods the component reachable from start and returns its most
// ideal cell. Ties keep the first cell found.
func (s *search) mostIdeal(start arena.Position) arena.Position {
	var visited [arena.Size * arena.Size]bool
	visited[start.Index()] = true
	best, bestScore := start, s.idealness(start)

	queue := []arena.Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range neighbors(cur) {
			if !s.passable(n) {
				continue
			}
			if v := s.idealness(n); v > bestScore {
				best, bestScore = n, v
			}
			if !visited[n.Index()] {
				visited[n.Index()] = true
				queue = append(queue, n)
			}
		}
	}
	return best
}

// measure assigns every cell its step distance to the goal: the ideal cell,
// or every open endpoint when the ideal cell is itself an endpoint.
func (s *search) measure(ideal arena.Position) {
	for i := range s.pathLen {
		s.pathLen[i] = unreached
	}
	var queue []arena.Position
	if s.isEnd[ideal.Index()] {
		for _, e := range s.endpoints {
			if s.passable(e) && s.pathLen[e.Index()] == unreached {
				s.pathLen[e.Index()] = 0
				queue = append(queue, e)
			}
		}
	} else {
		s.pathLen[ideal.Index()] = 0
		queue = append(queue, ideal)
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range neighbors(cur) {
			if s.passable(n) && s.pathLen[n.Index()] == unreached {
				s.pathLen[n.Index()] = s.pathLen[cur.Index()] + 1
				queue = append(queue, n)
			}
		}
	}
}

// walk descends the distance field from start, one cell per step.
func (s *search) walk(start arena.Position) arena.Path {
	path := arena.Path{start}
	cur, last := start, axisNone
	for steps := 0; s.pathLen[cur.Index()] > 0 && steps < arena.Size*arena.Size; steps++ {
		next := s.nextMove(cur, last)
		if next == cur {
			break
		}
		if next.X == cur.X {
			last = axisVertical
		} else {
			last = axisHorizontal
		}
		path = append(path, next)
		cur = next
	}
	return path
}

func (s *search) nextMove(cur arena.Position, last axis) arena.Position {
	choice := cur
	bestLen := s.pathLen[cur.Index()]
	for _, n := range neighbors(cur) {
		if !s.passable(n) {
			continue
		}
		l := s.pathLen[n.Index()]
		if l == unreached || l > bestLen {
			continue
		}
		if l == bestLen && !s.betterDirection(cur, n, choice, last) {
			continue
		}
		choice, bestLen = n, l
	}
	return choice
}

// betterDirection breaks ties between equally short moves: prefer switching
// axis relative to the previous move, then prefer heading toward the target.
func (s *search) betterDirection(cur, candidate, choice arena.Position, last axis) bool {
	if last == axisHorizontal && candidate.X != choice.X {
		return cur.Y != candidate.Y
	}
	if last == axisVertical && candidate.Y != choice.Y {
		return cur.X != candidate.X
	}
	if last == axisNone {
		return cur.Y != candidate.Y
	}
	if candidate.Y == choice.Y {
		return (s.dx == 1 && candidate.X > choice.X) || (s.dx == -1 && candidate.X < choice.X)
	}
	if candidate.X == choice.X {
		return (s.dy == 1 && candidate.Y > choice.Y) || (s.dy == -1 && candidate.Y < choice.Y)
	}
	return true
}
