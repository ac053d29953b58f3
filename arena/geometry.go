// Package arena models the diamond-shaped battlefield: positions, edges,
// unit stats and the board with its resource ledger.
package arena

import (
	"fmt"
	"math"
)

const (
	Size = 28 // arena width and height
	Half = 14 // rows owned by each side

	cellCount = Size * Size
)

// Position is an arena cell. (0,0) is the left corner of the bounding box on
// the acting player's side.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// InBounds reports whether p lies inside the diamond.
func (p Position) InBounds() bool {
	if p.Y < 0 || p.Y >= Size {
		return false
	}
	row := p.Y + 1
	if p.Y >= Half {
		row = Size - p.Y
	}
	start := Half - row
	end := start + 2*row - 1
	return p.X >= start && p.X <= end
}

// Owner returns the side whose half contains p.
func (p Position) Owner() Side {
	if p.Y < Half {
		return Self
	}
	return Opponent
}

// Distance is the euclidean distance between two cells.
func (p Position) Distance(q Position) float64 {
	dx := float64(p.X - q.X)
	dy := float64(p.Y - q.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Index maps an in-bounds position onto the flat cell array (y*Size + x).
func (p Position) Index() int { return p.Y*Size + p.X }

// Side is a player seat relative to the acting player.
type Side uint8

const (
	Self Side = iota
	Opponent
)

func (s Side) Other() Side {
	if s == Self {
		return Opponent
	}
	return Self
}

func (s Side) String() string {
	if s == Self {
		return "self"
	}
	return "opponent"
}

// Edge names one of the four diagonal borders, in the game engine's order.
type Edge uint8

const (
	TopRight Edge = iota
	TopLeft
	BottomLeft
	BottomRight
)

var edgeCells = func() [4][]Position {
	var e [4][]Position
	for n := 0; n < Half; n++ {
		e[TopRight] = append(e[TopRight], Position{X: Half + n, Y: Size - 1 - n})
		e[TopLeft] = append(e[TopLeft], Position{X: Half - 1 - n, Y: Size - 1 - n})
		e[BottomLeft] = append(e[BottomLeft], Position{X: Half - 1 - n, Y: n})
		e[BottomRight] = append(e[BottomRight], Position{X: Half + n, Y: n})
	}
	return e
}()

// EdgeCells returns the cells of one edge starting at the diamond's tip
// (row 0 or row 27). The returned slice is a fresh copy.
func EdgeCells(e Edge) []Position {
	return append([]Position(nil), edgeCells[e]...)
}

// Edges returns every border cell belonging to side: bottom-left then
// bottom-right for Self, top-left then top-right for Opponent.
func Edges(side Side) []Position {
	if side == Self {
		return append(EdgeCells(BottomLeft), edgeCells[BottomRight]...)
	}
	return append(EdgeCells(TopLeft), edgeCells[TopRight]...)
}

var onEdge = func() [2][cellCount]bool {
	var m [2][cellCount]bool
	for _, s := range []Side{Self, Opponent} {
		for _, p := range Edges(s) {
			m[s][p.Index()] = true
		}
	}
	return m
}()

// OnEdge reports whether p is one of side's border cells.
func OnEdge(p Position, side Side) bool {
	return p.InBounds() && onEdge[side][p.Index()]
}

// Path is an ordered walk from a spawn cell to where the unit stops.
type Path []Position

// Terminal returns the last cell of the path.
func (p Path) Terminal() (Position, bool) {
	if len(p) == 0 {
		return Position{}, false
	}
	return p[len(p)-1], true
}

// Breaches reports whether a unit fielded by attacker and walking p ends on
// the far side's border, i.e. scores rather than being turned back.
func (p Path) Breaches(attacker Side) bool {
	end, ok := p.Terminal()
	return ok && OnEdge(end, attacker.Other())
}
