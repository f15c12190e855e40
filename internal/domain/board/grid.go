// Package board holds the Go rules: a finite grid of stones and the move
// engine that enforces capture, suicide and ko on top of it.
package board

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	errs "tsumego_lab/internal/errors"
)

// Color is the content of a single point. Black and White are numeric
// opposites so that negation flips the color.
type Color int8

const (
	Empty Color = 0
	Black Color = 1
	White Color = -1
)

// Opponent returns the opposite color. Empty stays Empty.
func (c Color) Opponent() Color { return -c }

// IsStone reports whether c is Black or White.
func (c Color) IsStone() bool { return c == Black || c == White }

// String returns the SGF/GTP letter of the color.
func (c Color) String() string {
	switch c {
	case Black:
		return "B"
	case White:
		return "W"
	}
	return "."
}

// Format implements fmt.Formatter
func (c Color) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v': // used in debug
		switch c {
		case Empty:
			fmt.Fprint(s, "Empty")
		case Black:
			fmt.Fprint(s, "Black")
		case White:
			fmt.Fprint(s, "White")
		default:
			fmt.Fprintf(s, "Color(%d)", int8(c))
		}
	case 's': // used in diagrams
		switch c {
		case Black:
			fmt.Fprint(s, "X")
		case White:
			fmt.Fprint(s, "O")
		default:
			fmt.Fprint(s, "·")
		}
	default:
		fmt.Fprint(s, c.String())
	}
}

// ColorFromString parses "B", "W", "black" or "white" in any case.
func ColorFromString(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "black":
		return Black, nil
	case "w", "white":
		return White, nil
	}
	return Empty, errors.WithMessagef(errs.ErrMalformedInput, "unknown color %q", s)
}

// Point is a coordinate on the grid. X runs along the first axis (board
// columns), Y along the second axis (board rows, from the top).
type Point struct {
	X, Y int
}

func (p Point) Add(other Point) Point { return Point{p.X + other.X, p.Y + other.Y} }

// adjacents are the 4-connectivity offsets
var adjacents = [4]Point{
	{0, 1},
	{1, 0},
	{0, -1},
	{-1, 0},
}

// Grid is a width × height array of colors.
type Grid struct {
	width  int
	height int
	cells  []Color // x*height + y
}

// NewGrid returns an empty grid.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.WithMessagef(errs.ErrMalformedInput, "grid size %dx%d", width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Color, width*height),
	}, nil
}

// MustGrid builds a grid from rows of a diagram where 'X' or 'B' is black,
// 'O' or 'W' is white and anything else is empty. Row i is Y=i, column j is X=j.
// It panics on ragged input and is meant for fixtures and tests.
func MustGrid(rows ...string) *Grid {
	if len(rows) == 0 {
		panic("board: empty diagram")
	}
	width := len([]rune(rows[0]))
	g, err := NewGrid(width, len(rows))
	if err != nil {
		panic(err)
	}
	for y, row := range rows {
		rs := []rune(row)
		if len(rs) != width {
			panic(fmt.Sprintf("board: ragged diagram row %d", y))
		}
		for x, r := range rs {
			switch r {
			case 'X', 'B', 'x', 'b':
				g.cells[g.index(Point{x, y})] = Black
			case 'O', 'W', 'o', 'w':
				g.cells[g.index(Point{x, y})] = White
			}
		}
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Len is the number of points on the grid.
func (g *Grid) Len() int { return len(g.cells) }

func (g *Grid) index(p Point) int { return p.X*g.height + p.Y }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// At returns the color at p. Points off the grid read as Empty.
func (g *Grid) At(p Point) Color {
	if !g.InBounds(p) {
		return Empty
	}
	return g.cells[g.index(p)]
}

// Set places c at p.
func (g *Grid) Set(p Point, c Color) error {
	if !g.InBounds(p) {
		return errors.WithMessagef(errs.ErrMalformedInput, "point %v is off the %dx%d grid", p, g.width, g.height)
	}
	if c != Empty && !c.IsStone() {
		return errors.WithMessagef(errs.ErrMalformedInput, "invalid color %d", int8(c))
	}
	g.cells[g.index(p)] = c
	return nil
}

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	cells := make([]Color, len(g.cells))
	copy(cells, g.cells)
	return &Grid{width: g.width, height: g.height, cells: cells}
}

// Equal checks that both grids have the same size and stones.
func (g *Grid) Equal(other *Grid) bool {
	if g == other {
		return true
	}
	if other == nil || g.width != other.width || g.height != other.height {
		return false
	}
	for i, c := range g.cells {
		if other.cells[i] != c {
			return false
		}
	}
	return true
}

// Neighbours returns the on-grid orthogonal neighbours of p.
func (g *Grid) Neighbours(p Point) []Point {
	retVal := make([]Point, 0, 4)
	for _, adj := range adjacents {
		n := p.Add(adj)
		if g.InBounds(n) {
			retVal = append(retVal, n)
		}
	}
	return retVal
}

// Points visits every point in X-major order.
func (g *Grid) Points() []Point {
	retVal := make([]Point, 0, len(g.cells))
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			retVal = append(retVal, Point{x, y})
		}
	}
	return retVal
}

// Stones returns the points holding color c.
func (g *Grid) Stones(c Color) []Point {
	var retVal []Point
	for _, p := range g.Points() {
		if g.At(p) == c {
			retVal = append(retVal, p)
		}
	}
	return retVal
}

// StoneCount is the number of non-empty points.
func (g *Grid) StoneCount() int {
	var n int
	for _, c := range g.cells {
		if c != Empty {
			n++
		}
	}
	return n
}

// FlipX mirrors the grid along the first axis.
func (g *Grid) FlipX() *Grid {
	out := &Grid{width: g.width, height: g.height, cells: make([]Color, len(g.cells))}
	for _, p := range g.Points() {
		out.cells[out.index(Point{g.width - 1 - p.X, p.Y})] = g.At(p)
	}
	return out
}

// FlipY mirrors the grid along the second axis.
func (g *Grid) FlipY() *Grid {
	out := &Grid{width: g.width, height: g.height, cells: make([]Color, len(g.cells))}
	for _, p := range g.Points() {
		out.cells[out.index(Point{p.X, g.height - 1 - p.Y})] = g.At(p)
	}
	return out
}

// Transpose swaps the axes. The result is height × width.
func (g *Grid) Transpose() *Grid {
	out := &Grid{width: g.height, height: g.width, cells: make([]Color, len(g.cells))}
	for _, p := range g.Points() {
		out.cells[out.index(Point{p.Y, p.X})] = g.At(p)
	}
	return out
}

// Format implements fmt.Formatter. %s prints a diagram with one board row per line.
func (g *Grid) Format(s fmt.State, verb rune) {
	switch verb {
	case 's', 'v':
		for y := 0; y < g.height; y++ {
			fmt.Fprint(s, "⎢ ")
			for x := 0; x < g.width; x++ {
				fmt.Fprintf(s, "%s ", g.At(Point{x, y}))
			}
			fmt.Fprint(s, "⎥\n")
		}
	}
}
