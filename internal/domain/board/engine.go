package board

import (
	"fmt"

	"github.com/pkg/errors"

	errs "tsumego_lab/internal/errors"
)

// Move is a stone of some color played at a point.
type Move struct {
	Color Color
	Point Point
}

func (m Move) String() string { return fmt.Sprintf("%s@(%d,%d)", m.Color, m.Point.X, m.Point.Y) }

type historyEntry struct {
	grid  *Grid
	move  Move
	score map[Color]int
}

// Options configure an Engine.
type Options struct {
	// Turn is the color to move first. Empty means Black.
	Turn Color
	// SuicideAllowed permits multi-stone suicide. A lone stone may never suicide.
	SuicideAllowed bool
}

// Engine replays moves on a grid under capture, suicide and simple ko rules.
// It is not safe for concurrent use.
type Engine struct {
	grid           *Grid
	turn           Color
	suicideAllowed bool
	score          map[Color]int
	history        []historyEntry
}

// NewEngine starts an engine from a copy of the initial placement.
func NewEngine(initial *Grid, opts Options) *Engine {
	turn := opts.Turn
	if !turn.IsStone() {
		turn = Black
	}
	return &Engine{
		grid:           initial.Clone(),
		turn:           turn,
		suicideAllowed: opts.SuicideAllowed,
		score:          map[Color]int{Black: 0, White: 0},
	}
}

// Turn is the color about to move.
func (e *Engine) Turn() Color { return e.turn }

// Score is the number of prisoners credited to c.
func (e *Engine) Score(c Color) int { return e.score[c] }

// Grid returns a snapshot of the current position.
func (e *Engine) Grid() *Grid { return e.grid.Clone() }

// History returns the committed moves in order.
func (e *Engine) History() []Move {
	retVal := make([]Move, len(e.history))
	for i, h := range e.history {
		retVal[i] = h.move
	}
	return retVal
}

// Move plays a stone of the current turn's color at p. On error the engine
// state is exactly what it was before the call.
func (e *Engine) Move(p Point) error {
	m := Move{Color: e.turn, Point: p}
	e.pushHistory(m)
	if err := e.move(p); err != nil {
		e.popHistory()
		return errors.WithMessagef(err, "move %v", m)
	}
	e.turn = e.turn.Opponent()
	return nil
}

// Play plays m regardless of whose turn it is. On error the turn is restored.
func (e *Engine) Play(m Move) error {
	if !m.Color.IsStone() {
		return errors.WithMessagef(errs.ErrIllegalMove, "move %v has no color", m)
	}
	prev := e.turn
	e.turn = m.Color
	if err := e.Move(m.Point); err != nil {
		e.turn = prev
		return err
	}
	return nil
}

// Replay plays the moves in order and stops at the first illegal one.
func (e *Engine) Replay(moves []Move) error {
	for i, m := range moves {
		if err := e.Play(m); err != nil {
			return errors.WithMessagef(err, "replay stopped at move %d", i+1)
		}
	}
	return nil
}

// Undo takes back the last committed move.
func (e *Engine) Undo() error {
	if len(e.history) == 0 {
		return errors.WithMessage(errs.ErrIllegalMove, "nothing to undo")
	}
	e.popHistory()
	return nil
}

// Group returns the connected stones of the same color as p, or nil when p
// is empty or off the grid.
func (e *Engine) Group(p Point) []Point { return groupAt(e.grid, p) }

// Liberties returns the empty points adjacent to any member of group.
func (e *Engine) Liberties(group []Point) []Point { return liberties(e.grid, group) }

func (e *Engine) pushHistory(m Move) {
	score := make(map[Color]int, len(e.score))
	for k, v := range e.score {
		score[k] = v
	}
	e.history = append(e.history, historyEntry{grid: e.grid.Clone(), move: m, score: score})
}

func (e *Engine) popHistory() {
	last := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	e.grid = last.grid
	e.score = last.score
	e.turn = last.move.Color
}

func (e *Engine) move(p Point) error {
	if err := e.placeStone(p); err != nil {
		return err
	}
	e.processCapture(p)
	if err := e.processSuicide(p); err != nil {
		return err
	}
	return e.processKo()
}

func (e *Engine) placeStone(p Point) error {
	if !e.grid.InBounds(p) {
		return errors.WithMessage(errs.ErrIllegalMove, "point out of range")
	}
	if e.grid.At(p) != Empty {
		return errors.WithMessage(errs.ErrIllegalMove, "point not empty")
	}
	e.grid.cells[e.grid.index(p)] = e.turn
	return nil
}

func (e *Engine) processCapture(p Point) {
	for _, n := range e.grid.Neighbours(p) {
		if e.grid.At(n) != e.turn.Opponent() {
			continue
		}
		group := groupAt(e.grid, n)
		if len(liberties(e.grid, group)) == 0 {
			e.removeGroup(group)
			e.score[e.turn] += len(group)
		}
	}
}

func (e *Engine) processSuicide(p Point) error {
	group := groupAt(e.grid, p)
	if len(liberties(e.grid, group)) > 0 {
		return nil
	}
	if len(group) == 1 || !e.suicideAllowed {
		return errors.WithMessage(errs.ErrIllegalMove, "suicide move")
	}
	e.removeGroup(group)
	e.score[e.turn.Opponent()] += len(group)
	return nil
}

// processKo compares against the position before the opponent's last move.
// The current attempt already sits on top of history, so that is two entries back.
func (e *Engine) processKo() error {
	if len(e.history) < 2 {
		return nil
	}
	if e.grid.Equal(e.history[len(e.history)-2].grid) {
		return errors.WithMessage(errs.ErrIllegalMove, "ko violation")
	}
	return nil
}

func (e *Engine) removeGroup(group []Point) {
	for _, p := range group {
		e.grid.cells[e.grid.index(p)] = Empty
	}
}

// groupAt finds the group with an explicit worklist.
func groupAt(g *Grid, p Point) []Point {
	c := g.At(p)
	if !g.InBounds(p) || c == Empty {
		return nil
	}
	visited := make([]bool, g.Len())
	visited[g.index(p)] = true
	stack := []Point{p}
	var group []Point
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		group = append(group, cur)
		for _, n := range g.Neighbours(cur) {
			i := g.index(n)
			if visited[i] || g.cells[i] != c {
				continue
			}
			visited[i] = true
			stack = append(stack, n)
		}
	}
	return group
}

func liberties(g *Grid, group []Point) []Point {
	seen := make(map[Point]struct{})
	var retVal []Point
	for _, p := range group {
		for _, n := range g.Neighbours(p) {
			if g.At(n) != Empty {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			retVal = append(retVal, n)
		}
	}
	return retVal
}
