package sgf

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"tsumego_lab/internal/domain/board"
	errs "tsumego_lab/internal/errors"
)

// Application is written to the AP property of generated files.
const Application = "tsumego_lab:0.1.0"

const (
	defaultSize = 19
	// SGF point letters run a-z then A-Z.
	maxSize = 52
)

// boardSize reads SZ, either "n" or "w:h", each side within 1..52.
func boardSize(root Node) (int, int, error) {
	sz := strings.TrimSpace(root.Get("SZ"))
	if sz == "" {
		return defaultSize, defaultSize, nil
	}
	ws, hs, rect := strings.Cut(sz, ":")
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return 0, 0, errors.WithMessagef(errs.ErrMalformedInput, "board size %q", sz)
	}
	h := w
	if rect {
		if h, err = strconv.Atoi(strings.TrimSpace(hs)); err != nil {
			return 0, 0, errors.WithMessagef(errs.ErrMalformedInput, "board size %q", sz)
		}
	}
	if w < 1 || h < 1 || w > maxSize || h > maxSize {
		return 0, 0, errors.WithMessagef(errs.ErrMalformedInput, "board size %q is out of 1..%d", sz, maxSize)
	}
	return w, h, nil
}

// RootGrid returns the setup position of the root node together with the
// B/W moves of the main line.
func RootGrid(s *SGF) (*board.Grid, []board.Move, error) {
	root, err := s.RootNode()
	if err != nil {
		return nil, nil, err
	}
	w, h, err := boardSize(root)
	if err != nil {
		return nil, nil, err
	}
	g, err := board.NewGrid(w, h)
	if err != nil {
		return nil, nil, err
	}

	for _, setup := range []struct {
		key   string
		color board.Color
	}{{"AB", board.Black}, {"AW", board.White}} {
		key, color := setup.key, setup.color
		points, err := expandPoints(root.Properties[key])
		if err != nil {
			return nil, nil, errors.WithMessage(err, key)
		}
		for _, p := range points {
			if err := g.Set(p, color); err != nil {
				return nil, nil, errors.WithMessage(err, key)
			}
		}
	}

	var moves []board.Move
	for i, node := range s.MainLine() {
		for _, color := range []board.Color{board.Black, board.White} {
			values, ok := node.Properties[color.String()]
			if !ok {
				continue
			}
			if len(values) != 1 || values[0] == "" || (values[0] == "tt" && w <= 19 && h <= 19) {
				return nil, nil, errors.WithMessagef(errs.ErrMalformedInput, "node %d: passes are not supported", i)
			}
			p, err := SGFToPoint(values[0])
			if err != nil {
				return nil, nil, errors.WithMessagef(err, "node %d", i)
			}
			moves = append(moves, board.Move{Color: color, Point: p})
		}
	}
	return g, moves, nil
}

// FromGrid builds a single-line SGF with g as setup position followed by moves.
func FromGrid(g *board.Grid, moves ...board.Move) (*SGF, error) {
	sz := strconv.Itoa(g.Width())
	if g.Width() != g.Height() {
		sz = strconv.Itoa(g.Width()) + ":" + strconv.Itoa(g.Height())
	}
	props := map[string][]string{
		"FF": {"4"},
		"CA": {"UTF-8"},
		"GM": {"1"},
		"SZ": {sz},
		"AP": {Application},
	}
	for _, p := range g.Points() {
		c := g.At(p)
		if c == board.Empty {
			continue
		}
		coord, err := PointToSGF(p)
		if err != nil {
			return nil, err
		}
		key := "AB"
		if c == board.White {
			key = "AW"
		}
		props[key] = append(props[key], coord)
	}

	tree := &GameTree{Nodes: []Node{{Properties: props}}}
	for _, m := range moves {
		coord, err := PointToSGF(m.Point)
		if err != nil {
			return nil, err
		}
		tree.Nodes = append(tree.Nodes, Node{Properties: map[string][]string{m.Color.String(): {coord}}})
	}
	return &SGF{Root: tree}, nil
}
