package sgf

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"tsumego_lab/internal/domain/board"
	errs "tsumego_lab/internal/errors"
)

const (
	sgfLetters = "abcdefghijklmnopqrstuvwxyz"
	gtpLetters = "ABCDEFGHJKLMNOPQRSTUVWXYZ" // no I
)

// PointToSGF encodes p as two lower case letters, column first.
func PointToSGF(p board.Point) (string, error) {
	if p.X < 0 || p.Y < 0 || p.X >= len(sgfLetters) || p.Y >= len(sgfLetters) {
		return "", errors.WithMessagef(errs.ErrMalformedInput, "point %v has no sgf coordinate", p)
	}
	return string([]byte{sgfLetters[p.X], sgfLetters[p.Y]}), nil
}

// SGFToPoint decodes a two letter sgf coordinate.
func SGFToPoint(s string) (board.Point, error) {
	if len(s) != 2 {
		return board.Point{}, errors.WithMessagef(errs.ErrMalformedInput, "sgf coordinate %q", s)
	}
	x := strings.IndexByte(sgfLetters, s[0])
	y := strings.IndexByte(sgfLetters, s[1])
	if x < 0 || y < 0 {
		return board.Point{}, errors.WithMessagef(errs.ErrMalformedInput, "sgf coordinate %q", s)
	}
	return board.Point{X: x, Y: y}, nil
}

// PointToGTP encodes p the way GTP engines expect it: a column letter that
// skips I and a row number counted from the bottom of a board of the given height.
func PointToGTP(p board.Point, height int) (string, error) {
	if p.X < 0 || p.Y < 0 || p.X >= len(gtpLetters) || p.Y >= height {
		return "", errors.WithMessagef(errs.ErrMalformedInput, "point %v has no gtp coordinate", p)
	}
	return string(gtpLetters[p.X]) + strconv.Itoa(height-p.Y), nil
}

// GTPToPoint is the inverse of PointToGTP.
func GTPToPoint(s string, height int) (board.Point, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return board.Point{}, errors.WithMessagef(errs.ErrMalformedInput, "gtp coordinate %q", s)
	}
	x := strings.IndexByte(gtpLetters, s[0])
	row, err := strconv.Atoi(s[1:])
	if x < 0 || err != nil || row < 1 || row > height {
		return board.Point{}, errors.WithMessagef(errs.ErrMalformedInput, "gtp coordinate %q", s)
	}
	return board.Point{X: x, Y: height - row}, nil
}

// expandPoints decodes a point list, including FF[4] compressed rectangles
// such as "aa:cc".
func expandPoints(values []string) ([]board.Point, error) {
	var retVal []board.Point
	for _, v := range values {
		from, to, compressed := strings.Cut(v, ":")
		a, err := SGFToPoint(from)
		if err != nil {
			return nil, err
		}
		if !compressed {
			retVal = append(retVal, a)
			continue
		}
		b, err := SGFToPoint(to)
		if err != nil {
			return nil, err
		}
		for x := min(a.X, b.X); x <= max(a.X, b.X); x++ {
			for y := min(a.Y, b.Y); y <= max(a.Y, b.Y); y++ {
				retVal = append(retVal, board.Point{X: x, Y: y})
			}
		}
	}
	return retVal, nil
}
