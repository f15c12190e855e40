package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tsumego_lab/internal/domain"
	"tsumego_lab/internal/domain/board"
	core "tsumego_lab/internal/domain/tsumego"
	"tsumego_lab/internal/usecase/tsumego"
)

const gtpColumns = "ABCDEFGHJKLMNOPQRSTUVWXYZ"

var (
	blackStone = color.New(color.FgHiWhite, color.BgBlack, color.Bold)
	whiteStone = color.New(color.FgBlack, color.BgHiWhite)
	allowed    = color.New(color.FgGreen)
	koArea     = color.New(color.FgBlue)
	passed     = color.New(color.FgGreen, color.Bold)
	failed     = color.New(color.FgRed, color.Bold)
)

// renderFrame prints the canonical frame: X and O are stones, + marks moves
// the engine may search and ~ the empty part of the ko threat region.
func renderFrame(w io.Writer, res *tsumego.FrameResult) error {
	f := res.Frame
	goal := "live"
	if res.ToKill {
		goal = "kill"
	}
	if _, err := fmt.Fprintf(w, "frame %s, %s to %s, ko allowed: %v\n",
		res.FrameColor, core.Attacker.String(), goal, res.KoAllowed); err != nil {
		return err
	}
	return renderDiagram(w, f.Stones, f.AllowedMoves, f.KoPlacement)
}

func renderDiagram(w io.Writer, g *board.Grid, allowedMoves, ko *core.Mask) error {
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < g.Width(); x++ {
		if x > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte(gtpColumns[x])
	}
	sb.WriteByte('\n')

	for y := 0; y < g.Height(); y++ {
		fmt.Fprintf(&sb, "%2d ", g.Height()-y)
		for x := 0; x < g.Width(); x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(cell(g, allowedMoves, ko, board.Point{X: x, Y: y}))
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func cell(g *board.Grid, allowedMoves, ko *core.Mask, p board.Point) string {
	switch {
	case g.At(p) == board.Black:
		return blackStone.Sprint("X")
	case g.At(p) == board.White:
		return whiteStone.Sprint("O")
	case allowedMoves.Get(p):
		return allowed.Sprint("+")
	case ko.Get(p):
		return koArea.Sprint("~")
	default:
		return "."
	}
}

func renderVerdicts(w io.Writer, verdicts []domain.Verdict) {
	for _, v := range verdicts {
		mark := passed.Sprint("correct")
		if !v.Correct {
			mark = failed.Sprint("incorrect")
		}
		fmt.Fprintf(w, "ko allowed: %-5v to kill: %-5v %s  best %s, winrate %.3f, score %.1f, %d visits\n",
			v.KoAllowed, v.ToKill, mark, v.BestMove, v.Winrate, v.ScoreLead, v.Visits)
	}
}
