package tsumego

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tsumego_lab/internal/bootstrap"
	"tsumego_lab/internal/domain"
	"tsumego_lab/internal/domain/board"
	"tsumego_lab/internal/domain/sgf"
	core "tsumego_lab/internal/domain/tsumego"
	errs "tsumego_lab/internal/errors"
)

// movesUntilDepth bounds the allowMoves restriction of a query.
const movesUntilDepth = 300

type Analyzer interface {
	Analyze(ctx context.Context, request domain.AnalysisRequest) (domain.AnalysisResponse, error)
}

type TsumegoUseCase struct {
	analyzer Analyzer
	cfg      *bootstrap.Config
	log      *zap.SugaredLogger
}

func NewTsumegoUseCase(analyzer Analyzer, cfg *bootstrap.Config, log *zap.SugaredLogger) *TsumegoUseCase {
	return &TsumegoUseCase{
		analyzer: analyzer,
		cfg:      cfg,
		log:      log,
	}
}

// FrameResult is a synthesized frame ready for display or analysis.
type FrameResult struct {
	SGF           string            `json:"sgf"`
	FrameColor    string            `json:"frame_color"`
	ToKill        bool              `json:"to_kill"`
	KoAllowed     bool              `json:"ko_allowed"`
	Rotation      core.RotationSpec `json:"rotation"`
	InitialStones []domain.Stone    `json:"initial_stones"`
	AllowedMoves  []string          `json:"allowed_moves"`
	Frame         *core.Frame       `json:"-"`
}

// LoadPosition parses a problem and replays its main line, so illegal
// records are rejected before any frame is built.
func (u *TsumegoUseCase) LoadPosition(sgfText string) (*board.Grid, error) {
	tree, err := sgf.Parse(sgfText)
	if err != nil {
		return nil, err
	}
	grid, moves, err := sgf.RootGrid(tree)
	if err != nil {
		return nil, err
	}
	engine := board.NewEngine(grid, board.Options{SuicideAllowed: u.cfg.SuicideAllowed})
	if err := engine.Replay(moves); err != nil {
		return nil, err
	}
	return engine.Grid(), nil
}

// BuildFrame synthesizes the frame of a problem. The SGF of the result is in
// the orientation of the input, the engine stones are canonical.
func (u *TsumegoUseCase) BuildFrame(ctx context.Context, sgfText string, koAllowed bool) (*FrameResult, error) {
	grid, err := u.LoadPosition(sgfText)
	if err != nil {
		return nil, err
	}
	return u.frameFor(grid, koAllowed)
}

func (u *TsumegoUseCase) frameFor(grid *board.Grid, koAllowed bool) (*FrameResult, error) {
	frame, err := core.Synthesize(grid, core.Options{KoAllowed: koAllowed, WallDistance: u.cfg.WallDistance})
	if err != nil {
		return nil, err
	}

	framed, err := sgf.FromGrid(frame.Rotation.Restore(frame.Stones))
	if err != nil {
		return nil, err
	}
	stones, err := InitialStones(frame.Stones)
	if err != nil {
		return nil, err
	}
	allowed, err := gtpPoints(frame.AllowedMoves.Points(), frame.Height())
	if err != nil {
		return nil, err
	}

	return &FrameResult{
		SGF:           sgf.Serialize(framed),
		FrameColor:    frame.FrameColor.String(),
		ToKill:        frame.ToKill(),
		KoAllowed:     koAllowed,
		Rotation:      frame.Rotation,
		InitialStones: stones,
		AllowedMoves:  allowed,
		Frame:         frame,
	}, nil
}

// InitialStones lists the stones of g as GTP setup stones, black first.
func InitialStones(g *board.Grid) ([]domain.Stone, error) {
	var retVal []domain.Stone
	for _, c := range []board.Color{board.Black, board.White} {
		points, err := gtpPoints(g.Stones(c), g.Height())
		if err != nil {
			return nil, err
		}
		for _, p := range points {
			retVal = append(retVal, domain.Stone{c.String(), p})
		}
	}
	return retVal, nil
}

func gtpPoints(points []board.Point, height int) ([]string, error) {
	retVal := make([]string, 0, len(points))
	for _, p := range points {
		s, err := sgf.PointToGTP(p, height)
		if err != nil {
			return nil, err
		}
		retVal = append(retVal, s)
	}
	return retVal, nil
}

// NewAnalysisRequest asks for the ownership of the framed position with the
// solver to move and the search restricted to the allowed moves.
func NewAnalysisRequest(res *FrameResult, cfg *bootstrap.Config) domain.AnalysisRequest {
	player := core.Attacker.String()
	allow := make([]domain.MovesDict, 0, 2)
	for _, c := range []board.Color{board.Black, board.White} {
		allow = append(allow, domain.MovesDict{
			Player:     c.String(),
			Moves:      res.AllowedMoves,
			UntilDepth: movesUntilDepth,
		})
	}
	return domain.AnalysisRequest{
		Moves:            []domain.Stone{},
		InitialStones:    res.InitialStones,
		InitialPlayer:    player,
		Rules:            cfg.Rules,
		Komi:             cfg.Komi,
		BoardXSize:       res.Frame.Width(),
		BoardYSize:       res.Frame.Height(),
		MaxVisits:        cfg.MaxVisits,
		IncludeOwnership: true,
		AllowMoves:       allow,
	}
}

// Verify judges a problem under both ko regimes.
func (u *TsumegoUseCase) Verify(ctx context.Context, sgfText string) ([]domain.Verdict, error) {
	grid, err := u.LoadPosition(sgfText)
	if err != nil {
		return nil, err
	}

	regimes := []bool{false, true}
	verdicts := make([]domain.Verdict, len(regimes))
	g, ctx := errgroup.WithContext(ctx)
	for i, koAllowed := range regimes {
		i, koAllowed := i, koAllowed
		g.Go(func() error {
			res, err := u.frameFor(grid, koAllowed)
			if err != nil {
				return err
			}
			verdict, err := u.VerifyFrame(ctx, res)
			if err != nil {
				return err
			}
			verdicts[i] = verdict
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}

// VerifyFrame runs one analysis of a frame and evaluates the ownership.
func (u *TsumegoUseCase) VerifyFrame(ctx context.Context, res *FrameResult) (domain.Verdict, error) {
	request := NewAnalysisRequest(res, u.cfg)
	response, err := u.analyzer.Analyze(ctx, request)
	if err != nil {
		return domain.Verdict{}, err
	}
	if len(response.Ownership) == 0 {
		return domain.Verdict{}, fmt.Errorf("%w: response %s carries no ownership", errs.ErrAnalysisFailed, response.ID)
	}

	frame := res.Frame
	own, err := core.NewOwnership(response.Ownership, frame.Width(), frame.Height())
	if err != nil {
		return domain.Verdict{}, err
	}
	correct, err := core.Evaluate(frame, own, frame.ToKill(), u.cfg.OwnershipThreshold)
	if err != nil {
		return domain.Verdict{}, err
	}

	verdict := domain.Verdict{
		KoAllowed:  frame.KoAllowed,
		ToKill:     frame.ToKill(),
		Correct:    correct,
		Winrate:    response.RootInfo.Winrate,
		ScoreLead:  response.RootInfo.ScoreLead,
		Visits:     response.RootInfo.Visits,
		FrameColor: frame.FrameColor.String(),
	}
	if best, ok := bestMove(response.MoveInfos); ok {
		if verdict.BestMove, err = restoreGTP(best, frame); err != nil {
			u.log.Warnw("engine suggested an unknown move", "move", best, "error", err)
		}
	}
	u.log.Infow("frame verified", "ko_allowed", verdict.KoAllowed, "to_kill", verdict.ToKill,
		"correct", verdict.Correct, "visits", verdict.Visits)
	return verdict, nil
}

func bestMove(infos []domain.MoveInfo) (string, bool) {
	for _, mi := range infos {
		if mi.Order == 0 && mi.Move != "" {
			return mi.Move, true
		}
	}
	return "", false
}

// restoreGTP maps a canonical GTP move back to the orientation of the input.
func restoreGTP(move string, frame *core.Frame) (string, error) {
	if move == "pass" {
		return move, nil
	}
	p, err := sgf.GTPToPoint(move, frame.Height())
	if err != nil {
		return "", errors.WithMessage(err, "best move")
	}
	height := frame.Height()
	if frame.Rotation.Transpose {
		height = frame.Width()
	}
	return sgf.PointToGTP(frame.Rotation.RestorePoint(p, frame.Width(), frame.Height()), height)
}
