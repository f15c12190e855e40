package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"tsumego_lab/internal/bootstrap"
	"tsumego_lab/internal/repository"
	"tsumego_lab/internal/usecase/tsumego"
)

const usage = `usage:
  tsumego frame  -in problem.sgf [-out framed.sgf] [-ko] [-distance n]
  tsumego show   -in problem.sgf [-ko] [-distance n]
  tsumego verify -in problem.sgf [-distance n]`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	log := logger.Sugar()
	defer func() { _ = log.Sync() }()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		log.Fatalw("Failed to setup configuration", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1], os.Args[2:], cfg, log); err != nil {
		log.Errorw("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, args []string, cfg *bootstrap.Config, log *zap.SugaredLogger) error {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	in := fs.String("in", "", "problem SGF")
	out := fs.String("out", "", "where to write the framed SGF (stdout when empty)")
	ko := fs.Bool("ko", cfg.KoAllowed, "allow the defender to win by ko")
	distance := fs.Int("distance", cfg.WallDistance, "distance between the group and the wall")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("-in is required\n%s", usage)
	}
	cfg.WallDistance = *distance
	if err := cfg.Validate(); err != nil {
		return err
	}

	text, err := os.ReadFile(*in)
	if err != nil {
		return err
	}

	switch command {
	case "frame":
		res, err := tsumego.NewTsumegoUseCase(nil, cfg, log).BuildFrame(ctx, string(text), *ko)
		if err != nil {
			return err
		}
		if *out == "" {
			_, err = fmt.Fprintln(os.Stdout, res.SGF)
			return err
		}
		if err := os.WriteFile(*out, []byte(res.SGF), 0o644); err != nil {
			return err
		}
		log.Infow("frame written", "out", *out, "frame_color", res.FrameColor, "to_kill", res.ToKill)
		return nil

	case "show":
		res, err := tsumego.NewTsumegoUseCase(nil, cfg, log).BuildFrame(ctx, string(text), *ko)
		if err != nil {
			return err
		}
		return renderFrame(os.Stdout, res)

	case "verify":
		analyzer, err := repository.NewGrpcAnalyzer(cfg, log)
		if err != nil {
			return err
		}
		defer analyzer.Close()

		verdicts, err := tsumego.NewTsumegoUseCase(analyzer, cfg, log).Verify(ctx, string(text))
		if err != nil {
			return err
		}
		renderVerdicts(os.Stdout, verdicts)
		return nil

	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}
