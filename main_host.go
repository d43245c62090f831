//go:build !tinygo

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/binkynet/BinkyHardware/BinkyLevelStrip/sim"
)

var (
	clockHz  uint32
	duration time.Duration
	parallel = 4
	verbose  = false
)

func init() {
	pflag.Uint32Var(&clockHz, "clock", clockHz, "override the scenario clock frequency in Hz")
	pflag.DurationVar(&duration, "duration", duration, "override the scenario run time (virtual)")
	pflag.IntVarP(&parallel, "parallel", "j", parallel, "number of scenarios run at once")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose logging")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] scenario.yaml...\n", os.Args[0])
		pflag.PrintDefaults()
	}
}

func main() {
	log.SetFlags(0)
	pflag.Parse()
	if pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	logHandler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})

	logger := slog.New(logHandler)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, logger, pflag.Args()); err != nil {
		log.Fatal(err)
	}
}

// run executes all scenario files and fails if any of them fails.
func run(ctx context.Context, logger *slog.Logger, files []string) error {
	scenarios := make([]*sim.Scenario, 0, len(files))
	for _, file := range files {
		sc, err := sim.Load(file)
		if err != nil {
			return fmt.Errorf("failed to load scenario: %w", err)
		}
		if clockHz != 0 {
			sc.ClockHz = clockHz
		}
		if duration > 0 {
			sc.DurationMs = uint32(duration / time.Millisecond)
		}
		scenarios = append(scenarios, sc)
	}

	failures := make([]error, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))
	for i, sc := range scenarios {
		i, sc := i, sc // per-iteration copies (go 1.21 loop semantics)
		g.Go(func() error {
			report, err := sim.Run(ctx, sc, logger)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, err)
			}
			if err := report.Check(); err != nil {
				logger.Error("scenario failed", slog.String("scenario", sc.Name), slog.Any("err", err), slog.Any("report", report))
				failures[i] = err
				return nil
			}
			logger.Info("scenario passed", slog.String("scenario", sc.Name), slog.Any("report", report))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(failures...)
}
