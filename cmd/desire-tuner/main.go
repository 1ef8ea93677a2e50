package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strconv"

	"desire-paths/internal/core"
	"desire-paths/internal/plot"
	"desire-paths/internal/sims/park"
	"desire-paths/internal/sweep"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("tuning failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("desire-tuner", flag.ContinueOnError)
	fs.SetOutput(stderr)
	steps := fs.Int("steps", 1000, "number of ticks to simulate per candidate")
	passes := fs.Int("passes", 3, "coordinate-descent passes to execute")
	samples := fs.Int("random", 4, "random restarts tried before the descent")
	workers := fs.Int("workers", runtime.NumCPU(), "parallel candidate evaluations")
	parkName := fs.String("park", "blackheath", "park to tune against")
	width := fs.Int("width", 100, "map width for tuning runs")
	height := fs.Int("height", 100, "map height for tuning runs")
	seed := fs.Int64("seed", 42, "seed used for deterministic simulations")
	dataDir := fs.String("data", "data", "directory holding park images and reference masks")
	trace := fs.String("trace", "", "write the improvement trace plot to this PNG")
	manualOnly := fs.Bool("manual", false, "skip tuning and only evaluate provided overrides")
	logLevel := fs.String("log", "info", "log level")
	var overrides core.KVList
	fs.Var(&overrides, "set", "parameter override in key=value form (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := core.NewLogger(stderr, *logLevel)
	slog.SetDefault(logger)

	cfgMap := overrides.Map()
	cfgMap["park"] = *parkName
	cfgMap["w"] = strconv.Itoa(*width)
	cfgMap["h"] = strconv.Itoa(*height)
	cfgMap["seed"] = strconv.FormatInt(*seed, 10)
	cfg := park.FromMap(cfgMap)
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts := sweep.Options{Steps: *steps, Workers: *workers, DataDir: *dataDir, Logger: logger}

	if *manualOnly {
		res := sweep.Evaluate(ctx, cfg, opts)
		if res.Err != nil {
			return res.Err
		}
		fmt.Fprintf(stdout, "Manual evaluation: %s\n", describe(res))
		printParams(stdout, cfg.Params)
		return nil
	}

	params, best, records, err := sweep.Tune(ctx, cfg, sweep.TuneOptions{
		Options:       opts,
		Passes:        *passes,
		RandomSamples: *samples,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Baseline: %s\n", describe(records[0].Result))
	fmt.Fprintf(stdout, "\nBest found: %s\n", describe(best))
	printParams(stdout, params)

	if len(records) > 1 {
		fmt.Fprintln(stdout, "\nImprovements:")
		for _, rec := range records[1:] {
			value := rec.Value
			if value == "" {
				value = "-"
			}
			fmt.Fprintf(stdout, "  pass %d: %s=%s -> %s\n", rec.Pass, rec.Parameter, value, describe(rec.Result))
		}
	}

	if *trace != "" {
		scores := make([]float64, len(records))
		for i, rec := range records {
			scores[i] = rec.Result.Score()
		}
		if err := plot.TuneTrace(*trace, scores); err != nil {
			return err
		}
	}
	return nil
}

func describe(r sweep.Result) string {
	if !r.Scored {
		return fmt.Sprintf("unscored after %d steps", r.Steps)
	}
	return fmt.Sprintf("accuracy %.3f (%d/%d reference path cells) after %d steps",
		r.Accuracy.Score, r.Accuracy.TruePositives, r.Accuracy.ReferencePaths, r.Steps)
}

func printParams(w io.Writer, params park.Params) {
	fmt.Fprintln(w, "Parameters:")
	fmt.Fprintf(w, "  vision_angle=%.3f\n", params.VisionAngle)
	fmt.Fprintf(w, "  vision_radius=%.3f\n", params.VisionRadius)
	fmt.Fprintf(w, "  tile_weight=%.3f\n", params.TileWeight)
	fmt.Fprintf(w, "  distance_weight=%.3f\n", params.DistanceWeight)
	fmt.Fprintf(w, "  grass_decay_rate=%.3f\n", params.GrassDecayRate)
	fmt.Fprintf(w, "  grass_growth_probability=%.3f\n", params.GrassGrowthProbability)
	fmt.Fprintf(w, "  obstacle_margin_percentage=%.3f\n", params.ObstacleMarginPercentage)
	fmt.Fprintf(w, "  spawn_every=%d\n", params.SpawnEvery)
	fmt.Fprintf(w, "  spawn_count=%d\n", params.SpawnCount)
	fmt.Fprintf(w, "  max_agents=%d\n", params.MaxAgents)
	fmt.Fprintf(w, "  initial_agents=%d\n", params.InitialAgents)
}
