package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/google/uuid"

	"desire-paths/internal/core"
	"desire-paths/internal/plot"
	"desire-paths/internal/sims/park"
	"desire-paths/internal/storage"
	"desire-paths/internal/sweep"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		slog.Error("sweep failed", "err", err)
		os.Exit(1)
	}
}

type options struct {
	runs      int
	steps     int
	workers   int
	seed      int64
	width     int
	height    int
	dataDir   string
	parks     string
	metrics   string
	minAcc    float64
	top       int
	storeKind string
	dsn       string
	outDir    string
	logLevel  string
	overrides core.KVList
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("desire-sweep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&o.runs, "runs", 100, "configurations sampled from the grid")
	fs.IntVar(&o.steps, "steps", 1000, "ticks to simulate per run")
	fs.IntVar(&o.workers, "workers", runtime.NumCPU(), "number of worker goroutines")
	fs.Int64Var(&o.seed, "seed", 1, "seed for sampling the grid")
	fs.IntVar(&o.width, "w", 0, "grid width (0 keeps the default)")
	fs.IntVar(&o.height, "h", 0, "grid height (0 keeps the default)")
	fs.StringVar(&o.dataDir, "data", "data", "directory holding park images and reference masks")
	fs.StringVar(&o.parks, "parks", "", "comma separated parks to sample (default blackheath)")
	fs.StringVar(&o.metrics, "metrics", "", "comma separated metrics to sample (default all)")
	fs.Float64Var(&o.minAcc, "min", 0.1, "minimum accuracy kept in the report")
	fs.IntVar(&o.top, "top", 5, "number of best runs to print")
	fs.StringVar(&o.storeKind, "store", "memory", "run store backend (memory, sqlite, postgres)")
	fs.StringVar(&o.dsn, "dsn", "", "sqlite path or postgres connection string")
	fs.StringVar(&o.outDir, "out", "", "directory for plots (empty skips plotting)")
	fs.StringVar(&o.logLevel, "log", "info", "log level")
	fs.Var(&o.overrides, "set", "base parameter override in key=value form (repeatable)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	logger := core.NewLogger(stderr, o.logLevel)
	slog.SetDefault(logger)

	cfgMap := o.overrides.Map()
	if o.width > 0 {
		cfgMap["w"] = strconv.Itoa(o.width)
	}
	if o.height > 0 {
		cfgMap["h"] = strconv.Itoa(o.height)
	}
	base := park.FromMap(cfgMap)

	space := sweep.DefaultSpace()
	if parks := core.SplitList(o.parks); parks != nil {
		space.Parks = parks
	}
	if metrics := core.SplitList(o.metrics); metrics != nil {
		space.Metrics = metrics
	}
	jobs := space.Sample(base, o.runs, core.NewRNG(o.seed))
	fmt.Fprintf(stdout, "Sweeping %d of %d configurations (%d workers, %d steps)\n", len(jobs), space.Size(), o.workers, o.steps)

	results, err := sweep.Run(ctx, jobs, sweep.Options{
		Steps:   o.steps,
		Workers: o.workers,
		DataDir: o.dataDir,
		Logger:  logger,
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Warn("sweep interrupted, reporting partial results", "runs", len(results))
	}

	sweepID := uuid.New().String()
	if err := persist(context.WithoutCancel(ctx), o, sweepID, results, logger); err != nil {
		return err
	}

	kept := sweep.Slice(results, o.minAcc)
	sweep.SortByAccuracy(kept)
	report(stdout, sweepID, results, kept, o)

	if o.outDir != "" {
		if err := writePlots(o.outDir, results, kept); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Plots written to %s\n", o.outDir)
	}
	return nil
}

func persist(ctx context.Context, o options, sweepID string, results []sweep.Result, logger *slog.Logger) error {
	store, err := storage.NewStore(o.storeKind, o.dsn)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("init %s store: %w", o.storeKind, err)
	}
	saved := 0
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if err := store.SaveRun(ctx, storage.NewRunRecord(sweepID, r)); err != nil {
			return fmt.Errorf("save run %s: %w", r.RunID, err)
		}
		saved++
	}
	logger.Info("runs stored", "sweep", sweepID, "store", o.storeKind, "saved", saved)
	return nil
}

func report(w io.Writer, sweepID string, all, kept []sweep.Result, o options) {
	failed, scored := 0, 0
	for _, r := range all {
		switch {
		case r.Err != nil:
			failed++
		case r.Scored:
			scored++
		}
	}
	fmt.Fprintf(w, "\nSweep %s: %d runs, %d scored, %d failed, %d at accuracy >= %.2f\n",
		sweepID, len(all), scored, failed, len(kept), o.minAcc)
	for i := 0; i < len(kept) && i < o.top; i++ {
		r := kept[i]
		p := r.Config.Params
		fmt.Fprintf(w, "%2d) acc=%.3f park=%s metric=%s seed=%d radius=%.0f angle=%.0f tile=%.3f dist=%.2f run=%s\n",
			i+1, r.Score(), r.Config.Park, r.Config.Metric, r.Config.Seed,
			p.VisionRadius, p.VisionAngle, p.TileWeight, p.DistanceWeight, r.RunID)
	}
}

func writePlots(dir string, all, kept []sweep.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var scores []float64
	for _, r := range all {
		if r.Err == nil && r.Scored {
			scores = append(scores, r.Score())
		}
	}
	if len(scores) > 0 {
		if err := plot.AccuracyHistogram(filepath.Join(dir, "accuracy.png"), scores, 20); err != nil {
			return err
		}
	}

	best, ok := bestRun(all, kept)
	if !ok {
		return nil
	}
	if err := plot.Heatmap(filepath.Join(dir, "best_heatmap.png"), best.Snapshot); err != nil {
		return err
	}
	if err := plot.Wear(filepath.Join(dir, "best_wear.png"), best.Snapshot); err != nil {
		return err
	}
	if best.Scored {
		return plot.MaskOverlay(filepath.Join(dir, "best_overlay.png"), best.Accuracy, 4)
	}
	return nil
}

// bestRun prefers the top kept run, falling back to the first successful one.
func bestRun(all, kept []sweep.Result) (sweep.Result, bool) {
	if len(kept) > 0 {
		return kept[0], true
	}
	for _, r := range all {
		if r.Err == nil {
			return r, true
		}
	}
	return sweep.Result{}, false
}
