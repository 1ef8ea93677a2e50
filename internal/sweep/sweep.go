package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"desire-paths/internal/accuracy"
	"desire-paths/internal/core"
	"desire-paths/internal/scenario"
	"desire-paths/internal/sims/park"
)

// ErrNoReference is returned when a run needs an accuracy score but its park
// has no reference path mask.
var ErrNoReference = errors.New("no reference path mask")

// Space lists the candidate values a sweep draws from. Empty lists keep the
// base configuration's value.
type Space struct {
	Metrics        []string
	Parks          []string
	Seeds          []int64
	VisionRadius   []float64
	VisionAngle    []float64
	TileWeight     []float64
	DistanceWeight []float64
}

// DefaultSpace is the grid used for the desire path experiments.
func DefaultSpace() Space {
	return Space{
		Metrics:        []string{"closest", "affordance", "balanced", "mixed"},
		Parks:          []string{"blackheath"},
		Seeds:          []int64{1, 10, 18, 32, 42, 69, 23, 33, 45, 54, 3},
		VisionRadius:   []float64{7, 8, 9, 10, 11, 12, 13, 14, 15},
		VisionAngle:    []float64{80, 90, 100, 110, 120, 130, 140, 150},
		TileWeight:     []float64{1, 0.975, 0.95, 0.925, 0.90, 0.875, 0.85},
		DistanceWeight: []float64{0.05, 0.1, 0.15, 0.2, 0.25, 0.3, 0.4, 0.5, 0.6},
	}
}

// Size is the number of distinct combinations in the space.
func (s Space) Size() int {
	n := 1
	for _, l := range []int{len(s.Metrics), len(s.Parks), len(s.Seeds), len(s.VisionRadius), len(s.VisionAngle), len(s.TileWeight), len(s.DistanceWeight)} {
		if l > 0 {
			n *= l
		}
	}
	return n
}

// Job is one configuration to simulate.
type Job struct {
	Index  int
	Config park.Config
}

// Sample draws n configurations from the space, picking each dimension
// independently and uniformly.
func (s Space) Sample(base park.Config, n int, rng *core.RNG) []Job {
	jobs := make([]Job, 0, max(n, 0))
	for i := 0; i < n; i++ {
		cfg := base
		cfg.Metric = pick(rng, s.Metrics, base.Metric)
		cfg.Park = pick(rng, s.Parks, base.Park)
		cfg.Seed = pick(rng, s.Seeds, base.Seed)
		cfg.Params.VisionRadius = pick(rng, s.VisionRadius, base.Params.VisionRadius)
		cfg.Params.VisionAngle = pick(rng, s.VisionAngle, base.Params.VisionAngle)
		cfg.Params.TileWeight = pick(rng, s.TileWeight, base.Params.TileWeight)
		cfg.Params.DistanceWeight = pick(rng, s.DistanceWeight, base.Params.DistanceWeight)
		jobs = append(jobs, Job{Index: i, Config: cfg})
	}
	return jobs
}

func pick[T any](rng *core.RNG, values []T, fallback T) T {
	if len(values) == 0 {
		return fallback
	}
	return values[rng.IntN(len(values))]
}

// ReferenceFunc returns the observed path mask for a park laid out on a
// w x h grid.
type ReferenceFunc func(parkName string, w, h int) ([]bool, error)

// Options control how runs are executed.
type Options struct {
	// Steps is the number of ticks each run simulates.
	Steps int
	// Workers bounds the number of concurrent runs.
	Workers int
	// DataDir holds park images and reference masks.
	DataDir string
	// Reference overrides the reference mask lookup in DataDir.
	Reference ReferenceFunc
	Logger    *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Steps <= 0 {
		o.Steps = 1000
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Reference == nil {
		dir := o.DataDir
		o.Reference = func(name string, w, h int) ([]bool, error) {
			return scenario.LoadReferenceMask(dir, name, w, h)
		}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Result is the outcome of one simulated run.
type Result struct {
	RunID  string
	Index  int
	Config park.Config
	Steps  int
	// Scored is false when the park has no reference mask.
	Scored   bool
	Accuracy accuracy.Result
	Snapshot park.Snapshot
	Elapsed  time.Duration
	Err      error
}

// Score is the accuracy score, or zero for unscored runs.
func (r Result) Score() float64 {
	if !r.Scored {
		return 0
	}
	return r.Accuracy.Score
}

// Run simulates every job on a pool of workers, each run on its own World.
// Results come back in job order. Cancelling ctx stops handing out new jobs
// and aborts runs in flight; the results gathered so far are returned with
// the context error.
func Run(ctx context.Context, jobs []Job, opts Options) ([]Result, error) {
	opts = opts.withDefaults()
	refs := newReferenceCache(opts.Reference)

	jobCh := make(chan Job)
	resultCh := make(chan Result)
	var wg sync.WaitGroup

	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				resultCh <- runJob(ctx, job, opts, refs)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	go func() {
		defer close(jobCh)
		for _, job := range jobs {
			select {
			case jobCh <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	start := time.Now()
	all := make([]Result, 0, len(jobs))
	for res := range resultCh {
		all = append(all, res)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Index < all[j].Index })
	opts.Logger.Info("sweep finished", "runs", len(all), "workers", opts.Workers, "took", time.Since(start).Round(time.Millisecond))
	return all, ctx.Err()
}

// Evaluate runs a single configuration synchronously.
func Evaluate(ctx context.Context, cfg park.Config, opts Options) Result {
	opts = opts.withDefaults()
	return runJob(ctx, Job{Config: cfg}, opts, newReferenceCache(opts.Reference))
}

func runJob(ctx context.Context, job Job, opts Options, refs *referenceCache) (res Result) {
	res = Result{RunID: uuid.New().String(), Index: job.Index, Config: job.Config}
	start := time.Now()
	defer func() { res.Elapsed = time.Since(start) }()

	w, err := scenario.NewWorld(job.Config, opts.DataDir)
	if err != nil {
		res.Err = err
		opts.Logger.Warn("run failed", "run", res.RunID, "park", job.Config.Park, "err", err)
		return res
	}
	w.SetLogger(opts.Logger)

	for res.Steps < opts.Steps {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res
		}
		w.Step()
		res.Steps++
	}
	res.Snapshot = w.Snapshot()

	size := w.Size()
	ref, err := refs.get(job.Config.Park, size.W, size.H)
	switch {
	case err == nil:
		acc, err := w.Accuracy(ref)
		if err != nil {
			res.Err = err
			return res
		}
		res.Accuracy = acc
		res.Scored = true
	case errors.Is(err, scenario.ErrNoImage):
	default:
		res.Err = fmt.Errorf("reference for %q: %w", job.Config.Park, err)
		return res
	}

	opts.Logger.Info("run finished",
		"run", res.RunID,
		"park", job.Config.Park,
		"metric", job.Config.Metric,
		"seed", job.Config.Seed,
		"accuracy", res.Score(),
		"took", time.Since(start).Round(time.Millisecond),
	)
	return res
}

type referenceKey struct {
	park string
	w, h int
}

type referenceEntry struct {
	mask []bool
	err  error
}

// referenceCache loads each reference mask once per sweep.
type referenceCache struct {
	load    ReferenceFunc
	mu      sync.Mutex
	entries map[referenceKey]referenceEntry
}

func newReferenceCache(load ReferenceFunc) *referenceCache {
	return &referenceCache{load: load, entries: map[referenceKey]referenceEntry{}}
}

func (c *referenceCache) get(name string, w, h int) ([]bool, error) {
	key := referenceKey{park: name, w: w, h: h}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.mask, e.err
	}
	mask, err := c.load(name, w, h)
	c.entries[key] = referenceEntry{mask: mask, err: err}
	return mask, err
}

// Slice keeps the scored, successful runs whose accuracy is at least
// minAccuracy.
func Slice(results []Result, minAccuracy float64) []Result {
	var out []Result
	for _, r := range results {
		if r.Err == nil && r.Scored && r.Accuracy.Score >= minAccuracy {
			out = append(out, r)
		}
	}
	return out
}

// SortByAccuracy orders results best first; ties keep job order.
func SortByAccuracy(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})
}
