package sweep

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"

	"desire-paths/internal/core"
	"desire-paths/internal/sims/park"
)

// TuneOptions configure the coordinate-descent search.
type TuneOptions struct {
	Options
	// Passes bounds the coordinate-descent rounds.
	Passes int
	// RandomSamples is the number of random restarts tried before descent.
	RandomSamples int
}

// TuneRecord documents a single improvement encountered while exploring
// the parameter space.
type TuneRecord struct {
	Pass      int
	Parameter string
	Value     string
	Result    Result
	Params    park.Params
}

type floatSpec struct {
	name   string
	values []float64
	getter func(park.Params) float64
	setter func(*park.Params, float64)
}

type intSpec struct {
	name   string
	values []int
	getter func(park.Params) int
	setter func(*park.Params, int)
}

var tuneFloatSpecs = []floatSpec{
	{
		name:   "vision_radius",
		values: []float64{7, 9, 11, 13, 15},
		getter: func(p park.Params) float64 { return p.VisionRadius },
		setter: func(p *park.Params, v float64) { p.VisionRadius = v },
	},
	{
		name:   "vision_angle",
		values: []float64{80, 100, 120, 140, 150},
		getter: func(p park.Params) float64 { return p.VisionAngle },
		setter: func(p *park.Params, v float64) { p.VisionAngle = v },
	},
	{
		name:   "tile_weight",
		values: []float64{0.85, 0.9, 0.95, 1},
		getter: func(p park.Params) float64 { return p.TileWeight },
		setter: func(p *park.Params, v float64) { p.TileWeight = v },
	},
	{
		name:   "distance_weight",
		values: []float64{0.05, 0.1, 0.2, 0.3, 0.4, 0.6},
		getter: func(p park.Params) float64 { return p.DistanceWeight },
		setter: func(p *park.Params, v float64) { p.DistanceWeight = v },
	},
	{
		name:   "grass_decay_rate",
		values: []float64{0.1, 0.2, 0.3, 0.4},
		getter: func(p park.Params) float64 { return p.GrassDecayRate },
		setter: func(p *park.Params, v float64) { p.GrassDecayRate = v },
	},
	{
		name:   "grass_growth_probability",
		values: []float64{0.1, 0.2, 0.3, 0.5},
		getter: func(p park.Params) float64 { return p.GrassGrowthProbability },
		setter: func(p *park.Params, v float64) { p.GrassGrowthProbability = v },
	},
}

var tuneIntSpecs = []intSpec{
	{
		name:   "spawn_every",
		values: []int{5, 10, 20},
		getter: func(p park.Params) int { return p.SpawnEvery },
		setter: func(p *park.Params, v int) { p.SpawnEvery = v },
	},
	{
		name:   "max_agents",
		values: []int{10, 15, 25, 40},
		getter: func(p park.Params) int { return p.MaxAgents },
		setter: func(p *park.Params, v int) { p.MaxAgents = v },
	},
}

// Tune performs a coarse coordinate-descent search over the pedestrian and
// grass parameters of base, maximising accuracy against the park's
// reference mask. It returns the best parameter set, its run and an
// improvement trace whose first entry is the baseline.
func Tune(ctx context.Context, base park.Config, opts TuneOptions) (park.Params, Result, []TuneRecord, error) {
	if opts.Passes <= 0 {
		opts.Passes = 1
	}
	if opts.RandomSamples < 0 {
		opts.RandomSamples = 0
	}
	opts.Options = opts.Options.withDefaults()
	refs := newReferenceCache(opts.Reference)

	eval := func(p park.Params) Result {
		return runJob(ctx, Job{Config: applyParams(base, p)}, opts.Options, refs)
	}

	currentParams := base.Params
	currentResult := eval(currentParams)
	if currentResult.Err != nil {
		return currentParams, currentResult, nil, currentResult.Err
	}
	if !currentResult.Scored {
		return currentParams, currentResult, nil, fmt.Errorf("tune park %q: %w", base.Park, ErrNoReference)
	}

	records := []TuneRecord{{
		Pass:      0,
		Parameter: "baseline",
		Result:    currentResult,
		Params:    currentParams,
	}}

	rng := core.NewRNG(base.Seed + 0x5f3759df)
	for i := 0; i < opts.RandomSamples; i++ {
		if err := ctx.Err(); err != nil {
			return currentParams, currentResult, records, err
		}
		candidate := randomizeParams(rng, base.Params)
		res := eval(candidate)
		if res.Err == nil && betterResult(res, currentResult) {
			currentParams = candidate
			currentResult = res
			records = append(records, TuneRecord{
				Pass:      0,
				Parameter: fmt.Sprintf("random#%d", i+1),
				Result:    res,
				Params:    candidate,
			})
		}
	}

	for pass := 1; pass <= opts.Passes; pass++ {
		improved := false

		for _, spec := range tuneIntSpecs {
			bestParams, bestResult, changed, rec := evaluateIntSpec(currentParams, currentResult, spec, eval, opts.Workers, pass)
			if changed {
				currentParams = bestParams
				currentResult = bestResult
				records = append(records, rec...)
				improved = true
			}
		}

		for _, spec := range tuneFloatSpecs {
			bestParams, bestResult, changed, rec := evaluateFloatSpec(currentParams, currentResult, spec, eval, opts.Workers, pass)
			if changed {
				currentParams = bestParams
				currentResult = bestResult
				records = append(records, rec...)
				improved = true
			}
		}

		if err := ctx.Err(); err != nil {
			return currentParams, currentResult, records, err
		}
		if !improved {
			break
		}
	}

	return currentParams, currentResult, records, nil
}

func evaluateIntSpec(params park.Params, baseline Result, spec intSpec, eval func(park.Params) Result, workers, pass int) (park.Params, Result, bool, []TuneRecord) {
	bestParams := params
	bestResult := baseline
	changed := false
	var records []TuneRecord

	candidates := make([]*Result, len(spec.values))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for idx, value := range spec.values {
		if value == spec.getter(params) {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i, v int) {
			defer wg.Done()
			candidateParams := params
			spec.setter(&candidateParams, v)
			res := eval(candidateParams)
			candidates[i] = &res
			<-sem
		}(idx, value)
	}

	wg.Wait()

	for idx, value := range spec.values {
		cand := candidates[idx]
		if cand == nil || cand.Err != nil {
			continue
		}
		if betterResult(*cand, bestResult) {
			candidateParams := params
			spec.setter(&candidateParams, value)
			bestParams = candidateParams
			bestResult = *cand
			changed = true
			records = append(records, TuneRecord{
				Pass:      pass,
				Parameter: spec.name,
				Value:     strconv.Itoa(value),
				Result:    *cand,
				Params:    candidateParams,
			})
		}
	}

	return bestParams, bestResult, changed, records
}

func evaluateFloatSpec(params park.Params, baseline Result, spec floatSpec, eval func(park.Params) Result, workers, pass int) (park.Params, Result, bool, []TuneRecord) {
	bestParams := params
	bestResult := baseline
	changed := false
	var records []TuneRecord

	candidates := make([]*Result, len(spec.values))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for idx, value := range spec.values {
		if almostEqual(value, spec.getter(params)) {
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, v float64) {
			defer wg.Done()
			candidateParams := params
			spec.setter(&candidateParams, v)
			res := eval(candidateParams)
			candidates[i] = &res
			<-sem
		}(idx, value)
	}

	wg.Wait()

	for idx, value := range spec.values {
		cand := candidates[idx]
		if cand == nil || cand.Err != nil {
			continue
		}
		if betterResult(*cand, bestResult) {
			candidateParams := params
			spec.setter(&candidateParams, value)
			bestParams = candidateParams
			bestResult = *cand
			changed = true
			records = append(records, TuneRecord{
				Pass:      pass,
				Parameter: spec.name,
				Value:     strconv.FormatFloat(value, 'f', 3, 64),
				Result:    *cand,
				Params:    candidateParams,
			})
		}
	}

	return bestParams, bestResult, changed, records
}

// betterResult prefers higher recall, then fewer simulated path cells for
// the same recall.
func betterResult(a, b Result) bool {
	if a.Score() > b.Score() {
		return true
	}
	if a.Score() < b.Score() {
		return false
	}
	return simulatedCells(a) < simulatedCells(b)
}

func simulatedCells(r Result) int {
	n := 0
	for _, v := range r.Accuracy.Simulated {
		if v {
			n++
		}
	}
	return n
}

func almostEqual(a, b float64) bool {
	const eps = 1e-6
	return math.Abs(a-b) <= eps
}

func applyParams(base park.Config, params park.Params) park.Config {
	cfg := base
	cfg.Params = params
	return cfg
}

func randomizeParams(rng *core.RNG, base park.Params) park.Params {
	params := base
	params.VisionRadius = randomFloatRange(rng, 7, 15)
	params.VisionAngle = randomFloatRange(rng, 80, 150)
	params.TileWeight = randomFloatRange(rng, 0.85, 1)
	params.DistanceWeight = randomFloatRange(rng, 0.05, 0.6)
	params.GrassDecayRate = randomFloatRange(rng, 0.1, 0.4)
	params.GrassGrowthProbability = randomFloatRange(rng, 0.1, 0.5)
	params.SpawnEvery = randomIntRange(rng, 5, 20)
	params.MaxAgents = randomIntRange(rng, 10, 40)
	return params
}

func randomFloatRange(rng *core.RNG, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}

func randomIntRange(rng *core.RNG, min, max int) int {
	if max <= min {
		return min
	}
	return rng.IntN(max-min+1) + min
}
