package park

import (
	"fmt"
	"strconv"
)

// Params holds the pedestrian and terrain-feedback tunables.
type Params struct {
	VisionAngle    float64
	VisionRadius   float64
	TileWeight     float64
	DistanceWeight float64

	GrassDecayRate           float64
	GrassGrowthProbability   float64
	ObstacleMarginPercentage float64

	SpawnEvery    int
	SpawnCount    int
	MaxAgents     int
	InitialAgents int

	AccuracyThreshold int
	AccuracyDilate    bool
}

// Config controls a park simulation run.
type Config struct {
	Width  int
	Height int

	Seed int64

	Park   string
	Metric string

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  100,
		Height: 100,
		Seed:   42,
		Park:   "testpark",
		Metric: "affordance",
		Params: Params{
			VisionAngle:              110,
			VisionRadius:             10,
			TileWeight:               0.95,
			DistanceWeight:           0.2,
			GrassDecayRate:           0.2,
			GrassGrowthProbability:   0.3,
			ObstacleMarginPercentage: 0.5,
			SpawnEvery:               10,
			SpawnCount:               3,
			MaxAgents:                15,
			InitialAgents:            3,
			AccuracyThreshold:        0,
		},
	}
}

// AgentParams extracts the per-pedestrian configuration.
func (p Params) AgentParams() AgentParams {
	return AgentParams{
		VisionAngle:    p.VisionAngle,
		VisionRadius:   p.VisionRadius,
		TileWeight:     p.TileWeight,
		DistanceWeight: p.DistanceWeight,
	}
}

// Validate rejects configurations the simulation cannot run with.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("grid size %dx%d: %w", c.Width, c.Height, ErrConfiguration)
	}
	if err := c.Params.AgentParams().Validate(); err != nil {
		return err
	}
	p := c.Params
	if p.GrassDecayRate < 0 {
		return fmt.Errorf("grass_decay_rate %v is negative: %w", p.GrassDecayRate, ErrConfiguration)
	}
	if p.GrassGrowthProbability < 0 || p.GrassGrowthProbability > 1 {
		return fmt.Errorf("grass_growth_probability %v outside [0,1]: %w", p.GrassGrowthProbability, ErrConfiguration)
	}
	if p.ObstacleMarginPercentage < 0 || p.ObstacleMarginPercentage > 1 {
		return fmt.Errorf("obstacle_margin_percentage %v outside [0,1]: %w", p.ObstacleMarginPercentage, ErrConfiguration)
	}
	if p.SpawnEvery < 0 || p.SpawnCount < 0 || p.MaxAgents < 0 || p.InitialAgents < 0 {
		return fmt.Errorf("spawn settings must not be negative: %w", ErrConfiguration)
	}
	if _, err := MetricByName(c.Metric); err != nil {
		return err
	}
	return nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["park"]; ok && v != "" {
		c.Park = v
	}
	if v, ok := cfg["metric"]; ok && v != "" {
		c.Metric = v
	}
	for key, dst := range map[string]*float64{
		"vision_angle":               &c.Params.VisionAngle,
		"vision_radius":              &c.Params.VisionRadius,
		"tile_weight":                &c.Params.TileWeight,
		"distance_weight":            &c.Params.DistanceWeight,
		"grass_decay_rate":           &c.Params.GrassDecayRate,
		"grass_growth_probability":   &c.Params.GrassGrowthProbability,
		"obstacle_margin_percentage": &c.Params.ObstacleMarginPercentage,
	} {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = parsed
			}
		}
	}
	for key, dst := range map[string]*int{
		"spawn_every":        &c.Params.SpawnEvery,
		"spawn_count":        &c.Params.SpawnCount,
		"max_agents":         &c.Params.MaxAgents,
		"initial_agents":     &c.Params.InitialAgents,
		"accuracy_threshold": &c.Params.AccuracyThreshold,
	} {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
				*dst = parsed
			}
		}
	}
	if v, ok := cfg["accuracy_dilate"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Params.AccuracyDilate = parsed
		}
	}
	return c
}
