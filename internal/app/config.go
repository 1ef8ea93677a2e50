package app

import (
	"flag"
	"strconv"

	"desire-paths/internal/scenario"
)

// Config represents the command-line parameters for the viewer.
type Config struct {
	Sim      string
	Park     string
	Metric   string
	DataDir  string
	Width    int
	Height   int
	Scale    int
	TPS      int
	Seed     int64
	HUDWidth int
	LogLevel string
}

// NewConfig returns a Config populated with the viewer defaults.
func NewConfig() *Config {
	return &Config{
		Sim:      "park",
		Park:     "testpark",
		Metric:   "affordance",
		Scale:    6,
		TPS:      30,
		Seed:     42,
		HUDWidth: 260,
		LogLevel: "info",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.StringVar(&c.Park, "park", c.Park, "park layout")
	fs.StringVar(&c.Metric, "metric", c.Metric, "step metric (closest, affordance, balanced, mixed)")
	fs.StringVar(&c.DataDir, "data", c.DataDir, "directory holding park images")
	fs.IntVar(&c.Width, "w", c.Width, "grid width (0 uses the park default)")
	fs.IntVar(&c.Height, "h", c.Height, "grid height (0 uses the park default)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width in pixels (0 hides it)")
	fs.StringVar(&c.LogLevel, "log", c.LogLevel, "log level")
}

// FactoryConfig builds the configuration map handed to the sim factory.
// extra entries override the flags.
func (c *Config) FactoryConfig(extra map[string]string) map[string]string {
	cfg := map[string]string{
		"park":              c.Park,
		"metric":            c.Metric,
		"seed":              strconv.FormatInt(c.Seed, 10),
		scenario.DataDirKey: c.DataDir,
	}
	if c.Width > 0 {
		cfg["w"] = strconv.Itoa(c.Width)
	}
	if c.Height > 0 {
		cfg["h"] = strconv.Itoa(c.Height)
	}
	for k, v := range extra {
		cfg[k] = v
	}
	return cfg
}
