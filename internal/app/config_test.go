package app

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"desire-paths/internal/sims/park"
)

func TestConfigFlagsFeedFactory(t *testing.T) {
	cfg := NewConfig()
	fs := flag.NewFlagSet("desire", flag.ContinueOnError)
	cfg.Bind(fs)
	require.NoError(t, fs.Parse([]string{"-park", "plaza", "-metric", "mixed", "-w", "30", "-seed", "9", "-data", "/tmp/parks"}))

	m := cfg.FactoryConfig(map[string]string{"vision_radius": "12", "metric": "closest"})
	assert.Equal(t, "plaza", m["park"])
	assert.Equal(t, "30", m["w"])
	assert.NotContains(t, m, "h")
	assert.Equal(t, "/tmp/parks", m["data"])

	pc := park.FromMap(m)
	assert.Equal(t, "plaza", pc.Park)
	assert.Equal(t, "closest", pc.Metric)
	assert.Equal(t, int64(9), pc.Seed)
	assert.Equal(t, 30, pc.Width)
	assert.Equal(t, 100, pc.Height)
	assert.Equal(t, 12.0, pc.Params.VisionRadius)
}
