package scenario

import (
	"desire-paths/internal/core"
	"desire-paths/internal/sims/park"
)

// DataDirKey is the factory config key naming the park image directory.
const DataDirKey = "data"

func init() {
	core.Register("park", func(cfg map[string]string) (core.Sim, error) {
		w, err := NewWorld(park.FromMap(cfg), cfg[DataDirKey])
		if err != nil {
			return nil, err
		}
		return w, nil
	})
}
