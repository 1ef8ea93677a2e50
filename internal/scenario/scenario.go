package scenario

import (
	"fmt"
	"sort"
	"sync"

	"desire-paths/internal/sims/park"
)

// Options describe the grid a park should be laid out on.
type Options struct {
	Width  int
	Height int
	// DataDir holds park images and reference path masks.
	DataDir string
}

// Loader builds a park layout for the requested grid.
type Loader func(opts Options) (park.Layout, error)

var (
	mu      sync.RWMutex
	loaders = map[string]Loader{}
)

// Register adds a park loader under name, replacing any earlier one.
func Register(name string, l Loader) {
	if name == "" || l == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	loaders[name] = l
}

// Lookup returns the loader registered under name.
func Lookup(name string) (Loader, error) {
	mu.RLock()
	defer mu.RUnlock()
	l, ok := loaders[name]
	if !ok {
		return nil, fmt.Errorf("unknown park %q: %w", name, park.ErrConfiguration)
	}
	return l, nil
}

// Names lists the registered parks in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(loaders))
	for name := range loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load resolves name and builds its layout. The layout is named after the
// park regardless of what the loader sets.
func Load(name string, opts Options) (park.Layout, error) {
	l, err := Lookup(name)
	if err != nil {
		return park.Layout{}, err
	}
	layout, err := l(opts)
	if err != nil {
		return park.Layout{}, fmt.Errorf("load park %q: %w", name, err)
	}
	layout.Name = name
	return layout, nil
}

// NewWorld loads the park named in cfg and builds a world on it.
func NewWorld(cfg park.Config, dataDir string) (*park.World, error) {
	layout, err := Load(cfg.Park, Options{Width: cfg.Width, Height: cfg.Height, DataDir: dataDir})
	if err != nil {
		return nil, err
	}
	return park.NewWorld(cfg, layout)
}

func init() {
	Register("testpark", TestPark)
	Register("plaza", Plaza)
	for _, name := range imageParks {
		Register(name, imageLoader(name))
	}
}
