//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"desire-paths/internal/app"
	"desire-paths/internal/core"
	_ "desire-paths/internal/scenario"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := core.NewLogger(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)

	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		logger.Error("unknown sim", "sim", cfg.Sim)
		os.Exit(2)
	}

	sim, err := factory(cfg.FactoryConfig(nil))
	if err != nil {
		logger.Error("create sim", "sim", cfg.Sim, "err", err)
		os.Exit(1)
	}
	sim.Reset(cfg.Seed)

	game := app.New(sim, cfg.Scale, cfg.HUDWidth, cfg.Seed)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("desire paths - " + cfg.Park)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("viewer stopped", "err", err)
		os.Exit(1)
	}
}
