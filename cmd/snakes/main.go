package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-snake-simulation/internal/arena"
	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

const (
	screenWidth  = 1024
	screenHeight = 768
)

func main() {
	configFile := flag.String("config", "", "JSON config file (defaults are used when empty)")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	headless := flag.Bool("headless", false, "run without a window and print a summary")
	ticks := flag.Int("ticks", 600, "number of ticks in headless mode")
	dt := flag.Float64("dt", 1.0/60, "seconds per tick in headless mode")
	snapshotFile := flag.String("snapshot", "", "headless mode: write the final snapshot as JSON to this file")
	verbose := flag.Bool("verbose", false, "debug logging")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = simulation.LoadConfigFile(*configFile)
		if err != nil {
			log.Fatal(err)
		}
	}

	level := golog.InfoLevel
	if *verbose {
		level = golog.DebugLevel
	}
	logger := golog.New(level, os.Stdout)

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	logger.Infof("seed %d", *seed)

	if *headless {
		if err := runHeadless(cfg, rng, logger, *ticks, *dt, *snapshotFile); err != nil {
			log.Fatal(err)
		}
		return
	}

	ctx := context.Background()
	system, err := actor.NewActorSystem("SnakeWorld", actor.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}
	if err := system.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer system.Stop(ctx)

	game, err := arena.NewGame(ctx, cfg, system, rng, screenWidth, screenHeight)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Snakes")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

// runHeadless steps the world directly with a fixed dt: the same seed and
// config always give the same run.
func runHeadless(cfg *simulation.Config, rng *rand.Rand, logger golog.Logger, ticks int, dt float64, snapshotFile string) error {
	world, err := simulation.NewWorld(cfg, rng)
	if err != nil {
		return err
	}

	var total simulation.StepReport
	start := time.Now()
	for i := 0; i < ticks; i++ {
		r, err := world.Step(dt, rng)
		if err != nil {
			return err
		}
		for _, d := range r.Deaths {
			logger.Debugf("tick %d: %s died (%s %s)", r.Tick, d.SnakeID, d.Cause, d.KilledBy)
		}
		total.FoodEaten += r.FoodEaten
		total.Deaths = append(total.Deaths, r.Deaths...)
		total.FoodLittered += r.FoodLittered
		total.BotsRespawned += r.BotsRespawned
		total.FoodSpawned += r.FoodSpawned
	}

	snap := world.Snapshot()
	logger.Infof("📊 %d ticks of %.4fs in %v | Snakes: %d | Food: %d | Eaten: %d | Deaths: %d | Respawned: %d | Player alive: %v",
		world.Tick(), dt, time.Since(start), len(snap.Snakes), len(snap.Food),
		total.FoodEaten, len(total.Deaths), total.BotsRespawned, snap.PlayerAlive)

	if snapshotFile == "" {
		return nil
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(snapshotFile, b, 0o644)
}
