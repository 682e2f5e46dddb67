package simulation

import (
	"errors"
	"fmt"

	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/geometry"
)

const PlayerID = "player"

// ErrPlayerAlive is returned by RespawnPlayer while the player is still in the world.
var ErrPlayerAlive = errors.New("player is still alive")

// Random is the only source of randomness the world consumes.
type Random = behavior.Random

// World owns every snake and pellet. It is not safe for concurrent use: one
// goroutine (in practice the WorldActor) drives it.
type World struct {
	cfg *Config

	Snakes []*Snake // live snakes, player first while it lives
	Food   []Food

	playerID    string
	playerLives int
	heading     float64
	hasHeading  bool
	focus       geometry.Vector2D

	tick     uint64
	elapsed  float64
	nextBot  int
	respawns []float64 // seconds left before each pending bot respawn

	wander   behavior.Wander
	foodGrid *spatialGrid
	bodyGrid *spatialGrid
	eaten    []bool
}

// NewEmptyWorld returns a world without any snake or food.
func NewEmptyWorld(cfg *Config) (*World, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cannot create world: %w", err)
	}
	cellSize := cfg.CellRadius * 8
	return &World{
		cfg:      cfg,
		wander:   behavior.Wander{Jitter: cfg.SteeringJitter},
		foodGrid: newSpatialGrid(cellSize),
		bodyGrid: newSpatialGrid(cellSize),
	}, nil
}

// NewWorld builds the starting population: the player at the origin, the
// bots scattered around it and the food spread over the whole map.
func NewWorld(cfg *Config, rng Random) (*World, error) {
	w, err := NewEmptyWorld(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := w.spawnPlayer(); err != nil {
		return nil, err
	}
	for i := 0; i < w.cfg.InitialBotCount; i++ {
		if _, err := w.spawnBot(rng); err != nil {
			return nil, err
		}
	}
	w.scatterFood(rng, w.cfg.InitialFoodCount)
	return w, nil
}

// Config returns the configuration the world was built with.
func (w *World) Config() *Config {
	return w.cfg
}

// Tick is the number of completed steps.
func (w *World) Tick() uint64 {
	return w.tick
}

// Elapsed is the simulated time in seconds.
func (w *World) Elapsed() float64 {
	return w.elapsed
}

// AddSnake appends s to the world. With player set, s becomes the snake
// steered by SetPlayerHeading and followed by the camera.
func (w *World) AddSnake(s *Snake, player bool) error {
	if s == nil || len(s.Segments) == 0 {
		return ErrNoSegments
	}
	if w.snakeIndex(s.ID) >= 0 {
		return fmt.Errorf("snake %q already in world", s.ID)
	}
	s.Alive = true
	if player {
		w.playerID = s.ID
		w.focus = s.Head().Position
		w.Snakes = append([]*Snake{s}, w.Snakes...)
		return nil
	}
	w.Snakes = append(w.Snakes, s)
	return nil
}

// AddFood drops one pellet at each position.
func (w *World) AddFood(positions ...geometry.Vector2D) {
	for _, p := range positions {
		w.Food = append(w.Food, Food{Position: p})
	}
}

// Snake looks a live snake up by ID.
func (w *World) Snake(id string) *Snake {
	if i := w.snakeIndex(id); i >= 0 {
		return w.Snakes[i]
	}
	return nil
}

// Player returns the player snake, or nil once it has died.
func (w *World) Player() *Snake {
	if w.playerID == "" {
		return nil
	}
	return w.Snake(w.playerID)
}

// SetPlayerHeading records the heading the player wants. It is applied at
// the start of every following Step until replaced.
func (w *World) SetPlayerHeading(theta float64) {
	w.heading = theta
	w.hasHeading = true
}

// Focus is the camera focus: the player head, or its last position.
func (w *World) Focus() geometry.Vector2D {
	return w.focus
}

// RespawnPlayer puts a fresh player snake back at the origin.
func (w *World) RespawnPlayer() (*Snake, error) {
	if w.Player() != nil {
		return nil, ErrPlayerAlive
	}
	w.hasHeading = false
	return w.spawnPlayer()
}

func (w *World) spawnPlayer() (*Snake, error) {
	id := PlayerID
	if w.playerLives > 0 {
		id = fmt.Sprintf("%s-%d", PlayerID, w.playerLives+1)
	}
	s, err := NewSnake(id, geometry.Zero, w.cfg.PlayerFacing, w.cfg.InitialSegments, w.cfg.BaseSpeed, w.cfg.TurnRate)
	if err != nil {
		return nil, err
	}
	if err := w.AddSnake(s, true); err != nil {
		return nil, err
	}
	w.playerLives++
	return s, nil
}

func (w *World) spawnBot(rng Random) (*Snake, error) {
	spread := w.cfg.WorldHalfExtent * w.cfg.SpawnSpread
	pos := geometry.NewVector(
		rng.Float64()*2*spread-spread,
		rng.Float64()*2*spread-spread,
	)
	facing := rng.Float64() * geometry.TwoPi
	w.nextBot++
	s, err := NewSnake(fmt.Sprintf("bot-%03d", w.nextBot), pos, facing, w.cfg.InitialSegments, w.cfg.BaseSpeed, w.cfg.TurnRate)
	if err != nil {
		return nil, err
	}
	return s, w.AddSnake(s, false)
}

func (w *World) scatterFood(rng Random, n int) {
	half := w.cfg.WorldHalfExtent
	for i := 0; i < n; i++ {
		w.AddFood(geometry.NewVector(rng.Float64()*2*half-half, rng.Float64()*2*half-half))
	}
}

func (w *World) snakeIndex(id string) int {
	for i, s := range w.Snakes {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (w *World) isPlayer(s *Snake) bool {
	return w.playerID != "" && s.ID == w.playerID
}
