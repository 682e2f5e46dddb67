package simulation

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

//go:embed config.schema.json
var configSchema string

const configSchemaURL = "config.schema.json"

type Config struct {
	// World Dimensions
	WorldHalfExtent float64 `json:"worldHalfExtent"` // spawn area is [-h, h] on both axes
	CellRadius      float64 `json:"cellRadius"`      // collision/eat radius AND chain pursuit gain
	FoodRadius      float64 `json:"foodRadius"`      // rendering only

	// Population
	InitialFoodCount int     `json:"initialFoodCount"`
	InitialBotCount  int     `json:"initialBotCount"`
	InitialSegments  int     `json:"initialSegments"`
	SpawnSpread      float64 `json:"spawnSpread"` // bots spawn within WorldHalfExtent*SpawnSpread

	// Physics / Behavior
	BaseSpeed            float64 `json:"baseSpeed"` // units per second
	TurnRate             float64 `json:"turnRate"`  // radians per second, player only
	GrowthSpeedIncrement float64 `json:"growthSpeedIncrement"`
	SteeringJitter       float64 `json:"steeringJitter"` // radians per tick for bots
	PlayerFacing         float64 `json:"playerFacing"`
	LimitPlayerTurn      bool    `json:"limitPlayerTurn"`

	// Lifecycle
	RespawnBots       bool    `json:"respawnBots"`
	BotRespawnDelay   float64 `json:"botRespawnDelay"` // seconds
	TargetFoodCount   int     `json:"targetFoodCount"` // 0 disables food upkeep
	FoodSpawnPerTick  int     `json:"foodSpawnPerTick"`
	KillOutsideBounds bool    `json:"killOutsideBounds"`

	// Driver
	MaxStepSeconds float64 `json:"maxStepSeconds"` // 0 disables sub-stepping
}

// DefaultConfig mirrors the canvas prototype: a 10000x10000 map, 20 bots,
// 5000 pellets and no respawn of any kind.
func DefaultConfig() *Config {
	return &Config{
		WorldHalfExtent:      5000,
		CellRadius:           16,
		FoodRadius:           3,
		InitialFoodCount:     5000,
		InitialBotCount:      20,
		InitialSegments:      6,
		SpawnSpread:          1.0 / 3.0,
		BaseSpeed:            16 * 8,
		TurnRate:             2 * math.Pi,
		GrowthSpeedIncrement: 0.5,
		SteeringJitter:       0.25,
		PlayerFacing:         math.Pi,
		BotRespawnDelay:      5,
		FoodSpawnPerTick:     100,
		MaxStepSeconds:       0.05,
	}
}

// Validate checks the cross-field rules the schema cannot express and
// guards configs built in code rather than loaded from disk.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

	check(finite(c.WorldHalfExtent) && c.WorldHalfExtent > 0, "worldHalfExtent must be > 0, got %v", c.WorldHalfExtent)
	check(finite(c.CellRadius) && c.CellRadius > 0, "cellRadius must be > 0, got %v", c.CellRadius)
	check(finite(c.FoodRadius) && c.FoodRadius >= 0, "foodRadius must be >= 0, got %v", c.FoodRadius)
	check(c.InitialFoodCount >= 0, "initialFoodCount must be >= 0, got %d", c.InitialFoodCount)
	check(c.InitialBotCount >= 0, "initialBotCount must be >= 0, got %d", c.InitialBotCount)
	check(c.InitialSegments >= 1, "initialSegments must be >= 1, got %d", c.InitialSegments)
	check(finite(c.SpawnSpread) && c.SpawnSpread > 0 && c.SpawnSpread <= 1, "spawnSpread must be in (0, 1], got %v", c.SpawnSpread)
	check(finite(c.BaseSpeed) && c.BaseSpeed >= 0, "baseSpeed must be >= 0, got %v", c.BaseSpeed)
	check(finite(c.TurnRate) && c.TurnRate >= 0, "turnRate must be >= 0, got %v", c.TurnRate)
	check(finite(c.GrowthSpeedIncrement) && c.GrowthSpeedIncrement >= 0, "growthSpeedIncrement must be >= 0, got %v", c.GrowthSpeedIncrement)
	check(finite(c.SteeringJitter) && c.SteeringJitter >= 0, "steeringJitter must be >= 0, got %v", c.SteeringJitter)
	check(finite(c.PlayerFacing), "playerFacing must be finite, got %v", c.PlayerFacing)
	check(finite(c.BotRespawnDelay) && c.BotRespawnDelay >= 0, "botRespawnDelay must be >= 0, got %v", c.BotRespawnDelay)
	check(c.TargetFoodCount >= 0, "targetFoodCount must be >= 0, got %d", c.TargetFoodCount)
	check(c.FoodSpawnPerTick >= 0, "foodSpawnPerTick must be >= 0, got %d", c.FoodSpawnPerTick)
	check(c.TargetFoodCount == 0 || c.FoodSpawnPerTick > 0, "foodSpawnPerTick must be > 0 when targetFoodCount is set")
	check(finite(c.MaxStepSeconds) && c.MaxStepSeconds >= 0, "maxStepSeconds must be >= 0, got %v", c.MaxStepSeconds)

	return errors.Join(errs...)
}

// LoadConfig loads configuration from a JSON file and validates it against the schema file.
// Keys missing from the file keep their DefaultConfig value.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	sch, err := jsonschema.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return loadConfig(configFile, sch)
}

// LoadConfigFile is LoadConfig with the schema shipped inside the binary.
func LoadConfigFile(configFile string) (*Config, error) {
	sch, err := jsonschema.CompileString(configSchemaURL, configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile embedded schema: %w", err)
	}
	return loadConfig(configFile, sch)
}

func loadConfig(configFile string, sch *jsonschema.Schema) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
