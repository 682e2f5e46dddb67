package simulation

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/geometry"
)

// ErrInvalidDelta is returned for a negative or non-finite time step.
var ErrInvalidDelta = errors.New("invalid time delta")

type DeathCause string

const (
	CauseCollision DeathCause = "collision"
	CauseBoundary  DeathCause = "boundary"
)

// Death describes a snake removed during a tick.
type Death struct {
	SnakeID  string
	Player   bool
	Cause    DeathCause
	KilledBy string // ID of the snake whose body was hit, empty for boundary deaths
	Segments int    // pellets left behind
}

// StepReport summarises what a Step (or an Advance) changed.
type StepReport struct {
	Tick          uint64
	FoodEaten     int
	Deaths        []Death
	FoodLittered  int
	BotsRespawned int
	FoodSpawned   int
}

// PlayerDied reports whether the player snake is among the deaths.
func (r StepReport) PlayerDied() bool {
	for _, d := range r.Deaths {
		if d.Player {
			return true
		}
	}
	return false
}

func (r *StepReport) merge(o StepReport) {
	r.Tick = o.Tick
	r.FoodEaten += o.FoodEaten
	r.Deaths = append(r.Deaths, o.Deaths...)
	r.FoodLittered += o.FoodLittered
	r.BotsRespawned += o.BotsRespawned
	r.FoodSpawned += o.FoodSpawned
}

func validDelta(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidDelta, dt)
	}
	return nil
}

// Step advances the world by dt seconds.
//
// Order within a tick:
//  1. the pending player heading is applied;
//  2. every snake, in world order, eats, is tested for death against the
//     positions every body had when the tick started, then moves;
//  3. bots wander;
//  4. dead snakes turn into food and leave, bot respawns are scheduled;
//  5. food is topped up and the camera follows the player head.
//
// A rejected dt leaves the world untouched.
func (w *World) Step(dt float64, rng Random) (StepReport, error) {
	if err := validDelta(dt); err != nil {
		return StepReport{}, err
	}
	w.tick++
	w.elapsed += dt
	report := StepReport{Tick: w.tick}

	w.steerPlayer(dt)
	w.indexTickStart()

	for i, s := range w.Snakes {
		report.FoodEaten += w.consume(s)
		if d, dead := w.checkDeath(i, s); dead {
			s.Alive = false
			report.Deaths = append(report.Deaths, d)
		}
		s.Move(dt, w.cfg.CellRadius)
	}
	w.removeEatenFood()

	for _, s := range w.Snakes {
		if s.Alive && !w.isPlayer(s) {
			w.wander.Steer(s, rng)
		}
	}

	report.FoodLittered = w.removeDead()
	report.BotsRespawned = w.respawnBots(dt, rng, report.Deaths)
	report.FoodSpawned = w.topUpFood(rng)

	if p := w.Player(); p != nil {
		w.focus = p.Head().Position
	}
	return report, nil
}

// Advance runs Step over elapsed seconds, split into equal sub-steps no
// longer than MaxStepSeconds so the chain spring stays stable on long frames.
func (w *World) Advance(elapsed float64, rng Random) (StepReport, error) {
	if err := validDelta(elapsed); err != nil {
		return StepReport{}, err
	}
	maxStep := w.cfg.MaxStepSeconds
	if maxStep <= 0 || elapsed <= maxStep {
		return w.Step(elapsed, rng)
	}
	n := int(math.Ceil(elapsed / maxStep))
	dt := elapsed / float64(n)
	var total StepReport
	for i := 0; i < n; i++ {
		r, err := w.Step(dt, rng)
		if err != nil {
			return total, err
		}
		total.merge(r)
	}
	return total, nil
}

func (w *World) steerPlayer(dt float64) {
	p := w.Player()
	if p == nil || !w.hasHeading {
		return
	}
	if w.cfg.LimitPlayerTurn {
		behavior.TurnToward(p, w.heading, p.TurnRate*dt)
		return
	}
	p.SetFacing(w.heading)
}

// indexTickStart snapshots food and body positions into the grids.
func (w *World) indexTickStart() {
	w.foodGrid.reset()
	for i, f := range w.Food {
		w.foodGrid.insert(i, f.Position)
	}
	w.bodyGrid.reset()
	for i, s := range w.Snakes {
		for _, seg := range s.Segments {
			w.bodyGrid.insert(i, seg.Position)
		}
	}
	if cap(w.eaten) < len(w.Food) {
		w.eaten = make([]bool, len(w.Food))
	}
	w.eaten = w.eaten[:len(w.Food)]
	clear(w.eaten)
}

// consume eats every pellet strictly inside CellRadius of the head.
func (w *World) consume(s *Snake) int {
	n := 0
	for _, fi := range w.foodGrid.within(s.Head().Position, w.cfg.CellRadius) {
		if w.eaten[fi] {
			continue
		}
		w.eaten[fi] = true
		s.Grow(w.cfg.GrowthSpeedIncrement)
		n++
	}
	return n
}

// checkDeath tests the head of snake i against every other body, touching
// included. When several bodies are hit the earliest snake in world order is
// named as the killer.
func (w *World) checkDeath(i int, s *Snake) (Death, bool) {
	head := s.Head().Position
	r2 := w.cfg.CellRadius * w.cfg.CellRadius
	killer := -1
	w.bodyGrid.visit(head, w.cfg.CellRadius, func(e gridEntry) {
		if e.owner == i || (killer >= 0 && e.owner >= killer) {
			return
		}
		if head.DistanceSquaredTo(e.pos) <= r2 {
			killer = e.owner
		}
	})
	death := Death{SnakeID: s.ID, Player: w.isPlayer(s), Segments: s.Len()}
	if killer >= 0 {
		death.Cause = CauseCollision
		death.KilledBy = w.Snakes[killer].ID
		return death, true
	}
	if w.cfg.KillOutsideBounds && outside(head, w.cfg.WorldHalfExtent) {
		death.Cause = CauseBoundary
		return death, true
	}
	return Death{}, false
}

func outside(p geometry.Vector2D, half float64) bool {
	return math.Abs(p.X) > half || math.Abs(p.Y) > half
}

func (w *World) removeEatenFood() {
	kept := w.Food[:0]
	for i, f := range w.Food {
		if i < len(w.eaten) && w.eaten[i] {
			continue
		}
		kept = append(kept, f)
	}
	w.Food = kept
}

// removeDead drops one pellet per segment of every dead snake and removes it.
func (w *World) removeDead() int {
	littered := 0
	live := w.Snakes[:0]
	for _, s := range w.Snakes {
		if s.Alive {
			live = append(live, s)
			continue
		}
		for _, seg := range s.Segments {
			w.Food = append(w.Food, Food{Position: seg.Position})
		}
		littered += len(s.Segments)
	}
	clear(w.Snakes[len(live):])
	w.Snakes = live
	return littered
}

// respawnBots counts down the pending timers, spawns the bots whose delay has
// run out, then schedules one timer per bot that died this tick.
func (w *World) respawnBots(dt float64, rng Random, deaths []Death) int {
	if !w.cfg.RespawnBots {
		return 0
	}
	spawned := 0
	pending := w.respawns[:0]
	for _, left := range w.respawns {
		left -= dt
		if left > 0 {
			pending = append(pending, left)
			continue
		}
		if _, err := w.spawnBot(rng); err == nil {
			spawned++
		}
	}
	w.respawns = pending
	for _, d := range deaths {
		if !d.Player {
			w.respawns = append(w.respawns, w.cfg.BotRespawnDelay)
		}
	}
	return spawned
}

func (w *World) topUpFood(rng Random) int {
	missing := w.cfg.TargetFoodCount - len(w.Food)
	if w.cfg.TargetFoodCount == 0 || missing <= 0 {
		return 0
	}
	n := min(missing, w.cfg.FoodSpawnPerTick)
	w.scatterFood(rng, n)
	return n
}

// PendingRespawns is the number of bots waiting to come back.
func (w *World) PendingRespawns() int {
	return len(w.respawns)
}
