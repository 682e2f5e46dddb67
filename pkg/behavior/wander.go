package behavior

import (
	"math"

	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/geometry"
)

// Random is the source of uniform samples in [0, 1) used by steering.
// *rand.Rand from math/rand/v2 satisfies it; tests pass a seeded one.
type Random interface {
	Float64() float64
}

// Heading is anything that owns a facing angle written through a normalizing setter.
type Heading interface {
	Facing() float64
	SetFacing(theta float64)
}

// Wander is the non-player decision policy: a bounded random walk on the heading.
// There is no food seeking and no obstacle avoidance.
type Wander struct {
	Jitter float64 // max radians added or removed per tick
}

// Steer nudges h by uniform(-1, 1) * Jitter.
func (w Wander) Steer(h Heading, rng Random) {
	h.SetFacing(h.Facing() + (rng.Float64()*2-1)*w.Jitter)
}

// TurnToward rotates h toward target by at most maxDelta radians along the shortest arc.
// A non-positive or NaN budget leaves h untouched.
func TurnToward(h Heading, target, maxDelta float64) {
	if !(maxDelta > 0) || math.IsNaN(target) {
		return
	}
	diff := geometry.AngleDiff(h.Facing(), target)
	if diff > maxDelta {
		diff = maxDelta
	} else if diff < -maxDelta {
		diff = -maxDelta
	}
	h.SetFacing(h.Facing() + diff)
}
