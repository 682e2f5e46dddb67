package simulation

import (
	"errors"
	"math"

	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/geometry"
)

// ErrNoSegments is returned when a snake would be built without a head.
var ErrNoSegments = errors.New("snake needs at least one segment")

// Segment is one link of a snake chain.
type Segment struct {
	Position     geometry.Vector2D
	Velocity     geometry.Vector2D // recomputed every tick
	Acceleration geometry.Vector2D // reserved, always zero today
	facing       float64
}

// NewSegment places a segment at pos facing theta radians.
func NewSegment(pos geometry.Vector2D, theta float64) Segment {
	s := Segment{Position: pos}
	s.SetFacing(theta)
	return s
}

// Facing returns the heading in [0, 2π).
func (s *Segment) Facing() float64 {
	return s.facing
}

// SetFacing stores theta wrapped into [0, 2π). Non-finite angles are ignored.
func (s *Segment) SetFacing(theta float64) {
	if math.IsNaN(theta) || math.IsInf(theta, 0) {
		return
	}
	s.facing = geometry.NormalizeAngle(theta)
}

// Integrate applies one explicit Euler step of dt seconds.
func (s *Segment) Integrate(dt float64) {
	s.Position = s.Position.Add(s.Velocity.Mul(dt))
	s.Velocity = s.Velocity.Add(s.Acceleration.Mul(dt))
}

// Snake is an ordered chain of segments; Segments[0] is the head.
type Snake struct {
	ID       string
	Segments []Segment
	Speed    float64 // units per second, only ever increased by Grow
	TurnRate float64 // radians per second
	Alive    bool
}

// NewSnake builds a live snake of count segments stacked on head, all facing theta.
func NewSnake(id string, head geometry.Vector2D, theta float64, count int, speed, turnRate float64) (*Snake, error) {
	if count < 1 {
		return nil, ErrNoSegments
	}
	segments := make([]Segment, count)
	for i := range segments {
		segments[i] = NewSegment(head, theta)
	}
	return &Snake{
		ID:       id,
		Segments: segments,
		Speed:    speed,
		TurnRate: turnRate,
		Alive:    true,
	}, nil
}

// Head returns the head segment.
func (s *Snake) Head() *Segment {
	return &s.Segments[0]
}

// Tail returns the last segment.
func (s *Snake) Tail() *Segment {
	return &s.Segments[len(s.Segments)-1]
}

// Len is the number of segments.
func (s *Snake) Len() int {
	return len(s.Segments)
}

// Facing returns the head heading.
func (s *Snake) Facing() float64 {
	return s.Head().Facing()
}

// SetFacing steers the head.
func (s *Snake) SetFacing(theta float64) {
	s.Head().SetFacing(theta)
}

// Grow appends a segment on top of the tail and speeds the snake up.
// The new segment starts with zero offset and is pulled along by the chain.
func (s *Snake) Grow(speedIncrement float64) {
	tail := s.Tail()
	s.Segments = append(s.Segments, NewSegment(tail.Position, tail.Facing()))
	s.Speed += speedIncrement
}

// Move runs the follow-the-leader update for dt seconds.
//
// The head travels along its facing at Speed. Every trailing segment gets a
// velocity equal to its offset from the segment ahead scaled by gain, so the
// chain behaves like a spring rather than a rigid rope. Segments are updated
// in order and each one reads the already integrated position of its leader.
func (s *Snake) Move(dt, gain float64) {
	for i := range s.Segments {
		seg := &s.Segments[i]
		if i == 0 {
			seg.Velocity = geometry.FromAngle(seg.Facing()).Mul(s.Speed)
		} else {
			offset := s.Segments[i-1].Position.Sub(seg.Position)
			seg.Velocity = offset.Mul(gain)
			seg.SetFacing(offset.Angle())
		}
		seg.Integrate(dt)
	}
}

// HeadTouches reports whether the head lies within radius (inclusive) of any
// of the given positions.
func (s *Snake) HeadTouches(positions []geometry.Vector2D, radius float64) bool {
	head := s.Head().Position
	r2 := radius * radius
	for _, p := range positions {
		if head.DistanceSquaredTo(p) <= r2 {
			return true
		}
	}
	return false
}

// Positions copies the current segment positions, head first.
func (s *Snake) Positions() []geometry.Vector2D {
	out := make([]geometry.Vector2D, len(s.Segments))
	for i, seg := range s.Segments {
		out[i] = seg.Position
	}
	return out
}

// Food is a pellet lying in the world.
type Food struct {
	Position geometry.Vector2D
}
