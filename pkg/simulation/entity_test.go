package simulation

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/geometry"
)

func TestSegment_SetFacingInvariant(t *testing.T) {
	inputs := []float64{0, math.Pi, -math.Pi, 7, -7, 2 * math.Pi, -2 * math.Pi, 1e6, -1e6, -1e-300}
	rng := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 500; i++ {
		inputs = append(inputs, (rng.Float64()*2-1)*1000)
	}

	var s Segment
	for _, theta := range inputs {
		s.SetFacing(theta)
		if f := s.Facing(); f < 0 || f >= 2*math.Pi {
			t.Fatalf("SetFacing(%v) -> %v; outside [0, 2π)", theta, f)
		}
	}
}

func TestSegment_SetFacingIgnoresNonFinite(t *testing.T) {
	s := NewSegment(geometry.Zero, 1)
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		s.SetFacing(bad)
		if s.Facing() != 1 {
			t.Errorf("SetFacing(%v) changed facing to %v", bad, s.Facing())
		}
	}
}

func TestSegment_Integrate(t *testing.T) {
	s := Segment{
		Position:     geometry.NewVector(1, 1),
		Velocity:     geometry.NewVector(2, 0),
		Acceleration: geometry.NewVector(0, 10),
	}
	s.Integrate(0.5)
	if !s.Position.Eq(geometry.NewVector(2, 1)) {
		t.Errorf("Position = %v; want (2, 1)", s.Position)
	}
	if !s.Velocity.Eq(geometry.NewVector(2, 5)) {
		t.Errorf("Velocity = %v; want (2, 5)", s.Velocity)
	}
}

func TestNewSnake(t *testing.T) {
	if _, err := NewSnake("x", geometry.Zero, 0, 0, 1, 1); !errors.Is(err, ErrNoSegments) {
		t.Errorf("NewSnake with 0 segments error = %v; want ErrNoSegments", err)
	}
	s, err := NewSnake("x", geometry.NewVector(3, 4), -math.Pi/2, 6, 128, 1)
	if err != nil {
		t.Fatalf("NewSnake() error = %v", err)
	}
	if s.Len() != 6 || !s.Alive {
		t.Errorf("NewSnake = len %d alive %v; want 6 alive", s.Len(), s.Alive)
	}
	if math.Abs(s.Facing()-3*math.Pi/2) > 1e-12 {
		t.Errorf("Facing = %v; want 3π/2", s.Facing())
	}
	for i, seg := range s.Segments {
		if !seg.Position.Eq(geometry.NewVector(3, 4)) {
			t.Errorf("segment %d at %v; want stacked on head", i, seg.Position)
		}
	}
}

func TestSnake_GrowthAccounting(t *testing.T) {
	const c0, v0, n = 6, 128.0, 25
	s, _ := NewSnake("s", geometry.Zero, 0, c0, v0, 0)
	s.Tail().Position = geometry.NewVector(-80, 0)
	for i := 0; i < n; i++ {
		s.Grow(0.5)
	}
	if s.Len() != c0+n {
		t.Errorf("Len = %d; want %d", s.Len(), c0+n)
	}
	if s.Speed != v0+0.5*n {
		t.Errorf("Speed = %v; want %v", s.Speed, v0+0.5*n)
	}
	if !s.Tail().Position.Eq(geometry.NewVector(-80, 0)) {
		t.Errorf("new tail at %v; want on top of the old tail", s.Tail().Position)
	}
}

func TestSnake_MoveHead(t *testing.T) {
	s, _ := NewSnake("s", geometry.Zero, math.Pi/2, 1, 10, 0)
	s.Move(0.5, 16)
	if !s.Head().Position.Eq(geometry.NewVector(0, 5)) {
		t.Errorf("head at %v; want (0, 5)", s.Head().Position)
	}
	if !s.Head().Velocity.Eq(geometry.NewVector(0, 10)) {
		t.Errorf("head velocity %v; want (0, 10)", s.Head().Velocity)
	}
}

func TestSnake_MoveTrailingReadsMovedLeader(t *testing.T) {
	// head moves first, so segment 1 chases the new head position
	s, _ := NewSnake("s", geometry.Zero, 0, 2, 10, 0)
	s.Move(0.05, 1)
	head := s.Head().Position // (0.5, 0)
	want := geometry.NewVector(head.X*0.05, 0)
	if got := s.Segments[1].Position; !got.Eq(want) {
		t.Errorf("segment 1 at %v; want %v", got, want)
	}
	if s.Segments[1].Facing() != 0 {
		t.Errorf("segment 1 facing %v; want 0", s.Segments[1].Facing())
	}
}

func TestSnake_TrailingFacingInRange(t *testing.T) {
	s, _ := NewSnake("s", geometry.Zero, 0, 3, 0, 0)
	s.Segments[1].Position = geometry.NewVector(5, 5) // leader is below-left: atan2 < 0
	s.Move(0.01, 16)
	if f := s.Segments[1].Facing(); f < 0 || f >= 2*math.Pi {
		t.Errorf("trailing facing %v outside [0, 2π)", f)
	}
	if math.Abs(s.Segments[1].Facing()-5*math.Pi/4) > 1e-9 {
		t.Errorf("trailing facing = %v; want 5π/4", s.Segments[1].Facing())
	}
}

func TestSnake_ChainConvergence(t *testing.T) {
	const radius = 16.0
	tests := []struct {
		name string
		dt   float64
	}{
		{"Gentle", 0.01},     // dt·R = 0.16
		{"Moderate", 0.03},   // dt·R = 0.48
		{"Near bound", 0.06}, // dt·R = 0.96
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := NewSnake("s", geometry.Zero, 0, 6, 0, 0)
			for i := 1; i < s.Len(); i++ {
				s.Segments[i].Position = geometry.NewVector(-40*float64(i), 15*float64(i%2))
			}
			initial := 0.0
			for i := 1; i < s.Len(); i++ {
				initial = math.Max(initial, s.Segments[i].Position.DistanceTo(s.Segments[i-1].Position))
			}

			for tick := 0; tick < 2000; tick++ {
				s.Move(tt.dt, radius)
				for i := 1; i < s.Len(); i++ {
					d := s.Segments[i].Position.DistanceTo(s.Segments[i-1].Position)
					if math.IsNaN(d) || d > 2*initial*float64(s.Len()) {
						t.Fatalf("tick %d: segment %d diverged, distance %v", tick, i, d)
					}
				}
			}
			for i := 1; i < s.Len(); i++ {
				if d := s.Segments[i].Position.DistanceTo(s.Segments[i-1].Position); d > 1e-3 {
					t.Errorf("segment %d still %v away from its leader", i, d)
				}
			}
			if !s.Head().Position.Eq(geometry.Zero) {
				t.Errorf("stationary head moved to %v", s.Head().Position)
			}
		})
	}
}

func TestSnake_HeadTouches(t *testing.T) {
	s, _ := NewSnake("s", geometry.Zero, 0, 1, 0, 0)
	tests := []struct {
		name string
		at   geometry.Vector2D
		want bool
	}{
		{"Inside", geometry.NewVector(5, 0), true},
		{"On the rim", geometry.NewVector(16, 0), true},
		{"Outside", geometry.NewVector(16.01, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.HeadTouches([]geometry.Vector2D{tt.at}, 16); got != tt.want {
				t.Errorf("HeadTouches(%v) = %v; want %v", tt.at, got, tt.want)
			}
		})
	}
}

func BenchmarkSnake_Move(b *testing.B) {
	s, _ := NewSnake("s", geometry.Zero, 0, 200, 128, 0)
	for i := 0; i < b.N; i++ {
		s.Move(1.0/60, 16)
	}
}
