package simulation

import "github.com/lao-tseu-is-alive/go-snake-simulation/pkg/geometry"

// SegmentView is the render-side copy of a Segment.
type SegmentView struct {
	Position geometry.Vector2D `json:"position"`
	Facing   float64           `json:"facing"`
}

type SnakeView struct {
	ID       string        `json:"id"`
	Player   bool          `json:"player"`
	Speed    float64       `json:"speed"`
	Segments []SegmentView `json:"segments"`
}

// Snapshot is a read-only copy of the world taken after a tick. It shares no
// memory with the World, so it can cross goroutines freely.
type Snapshot struct {
	Tick        uint64              `json:"tick"`
	Elapsed     float64             `json:"elapsed"`
	Snakes      []SnakeView         `json:"snakes"`
	Food        []geometry.Vector2D `json:"food"`
	Focus       geometry.Vector2D   `json:"focus"`
	PlayerAlive bool                `json:"playerAlive"`
}

// Player returns the view of the player snake, or nil.
func (s *Snapshot) Player() *SnakeView {
	for i := range s.Snakes {
		if s.Snakes[i].Player {
			return &s.Snakes[i]
		}
	}
	return nil
}

// Snapshot copies the current state.
func (w *World) Snapshot() *Snapshot {
	snap := &Snapshot{
		Tick:    w.tick,
		Elapsed: w.elapsed,
		Snakes:  make([]SnakeView, 0, len(w.Snakes)),
		Food:    make([]geometry.Vector2D, len(w.Food)),
		Focus:   w.focus,
	}
	for _, s := range w.Snakes {
		view := SnakeView{
			ID:       s.ID,
			Player:   w.isPlayer(s),
			Speed:    s.Speed,
			Segments: make([]SegmentView, len(s.Segments)),
		}
		for i := range s.Segments {
			view.Segments[i] = SegmentView{Position: s.Segments[i].Position, Facing: s.Segments[i].Facing()}
		}
		snap.PlayerAlive = snap.PlayerAlive || view.Player
		snap.Snakes = append(snap.Snakes, view)
	}
	for i, f := range w.Food {
		snap.Food[i] = f.Position
	}
	return snap
}
