package simulation

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/geometry"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func startWorldActor(t *testing.T, cfg *Config) (context.Context, *actor.PID, <-chan *Snapshot) {
	t.Helper()
	ctx := context.Background()
	system, err := actor.NewActorSystem("SnakeWorldTest", actor.WithLogger(golog.DiscardLogger))
	if err != nil {
		t.Fatalf("NewActorSystem() error = %v", err)
	}
	if err := system.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = system.Stop(ctx) })

	snapshots := make(chan *Snapshot, 32)
	pid, err := system.Spawn(ctx, "world", NewWorldActor(snapshots, cfg, rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatalf("Spawn() error = %v", err)
	}
	return ctx, pid, snapshots
}

// waitFor drains snapshots until match accepts one.
func waitFor(t *testing.T, snapshots <-chan *Snapshot, match func(*Snapshot) bool) *Snapshot {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case snap := <-snapshots:
			if match(snap) {
				return snap
			}
		case <-timeout:
			t.Fatal("timed out waiting for a snapshot")
			return nil
		}
	}
}

func quietConfig() *Config {
	cfg := DefaultConfig()
	cfg.InitialBotCount = 0
	cfg.InitialFoodCount = 0
	return cfg
}

func TestWorldActor_TickSteersPlayer(t *testing.T) {
	ctx, pid, snapshots := startWorldActor(t, quietConfig())

	if err := actor.Tell(ctx, pid, wrapperspb.Double(math.Pi/2)); err != nil {
		t.Fatalf("Tell(heading) error = %v", err)
	}
	if err := actor.Tell(ctx, pid, durationpb.New(100*time.Millisecond)); err != nil {
		t.Fatalf("Tell(tick) error = %v", err)
	}

	snap := waitFor(t, snapshots, func(s *Snapshot) bool { return s.Tick > 0 })
	if snap.Tick != 2 {
		t.Errorf("Tick = %d; want 100ms split in two sub-steps", snap.Tick)
	}
	p := snap.Player()
	if p == nil {
		t.Fatal("player missing from snapshot")
	}
	head := p.Segments[0]
	if math.Abs(head.Facing-math.Pi/2) > 1e-9 {
		t.Errorf("head facing = %v; want π/2", head.Facing)
	}
	if math.Abs(head.Position.Y-12.8) > 1e-9 || math.Abs(head.Position.X) > 1e-9 {
		t.Errorf("head = %v; want (0, 12.8)", head.Position)
	}
	if !snap.Focus.Eq(head.Position) {
		t.Errorf("focus = %v; want head %v", snap.Focus, head.Position)
	}
}

func TestWorldActor_RespawnPlayer(t *testing.T) {
	cfg := quietConfig()
	cfg.WorldHalfExtent = 10
	cfg.KillOutsideBounds = true
	ctx, pid, snapshots := startWorldActor(t, cfg)

	// one tick to leave the tiny arena, one more to be judged outside it
	_ = actor.Tell(ctx, pid, durationpb.New(100*time.Millisecond))
	_ = actor.Tell(ctx, pid, durationpb.New(10*time.Millisecond))
	waitFor(t, snapshots, func(s *Snapshot) bool { return s.Tick > 0 && !s.PlayerAlive })

	_ = actor.Tell(ctx, pid, &emptypb.Empty{})
	snap := waitFor(t, snapshots, func(s *Snapshot) bool { return s.PlayerAlive })
	p := snap.Player()
	if p == nil || p.ID != "player-2" || !p.Segments[0].Position.Eq(geometry.Zero) {
		t.Errorf("respawned player = %+v; want player-2 at the origin", p)
	}
}

func TestWorldActor_RejectsNegativeTick(t *testing.T) {
	ctx, pid, snapshots := startWorldActor(t, quietConfig())

	_ = actor.Tell(ctx, pid, durationpb.New(-time.Second))
	_ = actor.Tell(ctx, pid, durationpb.New(10*time.Millisecond))

	snap := waitFor(t, snapshots, func(s *Snapshot) bool { return s.Tick > 0 })
	if snap.Tick != 1 {
		t.Errorf("Tick = %d; want the negative tick ignored", snap.Tick)
	}
}
