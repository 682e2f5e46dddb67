package simulation

import (
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// MaxTickDuration caps the wall-clock gap a single tick message may cover.
// Anything longer (window dragged, debugger pause) is treated as this long.
const MaxTickDuration = time.Second

// WorldActor owns the World. Its mailbox is the only way in, so heading
// changes, ticks and respawns are applied one at a time.
//
// Messages:
//   - *durationpb.Duration: advance the simulation by that much time
//   - *wrapperspb.DoubleValue: desired player heading in radians
//   - *emptypb.Empty: respawn the player if it is dead
type WorldActor struct {
	world      *World
	cfg        *Config
	rng        Random
	snapshotCh chan<- *Snapshot

	// --- Stats ---
	ticks       int
	deaths      int
	lastLogTime time.Time
}

// NewWorldActor creates the world owner. The world itself is built in PreStart.
func NewWorldActor(snapshotCh chan<- *Snapshot, cfg *Config, rng Random) *WorldActor {
	return &WorldActor{
		cfg:         cfg,
		rng:         rng,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	world, err := NewWorld(w.cfg, w.rng)
	if err != nil {
		return err
	}
	w.world = world
	ctx.ActorSystem().Logger().Infof("World populated: %d snakes, %d food", len(world.Snakes), len(world.Food))
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Info("World started")
		w.pushSnapshot()

	case *durationpb.Duration:
		w.step(ctx, msg.AsDuration())
		w.logStats(ctx)
		w.pushSnapshot()

	case *wrapperspb.DoubleValue:
		w.world.SetPlayerHeading(msg.GetValue())

	case *emptypb.Empty:
		p, err := w.world.RespawnPlayer()
		if err != nil {
			ctx.Logger().Debugf("respawn ignored: %v", err)
			return
		}
		ctx.Logger().Infof("%s respawned", p.ID)
		w.pushSnapshot()

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) step(ctx *actor.ReceiveContext, d time.Duration) {
	if d > MaxTickDuration {
		ctx.Logger().Debugf("tick of %v clamped to %v", d, MaxTickDuration)
		d = MaxTickDuration
	}
	report, err := w.world.Advance(d.Seconds(), w.rng)
	if err != nil {
		ctx.Logger().Warnf("tick rejected: %v", err)
		return
	}
	w.ticks++
	for _, death := range report.Deaths {
		w.deaths++
		if death.Cause == CauseBoundary {
			ctx.Logger().Infof("%s left the arena (%d pellets)", death.SnakeID, death.Segments)
			continue
		}
		ctx.Logger().Infof("%s ran into %s (%d pellets)", death.SnakeID, death.KilledBy, death.Segments)
	}
	if report.BotsRespawned > 0 {
		ctx.Logger().Debugf("%d bots respawned", report.BotsRespawned)
	}
}

func (w *WorldActor) logStats(ctx *actor.ReceiveContext) {
	if time.Since(w.lastLogTime) >= time.Second {
		ctx.Logger().Infof("📊 TICKS: %d/sec | Snakes: %d | Food: %d | Deaths: %d",
			w.ticks, len(w.world.Snakes), len(w.world.Food), w.deaths)
		w.ticks = 0
		w.deaths = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	select {
	case w.snapshotCh <- w.world.Snapshot():
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	if w.world != nil {
		ctx.ActorSystem().Logger().Infof("World stopped at tick %d", w.world.Tick())
	}
	return nil
}
