package arena

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/camera"
	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	headingReach    = 200 // px from the centre to the heading bar
	pointerDeadZone = 5   // px around the head where the pointer does not steer
)

var (
	backgroundColor = color.RGBA{R: 16, G: 16, B: 24, A: 255}
	foodColor       = color.RGBA{R: 238, G: 238, B: 238, A: 255}
	playerColor     = color.RGBA{R: 80, G: 220, B: 120, A: 255}
	boundaryColor   = color.RGBA{R: 120, G: 40, B: 40, A: 255}
	radiusColor     = color.RGBA{R: 255, G: 255, B: 255, A: 60}
	botPalette      = []color.RGBA{
		{R: 230, G: 120, B: 60, A: 255},
		{R: 90, G: 150, B: 255, A: 255},
		{R: 220, G: 80, B: 200, A: 255},
		{R: 240, G: 210, B: 70, A: 255},
		{R: 70, G: 210, B: 210, A: 255},
	}
)

// Game is the ebiten front end. It owns no simulation state: it sends input
// and elapsed time to the world actor and draws whatever snapshot came back.
type Game struct {
	ctx        context.Context
	System     actor.ActorSystem
	worldPID   *actor.PID
	snapshotCh chan *simulation.Snapshot
	lastState  *simulation.Snapshot

	cfg           *simulation.Config
	cam           *camera.Camera
	width, height int
	heading       float64
	lastTick      time.Time

	// UI Controls
	panel         *ui.UIPanel
	widgetPause   *ui.Checkbox
	widgetRadius  *ui.Checkbox
	widgetBounds  *ui.Checkbox
	widgetRespawn *ui.Button

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// NewGame spawns the world actor in system and wires the UI around it.
func NewGame(ctx context.Context, cfg *simulation.Config, system actor.ActorSystem, rng simulation.Random, width, height int) (*Game, error) {
	snapshotCh := make(chan *simulation.Snapshot, 10) // Buffer to avoid blocking

	worldPID, err := system.Spawn(ctx, "world", simulation.NewWorldActor(snapshotCh, cfg, rng))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	g := &Game{
		ctx:        ctx,
		System:     system,
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		lastState:  &simulation.Snapshot{PlayerAlive: true}, // Avoid nil pointer
		cfg:        cfg,
		cam:        camera.New(width, height),
		width:      width,
		height:     height,
		heading:    cfg.PlayerFacing,
		lastTick:   time.Now(),
	}

	g.panel = ui.NewUIPanel("Controls", 10, 30, 190, 190)
	g.panel.AddSection("Simulation")
	g.widgetPause = g.panel.AddCheckbox("Pause [space]", false)
	g.widgetRespawn = g.panel.AddButton("Respawn [R]", g.respawn)
	g.panel.EndSection()
	g.panel.AddSection("Visualization")
	g.widgetRadius = g.panel.AddCheckbox("Cell radius", false)
	g.widgetBounds = g.panel.AddCheckbox("World bounds", true)
	g.panel.EndSection()

	return g, nil
}

func (g *Game) respawn() {
	_ = actor.Tell(g.ctx, g.worldPID, &emptypb.Empty{})
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	// 1. Retrieve the latest state, dropping stale frames
Loop:
	for {
		select {
		case snap := <-g.snapshotCh:
			g.lastState = snap
		default:
			break Loop
		}
	}
	g.cam.Focus = g.lastState.Focus
	g.widgetRespawn.Disabled = g.lastState.PlayerAlive

	// 2. UI and keyboard
	g.panel.Update()
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.widgetPause.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && !g.lastState.PlayerAlive {
		g.respawn()
	}
	if _, dy := ebiten.Wheel(); dy != 0 && !g.panel.Hovered() {
		g.cam.ZoomBy(math.Pow(1.1, dy))
	}

	// 3. Steering
	if theta, ok := g.desiredHeading(); ok && theta != g.heading {
		g.heading = theta
		if err := actor.Tell(g.ctx, g.worldPID, wrapperspb.Double(theta)); err != nil {
			return fmt.Errorf("failed to send heading: %w", err)
		}
	}

	// 4. Trigger Simulation Step with the wall-clock time since the last one
	now := time.Now()
	elapsed := now.Sub(g.lastTick)
	g.lastTick = now
	if g.widgetPause.Value {
		return nil
	}
	if err := actor.Tell(g.ctx, g.worldPID, durationpb.New(elapsed)); err != nil {
		return fmt.Errorf("failed to send tick: %w", err)
	}
	return nil
}

// desiredHeading reads WASD first, then the pointer position relative to
// the screen centre where the player head is drawn.
func (g *Game) desiredHeading() (float64, bool) {
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyW):
		return -math.Pi / 2, true
	case ebiten.IsKeyPressed(ebiten.KeyS):
		return math.Pi / 2, true
	case ebiten.IsKeyPressed(ebiten.KeyA):
		return math.Pi, true
	case ebiten.IsKeyPressed(ebiten.KeyD):
		return 0, true
	}
	if g.panel.Hovered() {
		return 0, false
	}
	mx, my := ebiten.CursorPosition()
	return g.cam.HeadingTo(float64(mx), float64(my), pointerDeadZone)
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(backgroundColor)

	if g.widgetBounds.Value {
		g.drawBounds(screen)
	}
	g.drawFood(screen)
	for i := range g.lastState.Snakes {
		g.drawSnake(screen, &g.lastState.Snakes[i])
	}

	ui.DrawCoordinates(screen, g.lastState.Focus.X, g.lastState.Focus.Y)
	ui.DrawHeading(screen, g.heading, headingReach)
	g.panel.Draw(screen)

	stats := ui.Stats{
		Tick:        g.lastState.Tick,
		Snakes:      len(g.lastState.Snakes),
		Food:        len(g.lastState.Food),
		PlayerAlive: g.lastState.PlayerAlive,
		UpdateAvg:   g.updateAvg,
		DrawAvg:     g.drawAvg,
	}
	if p := g.lastState.Player(); p != nil {
		stats.Length = len(p.Segments)
		stats.Speed = p.Speed
	}
	ui.DrawStats(screen, stats)

	if !g.lastState.PlayerAlive && g.lastState.Tick > 0 {
		ui.DrawGameOver(screen)
	}
}

func (g *Game) drawBounds(screen *ebiten.Image) {
	h := g.cfg.WorldHalfExtent
	x0, y0 := g.cam.ToScreen(geometry.NewVector(-h, -h))
	x1, y1 := g.cam.ToScreen(geometry.NewVector(h, h))
	vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 3, boundaryColor, true)
}

func (g *Game) drawFood(screen *ebiten.Image) {
	r := g.cfg.FoodRadius
	for _, f := range g.lastState.Food {
		if !g.cam.Visible(f, r) {
			continue
		}
		sx, sy := g.cam.ToScreen(f)
		vector.FillCircle(screen, float32(sx), float32(sy), float32(r*g.cam.Zoom), foodColor, true)
	}
}

// drawSnake paints tail first so the head ends up on top.
func (g *Game) drawSnake(screen *ebiten.Image, s *simulation.SnakeView) {
	r := g.cfg.CellRadius
	body := snakeColor(s)
	for i := len(s.Segments) - 1; i >= 0; i-- {
		seg := s.Segments[i]
		if !g.cam.Visible(seg.Position, r) {
			continue
		}
		sx, sy := g.cam.ToScreen(seg.Position)
		clr := body
		if i%2 == 1 {
			clr = shade(body, 0.8)
		}
		vector.FillCircle(screen, float32(sx), float32(sy), float32(r*g.cam.Zoom), clr, true)
		if i == 0 {
			g.drawEyes(screen, sx, sy, seg.Facing)
			if g.widgetRadius.Value {
				vector.StrokeCircle(screen, float32(sx), float32(sy), float32(r*g.cam.Zoom), 1, radiusColor, true)
			}
		}
	}
}

func (g *Game) drawEyes(screen *ebiten.Image, sx, sy, facing float64) {
	z := g.cam.Zoom
	for _, side := range []float64{-0.6, 0.6} {
		ex := sx + math.Cos(facing+side)*8*z
		ey := sy + math.Sin(facing+side)*8*z
		vector.FillCircle(screen, float32(ex), float32(ey), float32(3*z), color.White, true)
	}
}

func (g *Game) Layout(w, h int) (int, int) {
	g.cam.Width, g.cam.Height = g.width, g.height
	return g.width, g.height
}

// snakeColor keeps a bot's colour stable for its whole life, whatever its
// position in the snapshot.
func snakeColor(s *simulation.SnakeView) color.RGBA {
	if s.Player {
		return playerColor
	}
	sum := 0
	for _, c := range s.ID {
		sum += int(c)
	}
	return botPalette[sum%len(botPalette)]
}

func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}
