package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	hudRed   = color.RGBA{R: 255, G: 50, B: 50, A: 255}
	hudWhite = color.RGBA{R: 238, G: 238, B: 238, A: 255}
)

// DrawHeading marks the screen centre with a red dot and draws a short bar
// out at distance reach along theta: where the pointer is steering the head.
func DrawHeading(screen *ebiten.Image, theta, reach float64) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	cx, cy := float32(w)/2, float32(h)/2
	vector.FillCircle(screen, cx, cy, 5, hudRed, true)

	dx, dy := float32(math.Cos(theta)), float32(math.Sin(theta))
	x0, y0 := cx+dx*float32(reach), cy+dy*float32(reach)
	x1, y1 := x0+dx*50, y0+dy*50
	vector.StrokeLine(screen, x0, y0, x1, y1, 5, hudWhite, true)
}

// DrawCoordinates prints the camera focus in the top-left corner.
func DrawCoordinates(screen *ebiten.Image, x, y float64) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("x: %.0f   y: %.0f", x, y), 10, 10)
}

// Stats is what the right-hand stats block shows.
type Stats struct {
	Tick        uint64
	Snakes      int
	Food        int
	Length      int
	Speed       float64
	PlayerAlive bool
	UpdateAvg   float64 // ms
	DrawAvg     float64 // ms
}

func DrawStats(screen *ebiten.Image, s Stats) {
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nTick:   %d\nSnakes: %d\nFood:   %d\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		s.Tick,
		s.Snakes,
		s.Food,
		s.UpdateAvg,
		s.DrawAvg)
	if s.PlayerAlive {
		msg += fmt.Sprintf("\n\nLength: %d\nSpeed:  %.1f", s.Length, s.Speed)
	}
	ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-150, 10)
}

// DrawGameOver is shown while the player is dead.
func DrawGameOver(screen *ebiten.Image) {
	msg := "YOU DIED\npress R or click Respawn"
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	ebitenutil.DebugPrintAt(screen, msg, w/2-70, h/2-40)
}
