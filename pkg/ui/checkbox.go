package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox is a labelled toggle. Value flips once per press.
type Checkbox struct {
	Label   string
	Value   bool
	X, Y    float64
	Size    float64
	clicked bool // Track if already clicked this frame
}

// NewCheckbox creates a new checkbox instance
func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{
		Label: label,
		Value: value,
		X:     x,
		Y:     y,
		Size:  16,
	}
}

// Toggle flips the value, for keyboard shortcuts.
func (c *Checkbox) Toggle() {
	c.Value = !c.Value
}

func (c *Checkbox) Update() {
	mx, my := ebiten.CursorPosition()
	if c.isOver(mx, my) && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !c.clicked {
			c.Toggle()
			c.clicked = true
		}
	} else {
		c.clicked = false
	}
}

// Hovered reports whether the cursor is on the box, so the game can ignore
// the click for steering.
func (c *Checkbox) Hovered() bool {
	return c.isOver(ebiten.CursorPosition())
}

func (c *Checkbox) isOver(mx, my int) bool {
	return float64(mx) >= c.X && float64(mx) <= c.X+c.Size &&
		float64(my) >= c.Y && float64(my) <= c.Y+c.Size
}

func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen,
		float32(c.X), float32(c.Y),
		float32(c.Size), float32(c.Size),
		2,
		color.RGBA{R: 200, G: 200, B: 200, A: 255},
		true)

	if c.Value {
		vector.FillRect(screen,
			float32(c.X+2), float32(c.Y+2),
			float32(c.Size-4), float32(c.Size-4),
			color.RGBA{R: 100, G: 200, B: 100, A: 255},
			true)
	}
	ebitenutil.DebugPrintAt(screen, c.Label, int(c.X+c.Size+8), int(c.Y))
}

func (c *Checkbox) GetHeight() float64 {
	return c.Size + 8
}

func (c *Checkbox) SetPosition(x, y float64) {
	c.X, c.Y = x, y
}
