package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button is a clickable UI button
type Button struct {
	Label    string
	X, Y     float64
	Width    float64
	Height   float64
	Disabled bool
	clicked  bool   // Track if already clicked this frame
	OnClick  func() // Callback function

	// Styling
	BGColor       color.RGBA
	HoverColor    color.RGBA
	DisabledColor color.RGBA
}

// NewButton creates a new button instance
func NewButton(x, y, width, height float64, label string, onClick func()) *Button {
	return &Button{
		Label:         label,
		X:             x,
		Y:             y,
		Width:         width,
		Height:        height,
		OnClick:       onClick,
		BGColor:       color.RGBA{R: 80, G: 120, B: 180, A: 255},
		HoverColor:    color.RGBA{R: 100, G: 150, B: 220, A: 255},
		DisabledColor: color.RGBA{R: 70, G: 70, B: 75, A: 255},
	}
}

// Update checks for mouse interaction
func (b *Button) Update() {
	mx, my := ebiten.CursorPosition()
	if !b.Disabled && b.isOver(mx, my) && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !b.clicked && b.OnClick != nil {
			b.OnClick()
			b.clicked = true
		}
	} else {
		b.clicked = false
	}
}

// Hovered reports whether the cursor is on the button.
func (b *Button) Hovered() bool {
	return b.isOver(ebiten.CursorPosition())
}

func (b *Button) isOver(mx, my int) bool {
	return float64(mx) >= b.X && float64(mx) <= b.X+b.Width &&
		float64(my) >= b.Y && float64(my) <= b.Y+b.Height
}

// Draw renders the button
func (b *Button) Draw(screen *ebiten.Image) {
	bgColor := b.BGColor
	switch {
	case b.Disabled:
		bgColor = b.DisabledColor
	case b.Hovered():
		bgColor = b.HoverColor
	}

	vector.FillRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.Width), float32(b.Height),
		bgColor, true)

	vector.StrokeRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.Width), float32(b.Height),
		2, color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)

	// DebugPrint glyphs are 6x16
	tx := b.X + (b.Width-float64(len(b.Label))*6)/2
	ty := b.Y + (b.Height-16)/2
	ebitenutil.DebugPrintAt(screen, b.Label, int(tx), int(ty))
}

func (b *Button) GetHeight() float64 {
	return b.Height + 8
}

func (b *Button) SetPosition(x, y float64) {
	b.X, b.Y = x, y
}
