package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// UIWidget is an interface for all UI widgets
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	GetHeight() float64
	SetPosition(x, y float64)
	Hovered() bool
}

// PanelSection groups consecutive widgets under a title.
type PanelSection struct {
	Title      string
	StartIndex int // Widget index where this section starts
	EndIndex   int // Widget index where this section ends (exclusive)
}

// UIPanel stacks widgets vertically in a box, laid out again every frame.
type UIPanel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	Widgets       []UIWidget

	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []PanelSection
}

// NewUIPanel creates a new UI panel
func NewUIPanel(title string, x, y, width, height float64) *UIPanel {
	return &UIPanel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 200},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new titled group.
func (p *UIPanel) AddSection(title string) {
	p.closeSection()
	p.sections = append(p.sections, PanelSection{
		Title:      title,
		StartIndex: len(p.Widgets),
		EndIndex:   -1,
	})
}

// EndSection closes the current section
func (p *UIPanel) EndSection() {
	p.closeSection()
}

func (p *UIPanel) closeSection() {
	if n := len(p.sections); n > 0 && p.sections[n-1].EndIndex < 0 {
		p.sections[n-1].EndIndex = len(p.Widgets)
	}
}

func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(0, 0, label, value)
	p.Widgets = append(p.Widgets, c)
	p.layout()
	return c
}

func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(0, 0, p.Width-20, 22, label, onClick)
	p.Widgets = append(p.Widgets, b)
	p.layout()
	return b
}

// layout assigns every widget its position and returns the y of each
// section header.
func (p *UIPanel) layout() []float64 {
	headers := make([]float64, len(p.sections))
	y := p.Y + 25
	s := 0
	for i, w := range p.Widgets {
		for s < len(p.sections) && p.sections[s].StartIndex == i {
			headers[s] = y
			y += 25
			s++
		}
		w.SetPosition(p.X+10, y)
		y += w.GetHeight()
	}
	for ; s < len(p.sections); s++ {
		headers[s] = y
		y += 25
	}
	return headers
}

func (p *UIPanel) Update() {
	for _, w := range p.Widgets {
		w.Update()
	}
}

// Hovered reports whether the cursor is anywhere over the panel.
func (p *UIPanel) Hovered() bool {
	mx, my := ebiten.CursorPosition()
	return float64(mx) >= p.X && float64(mx) <= p.X+p.Width &&
		float64(my) >= p.Y && float64(my) <= p.Y+p.Height
}

func (p *UIPanel) Draw(screen *ebiten.Image) {
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)

	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	headers := p.layout()
	sectionBG := color.RGBA{R: 60, G: 60, B: 70, A: 255}
	for i, section := range p.sections {
		vector.FillRect(screen,
			float32(p.X+5), float32(headers[i]),
			float32(p.Width-10), 20,
			sectionBG, true)
		ebitenutil.DebugPrintAt(screen, section.Title, int(p.X+10), int(headers[i]+2))
	}
	for _, w := range p.Widgets {
		w.Draw(screen)
	}
}
