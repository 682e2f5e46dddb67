// Package camera maps between world space and screen pixels for a view
// centred on a focus point. It has no rendering dependency so the game
// loop, the HUD and the tests share the same projection.
package camera

import (
	"math"

	"github.com/lao-tseu-is-alive/go-snake-simulation/pkg/geometry"
)

const (
	MinZoom = 0.1
	MaxZoom = 4.0
)

type Camera struct {
	Focus  geometry.Vector2D // world point drawn at the screen centre
	Zoom   float64           // screen pixels per world unit
	Width  int               // screen size in pixels
	Height int
}

// New returns a camera looking at the origin at zoom 1.
func New(width, height int) *Camera {
	return &Camera{Zoom: 1, Width: width, Height: height}
}

func (c *Camera) center() (float64, float64) {
	return float64(c.Width) * 0.5, float64(c.Height) * 0.5
}

// ToScreen projects a world point to pixels.
func (c *Camera) ToScreen(p geometry.Vector2D) (float64, float64) {
	cx, cy := c.center()
	return cx + (p.X-c.Focus.X)*c.Zoom, cy + (p.Y-c.Focus.Y)*c.Zoom
}

// ToWorld is the inverse of ToScreen.
func (c *Camera) ToWorld(sx, sy float64) geometry.Vector2D {
	cx, cy := c.center()
	return geometry.NewVector(c.Focus.X+(sx-cx)/c.Zoom, c.Focus.Y+(sy-cy)/c.Zoom)
}

// Visible reports whether a disc of the given world radius around p
// intersects the screen.
func (c *Camera) Visible(p geometry.Vector2D, radius float64) bool {
	sx, sy := c.ToScreen(p)
	r := radius * c.Zoom
	return sx+r >= 0 && sy+r >= 0 && sx-r <= float64(c.Width) && sy-r <= float64(c.Height)
}

// HeadingTo returns the angle from the screen centre to the pixel (sx, sy).
// The player head sits at the centre, so this is the heading that points the
// snake at the cursor. ok is false inside the dead zone.
func (c *Camera) HeadingTo(sx, sy, deadZone float64) (theta float64, ok bool) {
	cx, cy := c.center()
	dx, dy := sx-cx, sy-cy
	if math.Hypot(dx, dy) < deadZone {
		return 0, false
	}
	return math.Atan2(dy, dx), true
}

// ZoomBy multiplies the zoom by factor, clamped to [MinZoom, MaxZoom].
func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 || math.IsNaN(factor) {
		return
	}
	c.Zoom = math.Min(MaxZoom, math.Max(MinZoom, c.Zoom*factor))
}
