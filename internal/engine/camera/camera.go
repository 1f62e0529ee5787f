// Package camera provides a 2D follow camera for the side-on view.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	smath "github.com/Faultbox/swingline/pkg/math"
)

// FollowCamera keeps a target in view, trailing it with exponential
// smoothing and leading slightly in the direction of travel.
type FollowCamera struct {
	// Center of the view in world units
	Center mgl64.Vec2

	// Zoom, in screen pixels per world unit
	PixelsPerUnit float32
	MinZoom       float32
	MaxZoom       float32

	// Follow behaviour
	FollowRate float64 // Per-second smoothing rate, 0 snaps
	LookAhead  float64 // Seconds of velocity to lead by
	MaxLead    float64 // World units

	// Sensitivity
	ZoomSensitivity float32

	width, height int
}

// NewFollowCamera creates a camera for a viewport of the given size.
func NewFollowCamera(pixelsPerUnit float32, width, height int) *FollowCamera {
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = 48
	}
	return &FollowCamera{
		PixelsPerUnit:   pixelsPerUnit,
		MinZoom:         12,
		MaxZoom:         160,
		FollowRate:      6,
		LookAhead:       0.25,
		MaxLead:         3,
		ZoomSensitivity: 0.1,
		width:           width,
		height:          height,
	}
}

// SetViewport updates the viewport size in pixels.
func (c *FollowCamera) SetViewport(width, height int) {
	c.width = width
	c.height = height
}

// Viewport returns the viewport size in pixels.
func (c *FollowCamera) Viewport() (int, int) {
	return c.width, c.height
}

// Snap centers the camera on target immediately.
func (c *FollowCamera) Snap(target mgl64.Vec2) {
	c.Center = target
}

// Follow moves the center toward target plus a velocity lead over dt.
func (c *FollowCamera) Follow(target, velocity mgl64.Vec2, dt float64) {
	lead := velocity.Mul(c.LookAhead)
	if l := lead.Len(); l > c.MaxLead && l > 0 {
		lead = lead.Mul(c.MaxLead / l)
	}
	goal := target.Add(lead)

	t := smath.ExpSmoothing(c.FollowRate, dt)
	c.Center = mgl64.Vec2{
		smath.Lerp(c.Center.X(), goal.X(), t),
		smath.Lerp(c.Center.Y(), goal.Y(), t),
	}
}

// HalfExtents returns half the visible area in world units.
func (c *FollowCamera) HalfExtents() mgl64.Vec2 {
	ppu := float64(c.PixelsPerUnit)
	return mgl64.Vec2{float64(c.width) / (2 * ppu), float64(c.height) / (2 * ppu)}
}

// Projection returns the orthographic view-projection matrix mapping the
// visible world rectangle to clip space.
func (c *FollowCamera) Projection() mgl32.Mat4 {
	half := c.HalfExtents()
	left := float32(c.Center.X() - half.X())
	right := float32(c.Center.X() + half.X())
	bottom := float32(c.Center.Y() - half.Y())
	top := float32(c.Center.Y() + half.Y())
	return mgl32.Ortho2D(left, right, bottom, top)
}

// ScreenToWorld converts a pixel position (origin top-left) to world units.
func (c *FollowCamera) ScreenToWorld(x, y int) mgl64.Vec2 {
	ppu := float64(c.PixelsPerUnit)
	wx := c.Center.X() + (float64(x)-float64(c.width)/2)/ppu
	wy := c.Center.Y() - (float64(y)-float64(c.height)/2)/ppu
	return mgl64.Vec2{wx, wy}
}

// HandleZoom scales the zoom by a scroll wheel delta.
func (c *FollowCamera) HandleZoom(delta float32) {
	c.PixelsPerUnit += delta * c.PixelsPerUnit * c.ZoomSensitivity
	if c.PixelsPerUnit < c.MinZoom {
		c.PixelsPerUnit = c.MinZoom
	}
	if c.PixelsPerUnit > c.MaxZoom {
		c.PixelsPerUnit = c.MaxZoom
	}
}
