package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

func TestFollowSnapsWithZeroRate(t *testing.T) {
	c := NewFollowCamera(48, 960, 480)
	c.FollowRate = 0
	c.LookAhead = 0

	c.Follow(mgl64.Vec2{5, 3}, mgl64.Vec2{}, 0.016)

	if !c.Center.ApproxEqual(mgl64.Vec2{5, 3}) {
		t.Errorf("expected center (5, 3), got %v", c.Center)
	}
}

func TestFollowConverges(t *testing.T) {
	c := NewFollowCamera(48, 960, 480)
	c.LookAhead = 0
	target := mgl64.Vec2{10, -2}

	prev := c.Center.Sub(target).Len()
	for i := 0; i < 120; i++ {
		c.Follow(target, mgl64.Vec2{}, 1.0/60)
		d := c.Center.Sub(target).Len()
		if d > prev {
			t.Fatalf("step %d: distance grew from %f to %f", i, prev, d)
		}
		prev = d
	}
	if prev > 0.01 {
		t.Errorf("expected camera within 0.01 of target after 2s, got %f", prev)
	}
}

func TestLeadIsCapped(t *testing.T) {
	c := NewFollowCamera(48, 960, 480)
	c.FollowRate = 0
	c.LookAhead = 1
	c.MaxLead = 2

	c.Follow(mgl64.Vec2{}, mgl64.Vec2{30, 0}, 0.016)

	if math.Abs(c.Center.X()-2) > 1e-9 {
		t.Errorf("expected lead capped at 2, got %f", c.Center.X())
	}
}

func TestProjectionMapsViewEdges(t *testing.T) {
	c := NewFollowCamera(50, 1000, 500)
	c.Snap(mgl64.Vec2{4, 1})

	half := c.HalfExtents()
	if !half.ApproxEqual(mgl64.Vec2{10, 5}) {
		t.Fatalf("expected half extents (10, 5), got %v", half)
	}

	proj := c.Projection()
	tests := []struct {
		world mgl32.Vec4
		clip  mgl32.Vec2
	}{
		{mgl32.Vec4{4, 1, 0, 1}, mgl32.Vec2{0, 0}},
		{mgl32.Vec4{14, 1, 0, 1}, mgl32.Vec2{1, 0}},
		{mgl32.Vec4{-6, -4, 0, 1}, mgl32.Vec2{-1, -1}},
	}
	for _, tt := range tests {
		got := proj.Mul4x1(tt.world)
		clip := mgl32.Vec2{got.X(), got.Y()}
		if !clip.ApproxEqualThreshold(tt.clip, 1e-5) {
			t.Errorf("world %v: expected clip %v, got %v", tt.world, tt.clip, got)
		}
	}
}

func TestScreenToWorld(t *testing.T) {
	c := NewFollowCamera(50, 1000, 500)
	c.Snap(mgl64.Vec2{4, 1})

	tests := []struct {
		x, y int
		want mgl64.Vec2
	}{
		{500, 250, mgl64.Vec2{4, 1}},
		{0, 0, mgl64.Vec2{-6, 6}},
		{1000, 500, mgl64.Vec2{14, -4}},
	}
	for _, tt := range tests {
		got := c.ScreenToWorld(tt.x, tt.y)
		if !got.ApproxEqual(tt.want) {
			t.Errorf("screen (%d, %d): expected %v, got %v", tt.x, tt.y, tt.want, got)
		}
	}
}

func TestHandleZoomClamps(t *testing.T) {
	c := NewFollowCamera(48, 960, 480)

	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
	}
	if c.PixelsPerUnit != c.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", c.MaxZoom, c.PixelsPerUnit)
	}

	for i := 0; i < 100; i++ {
		c.HandleZoom(-1)
	}
	if c.PixelsPerUnit != c.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", c.MinZoom, c.PixelsPerUnit)
	}
}

func TestNonPositiveZoomDefaults(t *testing.T) {
	c := NewFollowCamera(0, 100, 100)
	if c.PixelsPerUnit != 48 {
		t.Errorf("expected default zoom 48, got %f", c.PixelsPerUnit)
	}
}
