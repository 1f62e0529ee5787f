package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	smath "github.com/Faultbox/swingline/pkg/math"
)

// floatsPerVertex is position (x, y) followed by colour (r, g, b, a).
const floatsPerVertex = 6

// minCircleSegments keeps tiny discs recognisably round.
const minCircleSegments = 8

func appendVertex(buf []float32, p mgl64.Vec2, c mgl32.Vec4) []float32 {
	return append(buf, float32(p.X()), float32(p.Y()), c[0], c[1], c[2], c[3])
}

func appendTriangle(buf []float32, a, b, c mgl64.Vec2, col mgl32.Vec4) []float32 {
	buf = appendVertex(buf, a, col)
	buf = appendVertex(buf, b, col)
	return appendVertex(buf, c, col)
}

// appendQuad appends two triangles covering the quad a b c d (in winding order).
func appendQuad(buf []float32, q [4]mgl64.Vec2, col mgl32.Vec4) []float32 {
	buf = appendTriangle(buf, q[0], q[1], q[2], col)
	return appendTriangle(buf, q[0], q[2], q[3], col)
}

// boxCorners returns the corners of a box rotated by angle radians about
// its center, counter-clockwise from bottom-left.
func boxCorners(center, half mgl64.Vec2, angle float64) [4]mgl64.Vec2 {
	sin, cos := math.Sincos(angle)
	rot := func(x, y float64) mgl64.Vec2 {
		return center.Add(mgl64.Vec2{x*cos - y*sin, x*sin + y*cos})
	}
	hx, hy := half.X(), half.Y()
	return [4]mgl64.Vec2{rot(-hx, -hy), rot(hx, -hy), rot(hx, hy), rot(-hx, hy)}
}

// segmentQuad returns a quad of the given width along a to b. A zero
// length segment degenerates to a zero-area quad at a.
func segmentQuad(a, b mgl64.Vec2, width float64) [4]mgl64.Vec2 {
	n := smath.Perp(smath.Normalize(b.Sub(a))).Mul(width / 2)
	return [4]mgl64.Vec2{a.Sub(n), b.Sub(n), b.Add(n), a.Add(n)}
}

// circleSegments picks a segment count so chords stay short on screen.
func circleSegments(radius float64, pixelsPerUnit float32) int {
	n := int(math.Ceil(2 * math.Pi * radius * float64(pixelsPerUnit) / 4))
	if n < minCircleSegments {
		return minCircleSegments
	}
	if n > 64 {
		return 64
	}
	return n
}

// circlePoints returns n points evenly spaced on the circle, starting at
// angle zero.
func circlePoints(center mgl64.Vec2, radius float64, n int) []mgl64.Vec2 {
	pts := make([]mgl64.Vec2, n)
	for i := range pts {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / float64(n))
		pts[i] = center.Add(mgl64.Vec2{cos * radius, sin * radius})
	}
	return pts
}
