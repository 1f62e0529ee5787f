// Package math provides math helpers for game development.
//
// Vectors are mgl64.Vec2 values; this package adds the few planar
// operations mathgl does not ship with.
package math

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Up is the world up direction.
var Up = mgl64.Vec2{0, 1}

// Right is the world right direction.
var Right = mgl64.Vec2{1, 0}

// Perp returns v rotated a quarter turn counter-clockwise.
func Perp(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v.Y(), v.X()}
}

// LenSqr returns the squared magnitude.
func LenSqr(v mgl64.Vec2) float64 {
	return v.Dot(v)
}

// Normalize returns a unit vector, or the zero vector when v is zero.
func Normalize(v mgl64.Vec2) mgl64.Vec2 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec2{}
	}
	return v.Mul(1 / l)
}

// Distance returns the distance between two points.
func Distance(a, b mgl64.Vec2) float64 {
	return a.Sub(b).Len()
}

// WithY returns v with its Y component replaced.
func WithY(v mgl64.Vec2, y float64) mgl64.Vec2 {
	return mgl64.Vec2{v.X(), y}
}

// IsFinite reports whether both components are finite numbers.
func IsFinite(v mgl64.Vec2) bool {
	return !math.IsNaN(v.X()) && !math.IsInf(v.X(), 0) &&
		!math.IsNaN(v.Y()) && !math.IsInf(v.Y(), 0)
}
