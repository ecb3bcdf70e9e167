package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec2 is a 2D float32 vector with value semantics.
// Add, Sub, Mul (scalar) and Len (Euclidean norm) come from mathgl.
type Vec2 = mgl32.Vec2

// V builds a vector from its components.
func V(x, y float32) Vec2 {
	return Vec2{x, y}
}

// FromAngle returns the unit vector for an angle in radians.
// Angle 0 points up the y axis and angles grow clockwise: (sin a, cos a).
func FromAngle(angle float32) Vec2 {
	a := float64(angle)
	return Vec2{float32(math.Sin(a)), float32(math.Cos(a))}
}

// Norm returns the Euclidean length of v.
func Norm(v Vec2) float32 {
	return v.Len()
}

// Unit returns v scaled to length 1. The zero vector maps to itself.
func Unit(v Vec2) Vec2 {
	n := v.Len()
	if n == 0 {
		return Vec2{}
	}
	return v.Mul(1 / n)
}

// ClampLen rescales v to exactly max when it is longer than max.
func ClampLen(v Vec2, max float32) Vec2 {
	n := v.Len()
	if n > max {
		return v.Mul(max / n)
	}
	return v
}

// Scale multiplies two vectors componentwise.
func Scale(a, b Vec2) Vec2 {
	return Vec2{a[0] * b[0], a[1] * b[1]}
}

// WorldToScreen maps a world point (origin at the screen center, y up) to
// presentation coordinates (origin top-left, y down).
func WorldToScreen(p, screen Vec2) Vec2 {
	x := p[0] + screen[0]/2
	y := screen[1] - (p[1] + screen[1]/2)
	return Vec2{x, y}
}

// ScreenToWorld is the inverse of WorldToScreen.
func ScreenToWorld(p, screen Vec2) Vec2 {
	x := p[0] - screen[0]/2
	y := screen[1]/2 - p[1]
	return Vec2{x, y}
}

// Float32Source is a uniform [0, 1) float32 stream.
// *math/rand.Rand satisfies it.
type Float32Source interface {
	Float32() float32
}

// RandomVec draws a uniform angle and then a uniform magnitude in [0, maxMag).
func RandomVec(rng Float32Source, maxMag float32) Vec2 {
	angle := rng.Float32() * 2 * math.Pi
	mag := rng.Float32() * maxMag
	return FromAngle(angle).Mul(mag)
}
