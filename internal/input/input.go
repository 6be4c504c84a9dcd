// Package input turns pointer positions, device orientation angles and an
// animation clock into the normalized pan and rotation vectors the
// compositor consumes. Every component is in [-1, 1].
package input

import (
	"fmt"
	"math"
	"time"

	"github.com/ivlev/lsrview/internal/lsr"
)

// Vector is a normalized 2D direction.
type Vector struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Sample is one normalized input reading.
type Sample struct {
	Pan    Vector
	Rotate Vector
}

// Neutral is the resting sample.
var Neutral = Sample{}

// Pointer normalizes a page position inside the bounding box of a canvas.
// Positions outside the box are clamped to its edge.
func Pointer(pageX, pageY float64, bounds lsr.Rect) Sample {
	relX, relY := 0.5, 0.5
	if bounds.Width > 0 {
		relX = clamp((pageX-bounds.X)/bounds.Width, 0, 1)
	}
	if bounds.Height > 0 {
		relY = clamp((pageY-bounds.Y)/bounds.Height, 0, 1)
	}
	return Sample{
		Rotate: Vector{X: relY*2 - 1, Y: -(relX*2 - 1)},
		Pan:    Vector{X: 1 - relX*2, Y: 1 - relY*2},
	}
}

// ClockPeriod is the time the animation clock takes for one radian.
const ClockPeriod = 500 * time.Millisecond

// Clock returns the sample of the elliptical sweep elapsed after start.
func Clock(elapsed time.Duration) Sample {
	theta := float64(elapsed) / float64(ClockPeriod)
	x, y := math.Cos(theta), math.Sin(theta)
	return Sample{
		Rotate: Vector{X: -x, Y: y},
		Pan:    Vector{X: -x, Y: y},
	}
}

// Transform is the 3D rotation applied to a canvas by a host that can
// tilt it. Angles are degrees, perspective is in pixels.
type Transform struct {
	RotateX     float64
	RotateY     float64
	Perspective float64
}

// Rotation maps a rotation vector to degrees. Perspective is zero only at
// rest.
func Rotation(v Vector) Transform {
	t := Transform{RotateX: v.X * 3, RotateY: v.Y * 3}
	if v.X != 0 || v.Y != 0 {
		t.Perspective = 1000
	}
	return t
}

// CSS renders the transform the way a stylesheet would spell it.
func (t Transform) CSS() string {
	return fmt.Sprintf("rotateY(%gdeg) rotateX(%gdeg)", t.RotateY, t.RotateX)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
