package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// AbsDiff returns the per-axis absolute difference |a - b|.
func AbsDiff(a, b r3.Vec) r3.Vec {
	d := r3.Sub(a, b)
	return r3.Vec{X: math.Abs(d.X), Y: math.Abs(d.Y), Z: math.Abs(d.Z)}
}

// StrictlyWithin reports whether every component of d is strictly less than
// the matching component of limit. NaN components never pass.
func StrictlyWithin(d, limit r3.Vec) bool {
	return d.X < limit.X && d.Y < limit.Y && d.Z < limit.Z
}
