// Package geom converts logged orientations into tilt angles.
//
// Orientations arrive as (w, x, y, z) quaternions written by a logger that
// uses a left-handed convention. Every geometric helper here works on
// right-handed rotations, so callers must pass logged values through
// RightHanded first. TiltAngle does this for them.
package geom

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// WorldZ is the world vertical axis.
var WorldZ = r3.Vec{Z: 1}

// Quaternion builds a quaternion from logged (w, x, y, z) components.
// No normalization is applied.
func Quaternion(w, x, y, z float64) quat.Number {
	return quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
}

// Identity is the zero rotation.
func Identity() quat.Number {
	return quat.Number{Real: 1}
}

// AxisAngle returns the unit quaternion rotating by angleDeg degrees about
// axis in the right-handed convention.
func AxisAngle(axis r3.Vec, angleDeg float64) quat.Number {
	return quat.Number(r3.NewRotation(Radians(angleDeg), axis))
}

// RightHanded converts a logged orientation into the equivalent right-handed
// rotation. The logger stores the inverse of the body rotation, so the
// correction is a quaternion inversion. For a unit quaternion this equals
// the conjugate; non-unit input is inverted as-is and not renormalized.
// The zero quaternion has no inverse and yields NaN components.
func RightHanded(logged quat.Number) quat.Number {
	return quat.Inv(logged)
}

// BodyZ returns the third column of the rotation matrix of q: the world-frame
// image of the body's local Z axis. q must already be right-handed.
func BodyZ(q quat.Number) r3.Vec {
	m := r3.Rotation(q).Mat()
	return r3.Vec{X: m.At(0, 2), Y: m.At(1, 2), Z: m.At(2, 2)}
}

// AngleBetweenUnit returns the angle in degrees between two unit vectors.
// The cosine is clamped to [-1, 1] so rounding overshoot near parallel or
// antiparallel axes cannot produce NaN. NaN input still yields NaN.
func AngleBetweenUnit(a, b r3.Vec) float64 {
	c := math.Max(-1, math.Min(1, r3.Dot(a, b)))
	return Degrees(math.Acos(c))
}

// TiltAngle returns the angle in degrees between the body's vertical axis and
// the world vertical axis for a logged orientation. The result lies in
// [0, 180] for any finite quaternion.
func TiltAngle(logged quat.Number) float64 {
	return AngleBetweenUnit(BodyZ(RightHanded(logged)), WorldZ)
}

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }
