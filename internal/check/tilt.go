// Package check implements the simulation pass/fail checks: worst-case tilt
// of the tracked bodies and the final position of the manipulated object.
package check

import (
	"errors"
	"iter"
	"math"
	"slices"

	"gonum.org/v1/gonum/num/quat"

	"github.com/banshee-data/simcheck/internal/geom"
)

// ErrNoSamples is returned when a check has nothing to measure.
var ErrNoSamples = errors.New("no samples to evaluate")

// Body identifies a tracked body.
type Body int

const (
	Robot Body = iota
	Object
)

func (b Body) String() string {
	switch b {
	case Robot:
		return "robot"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Sample is one logged orientation of one body.
type Sample struct {
	Body Body
	Tick int
	Q    quat.Number
}

// TiltResult is the worst tilt found and where it occurred.
type TiltResult struct {
	MaxAngle float64 // [deg]
	Body     Body
	Tick     int
}

// Samples tags an orientation series with its body.
func Samples(body Body, series iter.Seq2[int, quat.Number]) iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		for tick, q := range series {
			if !yield(Sample{Body: body, Tick: tick, Q: q}) {
				return
			}
		}
	}
}

// Concat yields every sample of each sequence in turn.
func Concat(seqs ...iter.Seq[Sample]) iter.Seq[Sample] {
	return func(yield func(Sample) bool) {
		for _, seq := range seqs {
			for s := range seq {
				if !yield(s) {
					return
				}
			}
		}
	}
}

// MaxTilt folds over samples and returns the largest absolute tilt angle.
// A NaN angle (non-finite orientation) wins over every number. It returns ErrNoSamples for an empty sequence.
func MaxTilt(samples iter.Seq[Sample]) (TiltResult, error) {
	var res TiltResult
	found := false
	for s := range samples {
		a := math.Abs(geom.TiltAngle(s.Q))
		if !found || a > res.MaxAngle || (math.IsNaN(a) && !math.IsNaN(res.MaxAngle)) {
			res = TiltResult{MaxAngle: a, Body: s.Body, Tick: s.Tick}
			found = true
		}
	}
	if !found {
		return TiltResult{}, ErrNoSamples
	}
	return res, nil
}

// EvaluateTilt returns the worst tilt over the robot series followed by the
// object series. Either series may be empty, but not both.
func EvaluateTilt(robot, object []quat.Number) (TiltResult, error) {
	return MaxTilt(Concat(
		Samples(Robot, slices.All(robot)),
		Samples(Object, slices.All(object)),
	))
}

// TiltAngles returns the tilt angle of every sample in series, in degrees.
func TiltAngles(series []quat.Number) []float64 {
	out := make([]float64, len(series))
	for i, q := range series {
		out[i] = geom.TiltAngle(q)
	}
	return out
}
