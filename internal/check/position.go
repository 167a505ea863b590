package check

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/simcheck/internal/geom"
)

// PositionVerdict is the outcome of the final object position check.
type PositionVerdict struct {
	Last      r3.Vec // measured final position [m]
	Expected  r3.Vec
	Tolerance r3.Vec
	Deviation r3.Vec // |Last - Expected| per axis
	Passed    bool
}

// EvaluatePosition compares the last sample of positions with expected.
// A nil expected skips the check and returns a nil verdict. The check passes
// when every axis deviation is strictly below that axis's tolerance.
func EvaluatePosition(positions []r3.Vec, expected *r3.Vec, tolerance r3.Vec) (*PositionVerdict, error) {
	if expected == nil {
		return nil, nil
	}
	if len(positions) == 0 {
		return nil, ErrNoSamples
	}

	last := positions[len(positions)-1]
	dev := geom.AbsDiff(last, *expected)
	return &PositionVerdict{
		Last:      last,
		Expected:  *expected,
		Tolerance: tolerance,
		Deviation: dev,
		Passed:    geom.StrictlyWithin(dev, tolerance),
	}, nil
}
