package check

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// Exit codes reported by Outcome.
const (
	ExitPass   = 0
	ExitFailed = 1
)

// Tag prefixes every result line after the [success]/[error] marker.
const Tag = "[simcheck]"

// TiltVerdict is the outcome of the tilt check.
type TiltVerdict struct {
	MaxAngle  float64 // [deg]
	Threshold float64 // [deg]
	Passed    bool
}

// JudgeTilt passes when maxAngle does not exceed threshold. NaN never passes.
func JudgeTilt(maxAngle, threshold float64) TiltVerdict {
	return TiltVerdict{
		MaxAngle:  maxAngle,
		Threshold: threshold,
		Passed:    maxAngle <= threshold,
	}
}

// Message renders the tilt result line.
func (v TiltVerdict) Message() string {
	if v.Passed {
		return fmt.Sprintf("[success]%s max_tilting_angle is below the threshold: %.1f <= ±%.1f [deg]",
			Tag, v.MaxAngle, v.Threshold)
	}
	return fmt.Sprintf("[error]%s max_tilting_angle exceeds the threshold: %.1f > ±%.1f [deg]",
		Tag, v.MaxAngle, v.Threshold)
}

// Message renders the position result line.
func (v PositionVerdict) Message() string {
	if v.Passed {
		return fmt.Sprintf("[success]%s last_obj_pos is within the expected range: %s <= %s ± %s [m]",
			Tag, formatVec(v.Last), formatVec(v.Expected), formatVec(v.Tolerance))
	}
	return fmt.Sprintf("[error]%s last_obj_pos is outside the expected range: %s > %s ± %s [m]",
		Tag, formatVec(v.Last), formatVec(v.Expected), formatVec(v.Tolerance))
}

func formatVec(v r3.Vec) string {
	return fmt.Sprintf("[%.2f %.2f %.2f]", v.X, v.Y, v.Z)
}

// Outcome accumulates check results. It is a value: each Add returns a new
// Outcome and leaves the receiver untouched.
type Outcome struct {
	failed   bool
	messages []string
}

// NewOutcome returns an Outcome with no recorded checks.
func NewOutcome() Outcome { return Outcome{} }

// AddTilt records the tilt verdict.
func (o Outcome) AddTilt(v TiltVerdict) Outcome {
	return o.add(v.Passed, v.Message())
}

// AddPosition records the position verdict. A nil verdict means the check
// was skipped and changes nothing.
func (o Outcome) AddPosition(v *PositionVerdict) Outcome {
	if v == nil {
		return o
	}
	return o.add(v.Passed, v.Message())
}

func (o Outcome) add(passed bool, msg string) Outcome {
	return Outcome{
		failed:   o.failed || !passed,
		messages: append(slices.Clip(o.messages), msg),
	}
}

// Failed reports whether any recorded check failed.
func (o Outcome) Failed() bool { return o.failed }

// ExitCode is ExitFailed if any recorded check failed, else ExitPass.
func (o Outcome) ExitCode() int {
	if o.failed {
		return ExitFailed
	}
	return ExitPass
}

// Messages returns one line per recorded check, in recording order.
func (o Outcome) Messages() []string {
	return slices.Clone(o.messages)
}

// Aggregate combines the tilt verdict and the optional position verdict,
// tilt first.
func Aggregate(tilt TiltVerdict, position *PositionVerdict) Outcome {
	return NewOutcome().AddTilt(tilt).AddPosition(position)
}
