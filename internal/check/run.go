package check

import (
	"fmt"

	"github.com/banshee-data/simcheck/internal/config"
	"github.com/banshee-data/simcheck/internal/monitoring"
	"github.com/banshee-data/simcheck/internal/simlog"
)

// Report is everything one run of the checks produces.
type Report struct {
	Tilt        TiltResult
	TiltVerdict TiltVerdict
	Position    *PositionVerdict // nil when the position check was skipped
	Outcome     Outcome

	// Per-tick tilt angles for plotting [deg].
	RobotAngles  []float64
	ObjectAngles []float64
}

// Run evaluates both checks against l. Errors mean no verdict could be
// produced: a required signal is missing or a series is empty.
func Run(l *simlog.Log, cfg *config.Thresholds) (*Report, error) {
	robot, err := l.Quaternions(cfg.GetRobotOrientationPrefix())
	if err != nil {
		return nil, err
	}
	object, err := l.Quaternions(cfg.GetObjectOrientationPrefix())
	if err != nil {
		return nil, err
	}
	positions, err := l.Positions(cfg.GetObjectPositionPrefix())
	if err != nil {
		return nil, err
	}

	tilt, err := EvaluateTilt(robot, object)
	if err != nil {
		return nil, fmt.Errorf("tilt check on %s: %w", l.Source, err)
	}
	monitoring.Logf("worst tilt %.3f deg: %s tick %d", tilt.MaxAngle, tilt.Body, tilt.Tick)

	pos, err := EvaluatePosition(positions, cfg.GetExpectedObjPos(), cfg.GetObjPosThre())
	if err != nil {
		return nil, fmt.Errorf("position check on %s: %w", l.Source, err)
	}
	if pos == nil {
		monitoring.Logf("no expected object position given, skipping position check")
	}

	tv := JudgeTilt(tilt.MaxAngle, cfg.GetTiltingAngleThre())
	return &Report{
		Tilt:         tilt,
		TiltVerdict:  tv,
		Position:     pos,
		Outcome:      Aggregate(tv, pos),
		RobotAngles:  TiltAngles(robot),
		ObjectAngles: TiltAngles(object),
	}, nil
}
