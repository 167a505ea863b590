// Package report renders per-tick tilt angles as a PNG plot or an
// interactive HTML chart.
package report

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/banshee-data/simcheck/internal/check"
)

// Series is the tilt trajectory of one tracked body.
type Series struct {
	Name   string
	Angles []float64 // [deg], one per tick; NaN marks unusable samples
}

// TiltData is what both renderers draw.
type TiltData struct {
	Title     string
	Threshold float64 // [deg]
	Series    []Series
}

// FromReport collects the tilt trajectories of a check run.
func FromReport(title string, rep *check.Report) TiltData {
	return TiltData{
		Title:     title,
		Threshold: rep.TiltVerdict.Threshold,
		Series: []Series{
			{Name: check.Robot.String(), Angles: rep.RobotAngles},
			{Name: check.Object.String(), Angles: rep.ObjectAngles},
		},
	}
}

// Worst returns the tick and angle of the largest finite sample.
// ok is false when the series has no finite samples.
func (s Series) Worst() (tick int, angle float64, ok bool) {
	idx := make([]int, 0, len(s.Angles))
	vals := make([]float64, 0, len(s.Angles))
	for i, a := range s.Angles {
		if !math.IsNaN(a) && !math.IsInf(a, 0) {
			idx = append(idx, i)
			vals = append(vals, a)
		}
	}
	if len(vals) == 0 {
		return 0, 0, false
	}
	i := floats.MaxIdx(vals)
	return idx[i], vals[i], true
}

// Ticks returns the length of the longest series.
func (d TiltData) Ticks() int {
	n := 0
	for _, s := range d.Series {
		n = max(n, len(s.Angles))
	}
	return n
}
