// Package simlog loads recorded simulation logs as named, equal-length
// numeric series, one sample per simulation tick.
package simlog

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/simcheck/internal/geom"
)

var (
	// ErrMissingSignal is returned when a requested signal is not in the log.
	ErrMissingSignal = errors.New("missing signal")
	// ErrRaggedLog is returned when signals in one log differ in length.
	ErrRaggedLog = errors.New("signals have unequal lengths")
)

// Log is a table of signals keyed by name. All signals have Ticks samples.
type Log struct {
	Source  string
	signals map[string][]float64
	ticks   int
}

// New builds a Log from signals, checking that every signal has the same
// number of samples. The map is retained, not copied.
func New(source string, signals map[string][]float64) (*Log, error) {
	l := &Log{Source: source, signals: signals}
	first := true
	for _, name := range l.Names() {
		n := len(signals[name])
		if first {
			l.ticks = n
			first = false
			continue
		}
		if n != l.ticks {
			return nil, fmt.Errorf("%s: %w: %q has %d samples, expected %d", source, ErrRaggedLog, name, n, l.ticks)
		}
	}
	return l, nil
}

// Ticks returns the number of samples per signal.
func (l *Log) Ticks() int { return l.ticks }

// Names returns the signal names in lexical order.
func (l *Log) Names() []string {
	names := make([]string, 0, len(l.signals))
	for name := range l.signals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Signal returns the samples recorded under name. The slice is shared with
// the log and must not be modified.
func (l *Log) Signal(name string) ([]float64, error) {
	s, ok := l.signals[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w %q", l.Source, ErrMissingSignal, name)
	}
	return s, nil
}

// Quaternions assembles the orientation series stored under prefix+"w",
// prefix+"x", prefix+"y" and prefix+"z".
func (l *Log) Quaternions(prefix string) ([]quat.Number, error) {
	cols, err := l.components(prefix, "w", "x", "y", "z")
	if err != nil {
		return nil, err
	}
	out := make([]quat.Number, l.ticks)
	for i := range out {
		out[i] = geom.Quaternion(cols[0][i], cols[1][i], cols[2][i], cols[3][i])
	}
	return out, nil
}

// Positions assembles the position series stored under prefix+"x",
// prefix+"y" and prefix+"z".
func (l *Log) Positions(prefix string) ([]r3.Vec, error) {
	cols, err := l.components(prefix, "x", "y", "z")
	if err != nil {
		return nil, err
	}
	out := make([]r3.Vec, l.ticks)
	for i := range out {
		out[i] = r3.Vec{X: cols[0][i], Y: cols[1][i], Z: cols[2][i]}
	}
	return out, nil
}

func (l *Log) components(prefix string, suffixes ...string) ([][]float64, error) {
	cols := make([][]float64, len(suffixes))
	for i, s := range suffixes {
		col, err := l.Signal(prefix + s)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return cols, nil
}
