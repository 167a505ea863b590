// Package testutil provides shared fixtures for building simulation logs in
// tests.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/simcheck/internal/config"
	"github.com/banshee-data/simcheck/internal/geom"
)

// Tick is one simulation sample of both tracked bodies.
type Tick struct {
	Robot  quat.Number
	Object quat.Number
	ObjPos r3.Vec
}

// IdentityTicks returns n ticks with both bodies upright at the origin.
func IdentityTicks(n int) []Tick {
	ticks := make([]Tick, n)
	for i := range ticks {
		ticks[i] = Tick{Robot: geom.Identity(), Object: geom.Identity()}
	}
	return ticks
}

// Signals flattens ticks into the signal table a logger would write, using
// the default signal names.
func Signals(ticks []Tick) map[string][]float64 {
	s := make(map[string][]float64)
	add := func(name string, v float64) { s[name] = append(s[name], v) }
	for _, tk := range ticks {
		addQuat(add, config.DefaultRobotOrientationPrefix, tk.Robot)
		addQuat(add, config.DefaultObjectOrientationPrefix, tk.Object)
		add(config.DefaultObjectPositionPrefix+"x", tk.ObjPos.X)
		add(config.DefaultObjectPositionPrefix+"y", tk.ObjPos.Y)
		add(config.DefaultObjectPositionPrefix+"z", tk.ObjPos.Z)
	}
	return s
}

func addQuat(add func(string, float64), prefix string, q quat.Number) {
	add(prefix+"w", q.Real)
	add(prefix+"x", q.Imag)
	add(prefix+"y", q.Jmag)
	add(prefix+"z", q.Kmag)
}

// CSV renders signals as a CSV log with the given delimiter. Columns are
// sorted by name; NaN renders as an empty cell.
func CSV(signals map[string][]float64, delim rune) string {
	names := make([]string, 0, len(signals))
	rows := 0
	for name, s := range signals {
		names = append(names, name)
		rows = max(rows, len(s))
	}
	sort.Strings(names)

	sep := string(delim)
	var b strings.Builder
	b.WriteString(strings.Join(names, sep))
	b.WriteByte('\n')
	for i := 0; i < rows; i++ {
		cells := make([]string, len(names))
		for j, name := range names {
			if v := signals[name][i]; !math.IsNaN(v) {
				cells[j] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		b.WriteString(strings.Join(cells, sep))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteCSVLog writes ticks as a ';'-delimited CSV log under dir and returns
// its path.
func WriteCSVLog(t testing.TB, dir, name string, ticks []Tick) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(CSV(Signals(ticks), ';')), 0644); err != nil {
		t.Fatalf("write log fixture: %v", err)
	}
	return path
}
