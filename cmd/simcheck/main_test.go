package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/simcheck/internal/fsutil"
	"github.com/banshee-data/simcheck/internal/geom"
	"github.com/banshee-data/simcheck/internal/monitoring"
	"github.com/banshee-data/simcheck/internal/simlog"
	"github.com/banshee-data/simcheck/internal/testutil"
)

func runCLI(t *testing.T, args ...string) (int, []string, string) {
	t.Helper()
	original := monitoring.Logf
	t.Cleanup(func() { monitoring.Logf = original })

	var stdout, stderr bytes.Buffer
	code := run(fsutil.OSFileSystem{}, append(args, "--quiet"), &stdout, &stderr)
	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	if stdout.Len() == 0 {
		lines = nil
	}
	return code, lines, stderr.String()
}

func TestRun_IdentityLogPasses(t *testing.T) {
	path := testutil.WriteCSVLog(t, t.TempDir(), "identity.csv", testutil.IdentityTicks(50))

	code, lines, _ := runCLI(t, path)

	assert.Equal(t, exitOK, code)
	assert.Equal(t, []string{
		"[simcheck] Load " + path,
		"[success][simcheck] max_tilting_angle is below the threshold: 0.0 <= ±30.0 [deg]",
	}, lines)
}

func TestRun_TiltedRobotTickFails(t *testing.T) {
	ticks := testutil.IdentityTicks(50)
	ticks[17].Robot = geom.AxisAngle(r3.Vec{Y: 1}, 45)
	path := testutil.WriteCSVLog(t, t.TempDir(), "tilted.csv", ticks)

	code, lines, _ := runCLI(t, path, "--tilting-angle-thre", "30")

	assert.Equal(t, exitFailed, code)
	require.Len(t, lines, 2)
	assert.Equal(t, "[error][simcheck] max_tilting_angle exceeds the threshold: 45.0 > ±30.0 [deg]", lines[1])
}

func TestRun_PositionCheck(t *testing.T) {
	ticks := testutil.IdentityTicks(10)
	ticks[9].ObjPos = r3.Vec{X: 0.3}
	path := testutil.WriteCSVLog(t, t.TempDir(), "pos.csv", ticks)

	t.Run("fails but tilt still reported", func(t *testing.T) {
		code, lines, _ := runCLI(t, path, "--expected-obj-pos", "0", "0", "0")
		assert.Equal(t, exitFailed, code)
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[1], "[success]"))
		assert.Equal(t,
			"[error][simcheck] last_obj_pos is outside the expected range: [0.30 0.00 0.00] > [0.00 0.00 0.00] ± [0.25 0.25 0.25] [m]",
			lines[2])
	})

	t.Run("passes with wider tolerance", func(t *testing.T) {
		code, lines, _ := runCLI(t, path, "--expected-obj-pos", "0", "0", "0", "--obj-pos-thre", "0.5", "0.25", "0.25")
		assert.Equal(t, exitOK, code)
		require.Len(t, lines, 3)
		assert.True(t, strings.HasPrefix(lines[2], "[success]"))
	})
}

func TestRun_FiniteThresholdsAreJudged(t *testing.T) {
	path := testutil.WriteCSVLog(t, t.TempDir(), "identity.csv", testutil.IdentityTicks(5))

	t.Run("negative tilt threshold", func(t *testing.T) {
		code, lines, _ := runCLI(t, path, "--tilting-angle-thre", "-1")
		assert.Equal(t, exitFailed, code)
		require.Len(t, lines, 2)
		assert.Equal(t, "[error][simcheck] max_tilting_angle exceeds the threshold: 0.0 > ±-1.0 [deg]", lines[1])
	})

	t.Run("tilt threshold above 180", func(t *testing.T) {
		code, lines, _ := runCLI(t, path, "--tilting-angle-thre", "200")
		assert.Equal(t, exitOK, code)
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[1], "[success]"))
	})

	t.Run("zero position tolerance", func(t *testing.T) {
		code, lines, _ := runCLI(t, path, "--expected-obj-pos", "0", "0", "0", "--obj-pos-thre", "0", "0", "0")
		assert.Equal(t, exitFailed, code)
		require.Len(t, lines, 3)
		assert.Equal(t,
			"[error][simcheck] last_obj_pos is outside the expected range: [0.00 0.00 0.00] > [0.00 0.00 0.00] ± [0.00 0.00 0.00] [m]",
			lines[2])
	})
}

func TestRun_ConfigFileAndOverride(t *testing.T) {
	dir := t.TempDir()
	ticks := testutil.IdentityTicks(5)
	ticks[2].Object = geom.AxisAngle(r3.Vec{X: 1}, 20)
	path := testutil.WriteCSVLog(t, dir, "run.csv", ticks)
	cfgPath := filepath.Join(dir, "thre.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"tilting_angle_thre": 15}`), 0644))

	code, lines, _ := runCLI(t, path, "--config", cfgPath)
	assert.Equal(t, exitFailed, code)
	assert.Contains(t, lines[1], "20.0 > ±15.0")

	code, lines, _ = runCLI(t, path, "--config", cfgPath, "--tilting-angle-thre", "25")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, lines[1], "20.0 <= ±25.0")
}

func TestRun_ArchiveLog(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "runs.db")
	a, err := simlog.OpenArchive(archivePath)
	require.NoError(t, err)
	l, err := simlog.New("sim.csv", testutil.Signals(testutil.IdentityTicks(8)))
	require.NoError(t, err)
	id, err := a.Import("nominal", l)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	code, lines, _ := runCLI(t, archivePath+"#"+id)
	assert.Equal(t, exitOK, code)
	assert.Len(t, lines, 2)
}

func TestRun_Reports(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteCSVLog(t, dir, "run.csv", testutil.IdentityTicks(5))
	pngPath := filepath.Join(dir, "out", "tilt.png")
	htmlPath := filepath.Join(dir, "out", "tilt.html")

	code, _, _ := runCLI(t, path, "--plot", pngPath, "--html", htmlPath)
	assert.Equal(t, exitOK, code)
	assert.FileExists(t, pngPath)
	assert.FileExists(t, htmlPath)
}

func TestRun_FatalErrorsPrintNoVerdicts(t *testing.T) {
	dir := t.TempDir()

	signals := testutil.Signals(testutil.IdentityTicks(3))
	delete(signals, "FloatingBase_orientation_z")
	missingSignal := filepath.Join(dir, "missing_signal.csv")
	require.NoError(t, os.WriteFile(missingSignal, []byte(testutil.CSV(signals, ';')), 0644))

	// a header-only log still names every signal
	headerOnly := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(headerOnly, []byte(testutil.CSV(emptySignals(), ';')), 0644))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"missing file", filepath.Join(dir, "nope.csv"), "no such file"},
		{"missing signal", missingSignal, "FloatingBase_orientation_z"},
		{"no ticks", headerOnly, "no samples"},
		{"unknown format", filepath.Join(dir, "run.bin"), "unknown log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, lines, stderr := runCLI(t, tt.path)
			assert.Equal(t, exitIOError, code)
			require.Len(t, lines, 1, "only the load line may be printed")
			assert.True(t, strings.HasPrefix(lines[0], "[simcheck] Load"))
			assert.Contains(t, stderr, tt.wantErr)
		})
	}
}

func emptySignals() map[string][]float64 {
	s := testutil.Signals(testutil.IdentityTicks(1))
	for name := range s {
		s[name] = nil
	}
	return s
}

func TestRun_UsageErrors(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteCSVLog(t, dir, "run.csv", testutil.IdentityTicks(2))
	badCfg := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badCfg, []byte(`{"robot_orientation_prefix": ""}`), 0644))

	tests := []struct {
		name string
		args []string
	}{
		{"no log", nil},
		{"two logs", []string{path, path}},
		{"bad float", []string{path, "--tilting-angle-thre", "abc"}},
		{"short vector", []string{path, "--expected-obj-pos", "1", "2"}},
		{"non numeric vector", []string{path, "--obj-pos-thre", "a", "b", "c"}},
		{"unknown flag", []string{path, "--frobnicate"}},
		{"NaN tolerance", []string{path, "--obj-pos-thre", "nan", "0.1", "0.1"}},
		{"infinite tilt threshold", []string{path, "--tilting-angle-thre", "inf"}},
		{"invalid config", []string{path, "--config", badCfg}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, lines, _ := runCLI(t, tt.args...)
			assert.Equal(t, exitUsage, code)
			assert.Empty(t, lines)
		})
	}
}

func TestRun_Version(t *testing.T) {
	code, lines, _ := runCLI(t, "--version")
	assert.Equal(t, exitOK, code)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "simcheck dev"))
}
