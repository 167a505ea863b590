package check

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/simcheck/internal/config"
	"github.com/banshee-data/simcheck/internal/geom"
	"github.com/banshee-data/simcheck/internal/simlog"
	"github.com/banshee-data/simcheck/internal/testutil"
)

func mustLog(t *testing.T, ticks []testutil.Tick) *simlog.Log {
	t.Helper()
	l, err := simlog.New("fixture", testutil.Signals(ticks))
	require.NoError(t, err)
	return l
}

func TestRun_IdentityPasses(t *testing.T) {
	rep, err := Run(mustLog(t, testutil.IdentityTicks(20)), config.DefaultThresholds())
	require.NoError(t, err)

	assert.Equal(t, ExitPass, rep.Outcome.ExitCode())
	assert.Equal(t, []string{
		"[success][simcheck] max_tilting_angle is below the threshold: 0.0 <= ±30.0 [deg]",
	}, rep.Outcome.Messages())
	assert.Nil(t, rep.Position)
	assert.Len(t, rep.RobotAngles, 20)
	assert.Len(t, rep.ObjectAngles, 20)
}

func TestRun_TiltedRobotTickFails(t *testing.T) {
	ticks := testutil.IdentityTicks(10)
	ticks[6].Robot = geom.AxisAngle(r3.Vec{X: 1}, 45)

	rep, err := Run(mustLog(t, ticks), config.DefaultThresholds())
	require.NoError(t, err)

	assert.Equal(t, ExitFailed, rep.Outcome.ExitCode())
	msgs := rep.Outcome.Messages()
	require.Len(t, msgs, 1)
	assert.True(t, strings.HasPrefix(msgs[0], "[error]"))
	assert.Contains(t, msgs[0], "45.0 > ±30.0")
	assert.Equal(t, Robot, rep.Tilt.Body)
	assert.Equal(t, 6, rep.Tilt.Tick)
}

func TestRun_PositionCheck(t *testing.T) {
	ticks := testutil.IdentityTicks(5)
	ticks[4].ObjPos = r3.Vec{X: 1.0, Y: 0.5, Z: 0.8}

	cfg := config.DefaultThresholds()
	cfg.ExpectedObjPos = &[3]float64{1.1, 0.5, 0.8}

	rep, err := Run(mustLog(t, ticks), cfg)
	require.NoError(t, err)
	require.NotNil(t, rep.Position)
	assert.True(t, rep.Position.Passed)
	assert.Equal(t, ExitPass, rep.Outcome.ExitCode())
	assert.Len(t, rep.Outcome.Messages(), 2)

	cfg.ExpectedObjPos = &[3]float64{0, 0, 0}
	rep, err = Run(mustLog(t, ticks), cfg)
	require.NoError(t, err)
	assert.False(t, rep.Position.Passed)
	assert.Equal(t, ExitFailed, rep.Outcome.ExitCode())
	// tilt still reported first and still passing
	assert.True(t, strings.HasPrefix(rep.Outcome.Messages()[0], "[success]"))
	assert.True(t, strings.HasPrefix(rep.Outcome.Messages()[1], "[error]"))
}

func TestRun_Errors(t *testing.T) {
	t.Run("missing signal", func(t *testing.T) {
		signals := testutil.Signals(testutil.IdentityTicks(3))
		delete(signals, "ManipManager_objPose_measured_qx")
		l, err := simlog.New("fixture", signals)
		require.NoError(t, err)

		_, err = Run(l, config.DefaultThresholds())
		assert.ErrorIs(t, err, simlog.ErrMissingSignal)
	})

	t.Run("empty log", func(t *testing.T) {
		_, err := Run(mustLog(t, nil), config.DefaultThresholds())
		// no ticks: the signals themselves are absent
		assert.ErrorIs(t, err, simlog.ErrMissingSignal)
	})

	t.Run("header only", func(t *testing.T) {
		signals := testutil.Signals(testutil.IdentityTicks(1))
		for name := range signals {
			signals[name] = nil
		}
		l, err := simlog.New("fixture", signals)
		require.NoError(t, err)

		_, err = Run(l, config.DefaultThresholds())
		assert.ErrorIs(t, err, ErrNoSamples)
	})

	t.Run("custom prefixes", func(t *testing.T) {
		cfg := config.DefaultThresholds()
		prefix := "Robot_q"
		cfg.RobotOrientationPrefix = &prefix

		_, err := Run(mustLog(t, testutil.IdentityTicks(2)), cfg)
		assert.ErrorIs(t, err, simlog.ErrMissingSignal)
		assert.Contains(t, err.Error(), "Robot_qw")
	})
}
