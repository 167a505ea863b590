package config

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/simcheck/internal/fsutil"
)

// DefaultConfigPath is the path to the canonical thresholds file shipped with
// the repository. Its values match the built-in defaults below.
const DefaultConfigPath = "config/thresholds.defaults.json"

// Built-in defaults, used for any field a config file leaves out.
const (
	DefaultTiltingAngleThre        = 30.0 // [deg]
	DefaultObjPosThre              = 0.25 // [m], every axis
	DefaultRobotOrientationPrefix  = "FloatingBase_orientation_"
	DefaultObjectOrientationPrefix = "ManipManager_objPose_measured_q"
	DefaultObjectPositionPrefix    = "ManipManager_objPose_measured_t"
)

const maxConfigSize = 1 * 1024 * 1024 // 1MB

// Thresholds configures the simulation checks. All fields are optional;
// the Get* methods fall back to the defaults.
type Thresholds struct {
	// Check limits
	TiltingAngleThre *float64    `json:"tilting_angle_thre,omitempty"` // [deg]
	ExpectedObjPos   *[3]float64 `json:"expected_obj_pos,omitempty"`   // [m]; nil skips the position check
	ObjPosThre       *[3]float64 `json:"obj_pos_thre,omitempty"`       // [m] per axis

	// Signal naming
	RobotOrientationPrefix  *string `json:"robot_orientation_prefix,omitempty"`
	ObjectOrientationPrefix *string `json:"object_orientation_prefix,omitempty"`
	ObjectPositionPrefix    *string `json:"object_position_prefix,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrVec(v r3.Vec) *[3]float64   { return &[3]float64{v.X, v.Y, v.Z} }

// DefaultThresholds returns a Thresholds with every field set to its default.
func DefaultThresholds() *Thresholds {
	return &Thresholds{
		TiltingAngleThre:        ptrFloat64(DefaultTiltingAngleThre),
		ObjPosThre:              ptrVec(r3.Vec{X: DefaultObjPosThre, Y: DefaultObjPosThre, Z: DefaultObjPosThre}),
		RobotOrientationPrefix:  ptrString(DefaultRobotOrientationPrefix),
		ObjectOrientationPrefix: ptrString(DefaultObjectOrientationPrefix),
		ObjectPositionPrefix:    ptrString(DefaultObjectPositionPrefix),
	}
}

// LoadThresholds loads a Thresholds from a JSON file on fsys.
// The path must have a .json extension and the file must be under 1MB.
func LoadThresholds(fsys fsutil.FileSystem, path string) (*Thresholds, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	t := &Thresholds{}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return t, nil
}

// Validate rejects malformed values: NaN or infinite numbers and empty
// signal prefixes. Any finite threshold is accepted; the checks judge it.
func (t *Thresholds) Validate() error {
	if t.TiltingAngleThre != nil && !isFinite(*t.TiltingAngleThre) {
		return fmt.Errorf("tilting_angle_thre must be finite, got %g", *t.TiltingAngleThre)
	}
	for _, vec := range []struct {
		name string
		v    *[3]float64
	}{
		{"expected_obj_pos", t.ExpectedObjPos},
		{"obj_pos_thre", t.ObjPosThre},
	} {
		if vec.v == nil {
			continue
		}
		for i, v := range vec.v {
			if !isFinite(v) {
				return fmt.Errorf("%s[%d] must be finite, got %g", vec.name, i, v)
			}
		}
	}
	for _, p := range []struct {
		name string
		v    *string
	}{
		{"robot_orientation_prefix", t.RobotOrientationPrefix},
		{"object_orientation_prefix", t.ObjectOrientationPrefix},
		{"object_position_prefix", t.ObjectPositionPrefix},
	} {
		if p.v != nil && *p.v == "" {
			return fmt.Errorf("%s must not be empty", p.name)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Merge overlays every field set in o onto t.
func (t *Thresholds) Merge(o *Thresholds) {
	if o == nil {
		return
	}
	if o.TiltingAngleThre != nil {
		t.TiltingAngleThre = o.TiltingAngleThre
	}
	if o.ExpectedObjPos != nil {
		t.ExpectedObjPos = o.ExpectedObjPos
	}
	if o.ObjPosThre != nil {
		t.ObjPosThre = o.ObjPosThre
	}
	if o.RobotOrientationPrefix != nil {
		t.RobotOrientationPrefix = o.RobotOrientationPrefix
	}
	if o.ObjectOrientationPrefix != nil {
		t.ObjectOrientationPrefix = o.ObjectOrientationPrefix
	}
	if o.ObjectPositionPrefix != nil {
		t.ObjectPositionPrefix = o.ObjectPositionPrefix
	}
}

// GetTiltingAngleThre returns the tilt threshold in degrees.
func (t *Thresholds) GetTiltingAngleThre() float64 {
	if t.TiltingAngleThre == nil {
		return DefaultTiltingAngleThre
	}
	return *t.TiltingAngleThre
}

// GetExpectedObjPos returns the expected final object position, or nil when
// the position check is disabled.
func (t *Thresholds) GetExpectedObjPos() *r3.Vec {
	if t.ExpectedObjPos == nil {
		return nil
	}
	p := t.ExpectedObjPos
	return &r3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

// GetObjPosThre returns the per-axis position tolerance.
func (t *Thresholds) GetObjPosThre() r3.Vec {
	if t.ObjPosThre == nil {
		return r3.Vec{X: DefaultObjPosThre, Y: DefaultObjPosThre, Z: DefaultObjPosThre}
	}
	p := t.ObjPosThre
	return r3.Vec{X: p[0], Y: p[1], Z: p[2]}
}

func (t *Thresholds) GetRobotOrientationPrefix() string {
	if t.RobotOrientationPrefix == nil {
		return DefaultRobotOrientationPrefix
	}
	return *t.RobotOrientationPrefix
}

func (t *Thresholds) GetObjectOrientationPrefix() string {
	if t.ObjectOrientationPrefix == nil {
		return DefaultObjectOrientationPrefix
	}
	return *t.ObjectOrientationPrefix
}

func (t *Thresholds) GetObjectPositionPrefix() string {
	if t.ObjectPositionPrefix == nil {
		return DefaultObjectPositionPrefix
	}
	return *t.ObjectPositionPrefix
}
