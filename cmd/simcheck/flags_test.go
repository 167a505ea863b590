package main

import (
	"flag"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Float64("tilting-angle-thre", 30, "")
	fs.Var(&vec3Flag{}, "expected-obj-pos", "")
	fs.Var(&vec3Flag{}, "obj-pos-thre", "")
	fs.Bool("quiet", false, "")
	return fs
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		flags      []string
		positional []string
	}{
		{
			name:       "log first, python style",
			args:       []string{"run.csv", "--tilting-angle-thre", "20", "--expected-obj-pos", "1.0", "-0.5", "0.8"},
			flags:      []string{"--tilting-angle-thre", "20", "--expected-obj-pos=1.0,-0.5,0.8"},
			positional: []string{"run.csv"},
		},
		{
			name:       "log last",
			args:       []string{"--obj-pos-thre", "0.1", "0.2", "0.3", "--quiet", "run.csv"},
			flags:      []string{"--obj-pos-thre=0.1,0.2,0.3", "--quiet"},
			positional: []string{"run.csv"},
		},
		{
			name:       "comma form",
			args:       []string{"--expected-obj-pos", "1,2,3", "run.csv"},
			flags:      []string{"--expected-obj-pos=1,2,3"},
			positional: []string{"run.csv"},
		},
		{
			name:       "equals form passes through",
			args:       []string{"-tilting-angle-thre=12", "run.csv"},
			flags:      []string{"-tilting-angle-thre=12"},
			positional: []string{"run.csv"},
		},
		{
			name:       "double dash ends flags",
			args:       []string{"--quiet", "--", "-odd-name.csv"},
			flags:      []string{"--quiet"},
			positional: []string{"-odd-name.csv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, positional, err := splitArgs(testFlagSet(), tt.args)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.flags, flags); diff != "" {
				t.Errorf("flags mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.positional, positional); diff != "" {
				t.Errorf("positional mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitArgs_VectorArity(t *testing.T) {
	_, _, err := splitArgs(testFlagSet(), []string{"run.csv", "--expected-obj-pos", "1", "2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects 3 values")
}

func TestVec3Flag(t *testing.T) {
	var f vec3Flag
	assert.Equal(t, "", f.String())

	require.NoError(t, f.Set("1, -2.5,3e-1"))
	assert.Equal(t, &[3]float64{1, -2.5, 0.3}, f.v)
	assert.Equal(t, "1,-2.5,0.3", f.String())

	assert.Error(t, f.Set("1,2"))
	assert.Error(t, f.Set("1,2,x"))
}
