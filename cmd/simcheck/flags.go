package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// vec3Flag holds an optional X Y Z triple. It accepts "x,y,z"; splitArgs
// rewrites the space separated command-line form into that.
type vec3Flag struct {
	v *[3]float64
}

func (f *vec3Flag) String() string {
	if f == nil || f.v == nil {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g", f.v[0], f.v[1], f.v[2])
}

func (f *vec3Flag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("expected 3 values, got %d", len(parts))
	}
	var v [3]float64
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("invalid float '%s': %w", p, err)
		}
		v[i] = x
	}
	f.v = &v
	return nil
}

// vectorFlags take three values on the command line.
var vectorFlags = map[string]bool{
	"expected-obj-pos": true,
	"obj-pos-thre":     true,
}

// splitArgs separates positional arguments from flags so the log path may
// come before or after them, and joins the three values following a vector
// flag into a single "x,y,z" token. Values that look like negative numbers
// are consumed as values, not flags.
func splitArgs(fs *flag.FlagSet, args []string) (flagArgs, positional []string, err error) {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(a) < 2 || a[0] != '-' {
			positional = append(positional, a)
			continue
		}

		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") {
			flagArgs = append(flagArgs, a)
			continue
		}

		if vectorFlags[name] {
			if i+1 < len(args) && strings.Contains(args[i+1], ",") {
				flagArgs = append(flagArgs, a+"="+args[i+1])
				i++
				continue
			}
			if len(args)-i-1 < 3 {
				return nil, nil, fmt.Errorf("flag -%s expects 3 values", name)
			}
			flagArgs = append(flagArgs, a+"="+strings.Join(args[i+1:i+4], ","))
			i += 3
			continue
		}

		flagArgs = append(flagArgs, a)
		if f := fs.Lookup(name); f != nil && !isBoolFlag(f) && i+1 < len(args) {
			flagArgs = append(flagArgs, args[i+1])
			i++
		}
	}
	return flagArgs, positional, nil
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
