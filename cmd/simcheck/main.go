// Command simcheck validates a recorded simulation log: the robot and the
// manipulated object must never tilt beyond a threshold, and the object must
// end within a tolerance box around an expected position.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/banshee-data/simcheck/internal/check"
	"github.com/banshee-data/simcheck/internal/config"
	"github.com/banshee-data/simcheck/internal/fsutil"
	"github.com/banshee-data/simcheck/internal/monitoring"
	"github.com/banshee-data/simcheck/internal/report"
	"github.com/banshee-data/simcheck/internal/simlog"
	"github.com/banshee-data/simcheck/internal/version"
)

// Process exit codes.
const (
	exitOK      = check.ExitPass
	exitFailed  = check.ExitFailed
	exitUsage   = 2
	exitIOError = 3
)

func main() {
	os.Exit(run(fsutil.OSFileSystem{}, os.Args[1:], os.Stdout, os.Stderr))
}

func run(fsys fsutil.FileSystem, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("simcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)

	tiltThre := fs.Float64("tilting-angle-thre", config.DefaultTiltingAngleThre, "tilting angle threshold [deg]")
	var expectedPos, posThre vec3Flag
	fs.Var(&expectedPos, "expected-obj-pos", "expected object position X Y Z [m]; omit to skip the position check")
	fs.Var(&posThre, "obj-pos-thre", "object position threshold X Y Z [m] (default 0.25 0.25 0.25)")
	configPath := fs.String("config", "", "thresholds JSON file; explicit flags override it")
	plotPath := fs.String("plot", "", "write a PNG plot of the tilting angle per tick")
	htmlPath := fs.String("html", "", "write an interactive HTML chart of the tilting angle per tick")
	quiet := fs.Bool("quiet", false, "suppress diagnostic logging on stderr")
	showVersion := fs.Bool("version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: simcheck <log-file> [options]")
		fmt.Fprintln(stderr, "\nLog files: .csv, or a run archive (.db, .sqlite) optionally suffixed with #<run-id>.")
		fmt.Fprintln(stderr, "\nOptions:")
		fs.PrintDefaults()
	}

	flagArgs, positional, err := splitArgs(fs, args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		fs.Usage()
		return exitUsage
	}
	if err := fs.Parse(flagArgs); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintln(stdout, "simcheck", version.String())
		return exitOK
	}
	if len(positional) != 1 {
		fmt.Fprintf(stderr, "expected exactly one log file, got %d\n", len(positional))
		fs.Usage()
		return exitUsage
	}
	if *quiet {
		monitoring.SetLogger(nil)
	}

	cfg := config.DefaultThresholds()
	if *configPath != "" {
		fileCfg, err := config.LoadThresholds(fsys, *configPath)
		if err != nil {
			fmt.Fprintf(stderr, "%s %v\n", check.Tag, err)
			return exitUsage
		}
		cfg.Merge(fileCfg)
	}
	override := &config.Thresholds{
		ExpectedObjPos: expectedPos.v,
		ObjPosThre:     posThre.v,
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "tilting-angle-thre" {
			override.TiltingAngleThre = tiltThre
		}
	})
	cfg.Merge(override)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "%s invalid thresholds: %v\n", check.Tag, err)
		return exitUsage
	}

	logPath := positional[0]
	fmt.Fprintf(stdout, "%s Load %s\n", check.Tag, logPath)

	l, err := simlog.OpenFS(fsys, logPath)
	if err != nil {
		fmt.Fprintf(stderr, "%s %v\n", check.Tag, err)
		return exitIOError
	}
	rep, err := check.Run(l, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "%s %v\n", check.Tag, err)
		return exitIOError
	}

	for _, msg := range rep.Outcome.Messages() {
		fmt.Fprintln(stdout, msg)
	}
	code := rep.Outcome.ExitCode()

	if err := writeReports(fsys, *plotPath, *htmlPath, report.FromReport(filepath.Base(logPath), rep)); err != nil {
		monitoring.Logf("report: %v", err)
		if code == exitOK {
			code = exitIOError
		}
	}
	return code
}

func writeReports(fsys fsutil.FileSystem, plotPath, htmlPath string, d report.TiltData) error {
	var errs []error
	if plotPath != "" {
		if err := report.WritePNG(fsys, plotPath, d); err != nil {
			errs = append(errs, err)
		} else {
			monitoring.Logf("wrote tilt plot to %s", plotPath)
		}
	}
	if htmlPath != "" {
		if err := report.WriteHTML(fsys, htmlPath, d); err != nil {
			errs = append(errs, err)
		} else {
			monitoring.Logf("wrote tilt chart to %s", htmlPath)
		}
	}
	return errors.Join(errs...)
}
