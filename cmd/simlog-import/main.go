// Command simlog-import copies CSV simulation logs into a SQLite run archive
// that simcheck can read as "archive.db#<run-id>".
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/simcheck/internal/simlog"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("simlog-import", flag.ContinueOnError)
	fs.SetOutput(stderr)
	archivePath := fs.String("archive", "", "path to the sqlite run archive (created if missing)")
	name := fs.String("name", "", "label for the imported run (default: log file name)")
	list := fs.Bool("list", false, "list archived runs instead of importing")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *archivePath == "" {
		fmt.Fprintln(stderr, "-archive is required")
		return 2
	}
	if !*list && fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: simlog-import -archive runs.db [-name label] <log-file>")
		return 2
	}

	a, err := simlog.OpenArchive(*archivePath)
	if err != nil {
		fmt.Fprintf(stderr, "open archive: %v\n", err)
		return 3
	}
	defer a.Close()

	if *list {
		runs, err := a.Runs()
		if err != nil {
			fmt.Fprintf(stderr, "list runs: %v\n", err)
			return 3
		}
		for _, r := range runs {
			fmt.Fprintf(stdout, "%s\t%s\t%d ticks\t%s\t%s\n",
				r.ID, r.Imported.Format(time.RFC3339), r.Ticks, r.Name, r.Source)
		}
		return 0
	}

	logPath := fs.Arg(0)
	l, err := simlog.Open(logPath)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 3
	}
	label := *name
	if label == "" {
		label = filepath.Base(logPath)
	}
	id, err := a.Import(label, l)
	if err != nil {
		fmt.Fprintf(stderr, "import %s: %v\n", logPath, err)
		return 3
	}
	fmt.Fprintln(stdout, id)
	return 0
}
