package simlog

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/simcheck/internal/fsutil"
	"github.com/banshee-data/simcheck/internal/monitoring"
)

// ErrUnknownFormat is returned when a log path has no recognised extension.
var ErrUnknownFormat = errors.New("unknown log format")

// runSeparator splits an archive path from a run ID: "runs.db#<run-id>".
const runSeparator = "#"

// Open loads the log at path from the local filesystem.
func Open(path string) (*Log, error) {
	return OpenFS(fsutil.OSFileSystem{}, path)
}

// OpenFS loads a log, choosing the reader from the file extension:
// ".csv" for CSV logs and ".db", ".sqlite" or ".sqlite3" for a run archive.
// Archive paths may name a run as "archive.db#<run-id>"; without one the most
// recently imported run is loaded. Archives are always read from the local
// disk since the SQLite driver opens files itself.
func OpenFS(fsys fsutil.FileSystem, path string) (*Log, error) {
	if archivePath, runID, ok := splitArchivePath(path); ok {
		return loadFromArchive(archivePath, runID)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		data, err := fsys.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("open log: %w", err)
		}
		l, err := ReadCSV(bytes.NewReader(data), path)
		if err != nil {
			return nil, err
		}
		monitoring.Logf("loaded %s: %d signals, %d ticks", path, len(l.signals), l.ticks)
		return l, nil
	default:
		return nil, fmt.Errorf("%s: %w (want .csv, .db, .sqlite)", path, ErrUnknownFormat)
	}
}

func isArchiveExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func splitArchivePath(path string) (archivePath, runID string, ok bool) {
	if isArchiveExt(path) {
		return path, "", true
	}
	if i := strings.LastIndex(path, runSeparator); i > 0 && isArchiveExt(path[:i]) {
		return path[:i], path[i+len(runSeparator):], true
	}
	return "", "", false
}

func loadFromArchive(path, runID string) (*Log, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	a, err := openArchiveReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	if runID == "" {
		if runID, err = a.LatestRun(); err != nil {
			return nil, err
		}
	}
	l, err := a.Load(runID)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("loaded run %s from %s: %d signals, %d ticks", runID, path, len(l.signals), l.ticks)
	return l, nil
}
