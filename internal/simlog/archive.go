package simlog

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/simcheck/internal/timeutil"
)

// ErrUnknownRun is returned when a run ID is not present in the archive.
var ErrUnknownRun = errors.New("unknown run")

// Archive stores imported logs in a SQLite file, one row per
// (run, signal, tick). Several runs can share one archive.
type Archive struct {
	*sql.DB
	// Clock stamps imported runs.
	Clock timeutil.Clock
}

// RunInfo describes one archived run.
type RunInfo struct {
	ID       string
	Name     string
	Source   string
	Ticks    int
	Imported time.Time
}

// OpenArchive opens or creates the archive at path and applies migrations.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	// migrate and queries share a single handle
	db.SetMaxOpenConns(1)

	a := &Archive{DB: db, Clock: timeutil.RealClock{}}
	if err := a.migrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("archive %s: %w", path, err)
	}
	return a, nil
}

// openArchiveReadOnly opens an existing archive for reading. It never
// migrates or writes; files without the run schema are rejected with
// ErrUnknownFormat.
func openArchiveReadOnly(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	a := &Archive{DB: db, Clock: timeutil.RealClock{}}
	if err := a.checkSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

func readOnlyDSN(path string) string {
	esc := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23").Replace(path)
	return "file:" + esc + "?mode=ro"
}

// checkSchema verifies that the run tables exist.
func (a *Archive) checkSchema() error {
	var n int
	err := a.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name IN ('runs', 'samples')`,
	).Scan(&n)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	if n != 2 {
		return fmt.Errorf("%w: not a run archive", ErrUnknownFormat)
	}
	return nil
}

// Import stores l as a new run and returns its ID.
func (a *Archive) Import(name string, l *Log) (string, error) {
	id := uuid.NewString()

	tx, err := a.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO runs (run_id, name, source, ticks, imported_ns) VALUES (?, ?, ?, ?, ?)`,
		id, name, l.Source, l.Ticks(), a.Clock.Now().UnixNano(),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO samples (run_id, signal, tick, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, signal := range l.Names() {
		for tick, v := range l.signals[signal] {
			// SQLite has no NaN; store it as NULL
			var value interface{} = v
			if math.IsNaN(v) {
				value = nil
			}
			if _, err := stmt.Exec(id, signal, tick, value); err != nil {
				return "", fmt.Errorf("insert %s[%d]: %w", signal, tick, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// Runs lists archived runs, most recent first.
func (a *Archive) Runs() ([]RunInfo, error) {
	rows, err := a.Query(`SELECT run_id, name, source, ticks, imported_ns FROM runs ORDER BY imported_ns DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var r RunInfo
		var importedNs int64
		if err := rows.Scan(&r.ID, &r.Name, &r.Source, &r.Ticks, &importedNs); err != nil {
			return nil, err
		}
		r.Imported = time.Unix(0, importedNs).UTC()
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRun returns the ID of the most recently imported run.
func (a *Archive) LatestRun() (string, error) {
	var id string
	err := a.QueryRow(`SELECT run_id FROM runs ORDER BY imported_ns DESC, rowid DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: archive has no runs", ErrUnknownRun)
	}
	return id, err
}

// Load reads a run back as a Log.
func (a *Archive) Load(runID string) (*Log, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownRun, runID, err)
	}

	var source string
	var ticks int
	err := a.QueryRow(`SELECT source, ticks FROM runs WHERE run_id = ?`, runID).Scan(&source, &ticks)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w %q", ErrUnknownRun, runID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := a.Query(`SELECT signal, tick, value FROM samples WHERE run_id = ? ORDER BY signal, tick`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	signals := make(map[string][]float64)
	for rows.Next() {
		var signal string
		var tick int
		var value sql.NullFloat64
		if err := rows.Scan(&signal, &tick, &value); err != nil {
			return nil, err
		}
		s, ok := signals[signal]
		if !ok {
			s = make([]float64, ticks)
			signals[signal] = s
		}
		if tick < 0 || tick >= ticks {
			return nil, fmt.Errorf("run %s: %s tick %d outside [0, %d)", runID, signal, tick, ticks)
		}
		s[tick] = math.NaN()
		if value.Valid {
			s[tick] = value.Float64
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return New(fmt.Sprintf("%s#%s", source, runID), signals)
}
