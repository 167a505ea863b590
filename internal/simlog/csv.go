package simlog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrEmptyLog is returned for a CSV log without a header row.
var ErrEmptyLog = errors.New("log has no header")

// ReadCSV parses a CSV log: one header row of signal names followed by one
// row per tick. Both ';' (the logger's converter default) and ',' are
// accepted; the delimiter is taken from the header line. Empty cells read as
// NaN.
func ReadCSV(r io.Reader, source string) (*Log, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: %w", source, ErrEmptyLog)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s header: %w", source, err)
	}

	names := make([]string, len(header))
	signals := make(map[string][]float64, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			return nil, fmt.Errorf("%s: column %d has an empty name", source, i+1)
		}
		if _, dup := signals[name]; dup {
			return nil, fmt.Errorf("%s: duplicate signal %q", source, name)
		}
		names[i] = name
		signals[name] = nil
	}

	for tick := 0; ; tick++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", source, err)
		}
		for i, cell := range rec {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("%s: tick %d, signal %q: %w", source, tick, names[i], err)
			}
			signals[names[i]] = append(signals[names[i]], v)
		}
	}

	return New(source, signals)
}

func detectDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}
