// Package monitoring holds the diagnostic logger shared by simcheck packages.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf
// (stderr) so it never mixes with check results on stdout. Replace it with
// SetLogger.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
