// Package logger prints diagnostic output for the MedVault CLI. With
// --verbose the ingestion pipeline narrates what it is doing to
// stderr; errors from detached background work are printed always,
// since they have no caller to return to.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose mode is on.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output, mainly for tests. Defaults to
// os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// emit writes one prefixed line. Caller decides whether verbosity
// gates it.
func emit(gated bool, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	fmt.Fprintf(output, prefix+format+"\n", args...)
}

// Debug prints a message when verbose mode is on.
func Debug(format string, args ...any) {
	emit(true, "[DEBUG] ", format, args...)
}

// Info prints a message when verbose mode is on.
func Info(format string, args ...any) {
	emit(true, "[INFO] ", format, args...)
}

// Warn prints a warning when verbose mode is on.
func Warn(format string, args ...any) {
	emit(true, "[WARN] ", format, args...)
}

// Section prints a header when verbose mode is on, to group the
// pipeline output per stage.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Error prints regardless of verbose mode.
func Error(format string, args ...any) {
	emit(false, "[ERROR] ", format, args...)
}
