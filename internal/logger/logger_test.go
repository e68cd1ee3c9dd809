package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects log output to a buffer and restores the package
// state when the test ends.
func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	capture(t, false)

	assert.False(t, IsVerbose())
	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestVerboseLevels(t *testing.T) {
	buf := capture(t, true)

	Debug("extracted %d pages", 3)
	Info("stored %d chunks", 12)
	Warn("summary provider %s skipped", "gemini")
	Section("Chunking")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] extracted 3 pages\n")
	assert.Contains(t, out, "[INFO] stored 12 chunks\n")
	assert.Contains(t, out, "[WARN] summary provider gemini skipped\n")
	assert.Contains(t, out, "\n=== Chunking ===\n")
}

func TestVerboseLevelsSilentByDefault(t *testing.T) {
	buf := capture(t, false)

	Debug("extracted %d pages", 3)
	Info("stored %d chunks", 12)
	Warn("summary provider skipped")
	Section("Chunking")

	assert.Zero(t, buf.Len(), "gated levels must stay quiet without --verbose")
}

func TestErrorAlwaysPrints(t *testing.T) {
	buf := capture(t, false)

	Error("summary failed for %s", "doc-1")

	assert.Equal(t, "[ERROR] summary failed for doc-1\n", buf.String())
}

func TestConcurrentUse(t *testing.T) {
	capture(t, false)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(true)
			Debug("worker %d", n)
			IsVerbose()
			SetVerbose(false)
		}(i)
	}
	wg.Wait()
}
