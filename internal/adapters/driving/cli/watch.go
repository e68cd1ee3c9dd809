package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/medvault-labs/medvault-cli/internal/logger"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and auto-ingest new documents",
	Long: `Watch a directory for new or changed files and ingest them into
the vault automatically. Writes are debounced so a file still being
copied is only ingested once it settles.

Hidden files and editor temp files are ignored. Duplicate content is
detected by hash, so re-ingesting an unchanged file is a no-op.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second, "settle time before ingesting a changed file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch %s: not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Shutdown path

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	owner := currentOwner()
	cmd.Printf("Watching %s for documents (owner: %s). Ctrl-C to stop.\n", dir, owner)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Pending timers, one per path. A new event on the same path
	// resets its timer, so a file is only ingested once it settles.
	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
	)

	ingestPath := func(path string) {
		mu.Lock()
		delete(pending, path)
		mu.Unlock()

		result, err := ingestService.IngestFile(context.Background(), owner, path)
		if err != nil {
			logger.Warn("Failed to ingest %s: %v", path, err)
			return
		}
		if result.AlreadyExists {
			logger.Debug("Skipped %s: already in the vault", path)
			return
		}
		cmd.Printf("Ingested %s as %s (%d chunks)\n", path, result.Document.ID, result.ChunkCount)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if skipWatchPath(event.Name) {
				continue
			}

			mu.Lock()
			if timer, exists := pending[event.Name]; exists {
				timer.Reset(watchDebounce)
			} else {
				path := event.Name
				pending[path] = time.AfterFunc(watchDebounce, func() { ingestPath(path) })
			}
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-sigCh:
			cmd.Println("Stopping watch...")
			mu.Lock()
			for _, timer := range pending {
				timer.Stop()
			}
			mu.Unlock()
			ingestService.Wait()
			return nil
		}
	}
}

// skipWatchPath filters out files that are never documents: hidden
// files, editor temp files, and directories.
func skipWatchPath(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".tmp") {
		return true
	}
	info, err := os.Stat(path)
	if err != nil {
		// Gone already (temp file removed); nothing to ingest.
		return true
	}
	return info.IsDir()
}
