package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hupe1980/facetfilter/internal/filter"
)

// RunFunc is called each time the watcher triggers a re-evaluation.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult summarises one evaluation for the status line.
type RunResult struct {
	// Visible is the number of visible leaf entities.
	Visible int
	// Total is the number of leaf entities.
	Total int
	// Changes are the filter changes since the previous run.
	Changes []filter.Change
}

// Options configures the watch behaviour.
type Options struct {
	// Files are the files whose changes trigger a run.
	Files []string

	// Debounce is the quiet period before triggering a run.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 300 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received. One run happens immediately.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	if len(opts.Files) == 0 {
		return fmt.Errorf("no files to watch")
	}

	targets, err := resolveTargets(opts.Files)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for dir := range parentDirs(targets) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %q: %w", dir, err)
		}
	}

	// Trap SIGINT / SIGTERM for graceful shutdown.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %d file(s) (debounce=%s)\n", len(targets), opts.Debounce)

	doRun(sigCtx, opts, runFn, "(initial)")

	debouncer := NewDebouncer(opts.Debounce, func(paths []string) {
		doRun(sigCtx, opts, runFn, triggerLabel(paths))
	})
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, targets) {
				continue
			}

			opts.Logger.Debug("file changed",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)

			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// doRun executes a single evaluation and prints the status line.
func doRun(ctx context.Context, opts Options, runFn RunFunc, trigger string) {
	now := time.Now().Format("15:04:05")

	result, err := runFn(ctx)
	if err != nil {
		fmt.Fprintf(opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	fmt.Fprintf(opts.Out, "[%s] %s → OK (%d of %d visible)\n",
		now, trigger, result.Visible, result.Total)

	if len(result.Changes) > 0 {
		fmt.Fprintf(opts.Out, "  filters: %s\n", filter.DiffSummary(result.Changes))
	}
}

// resolveTargets returns the absolute, cleaned paths of files.
func resolveTargets(files []string) (map[string]struct{}, error) {
	targets := make(map[string]struct{}, len(files))

	for _, f := range files {
		if f == "" {
			continue
		}

		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving file %q: %w", f, err)
		}

		targets[filepath.Clean(abs)] = struct{}{}
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	return targets, nil
}

func parentDirs(targets map[string]struct{}) map[string]struct{} {
	dirs := make(map[string]struct{}, len(targets))
	for t := range targets {
		dirs[filepath.Dir(t)] = struct{}{}
	}

	return dirs
}

// isRelevant keeps write, create, remove and rename events on target files.
// Staging files written next to a target are ignored.
func isRelevant(event fsnotify.Event, targets map[string]struct{}) bool {
	if event.Op == 0 {
		return false
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	_, ok := targets[filepath.Clean(abs)]

	return ok
}

// triggerLabel names the files of a burst for the status line.
func triggerLabel(paths []string) string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}

	return strings.Join(names, ", ")
}
