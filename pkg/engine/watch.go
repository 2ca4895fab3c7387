package engine

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tidescript/js-imports-group/pkg/utils"
)

// debounceDelay batches rapid editor saves into one pass.
const debounceDelay = 200 * time.Millisecond

// batcher coalesces file events into debounced batches. Every add restarts
// the debounce window; when the window elapses the pending paths become one
// batch. run delivers batches one at a time, in the order their windows
// closed.
type batcher struct {
	delay time.Duration
	kick  chan struct{}

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

func newBatcher(delay time.Duration) *batcher {
	return &batcher{
		delay:   delay,
		kick:    make(chan struct{}, 1),
		pending: make(map[string]bool),
	}
}

// add schedules path for the next batch and restarts the debounce window.
func (b *batcher) add(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[path] = true
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.delay, b.signal)
}

// signal marks a batch ready without blocking the timer goroutine.
func (b *batcher) signal() {
	select {
	case b.kick <- struct{}{}:
	default:
	}
}

// take removes and returns the pending paths in sorted order.
func (b *batcher) take() []string {
	b.mu.Lock()
	files := make([]string, 0, len(b.pending))
	for f := range b.pending {
		files = append(files, f)
	}
	b.pending = make(map[string]bool)
	b.mu.Unlock()

	sort.Strings(files)
	return files
}

// run delivers debounced batches to handle until ctx is cancelled. Batches
// are handed out only here, never concurrently.
func (b *batcher) run(ctx context.Context, handle func([]string)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.kick:
			if files := b.take(); len(files) > 0 {
				handle(files)
			}
		}
	}
}

// Watch reprocesses source files under paths as they change, calling notify
// with each file's result, until ctx is cancelled. Rewrites made by the
// watcher itself trigger one more pass over the same file; that pass finds
// nothing left to change.
func Watch(ctx context.Context, paths []string, opts Options, notify func(FileResult)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Explicit files are watched via their parent directory; events for
	// sibling files in it must not widen the run's scope.
	var roots []string
	explicit := make(map[string]bool)

	for _, p := range paths {
		isDir, err := utils.IsDirectory(p)
		if err != nil {
			return err
		}
		if isDir {
			if err := addRecursive(watcher, p, opts.Exclude); err != nil {
				return err
			}
			roots = append(roots, filepath.Clean(p))
			continue
		}
		if err := watcher.Add(filepath.Dir(p)); err != nil {
			return err
		}
		explicit[filepath.Clean(p)] = true
	}

	inScope := func(name string) bool {
		name = filepath.Clean(name)
		if explicit[name] {
			return true
		}
		for _, root := range roots {
			if name == root || strings.HasPrefix(name, root+string(filepath.Separator)) {
				return true
			}
		}
		return false
	}

	// Batches drain on one goroutine; results from consecutive bursts never
	// interleave. Watch waits for an in-flight batch before returning.
	b := newBatcher(debounceDelay)
	wctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.run(wctx, func(files []string) {
			for _, f := range files {
				notify(processFile(f, opts))
			}
		})
	}()
	defer func() {
		cancel()
		<-done
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if isDir, err := utils.IsDirectory(event.Name); err == nil && isDir {
				if event.Has(fsnotify.Create) && inScope(event.Name) &&
					!utils.SkipDir(filepath.Base(event.Name), opts.Exclude) {
					_ = addRecursive(watcher, event.Name, opts.Exclude)
				}
				continue
			}
			if !inScope(event.Name) {
				continue
			}
			if !utils.IsSourceFile(event.Name, opts.Extensions) ||
				utils.Excluded(filepath.Base(event.Name), opts.Exclude) {
				continue
			}

			b.add(event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			notify(FileResult{Err: err})
		}
	}
}

// addRecursive watches dir and every subdirectory worth descending into.
func addRecursive(watcher *fsnotify.Watcher, dir string, exclude []string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && utils.SkipDir(filepath.Base(path), exclude) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
