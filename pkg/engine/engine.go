// Package engine walks source trees and regroups import blocks across many
// files in parallel.
package engine

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/tidescript/js-imports-group/pkg/cache"
	jigerrors "github.com/tidescript/js-imports-group/pkg/errors"
	"github.com/tidescript/js-imports-group/pkg/formatter"
	"github.com/tidescript/js-imports-group/pkg/scanner"
	"github.com/tidescript/js-imports-group/pkg/utils"
)

// Mode selects what happens to files whose imports need regrouping.
type Mode int

const (
	// ModePrint writes the regrouped content to the result instead of disk.
	ModePrint Mode = iota
	// ModeWrite rewrites files in place.
	ModeWrite
	// ModeCheck only reports which files would change.
	ModeCheck
)

// Options configures a processing run.
type Options struct {
	Mode       Mode
	Extensions []string
	Exclude    []string
	Jobs       int
	Cache      *cache.Cache
}

// FileResult is the outcome for a single file.
type FileResult struct {
	Path    string
	Changed bool   // imports were (or would be) regrouped
	Blocks  int    // import blocks rewritten
	Output  []byte // regrouped content, set in print mode
	Err     error
}

// Result aggregates a whole run.
type Result struct {
	Files   []FileResult
	Changed int
	Errors  int
}

// Process expands paths into source files and regroups each one's imports.
// File-level failures land in the per-file results; only path expansion and
// cancellation abort the run.
func Process(ctx context.Context, paths []string, opts Options) (*Result, error) {
	files, err := expandPaths(paths, opts.Extensions, opts.Exclude)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return &Result{}, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Indexes are unique per goroutine, no mutex needed
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = processFile(path, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Files: results}
	for i := range results {
		switch {
		case results[i].Err != nil:
			res.Errors++
		case results[i].Changed:
			res.Changed++
		}
	}
	return res, nil
}

// processFile runs the scan/group/rewrite pipeline on one file. Each call
// builds its own Sorter because collators are not safe to share.
func processFile(path string, opts Options) FileResult {
	res := FileResult{Path: path}

	src, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("%s: %s: %w", path, jigerrors.ErrMsgFailedToReadFile, err)
		return res
	}

	if opts.Cache.Clean(path, src) {
		if opts.Mode == ModePrint {
			res.Output = src
		}
		return res
	}

	blocks, err := scanner.ScanBlocks(src)
	if err != nil {
		res.Err = fmt.Errorf("%s: %s: %w", path, jigerrors.ErrMsgFailedToScanFile, err)
		return res
	}

	reps, err := formatter.New().SortSource(src, blocks)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", path, err)
		return res
	}

	if len(reps) == 0 {
		_ = opts.Cache.MarkClean(path, src)
		if opts.Mode == ModePrint {
			res.Output = src
		}
		return res
	}

	out := formatter.ApplyReplacements(src, reps)
	res.Changed = true
	res.Blocks = len(reps)

	switch opts.Mode {
	case ModeWrite:
		perm := os.FileMode(0o644)
		if info, err := os.Stat(path); err == nil {
			perm = info.Mode().Perm()
		}
		if err := os.WriteFile(path, out, perm); err != nil {
			res.Err = fmt.Errorf("%s: %s: %w", path, jigerrors.ErrMsgFailedToWriteFile, err)
			return res
		}
		_ = opts.Cache.MarkClean(path, out)
	case ModePrint:
		res.Output = out
	case ModeCheck:
		// report only; the file on disk still holds the old content
	}
	return res
}

// expandPaths resolves the argument list into a sorted, de-duplicated set of
// source files. Directories are walked; explicit files must carry one of the
// configured extensions.
func expandPaths(paths []string, extensions, exclude []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		isDir, err := utils.IsDirectory(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", p, jigerrors.ErrMsgFailedToCheckPath, err)
		}
		if isDir {
			found, err := utils.FindSourceFiles(p, extensions, exclude)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", p, jigerrors.ErrMsgFailedToFindFiles, err)
			}
			for _, f := range found {
				add(f)
			}
			continue
		}
		if !utils.IsSourceFile(p, extensions) {
			return nil, fmt.Errorf("%s: %s", p, jigerrors.ErrMsgNotASourceFile)
		}
		add(p)
	}

	sort.Strings(files)
	return files, nil
}
