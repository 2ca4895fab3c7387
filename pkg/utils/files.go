package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// skipDirs are directories never worth descending into, on top of whatever
// the exclude list adds.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
}

// IsSourceFile checks if a file has one of the configured source extensions
func IsSourceFile(filename string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FindSourceFiles recursively finds all matching source files in a directory
func FindSourceFiles(root string, extensions, exclude []string) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Skip dependency, output and hidden directories (but not the root directory)
		if info.IsDir() && path != root {
			if SkipDir(filepath.Base(path), exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.IsDir() {
			name := filepath.Base(path)
			if IsSourceFile(name, extensions) && !Excluded(name, exclude) {
				files = append(files, path)
			}
		}

		return nil
	})

	return files, err
}

// SkipDir reports whether a directory should be skipped when walking a tree
func SkipDir(name string, exclude []string) bool {
	return skipDirs[name] || strings.HasPrefix(name, ".") || matchesAny(name, exclude)
}

// Excluded reports whether a file name matches one of the exclude patterns
func Excluded(name string, exclude []string) bool {
	return matchesAny(name, exclude)
}

// IsDirectory checks if the given path is a directory
func IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// matchesAny reports whether name equals or glob-matches any of the patterns
func matchesAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if p == name {
			return true
		}
		if ok, err := filepath.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
