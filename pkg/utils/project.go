package utils

import (
	"os"
	"path/filepath"
)

// rootMarkers identify a project root, checked in order at each level.
var rootMarkers = []string{"jig.yml", "jig.yaml", "package.json"}

// FindProjectRoot walks up from start and returns the first directory
// containing a jig config file or a package.json
func FindProjectRoot(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	if ok, err := IsDirectory(dir); err != nil || !ok {
		dir = filepath.Dir(dir)
	}

	maxIterations := 40 // Prevent infinite loop
	for i := 0; i < maxIterations; i++ {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}
