// Package cache persists per-file digests of content that is already
// correctly grouped, so unchanged files can be skipped on later runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// schemaVersion invalidates existing entries when the on-disk format or the
// grouping rules change.
const schemaVersion = 2

// entry is the on-disk payload for a single source file.
type entry struct {
	Schema int    `msgpack:"schema"`
	Digest string `msgpack:"digest"`
}

// Cache is a disk-backed set of file digests. A nil *Cache is valid and
// behaves as a cache that never hits. Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a cache rooted at dir, falling back to the standard
// user cache location when dir is empty.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		d, err := defaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func defaultDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "jig"), nil
}

// Clean reports whether content matches the recorded digest for path,
// meaning the file was already grouped on a previous run.
func (c *Cache) Clean(path string, content []byte) bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(path))
	if err != nil {
		return false
	}
	defer f.Close()

	var e entry
	if err := msgpack.NewDecoder(f).Decode(&e); err != nil {
		return false
	}
	return e.Schema == schemaVersion && e.Digest == contentDigest(content)
}

// MarkClean records content as the known-good state of path. Errors are
// returned so callers can warn, but a failed write only costs a rescan.
func (c *Cache) MarkClean(path string, content []byte) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(path)
	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	e := entry{Schema: schemaVersion, Digest: contentDigest(content)}
	if err := msgpack.NewEncoder(f).Encode(&e); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Drop removes every entry, forcing a full rescan on the next run.
func (c *Cache) Drop() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	dents, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, d := range dents {
		if d.IsDir() || filepath.Ext(d.Name()) != ".mp" {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, d.Name())); err != nil {
			return err
		}
	}
	return nil
}

// pathFor derives the entry file for a source path from a hash of its
// absolute form, so unrelated trees never collide on relative names.
func (c *Cache) pathFor(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])[:16]+".mp")
}

func contentDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
