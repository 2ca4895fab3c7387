package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	req := require.New(t)
	c, err := Open(t.TempDir())
	req.NoError(err)

	path := "/project/src/app.ts"
	content := []byte("import React from 'react';\n")

	req.False(c.Clean(path, content), "empty cache should not report clean")

	req.NoError(c.MarkClean(path, content))
	req.True(c.Clean(path, content), "recorded content should be clean")

	req.False(c.Clean(path, []byte("import React from 'react'; // edited\n")),
		"changed content must invalidate the entry")
	req.False(c.Clean("/project/src/other.ts", content),
		"entries must not leak across paths")
}

func TestCacheSamePathUpdated(t *testing.T) {
	req := require.New(t)
	c, err := Open(t.TempDir())
	req.NoError(err)

	path := "/project/src/app.ts"
	first := []byte("const a = 1;\n")
	second := []byte("const a = 2;\n")

	req.NoError(c.MarkClean(path, first))
	req.NoError(c.MarkClean(path, second))

	req.False(c.Clean(path, first), "stale digest should be replaced")
	req.True(c.Clean(path, second))
}

func TestCacheDrop(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	c, err := Open(dir)
	req.NoError(err)

	content := []byte("import './x';\n")
	req.NoError(c.MarkClean("/a.ts", content))
	req.NoError(c.MarkClean("/b.ts", content))

	req.NoError(c.Drop())
	req.False(c.Clean("/a.ts", content))
	req.False(c.Clean("/b.ts", content))

	dents, err := os.ReadDir(dir)
	req.NoError(err)
	req.Empty(dents, "drop should remove the entry files")
}

func TestCacheNilReceiver(t *testing.T) {
	req := require.New(t)
	var c *Cache

	req.False(c.Clean("/a.ts", []byte("x")))
	req.NoError(c.MarkClean("/a.ts", []byte("x")))
	req.NoError(c.Drop())
}

func TestOpenDefaultDir(t *testing.T) {
	req := require.New(t)
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)

	c, err := Open("")
	req.NoError(err)
	req.NoError(c.MarkClean("/a.ts", []byte("x")))

	dents, err := os.ReadDir(filepath.Join(base, "jig"))
	req.NoError(err)
	req.Len(dents, 1)
	req.Equal(".mp", filepath.Ext(dents[0].Name()))
}
