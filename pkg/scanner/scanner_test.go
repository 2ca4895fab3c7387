package scanner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tidescript/js-imports-group/pkg/formatter"
)

// scanOne scans src and requires exactly one block with one declaration
func scanOne(t *testing.T, src string) formatter.Declaration {
	t.Helper()
	req := require.New(t)
	blocks, err := ScanBlocks([]byte(src))
	req.NoError(err)
	req.Len(blocks, 1, "expected one block")
	req.Len(blocks[0], 1, "expected one declaration")
	return blocks[0][0]
}

func TestScanBlocksForms(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		stmt     string // expected span text; defaults to src
		expected formatter.Declaration
	}{
		{
			name: "side effect import",
			src:  `import './styles.css';`,
			expected: formatter.Declaration{
				Kind:        formatter.SideEffect,
				Source:      "./styles.css",
				SingleQuote: true,
			},
		},
		{
			name: "default import",
			src:  `import React from 'react';`,
			expected: formatter.Declaration{
				Kind:        formatter.Default,
				Source:      "react",
				Bindings:    []formatter.Binding{{ImportedName: "React"}},
				SingleQuote: true,
			},
		},
		{
			name: "double quoted source",
			src:  `import React from "react";`,
			expected: formatter.Declaration{
				Kind:     formatter.Default,
				Source:   "react",
				Bindings: []formatter.Binding{{ImportedName: "React"}},
			},
		},
		{
			name: "namespace import",
			src:  `import * as path from 'node:path';`,
			expected: formatter.Declaration{
				Kind:        formatter.Namespace,
				Source:      "node:path",
				Bindings:    []formatter.Binding{{ImportedName: "path"}},
				SingleQuote: true,
			},
		},
		{
			name: "named imports with alias",
			src:  `import { request as call, Response } from './api';`,
			expected: formatter.Declaration{
				Kind:   formatter.Named,
				Source: "./api",
				Bindings: []formatter.Binding{
					{ImportedName: "request", Alias: "call"},
					{ImportedName: "Response"},
				},
				SingleQuote: true,
			},
		},
		{
			name: "unspaced braces",
			src:  `import {a,b} from './x';`,
			expected: formatter.Declaration{
				Kind:   formatter.Named,
				Source: "./x",
				Bindings: []formatter.Binding{
					{ImportedName: "a"},
					{ImportedName: "b"},
				},
				SingleQuote: true,
			},
		},
		{
			name: "no spaces at all",
			src:  `import{a}from'./x';`,
			expected: formatter.Declaration{
				Kind:        formatter.Named,
				Source:      "./x",
				Bindings:    []formatter.Binding{{ImportedName: "a"}},
				SingleQuote: true,
			},
		},
		{
			name: "trailing comma",
			src:  `import { a, b, } from './x';`,
			expected: formatter.Declaration{
				Kind:   formatter.Named,
				Source: "./x",
				Bindings: []formatter.Binding{
					{ImportedName: "a"},
					{ImportedName: "b"},
				},
				SingleQuote: true,
			},
		},
		{
			name: "multiline named list",
			src:  "import {\n  b,\n  a,\n} from './x';",
			expected: formatter.Declaration{
				Kind:   formatter.Named,
				Source: "./x",
				Bindings: []formatter.Binding{
					{ImportedName: "b"},
					{ImportedName: "a"},
				},
				SingleQuote: true,
			},
		},
		{
			name: "empty named list",
			src:  `import {} from './x';`,
			expected: formatter.Declaration{
				Kind:        formatter.Named,
				Source:      "./x",
				SingleQuote: true,
			},
		},
		{
			name: "type-only named statement",
			src:  `import type { User } from './models';`,
			expected: formatter.Declaration{
				Kind:        formatter.Named,
				Source:      "./models",
				Bindings:    []formatter.Binding{{ImportedName: "User"}},
				TypeOnly:    true,
				SingleQuote: true,
			},
		},
		{
			name: "per-binding type marker",
			src:  `import { type Config, loadConfig } from './config';`,
			expected: formatter.Declaration{
				Kind:   formatter.Named,
				Source: "./config",
				Bindings: []formatter.Binding{
					{ImportedName: "Config", TypeOnly: true},
					{ImportedName: "loadConfig"},
				},
				SingleQuote: true,
			},
		},
		{
			name: "type-only default import",
			src:  `import type Props from './props';`,
			expected: formatter.Declaration{
				Kind:        formatter.Default,
				Source:      "./props",
				Bindings:    []formatter.Binding{{ImportedName: "Props"}},
				TypeOnly:    true,
				SingleQuote: true,
			},
		},
		{
			name: "type-only namespace import",
			src:  `import type * as T from './types';`,
			expected: formatter.Declaration{
				Kind:        formatter.Namespace,
				Source:      "./types",
				Bindings:    []formatter.Binding{{ImportedName: "T"}},
				TypeOnly:    true,
				SingleQuote: true,
			},
		},
		{
			name: "default binding named type",
			src:  `import type from './schema';`,
			expected: formatter.Declaration{
				Kind:        formatter.Default,
				Source:      "./schema",
				Bindings:    []formatter.Binding{{ImportedName: "type"}},
				SingleQuote: true,
			},
		},
		{
			name: "default named type with named tail",
			src:  `import type, { x } from './schema';`,
			expected: formatter.Declaration{
				Kind:   formatter.Default,
				Source: "./schema",
				Bindings: []formatter.Binding{
					{ImportedName: "type"},
					{ImportedName: "x"},
				},
				SingleQuote: true,
			},
		},
		{
			name: "binding named type aliased",
			src:  `import { type as kind } from './meta';`,
			expected: formatter.Declaration{
				Kind:        formatter.Named,
				Source:      "./meta",
				Bindings:    []formatter.Binding{{ImportedName: "type", Alias: "kind"}},
				SingleQuote: true,
			},
		},
		{
			name: "hybrid default import",
			src:  `import App, { helper, apiClient } from './app';`,
			expected: formatter.Declaration{
				Kind:   formatter.Default,
				Source: "./app",
				Bindings: []formatter.Binding{
					{ImportedName: "App"},
					{ImportedName: "helper"},
					{ImportedName: "apiClient"},
				},
				SingleQuote: true,
			},
		},
		{
			name: "default export re-imported by alias",
			src:  `import { default as App } from './app';`,
			expected: formatter.Declaration{
				Kind:        formatter.Named,
				Source:      "./app",
				Bindings:    []formatter.Binding{{ImportedName: "default", Alias: "App"}},
				SingleQuote: true,
			},
		},
		{
			name: "missing semicolon",
			src:  `import { a } from './x'`,
			expected: formatter.Declaration{
				Kind:        formatter.Named,
				Source:      "./x",
				Bindings:    []formatter.Binding{{ImportedName: "a"}},
				SingleQuote: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			got := scanOne(t, tt.src)

			stmt := tt.stmt
			if stmt == "" {
				stmt = tt.src
			}
			req.Equal(stmt, string([]byte(tt.src)[got.Start:got.End]), "span does not cover the statement")

			// spans are position-dependent; compare the rest field by field
			req.Equal(tt.expected.Kind, got.Kind)
			req.Equal(tt.expected.Source, got.Source)
			req.Equal(tt.expected.Bindings, got.Bindings)
			req.Equal(tt.expected.TypeOnly, got.TypeOnly)
			req.Equal(tt.expected.SingleQuote, got.SingleQuote)
			req.False(got.Unsupported, "unexpected unsupported marking")
			req.Empty(got.Comment)
		})
	}
}

func TestScanBlocksGrouping(t *testing.T) {
	t.Run("adjacent and blank-line separated imports share a block", func(t *testing.T) {
		req := require.New(t)
		src := "import a from './a';\nimport b from './b';\n\n\nimport c from './c';\n"
		blocks, err := ScanBlocks([]byte(src))
		req.NoError(err)
		req.Len(blocks, 1)
		req.Len(blocks[0], 3)
	})

	t.Run("code between imports starts a new block", func(t *testing.T) {
		req := require.New(t)
		src := "import a from './a';\n\nconst x = 1;\n\nimport b from './b';\n"
		blocks, err := ScanBlocks([]byte(src))
		req.NoError(err)
		req.Len(blocks, 2)
		req.Equal("./a", blocks[0][0].Source)
		req.Equal("./b", blocks[1][0].Source)
	})

	t.Run("standalone comment between imports starts a new block", func(t *testing.T) {
		req := require.New(t)
		src := "import a from './a';\n// section two\nimport b from './b';\n"
		blocks, err := ScanBlocks([]byte(src))
		req.NoError(err)
		req.Len(blocks, 2)
	})

	t.Run("two imports on one line share a block", func(t *testing.T) {
		req := require.New(t)
		src := "import './a'; import './b';\n"
		blocks, err := ScanBlocks([]byte(src))
		req.NoError(err)
		req.Len(blocks, 1)
		req.Len(blocks[0], 2)
	})

	t.Run("directive prologue before the block", func(t *testing.T) {
		req := require.New(t)
		src := "'use client';\n\nimport { a } from './a';\n"
		blocks, err := ScanBlocks([]byte(src))
		req.NoError(err)
		req.Len(blocks, 1)
		req.False(blocks[0][0].Unsupported)
	})

	t.Run("no imports", func(t *testing.T) {
		req := require.New(t)
		blocks, err := ScanBlocks([]byte("const x = 1;\nexport default x;\n"))
		req.NoError(err)
		req.Empty(blocks)
	})

	t.Run("empty source", func(t *testing.T) {
		req := require.New(t)
		blocks, err := ScanBlocks(nil)
		req.NoError(err)
		req.Empty(blocks)
	})
}

func TestScanBlocksIgnores(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "import inside braces",
			src:  "function load() {\n  import std from 'std';\n}\n",
		},
		{
			name: "dynamic import",
			src:  "const mod = await import('./mod');\n",
		},
		{
			name: "import meta",
			src:  "const url = import.meta.url;\n",
		},
		{
			name: "member access import",
			src:  "System.import('./legacy');\n",
		},
		{
			name: "identifier containing the keyword",
			src:  "importantWork();\n",
		},
		{
			name: "keyword in a string",
			src:  "const s = \"import x from 'y'\";\n",
		},
		{
			name: "keyword in a template literal",
			src:  "const s = `\nimport x from 'y'\n`;\n",
		},
		{
			name: "keyword in a line comment",
			src:  "// import x from 'y'\n",
		},
		{
			name: "keyword in a block comment",
			src:  "/*\nimport x from 'y'\n*/\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			blocks, err := ScanBlocks([]byte(tt.src))
			req.NoError(err)
			req.Empty(blocks, "expected no import declarations")
		})
	}
}

func TestScanBlocksUnsupported(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "default plus namespace",
			src:  `import d, * as ns from './x';`,
		},
		{
			name: "import equals assignment",
			src:  `import fs = require('fs');`,
		},
		{
			name: "clause without from",
			src:  `import { a } './x';`,
		},
		{
			name: "string import name",
			src:  `import { 'weird-name' as w } from './x';`,
		},
		{
			name: "comment inside the clause",
			src:  `import { a /* inline */ } from './x';`,
		},
		{
			name: "comment before the clause",
			src:  `import /* what */ { a } from './x';`,
		},
		{
			name: "multi-line trailing comment",
			src:  "import { a } from './x'; /* first\nsecond */",
		},
		{
			name: "content left of the statement",
			src:  `const x = 1; import { a } from './y';`,
		},
		{
			name: "content right of the statement",
			src:  `import { a } from './x'; const y = 2;`,
		},
		{
			name: "assertion clause",
			src:  `import data from './d.json' assert { type: 'json' };`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			blocks, err := ScanBlocks([]byte(tt.src))
			req.NoError(err)
			req.Len(blocks, 1)

			unsupported := false
			for _, d := range blocks[0] {
				unsupported = unsupported || d.Unsupported
			}
			req.True(unsupported, "expected the block to carry an unsupported declaration")
		})
	}
}

func TestScanBlocksTrailingComments(t *testing.T) {
	t.Run("line comment", func(t *testing.T) {
		req := require.New(t)
		d := scanOne(t, "import { a } from './x'; // note\n")
		req.Equal("// note", d.Comment)
		req.False(d.Unsupported)
	})

	t.Run("block comment", func(t *testing.T) {
		req := require.New(t)
		d := scanOne(t, "import { a } from './x'; /* note */\n")
		req.Equal("/* note */", d.Comment)
		req.False(d.Unsupported)
	})

	t.Run("crlf line comment is trimmed", func(t *testing.T) {
		req := require.New(t)
		d := scanOne(t, "import { a } from './x'; // note\r\n")
		req.Equal("// note", d.Comment)
	})

	t.Run("comment does not split the block", func(t *testing.T) {
		req := require.New(t)
		src := "import { a } from './a'; // one\nimport { b } from './b'; // two\n"
		blocks, err := ScanBlocks([]byte(src))
		req.NoError(err)
		req.Len(blocks, 1)
		req.Len(blocks[0], 2)
		req.Equal("// one", blocks[0][0].Comment)
		req.Equal("// two", blocks[0][1].Comment)
	})
}

func TestScanBlocksErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "unterminated source string",
			src:  "import { a } from './x\nconst y = 1;\n",
		},
		{
			name: "missing source after from",
			src:  "import { a } from",
		},
		{
			name: "missing comma between bindings",
			src:  "import { a b } from './x';",
		},
		{
			name: "unterminated clause",
			src:  "import { a, b",
		},
		{
			name: "namespace without as",
			src:  "import * path from './x';",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			_, err := ScanBlocks([]byte(tt.src))
			req.Error(err)
			req.Contains(err.Error(), "offset")
		})
	}
}
