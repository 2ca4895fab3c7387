// Package scanner extracts static import declarations from JavaScript and
// TypeScript sources. It works directly on bytes: strings, template literals
// and comments are skipped, import clauses are parsed at brace depth zero,
// and everything else is ignored. No AST is built and no module resolution
// happens.
package scanner

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/tidescript/js-imports-group/pkg/formatter"
)

// ScanBlocks scans src and returns its contiguous import blocks in source
// order. Declarations separated by nothing but whitespace belong to one
// block; any code or comment between statements starts a new block, so
// reordering never moves an import across other text.
func ScanBlocks(src []byte) ([][]formatter.Declaration, error) {
	if _, err := safecast.Conv[uint32](len(src)); err != nil {
		return nil, fmt.Errorf("source too large: %w", err)
	}
	s := &scanner{src: src}
	if err := s.run(); err != nil {
		return nil, err
	}
	s.flush()
	return s.blocks, nil
}

type scanner struct {
	src      []byte
	pos      int
	depth    int  // {} nesting; imports are recognized at depth 0 only
	consumed int  // position after the last declaration and its trailing comment
	stmtCmt  bool // a comment was skipped inside the current statement

	cur    []formatter.Declaration
	blocks [][]formatter.Declaration
}

func (s *scanner) run() error {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == '/' && s.peekAt(s.pos+1) == '/':
			s.skipLineComment()
		case c == '/' && s.peekAt(s.pos+1) == '*':
			s.skipBlockComment()
		case c == '\'' || c == '"' || c == '`':
			if err := s.skipString(c); err != nil {
				return err
			}
		case c == '{':
			s.depth++
			s.pos++
		case c == '}':
			if s.depth > 0 {
				s.depth--
			}
			s.pos++
		case c == 'i' && s.depth == 0 && s.wordAt(s.pos, "import"):
			start := s.pos
			decl, ok, err := s.parseImport()
			if err != nil {
				return err
			}
			if !ok {
				// dynamic import or import.meta; step past the keyword
				s.pos = start + len("import")
				continue
			}
			s.emit(decl, start)
		default:
			s.pos++
		}
	}
	return nil
}

// emit appends decl to the current block, or starts a new block when
// anything but whitespace separates it from the previous declaration.
func (s *scanner) emit(decl formatter.Declaration, start int) {
	if len(s.cur) > 0 && !whitespaceOnly(s.src[s.consumed:start]) {
		s.flush()
	}
	if len(s.cur) == 0 {
		// a fresh block must own its first line: content to the left of
		// the statement would be destroyed by a whole-line rewrite
		ls := start
		for ls > 0 && s.src[ls-1] != '\n' {
			ls--
		}
		if !whitespaceOnly(s.src[ls:start]) {
			decl.Unsupported = true
		}
	}
	s.cur = append(s.cur, decl)
	s.consumed = s.pos
}

func (s *scanner) flush() {
	if len(s.cur) > 0 {
		s.blocks = append(s.blocks, s.cur)
		s.cur = nil
	}
}

// parseImport parses one import statement starting at the "import" keyword.
// ok is false when the keyword introduces a dynamic import or import.meta
// rather than a declaration. The scanner position is only advanced when a
// declaration was parsed.
func (s *scanner) parseImport() (formatter.Declaration, bool, error) {
	var decl formatter.Declaration
	start := s.pos
	s.pos += len("import")
	s.stmtCmt = false

	s.skipSpacesAndComments()
	if s.pos >= len(s.src) {
		s.pos = start
		return decl, false, nil
	}

	switch c := s.src[s.pos]; {
	case c == '(' || c == '.':
		s.pos = start
		return decl, false, nil

	case c == '\'' || c == '"':
		source, single, err := s.parseString()
		if err != nil {
			return decl, false, err
		}
		decl.Kind = formatter.SideEffect
		decl.Source = source
		decl.SingleQuote = single

	default:
		clause, err := s.parseClause(&decl)
		if err != nil {
			return decl, false, err
		}
		if !clause {
			s.pos = start
			return decl, false, nil
		}
		s.skipSpacesAndComments()
		if !s.wordAt(s.pos, "from") {
			// "import x = require('y')" and other from-less clauses have
			// no record shape; keep the statement so its block is left
			// alone instead of failing the file
			decl.Unsupported = true
			s.skipToStatementEnd()
			s.finishStatement(&decl, start)
			return decl, true, nil
		}
		s.pos += len("from")
		s.skipSpacesAndComments()
		source, single, err := s.parseString()
		if err != nil {
			return decl, false, err
		}
		decl.Source = source
		decl.SingleQuote = single
	}

	s.finishStatement(&decl, start)
	if s.stmtCmt {
		// comments inside the statement have no slot in the regenerated
		// form; leave the whole block alone instead of dropping them
		decl.Unsupported = true
	}
	return decl, true, nil
}

// parseClause parses the binding clause between "import" and "from". It
// returns false when the text cannot be an import clause.
func (s *scanner) parseClause(decl *formatter.Declaration) (bool, error) {
	// "import type" prefixes the whole statement unless "type" is itself
	// the default binding name ("import type from ...", "import type, {...}")
	if s.wordAt(s.pos, "type") {
		save := s.pos
		s.pos += len("type")
		s.skipSpacesAndComments()
		next := s.peekAt(s.pos)
		if next == ',' || s.wordAt(s.pos, "from") {
			s.pos = save
		} else {
			decl.TypeOnly = true
		}
	}

	switch c := s.peekAt(s.pos); {
	case c == '*':
		name, err := s.parseNamespace()
		if err != nil {
			return false, err
		}
		decl.Kind = formatter.Namespace
		decl.Bindings = []formatter.Binding{{ImportedName: name}}
		return true, nil

	case c == '{':
		bindings, unsupported, err := s.parseNamedList()
		if err != nil {
			return false, err
		}
		decl.Kind = formatter.Named
		decl.Bindings = bindings
		decl.Unsupported = decl.Unsupported || unsupported
		return true, nil

	case isIdentStart(c):
		name := s.readWord()
		decl.Kind = formatter.Default
		decl.Bindings = []formatter.Binding{{ImportedName: name}}
		s.skipSpacesAndComments()
		if s.peekAt(s.pos) != ',' {
			return true, nil
		}
		s.pos++
		s.skipSpacesAndComments()
		switch {
		case s.peekAt(s.pos) == '{':
			named, unsupported, err := s.parseNamedList()
			if err != nil {
				return false, err
			}
			decl.Bindings = append(decl.Bindings, named...)
			decl.Unsupported = decl.Unsupported || unsupported
		case s.peekAt(s.pos) == '*':
			// "import d, * as ns from ..." has no record shape
			if _, err := s.parseNamespace(); err != nil {
				return false, err
			}
			decl.Unsupported = true
		default:
			return false, s.errorf("expected '{' or '*' after ',' in import statement")
		}
		return true, nil
	}

	return false, nil
}

// parseNamespace parses "* as name" and returns the bound name
func (s *scanner) parseNamespace() (string, error) {
	s.pos++ // '*'
	s.skipSpacesAndComments()
	if !s.wordAt(s.pos, "as") {
		return "", s.errorf("expected 'as' after '*' in import statement")
	}
	s.pos += len("as")
	s.skipSpacesAndComments()
	if !isIdentStart(s.peekAt(s.pos)) {
		return "", s.errorf("expected identifier after '* as'")
	}
	return s.readWord(), nil
}

// parseNamedList parses "{ a, b as c, type D }". Entries must be separated
// by commas. unsupported is set for forms the record model cannot carry,
// such as string import names.
func (s *scanner) parseNamedList() ([]formatter.Binding, bool, error) {
	var bindings []formatter.Binding
	unsupported := false

	s.pos++ // '{'
	for {
		s.skipSpacesAndComments()
		c := s.peekAt(s.pos)
		switch {
		case c == 0:
			return nil, false, s.errorf("unterminated import clause")

		case c == '}':
			s.pos++
			return bindings, unsupported, nil

		case c == '\'' || c == '"':
			// string import names ("a-b" as x) have no identifier to sort by
			if _, _, err := s.parseString(); err != nil {
				return nil, false, err
			}
			s.skipSpacesAndComments()
			if s.wordAt(s.pos, "as") {
				s.pos += len("as")
				s.skipSpacesAndComments()
				if !isIdentStart(s.peekAt(s.pos)) {
					return nil, false, s.errorf("expected identifier after 'as'")
				}
				s.readWord()
			}
			unsupported = true

		case isIdentStart(c):
			b, err := s.parseNamedBinding()
			if err != nil {
				return nil, false, err
			}
			bindings = append(bindings, b)

		default:
			return nil, false, s.errorf("unexpected %q in import clause", c)
		}

		s.skipSpacesAndComments()
		switch s.peekAt(s.pos) {
		case ',':
			s.pos++
		case '}':
			s.pos++
			return bindings, unsupported, nil
		case 0:
			return nil, false, s.errorf("unterminated import clause")
		default:
			return nil, false, s.errorf("expected ',' or '}' in import clause")
		}
	}
}

// parseNamedBinding parses one entry of a named list: [type ]name[ as alias].
// A leading "type" word is the binding name itself when followed by ',',
// '}' or "as"; otherwise it marks the binding type-only.
func (s *scanner) parseNamedBinding() (formatter.Binding, error) {
	var b formatter.Binding

	b.ImportedName = s.readWord()
	if b.ImportedName == "type" {
		s.skipSpacesAndComments()
		if c := s.peekAt(s.pos); isIdentStart(c) && !s.wordAt(s.pos, "as") {
			b.TypeOnly = true
			b.ImportedName = s.readWord()
		}
	}

	s.skipSpacesAndComments()
	if s.wordAt(s.pos, "as") {
		s.pos += len("as")
		s.skipSpacesAndComments()
		if !isIdentStart(s.peekAt(s.pos)) {
			return b, s.errorf("expected identifier after 'as'")
		}
		b.Alias = s.readWord()
	}
	return b, nil
}

// skipToStatementEnd advances to the semicolon, line end or trailing comment
// that terminates the statement, skipping string literals on the way so
// their contents cannot end it early.
func (s *scanner) skipToStatementEnd() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == ';' || c == '\n':
			return
		case c == '/' && (s.peekAt(s.pos+1) == '/' || s.peekAt(s.pos+1) == '*'):
			return
		case c == '\'' || c == '"' || c == '`':
			_ = s.skipString(c)
		default:
			s.pos++
		}
	}
}

// finishStatement consumes the optional semicolon and same-line trailing
// comment, records the statement span, and leaves the scan position after
// everything it consumed.
func (s *scanner) finishStatement(decl *formatter.Declaration, start int) {
	s.skipLineSpaces()
	if s.peekAt(s.pos) == ';' {
		s.pos++
	}
	decl.Start = uint32(start)
	decl.End = uint32(s.pos)

	for {
		mark := s.pos
		s.skipLineSpaces()
		c := s.peekAt(s.pos)
		if c == '/' && s.peekAt(s.pos+1) == '/' {
			cs := s.pos
			s.skipLineComment()
			decl.Comment = joinComment(decl.Comment, strings.TrimRight(string(s.src[cs:s.pos]), " \t\r"))
			continue
		}
		if c == '/' && s.peekAt(s.pos+1) == '*' {
			cs := s.pos
			s.skipBlockComment()
			text := string(s.src[cs:s.pos])
			if strings.Contains(text, "\n") {
				// multi-line trailing comment: no safe slot to re-emit it
				decl.Unsupported = true
				s.pos = mark
				return
			}
			decl.Comment = joinComment(decl.Comment, text)
			continue
		}
		if c == '\n' || c == '\r' || c == 0 || s.wordAt(s.pos, "import") {
			return
		}
		// other content on the statement line would be destroyed by a
		// whole-line rewrite
		decl.Unsupported = true
		s.pos = mark
		return
	}
}

func (s *scanner) parseString() (string, bool, error) {
	quote := s.peekAt(s.pos)
	if quote != '\'' && quote != '"' {
		return "", false, s.errorf("expected string literal")
	}
	single := quote == '\''
	s.pos++
	start := s.pos
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
		case quote:
			value := string(s.src[start:s.pos])
			s.pos++
			return value, single, nil
		case '\n':
			return "", false, s.errorf("unterminated string literal")
		default:
			s.pos++
		}
	}
	return "", false, s.errorf("unterminated string literal")
}

// skipString skips a string or template literal outside import statements
func (s *scanner) skipString(quote byte) error {
	s.pos++
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
		case quote:
			s.pos++
			return nil
		case '\n':
			if quote != '`' {
				// unterminated plain string; resume scanning on the next line
				return nil
			}
			s.pos++
		default:
			s.pos++
		}
	}
	return nil
}

func (s *scanner) skipLineComment() {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' {
		s.pos++
	}
}

func (s *scanner) skipBlockComment() {
	s.pos += 2
	for s.pos < len(s.src) {
		if s.src[s.pos] == '*' && s.peekAt(s.pos+1) == '/' {
			s.pos += 2
			return
		}
		s.pos++
	}
}

// skipSpacesAndComments advances over whitespace of any kind and comments.
// Skipped comments are flagged on the current statement.
func (s *scanner) skipSpacesAndComments() {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			s.pos++
		case c == '/' && s.peekAt(s.pos+1) == '/':
			s.skipLineComment()
			s.stmtCmt = true
		case c == '/' && s.peekAt(s.pos+1) == '*':
			s.skipBlockComment()
			s.stmtCmt = true
		default:
			return
		}
	}
}

// skipLineSpaces advances over spaces and tabs, never past a newline
func (s *scanner) skipLineSpaces() {
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

// readWord reads an identifier starting at the current position
func (s *scanner) readWord() string {
	start := s.pos
	for s.pos < len(s.src) && isIdentChar(s.src[s.pos]) {
		s.pos++
	}
	return string(s.src[start:s.pos])
}

// wordAt reports whether the exact word w starts at pos with identifier
// boundaries on both sides
func (s *scanner) wordAt(pos int, w string) bool {
	if pos+len(w) > len(s.src) {
		return false
	}
	if string(s.src[pos:pos+len(w)]) != w {
		return false
	}
	if pos > 0 && (isIdentChar(s.src[pos-1]) || s.src[pos-1] == '.') {
		return false
	}
	if pos+len(w) < len(s.src) && isIdentChar(s.src[pos+len(w)]) {
		return false
	}
	return true
}

// peekAt returns the byte at pos, or 0 past the end
func (s *scanner) peekAt(pos int) byte {
	if pos < 0 || pos >= len(s.src) {
		return 0
	}
	return s.src[pos]
}

func (s *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: "+format, append([]any{s.pos}, args...)...)
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func whitespaceOnly(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
	}
	return true
}

func joinComment(existing, text string) string {
	if existing == "" {
		return text
	}
	return existing + " " + text
}
