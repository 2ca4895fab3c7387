package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// ErrBadSpan reports a record span lying outside the source text
var ErrBadSpan = errors.New("import span out of range")

// formatFacts carries the per-statement presentation captured from the
// original block, keyed by record signature
type formatFacts struct {
	indent  string
	comment string
}

// ReconcileBlock compares one contiguous block of records against its
// canonical order and returns the whole-block replacement when they differ,
// or nil when the block is already acceptable. recs must be in source order.
//
// A rewrite is triggered only by ordering defects: unsorted bindings inside
// a statement, a missing blank line on a tier boundary, or statements out of
// canonical order. Quote style, brace spacing and aliases never cause churn
// on their own.
func (s *Sorter) ReconcileBlock(src []byte, recs []Record) (*Replacement, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	limit, err := safecast.Conv[uint32](len(src))
	if err != nil {
		return nil, fmt.Errorf("source too large: %w", err)
	}
	for i := range recs {
		r := &recs[i]
		if r.End <= r.Start || r.End > limit {
			return nil, fmt.Errorf("import of %q spans [%d,%d): %w", r.Source, r.Start, r.End, ErrBadSpan)
		}
	}

	expected := SortRecords(recs, s.cmp)
	if !s.needsFix(src, recs, expected) {
		return nil, nil
	}

	facts := make(map[string]formatFacts, len(recs))
	for i := range recs {
		sig := recs[i].Signature()
		if _, ok := facts[sig]; !ok {
			facts[sig] = formatFacts{
				indent:  lineIndent(src, recs[i].Start),
				comment: recs[i].Comment,
			}
		}
	}

	start := lineStart(src, recs[0].Start)
	end := lineEnd(src, recs[len(recs)-1].End)

	eol := "\n"
	if bytes.Contains(src[start:end], []byte("\r\n")) {
		eol = "\r\n"
	}

	var b strings.Builder
	for i := range expected {
		rec := &expected[i]
		stmt, err := Generate(rec, s.cmp)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			b.WriteString(eol)
			if expected[i-1].Group.Tier != rec.Group.Tier {
				b.WriteString(eol)
			}
		}
		f := facts[rec.Signature()]
		b.WriteString(f.indent)
		b.WriteString(stmt)
		if f.comment != "" {
			b.WriteString(" ")
			b.WriteString(f.comment)
		}
	}

	return &Replacement{Start: start, End: end, Text: b.String()}, nil
}

// needsFix reports whether the block deviates from its canonical form
func (s *Sorter) needsFix(src []byte, recs, expected []Record) bool {
	if len(recs) != len(expected) {
		return true
	}
	for i := range recs {
		if !s.cmp.BindingsSorted(recs[i].Kind, recs[i].Bindings) {
			return true
		}
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Group.Tier != recs[i-1].Group.Tier &&
			!blankLineBetween(src, recs[i-1].End, recs[i].Start) {
			return true
		}
	}
	for i := range recs {
		if !sameIdentity(&recs[i], &expected[i]) {
			return true
		}
	}
	return false
}

// sameIdentity compares the fix-relevant identity of two records: source,
// kind and each binding's (name, type marker) pair in order
func sameIdentity(a, b *Record) bool {
	if a.Source != b.Source || a.Kind != b.Kind || len(a.Bindings) != len(b.Bindings) {
		return false
	}
	for i := range a.Bindings {
		if a.Bindings[i].ImportedName != b.Bindings[i].ImportedName ||
			a.Bindings[i].TypeOnly != b.Bindings[i].TypeOnly {
			return false
		}
	}
	return true
}

// blankLineBetween reports whether src[from:to) contains a blank line,
// i.e. at least two newlines
func blankLineBetween(src []byte, from, to uint32) bool {
	if from > to {
		return false
	}
	return bytes.Count(src[from:to], []byte("\n")) >= 2
}

// lineStart returns the offset of the first byte of the line holding off
func lineStart(src []byte, off uint32) uint32 {
	i := int(off)
	for i > 0 && src[i-1] != '\n' {
		i--
	}
	return uint32(i)
}

// lineEnd returns the offset just past the last byte of the line holding
// off, excluding the line terminator ("\n" or "\r\n")
func lineEnd(src []byte, off uint32) uint32 {
	i := int(off)
	for i < len(src) && src[i] != '\n' {
		i++
	}
	if i > int(off) && src[i-1] == '\r' {
		i--
	}
	return uint32(i)
}

// lineIndent returns the leading whitespace of the line holding off, up to
// off at most
func lineIndent(src []byte, off uint32) string {
	ls := lineStart(src, off)
	i := ls
	for i < off && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return string(src[ls:i])
}
