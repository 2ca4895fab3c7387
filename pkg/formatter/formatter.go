package formatter

import (
	"errors"
	"sort"
)

// Sorter drives the reorder pipeline for one source file: extract records
// from scanned declarations, reconcile each contiguous block, and emit
// replacement directives for the blocks that deviate.
//
// A Sorter is not safe for concurrent use; create one per goroutine.
type Sorter struct {
	cmp *Comparator
}

// New creates a Sorter with a fresh comparator
func New() *Sorter {
	return &Sorter{cmp: NewComparator()}
}

// SortSource runs extraction and reconciliation over every scanned block of
// src and returns the replacements needed, in source order. An empty result
// means the imports are already ordered. A block containing an unsupported
// import form is skipped untouched; any other extraction or generation
// failure aborts the file.
func (s *Sorter) SortSource(src []byte, blocks [][]Declaration) ([]Replacement, error) {
	var reps []Replacement
	for _, block := range blocks {
		recs := make([]Record, 0, len(block))
		skip := false
		for _, decl := range block {
			rec, err := Extract(decl)
			if errors.Is(err, ErrUnsupported) {
				skip = true
				break
			}
			if err != nil {
				return nil, err
			}
			recs = append(recs, rec)
		}
		if skip {
			continue
		}

		rep, err := s.ReconcileBlock(src, recs)
		if err != nil {
			return nil, err
		}
		if rep != nil {
			reps = append(reps, *rep)
		}
	}
	return reps, nil
}

// ApplyReplacements splices replacements into src and returns the new
// content. Replacements must not overlap; they are applied back to front so
// earlier offsets stay valid. src itself is never modified.
func ApplyReplacements(src []byte, reps []Replacement) []byte {
	if len(reps) == 0 {
		return src
	}

	sorted := make([]Replacement, len(reps))
	copy(sorted, reps)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	out := make([]byte, len(src))
	copy(out, src)
	for _, rep := range sorted {
		tail := append([]byte(rep.Text), out[rep.End:]...)
		out = append(out[:rep.Start], tail...)
	}
	return out
}
