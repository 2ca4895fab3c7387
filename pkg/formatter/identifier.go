package formatter

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// The same imported names recur across files ("react", "useState", ...), so
// collation keys are memoized process-wide. The cache is safe for concurrent
// use; the collators are not, which is why each Comparator owns its own pair.
const keyCacheSize = 4096

var keyCache, _ = lru.New[string, string](keyCacheSize)

// Comparator implements the one identifier ordering used everywhere names or
// records are compared. Sorting, sortedness checks and statement generation
// all go through the same instance so that a block this package emitted
// always re-checks as already ordered.
//
// A Comparator is not safe for concurrent use; create one per goroutine.
type Comparator struct {
	base   *collate.Collator // case-insensitive, numeric-aware
	strict *collate.Collator // case-sensitive, numeric-aware
	buf    collate.Buffer
}

// NewComparator returns a Comparator backed by root-locale collation
func NewComparator() *Comparator {
	return &Comparator{
		base:   collate.New(language.Und, collate.Numeric, collate.IgnoreCase),
		strict: collate.New(language.Und, collate.Numeric),
	}
}

// Compare orders two identifiers:
//
//  1. Names whose first letters match case-insensitively but differ in case
//     put the uppercase one first ("CustomTypeValues" before "customType").
//  2. Otherwise natural, case-insensitive order: "item2" before "item10".
//  3. Ties break case-sensitively.
func (c *Comparator) Compare(a, b string) int {
	if a == b {
		return 0
	}

	ra, _ := utf8.DecodeRuneInString(a)
	rb, _ := utf8.DecodeRuneInString(b)
	if ra != rb && unicode.ToLower(ra) == unicode.ToLower(rb) {
		if unicode.IsUpper(ra) && !unicode.IsUpper(rb) {
			return -1
		}
		if unicode.IsUpper(rb) && !unicode.IsUpper(ra) {
			return 1
		}
	}

	if d := strings.Compare(c.key(c.base, "i", a), c.key(c.base, "i", b)); d != 0 {
		return d
	}
	if d := strings.Compare(c.key(c.strict, "s", a), c.key(c.strict, "s", b)); d != 0 {
		return d
	}
	return strings.Compare(a, b)
}

// CompareSource orders two import sources: case-sensitive and numeric-aware,
// with no first-letter case rule.
func (c *Comparator) CompareSource(a, b string) int {
	if a == b {
		return 0
	}
	if d := strings.Compare(c.key(c.strict, "s", a), c.key(c.strict, "s", b)); d != 0 {
		return d
	}
	return strings.Compare(a, b)
}

// key returns the collation key of s under col, memoized in keyCache. The
// tag keeps keys of the two collators apart.
func (c *Comparator) key(col *collate.Collator, tag, s string) string {
	ck := tag + "\x00" + s
	if k, ok := keyCache.Get(ck); ok {
		return k
	}
	k := string(col.KeyFromString(&c.buf, s))
	c.buf.Reset()
	keyCache.Add(ck, k)
	return k
}

// SortBindings returns a copy of bindings ordered by imported name. For a
// hybrid default import the default binding stays pinned at index 0 and only
// the named tail is sorted. Aliases and type markers never affect the order.
// The input slice is not mutated.
func (c *Comparator) SortBindings(kind Kind, bindings []Binding) []Binding {
	out := make([]Binding, len(bindings))
	copy(out, bindings)

	tail := out
	if kind == Default && len(out) > 0 {
		tail = out[1:]
	}
	sort.SliceStable(tail, func(i, j int) bool {
		return c.Compare(tail[i].ImportedName, tail[j].ImportedName) < 0
	})
	return out
}

// BindingsSorted reports whether bindings are already in SortBindings order.
// It is defined as equality with the SortBindings result rather than a second
// ordering check, so the two can never drift apart and re-flag emitted code.
func (c *Comparator) BindingsSorted(kind Kind, bindings []Binding) bool {
	sorted := c.SortBindings(kind, bindings)
	for i := range bindings {
		if bindings[i] != sorted[i] {
			return false
		}
	}
	return true
}
