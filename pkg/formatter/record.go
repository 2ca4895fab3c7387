package formatter

import (
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the syntactic form of an import statement. The numeric
// order doubles as the statement priority within a group: side-effect
// imports sort before namespace imports, namespace before default, default
// before named.
type Kind int

const (
	SideEffect Kind = iota
	Namespace
	Default
	Named
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	switch k {
	case SideEffect:
		return "side-effect"
	case Namespace:
		return "namespace"
	case Default:
		return "default"
	case Named:
		return "named"
	}
	return "unknown"
}

// Binding is one name bound by an import statement
type Binding struct {
	ImportedName string // name exported by the module; the local name for default and namespace imports
	Alias        string // local rename from "X as Y", empty if none
	TypeOnly     bool   // per-binding "type" marker
}

// Record is a normalized import statement flowing through the pipeline.
// Records are treated as immutable once extracted: sorting and regeneration
// work on copies, never in place.
type Record struct {
	Source          string
	Kind            Kind
	Bindings        []Binding // for a hybrid default import, index 0 is the default name
	TypeOnly        bool      // statement-level "import type"
	Group           Group
	UseSingleQuotes bool
	Comment         string // raw trailing same-line comment, markers included
	Start           uint32 // byte span of the statement, half-open [Start, End)
	End             uint32
}

// Declaration is a scanned import statement as the scanner hands it over:
// the raw syntactic facts before classification
type Declaration struct {
	Source      string
	Kind        Kind
	Bindings    []Binding
	TypeOnly    bool
	SingleQuote bool
	Comment     string
	Start       uint32
	End         uint32
	Unsupported bool // an import form with no record shape, e.g. "import d, * as ns from ..."
}

// Replacement is a span substitution directive: replace src[Start:End)
// with Text.
type Replacement struct {
	Start uint32
	End   uint32
	Text  string
}

// Signature is the canonical identity of a record: source, kind, statement
// type marker and the binding multiset. Bindings are canonicalized so that a
// record and its re-sorted counterpart share one signature. Presentation
// facts such as indentation, quote style and trailing comments are looked up
// by signature after reordering, never by position.
func (r *Record) Signature() string {
	keys := make([]string, len(r.Bindings))
	for i, b := range r.Bindings {
		keys[i] = b.ImportedName + "\x01" + b.Alias + "\x01" + strconv.FormatBool(b.TypeOnly)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(r.Source)
	sb.WriteByte(0)
	sb.WriteString(strconv.Itoa(int(r.Kind)))
	sb.WriteByte(0)
	sb.WriteString(strconv.FormatBool(r.TypeOnly))
	for _, k := range keys {
		sb.WriteByte(0)
		sb.WriteString(k)
	}
	return sb.String()
}

// sortName is the name a record contributes to ordering: the first bound
// name, or the source for side-effect imports
func (r *Record) sortName() string {
	if r.Kind == SideEffect || len(r.Bindings) == 0 {
		return r.Source
	}
	return r.Bindings[0].ImportedName
}
