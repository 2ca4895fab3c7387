package formatter

import (
	"errors"
	"fmt"
)

var (
	// ErrBadDeclaration reports a declaration without a usable span
	ErrBadDeclaration = errors.New("malformed import declaration")

	// ErrUnsupported reports an import form the record model cannot carry.
	// Blocks containing one are left untouched.
	ErrUnsupported = errors.New("unsupported import form")
)

// Extract normalizes a scanned declaration into a Record: the source is
// classified, bindings are copied so later sorting never aliases scanner
// memory, and presentation facts ride along for signature lookup.
func Extract(decl Declaration) (Record, error) {
	if decl.Unsupported {
		return Record{}, fmt.Errorf("import of %q: %w", decl.Source, ErrUnsupported)
	}
	if decl.End <= decl.Start {
		return Record{}, fmt.Errorf("import of %q: missing span: %w", decl.Source, ErrBadDeclaration)
	}

	bindings := make([]Binding, len(decl.Bindings))
	copy(bindings, decl.Bindings)

	return Record{
		Source:          decl.Source,
		Kind:            decl.Kind,
		Bindings:        bindings,
		TypeOnly:        decl.TypeOnly,
		Group:           Classify(decl.Source),
		UseSingleQuotes: decl.SingleQuote,
		Comment:         decl.Comment,
		Start:           decl.Start,
		End:             decl.End,
	}, nil
}
