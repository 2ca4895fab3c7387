package formatter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoBindings reports a namespace or default import with no bound name.
// Such a record cannot be rendered; the error aborts the block rather than
// silently dropping the statement.
var ErrNoBindings = errors.New("import statement has no bound names")

// Generate renders rec as a single-line import statement. Bound names are
// re-sorted through the same comparator that ordered the block, quotes
// mirror the record's original quote style.
func Generate(rec *Record, cmp *Comparator) (string, error) {
	quote := `"`
	if rec.UseSingleQuotes {
		quote = "'"
	}
	src := quote + rec.Source + quote

	prefix := "import "
	if rec.TypeOnly {
		prefix = "import type "
	}

	switch rec.Kind {
	case SideEffect:
		return prefix + src + ";", nil

	case Namespace:
		if len(rec.Bindings) == 0 {
			return "", fmt.Errorf("namespace import of %s: %w", src, ErrNoBindings)
		}
		return prefix + "* as " + rec.Bindings[0].ImportedName + " from " + src + ";", nil

	case Default:
		if len(rec.Bindings) == 0 {
			return "", fmt.Errorf("default import of %s: %w", src, ErrNoBindings)
		}
		if len(rec.Bindings) == 1 {
			return prefix + rec.Bindings[0].ImportedName + " from " + src + ";", nil
		}
		sorted := cmp.SortBindings(Default, rec.Bindings)
		named := renderBindings(sorted[1:], rec.TypeOnly)
		return prefix + sorted[0].ImportedName + ", { " + named + " } from " + src + ";", nil

	case Named:
		if len(rec.Bindings) == 0 {
			return prefix + "{} from " + src + ";", nil
		}
		named := renderBindings(cmp.SortBindings(Named, rec.Bindings), rec.TypeOnly)
		return prefix + "{ " + named + " } from " + src + ";", nil
	}

	return "", fmt.Errorf("import of %s: unknown kind %d", src, rec.Kind)
}

// renderBindings renders named bindings as "[type ]name[ as alias]" joined
// by commas. The per-binding type marker is suppressed when the whole
// statement is type-only.
func renderBindings(bindings []Binding, statementTypeOnly bool) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		var sb strings.Builder
		if b.TypeOnly && !statementTypeOnly {
			sb.WriteString("type ")
		}
		sb.WriteString(b.ImportedName)
		if b.Alias != "" {
			sb.WriteString(" as ")
			sb.WriteString(b.Alias)
		}
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, ", ")
}
