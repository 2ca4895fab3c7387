package formatter

import (
	"regexp"
	"strings"

	"github.com/tidescript/js-imports-group/pkg/schemes"
)

// Tier is the ordered bucket an import source falls into. Tiers appear in a
// block in ascending order, separated by one blank line.
type Tier int

const (
	TierRuntime       Tier = iota // node:fs, bun:test
	TierRegistry                  // npm:chalk, jsr:@std/path
	TierGenericScheme             // any other name: prefix
	TierBare                      // react, @scope/pkg
	TierDollarAlias               // $lib/stores, $/shared
	TierTildeScoped               // ~shared/types
	TierAliasRoot                 // @/utils and ~/config share one bucket
	TierParent                    // ../util, deepest first
	TierCurrentDir                // ./helper, shallowest first
)

// String returns the lowercase name of the tier
func (t Tier) String() string {
	switch t {
	case TierRuntime:
		return "runtime"
	case TierRegistry:
		return "registry"
	case TierGenericScheme:
		return "scheme"
	case TierBare:
		return "bare"
	case TierDollarAlias:
		return "dollar-alias"
	case TierTildeScoped:
		return "tilde-scoped"
	case TierAliasRoot:
		return "alias-root"
	case TierParent:
		return "parent"
	case TierCurrentDir:
		return "current-dir"
	}
	return "unknown"
}

// Group is the classification of one import source
type Group struct {
	Tier      Tier
	Scheme    string // lower-cased namespace prefix for the scheme tiers
	AliasRoot string // alias text before the slash: "$lib", "$", "~shared", "@", "~"
	Depth     int    // "../" levels for TierParent, directory depth for TierCurrentDir
	Scoped    bool   // bare import starting with "@"
	BareSlash bool   // source is exactly "./"
}

var (
	schemeNameRe  = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	dollarAliasRe = regexp.MustCompile(`^\$[\w-]*/`)
	tildeScopedRe = regexp.MustCompile(`^~[\w-]+/`)
)

// Classify determines which group an import source belongs to. The checks
// run in precedence order; the first match wins. Classification is a pure
// string decision: no filesystem or module resolution is ever consulted.
func Classify(source string) Group {
	if i := strings.IndexByte(source, ':'); i > 0 && schemeNameRe.MatchString(source[:i]) {
		scheme := strings.ToLower(source[:i])
		switch {
		case schemes.IsRuntimeScheme(scheme):
			return Group{Tier: TierRuntime, Scheme: scheme}
		case schemes.IsRegistryScheme(scheme):
			return Group{Tier: TierRegistry, Scheme: scheme}
		}
		return Group{Tier: TierGenericScheme, Scheme: scheme}
	}

	if m := dollarAliasRe.FindString(source); m != "" {
		return Group{Tier: TierDollarAlias, AliasRoot: strings.TrimSuffix(m, "/")}
	}

	if strings.HasPrefix(source, "@/") {
		return Group{Tier: TierAliasRoot, AliasRoot: "@"}
	}
	if strings.HasPrefix(source, "~/") {
		return Group{Tier: TierAliasRoot, AliasRoot: "~"}
	}
	if m := tildeScopedRe.FindString(source); m != "" {
		return Group{Tier: TierTildeScoped, AliasRoot: strings.TrimSuffix(m, "/")}
	}

	if depth := parentDepth(source); depth > 0 {
		return Group{Tier: TierParent, Depth: depth}
	}

	if strings.HasPrefix(source, "./") {
		return Group{
			Tier:      TierCurrentDir,
			Depth:     currentDirDepth(source),
			BareSlash: source == "./",
		}
	}

	return Group{Tier: TierBare, Scoped: strings.HasPrefix(source, "@")}
}

// parentDepth counts leading "../" segments; a bare ".." after the last
// separator counts as one more level. Returns 0 when source is not
// parent-relative.
func parentDepth(source string) int {
	rest := source
	depth := 0
	for strings.HasPrefix(rest, "../") {
		depth++
		rest = rest[3:]
	}
	if rest == ".." {
		depth++
	}
	return depth
}

// currentDirDepth counts the directory separators between the leading "./"
// and the final segment: "./a" is 0, "./a/b" is 1.
func currentDirDepth(source string) int {
	rest := strings.TrimPrefix(source, "./")
	rest = strings.TrimSuffix(rest, "/")
	return strings.Count(rest, "/")
}
