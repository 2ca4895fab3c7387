package schemes

import "strings"

// RuntimeSchemes is the set of namespace prefixes that address modules
// provided by a JavaScript runtime (e.g. "node:fs", "bun:test").
var RuntimeSchemes = map[string]bool{
	"node":       true,
	"bun":        true,
	"deno":       true,
	"cloudflare": true,
	"workerd":    true,
	"wrangler":   true,
}

// RegistrySchemes is the set of namespace prefixes that address modules
// fetched from a package registry or CDN (e.g. "npm:chalk", "jsr:@std/path").
var RegistrySchemes = map[string]bool{
	"npm":   true,
	"jsr":   true,
	"esm":   true,
	"unpkg": true,
	"cdn":   true,
}

// IsRuntimeScheme reports whether scheme names a runtime namespace.
// Matching is case-insensitive.
func IsRuntimeScheme(scheme string) bool {
	return RuntimeSchemes[strings.ToLower(scheme)]
}

// IsRegistryScheme reports whether scheme names a registry namespace.
// Matching is case-insensitive.
func IsRegistryScheme(scheme string) bool {
	return RegistrySchemes[strings.ToLower(scheme)]
}
