package importcheck

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// AliasKey selects which name of an aliased named import is searched for.
type AliasKey string

const (
	// AliasKeyLocal searches for the alias, the identifier the file actually uses.
	AliasKeyLocal AliasKey = "local"
	// AliasKeyImported searches for the exported name before the alias.
	AliasKeyImported AliasKey = "imported"
)

// ErrUnknownAliasKey is returned for alias key values other than local and imported.
var ErrUnknownAliasKey = errors.New("unknown alias key")

// ParseAliasKey validates an alias key name. An empty name selects AliasKeyLocal.
func ParseAliasKey(name string) (AliasKey, error) {
	switch AliasKey(strings.ToLower(strings.TrimSpace(name))) {
	case "", AliasKeyLocal:
		return AliasKeyLocal, nil
	case AliasKeyImported:
		return AliasKeyImported, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAliasKey, name)
	}
}

// Resolver decides whether extracted bindings are referenced in a file.
type Resolver struct {
	aliasKey AliasKey
}

// NewResolver creates a Resolver using the given alias key.
func NewResolver(aliasKey AliasKey) *Resolver {
	if aliasKey == "" {
		aliasKey = AliasKeyLocal
	}

	return &Resolver{aliasKey: aliasKey}
}

// UsageKey returns the identifier searched for when checking b.
func (r *Resolver) UsageKey(b Binding) string {
	if b.Form == FormNamed && r.aliasKey == AliasKeyImported {
		return b.Imported
	}

	return b.Local
}

// FindUnused returns the bindings of set that never occur as a whole word in text
// once import declarations are removed. Side-effect bindings are never reported.
// Matches inside comments and string literals count as uses.
func (r *Resolver) FindUnused(text string, set *ModuleImportSet) []Binding {
	body := StripImports(text)

	var unused []Binding

	for b := range set.All() {
		if b.IsSideEffect() {
			continue
		}

		if !ContainsWord(body, r.UsageKey(b)) {
			unused = append(unused, b)
		}
	}

	return unused
}

// ContainsWord reports whether word occurs in text bounded on both sides by
// non-identifier characters or the ends of text.
func ContainsWord(text, word string) bool {
	if word == "" {
		return false
	}

	for start := 0; start < len(text); {
		idx := strings.Index(text[start:], word)
		if idx < 0 {
			return false
		}

		pos := start + idx
		end := pos + len(word)

		if !identBefore(text, pos) && !identAfter(text, end) {
			return true
		}

		_, size := utf8.DecodeRuneInString(text[pos:])
		start = pos + size
	}

	return false
}

func identBefore(text string, pos int) bool {
	if pos == 0 {
		return false
	}

	r, _ := utf8.DecodeLastRuneInString(text[:pos])

	return isIdentRune(r)
}

func identAfter(text string, end int) bool {
	if end >= len(text) {
		return false
	}

	r, _ := utf8.DecodeRuneInString(text[end:])

	return isIdentRune(r)
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
