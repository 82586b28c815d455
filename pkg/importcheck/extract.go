package importcheck

import (
	"regexp"
	"sort"
	"strings"
)

const (
	identPattern = `[\p{L}_$][\p{L}\p{N}_$]*`

	// Submatch indexes of bindingStatement.
	groupTypeKeyword = 1
	groupDefault     = 2
	groupClause      = 3
	groupModule      = 4

	// Submatch index of sideEffectStatement.
	groupSideEffectModule = 1

	namespacePrefix = "* as "
	aliasKeyword    = "as"
	typeKeyword     = "type"
	defaultExport   = "default"
	namespaceExport = "*"
)

var (
	// bindingStatement matches `import [type] [D,] ({...} | * as NS | D) from "module"`.
	bindingStatement = regexp.MustCompile(
		`\bimport\b\s*(?:(type)\s+)?` +
			`(?:(` + identPattern + `)\s*,\s*)?` +
			`(\{[^{}]*\}|\*\s*as\s+` + identPattern + `|` + identPattern + `)` +
			`\s*from\s*['"]([^'"]+)['"]\s*;?`,
	)

	// sideEffectStatement matches `import "module"`.
	sideEffectStatement = regexp.MustCompile(`\bimport\s*['"]([^'"]+)['"]\s*;?`)

	clauseComment = regexp.MustCompile(`(?s)/\*.*?\*/|//[^\n]*`)
)

// Extract collects every import binding declared in text. Statements that do not
// fit a recognised shape are ignored.
func Extract(text string) *ModuleImportSet {
	lines := newLineIndex(text)

	var found []positioned

	for _, m := range bindingStatement.FindAllStringSubmatchIndex(text, -1) {
		found = append(found, statementBindings(text, m, lines)...)
	}

	for _, m := range sideEffectStatement.FindAllStringSubmatchIndex(text, -1) {
		line, col := lines.position(m[0])
		found = append(found, positioned{offset: m[0], binding: Binding{
			Module: submatch(text, m, groupSideEffectModule),
			Raw:    SideEffectRaw,
			Form:   FormSideEffect,
			Line:   line,
			Column: col,
		}})
	}

	// Both patterns scan independently; restore declaration order.
	sort.SliceStable(found, func(i, j int) bool { return found[i].offset < found[j].offset })

	set := NewModuleImportSet()
	for _, p := range found {
		set.Add(p.binding)
	}

	return set
}

// StripImports removes every import declaration from text so that a declaration
// cannot count as a use of its own bindings.
func StripImports(text string) string {
	stripped := bindingStatement.ReplaceAllLiteralString(text, " ")

	return sideEffectStatement.ReplaceAllLiteralString(stripped, " ")
}

type positioned struct {
	offset  int
	binding Binding
}

func statementBindings(text string, m []int, lines lineIndex) []positioned {
	module := submatch(text, m, groupModule)
	typeOnly := submatch(text, m, groupTypeKeyword) != ""
	line, col := lines.position(m[0])

	base := Binding{Module: module, TypeOnly: typeOnly, Line: line, Column: col}

	var out []positioned

	add := func(b Binding) {
		out = append(out, positioned{offset: m[0], binding: b})
	}

	if def := submatch(text, m, groupDefault); def != "" {
		add(defaultBinding(base, def))
	}

	clause := submatch(text, m, groupClause)

	switch {
	case strings.HasPrefix(clause, "{"):
		for _, b := range namedBindings(base, clause) {
			add(b)
		}
	case strings.HasPrefix(clause, "*"):
		add(namespaceBinding(base, clause))
	default:
		add(defaultBinding(base, clause))
	}

	return out
}

func defaultBinding(base Binding, name string) Binding {
	b := base
	b.Raw = name
	b.Imported = defaultExport
	b.Local = name
	b.Form = FormDefault

	return b
}

func namespaceBinding(base Binding, clause string) Binding {
	fields := strings.Fields(strings.TrimPrefix(clause, "*"))
	name := fields[len(fields)-1]

	b := base
	b.Raw = namespacePrefix + name
	b.Imported = namespaceExport
	b.Local = name
	b.Form = FormNamespace

	return b
}

// namedBindings splits a `{ A, type B, C as D }` clause into bindings.
func namedBindings(base Binding, clause string) []Binding {
	inner := strings.TrimSuffix(strings.TrimPrefix(clause, "{"), "}")
	inner = clauseComment.ReplaceAllString(inner, " ")

	var out []Binding

	for entry := range strings.SplitSeq(inner, ",") {
		fields := strings.Fields(entry)
		if len(fields) == 0 {
			continue
		}

		typeOnly := base.TypeOnly
		if len(fields) > 1 && fields[0] == typeKeyword && !isAliasOnly(fields) {
			typeOnly = true
			fields = fields[1:]
		}

		b := base
		b.Form = FormNamed
		b.TypeOnly = typeOnly

		// An aliased binding is described and deduplicated by its exported name.
		if len(fields) == 3 && fields[1] == aliasKeyword {
			b.Imported = fields[0]
			b.Local = fields[2]
			b.Raw = fields[0]
		} else {
			b.Imported = fields[0]
			b.Local = fields[len(fields)-1]
			b.Raw = strings.Join(fields, " ")
		}

		out = append(out, b)
	}

	return out
}

// isAliasOnly reports whether fields is `type as X`, an import of a binding named "type".
func isAliasOnly(fields []string) bool {
	return len(fields) == 3 && fields[1] == aliasKeyword
}

func submatch(text string, m []int, group int) string {
	start, end := m[2*group], m[2*group+1]
	if start < 0 {
		return ""
	}

	return text[start:end]
}

// lineIndex maps byte offsets to 1-based line and column numbers.
type lineIndex []int

func newLineIndex(text string) lineIndex {
	starts := lineIndex{0}

	for i := range len(text) {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}

	return starts
}

func (li lineIndex) position(offset int) (line, column int) {
	idx := sort.SearchInts(li, offset+1) - 1

	return idx + 1, offset - li[idx] + 1
}
