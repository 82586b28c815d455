// Package importcheck extracts import bindings from TypeScript source text and
// reports bindings that are never referenced or that are declared more than once.
//
// The analysis is lexical: no syntax tree is built, and usage is decided by
// whole-word matching over the file text with import declarations removed.
package importcheck

import (
	"fmt"
	"iter"
)

// Form is the declared shape of an import binding.
type Form int

// Binding forms.
const (
	FormNamed Form = iota
	FormNamespace
	FormDefault
	FormSideEffect
)

var formNames = [...]string{
	FormNamed:      "named",
	FormNamespace:  "namespace",
	FormDefault:    "default",
	FormSideEffect: "side-effect",
}

// String returns the lowercase name of the form.
func (f Form) String() string {
	if f < 0 || int(f) >= len(formNames) {
		return fmt.Sprintf("form(%d)", int(f))
	}

	return formNames[f]
}

// MarshalText implements encoding.TextMarshaler.
func (f Form) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// SideEffectRaw is the raw text recorded for bare `import "module"` declarations.
const SideEffectRaw = "__side_effect__"

// Binding is a single name introduced by an import declaration.
type Binding struct {
	// Module is the module specifier the binding was imported from.
	Module string `json:"module"`
	// Raw is the binding's text: "A" for `{ A }` and `{ A as B }`, "D" for a
	// default import, "* as NS" for a namespace.
	Raw string `json:"raw"`
	// Imported is the exported name before any alias.
	Imported string `json:"imported,omitempty"`
	// Local is the identifier bound in the importing file.
	Local    string `json:"local,omitempty"`
	Form     Form   `json:"form"`
	TypeOnly bool   `json:"type_only,omitempty"`
	// Line and Column locate the declaring statement, both 1-based.
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsSideEffect reports whether the binding is a side-effect sentinel.
func (b Binding) IsSideEffect() bool {
	return b.Form == FormSideEffect
}

// Description renders the binding as "<raw> from '<module>'".
func (b Binding) Description() string {
	return fmt.Sprintf("%s from '%s'", b.Raw, b.Module)
}

// ModuleImportSet maps module specifiers to the bindings declared for them,
// preserving first-seen module order and per-module declaration order.
type ModuleImportSet struct {
	order    []string
	bindings map[string][]Binding
}

// NewModuleImportSet creates an empty set.
func NewModuleImportSet() *ModuleImportSet {
	return &ModuleImportSet{bindings: make(map[string][]Binding)}
}

// Add appends a binding to its module's list.
func (s *ModuleImportSet) Add(b Binding) {
	if _, ok := s.bindings[b.Module]; !ok {
		s.order = append(s.order, b.Module)
	}

	s.bindings[b.Module] = append(s.bindings[b.Module], b)
}

// Modules returns module specifiers in first-seen order.
func (s *ModuleImportSet) Modules() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)

	return out
}

// Bindings returns the bindings declared for module in declaration order.
func (s *ModuleImportSet) Bindings(module string) []Binding {
	list := s.bindings[module]
	out := make([]Binding, len(list))
	copy(out, list)

	return out
}

// Len returns the total number of bindings across all modules.
func (s *ModuleImportSet) Len() int {
	total := 0
	for _, list := range s.bindings {
		total += len(list)
	}

	return total
}

// All iterates bindings module by module in insertion order.
func (s *ModuleImportSet) All() iter.Seq[Binding] {
	return func(yield func(Binding) bool) {
		for _, module := range s.order {
			for _, b := range s.bindings[module] {
				if !yield(b) {
					return
				}
			}
		}
	}
}

// FileFinding is the result of analysing one file.
type FileFinding struct {
	Path       string
	Unused     []Binding
	Duplicates []Binding
}

// UnusedDescriptions returns the unused bindings as ordered descriptions.
func (f FileFinding) UnusedDescriptions() []string {
	return describe(f.Unused)
}

// DuplicateDescriptions returns the duplicate bindings as ordered descriptions.
func (f FileFinding) DuplicateDescriptions() []string {
	return describe(f.Duplicates)
}

// HasFindings reports whether the file has any unused or duplicate bindings.
func (f FileFinding) HasFindings() bool {
	return len(f.Unused) > 0 || len(f.Duplicates) > 0
}

func describe(bindings []Binding) []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, b.Description())
	}

	return out
}
