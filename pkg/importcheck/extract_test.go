package importcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raws(bindings []Binding) []string {
	out := make([]string, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, b.Raw)
	}

	return out
}

func TestExtract_NoImports(t *testing.T) {
	t.Parallel()

	set := Extract("const a = 1;\nexport function f() { return a; }\n")

	assert.Zero(t, set.Len())
	assert.Empty(t, set.Modules())
}

func TestExtract_Named(t *testing.T) {
	t.Parallel()

	set := Extract(`import { A, B as C } from "m";`)

	require.Equal(t, []string{"m"}, set.Modules())

	bindings := set.Bindings("m")
	require.Len(t, bindings, 2)

	assert.Equal(t, Binding{
		Module: "m", Raw: "A", Imported: "A", Local: "A", Form: FormNamed, Line: 1, Column: 1,
	}, bindings[0])
	assert.Equal(t, "B", bindings[1].Raw)
	assert.Equal(t, "B", bindings[1].Imported)
	assert.Equal(t, "C", bindings[1].Local)
}

func TestExtract_Namespace(t *testing.T) {
	t.Parallel()

	set := Extract(`import * as NS from './ns';`)

	bindings := set.Bindings("./ns")
	require.Len(t, bindings, 1)
	assert.Equal(t, "* as NS", bindings[0].Raw)
	assert.Equal(t, "NS", bindings[0].Local)
	assert.Equal(t, FormNamespace, bindings[0].Form)
}

func TestExtract_DefaultCountedOnce(t *testing.T) {
	t.Parallel()

	set := Extract(`import React from 'react'`)

	bindings := set.Bindings("react")
	require.Len(t, bindings, 1)
	assert.Equal(t, "React", bindings[0].Raw)
	assert.Equal(t, FormDefault, bindings[0].Form)
}

func TestExtract_SideEffect(t *testing.T) {
	t.Parallel()

	set := Extract(`import "polyfill";`)

	bindings := set.Bindings("polyfill")
	require.Len(t, bindings, 1)
	assert.Equal(t, SideEffectRaw, bindings[0].Raw)
	assert.True(t, bindings[0].IsSideEffect())
}

func TestExtract_CombinedClauses(t *testing.T) {
	t.Parallel()

	set := Extract("import React, { useState, useEffect as effect } from \"react\";\n" +
		"import D, * as NS from 'lib';\n")

	assert.Equal(t, []string{"react", "lib"}, set.Modules())
	assert.Equal(t, []string{"React", "useState", "useEffect as effect"}, raws(set.Bindings("react")))
	assert.Equal(t, []string{"D", "* as NS"}, raws(set.Bindings("lib")))

	react := set.Bindings("react")
	assert.Equal(t, FormDefault, react[0].Form)
	assert.Equal(t, FormNamed, react[1].Form)
}

func TestExtract_TypeImports(t *testing.T) {
	t.Parallel()

	set := Extract("import type { Props } from './types';\n" +
		"import { type A, B, type as kind } from 'm';\n" +
		"import type from 'odd';\n")

	props := set.Bindings("./types")
	require.Len(t, props, 1)
	assert.Equal(t, "Props", props[0].Raw)
	assert.True(t, props[0].TypeOnly)

	m := set.Bindings("m")
	require.Len(t, m, 3)
	assert.Equal(t, "A", m[0].Raw)
	assert.True(t, m[0].TypeOnly)
	assert.Equal(t, "B", m[1].Raw)
	assert.False(t, m[1].TypeOnly)
	assert.Equal(t, "type", m[2].Raw)
	assert.Equal(t, "kind", m[2].Local)

	odd := set.Bindings("odd")
	require.Len(t, odd, 1)
	assert.Equal(t, "type", odd[0].Raw)
	assert.Equal(t, FormDefault, odd[0].Form)
}

func TestExtract_MultilineNamedWithComments(t *testing.T) {
	t.Parallel()

	set := Extract("import {\n  A,\n  B, // trailing\n  /* block */ C,\n} from 'm';\n")

	assert.Equal(t, []string{"A", "B", "C"}, raws(set.Bindings("m")))
}

func TestExtract_MergesStatementsPerModule(t *testing.T) {
	t.Parallel()

	set := Extract("import { A } from 'm';\nimport x from 'other';\nimport { B } from 'm';\nimport 'm';\n")

	assert.Equal(t, []string{"m", "other"}, set.Modules())
	assert.Equal(t, []string{"A", "B", SideEffectRaw}, raws(set.Bindings("m")))
	assert.Equal(t, 4, set.Len())

	var all []string
	for b := range set.All() {
		all = append(all, b.Raw)
	}

	assert.Equal(t, []string{"A", "B", SideEffectRaw, "x"}, all)
}

func TestExtract_Positions(t *testing.T) {
	t.Parallel()

	set := Extract("const x = 1;\n  import A from 'a';\n")

	bindings := set.Bindings("a")
	require.Len(t, bindings, 1)
	assert.Equal(t, 2, bindings[0].Line)
	assert.Equal(t, 3, bindings[0].Column)
}

func TestExtract_IgnoresMalformedAndDynamic(t *testing.T) {
	t.Parallel()

	set := Extract("import { A from \"m\"\nconst lazy = import(\"./lazy\");\nexport { B } from './b';\n")

	assert.Zero(t, set.Len())
}

func TestExtract_Idempotent(t *testing.T) {
	t.Parallel()

	text := "import React, { useState } from 'react';\nimport * as fs from 'fs';\nimport 'x';\n"

	first := Extract(text)
	second := Extract(text)

	assert.Equal(t, first.Modules(), second.Modules())

	for _, module := range first.Modules() {
		assert.Equal(t, first.Bindings(module), second.Bindings(module))
	}
}

func TestStripImports(t *testing.T) {
	t.Parallel()

	stripped := StripImports("import A from 'a';\nimport {\n  B,\n} from 'b';\nimport 'c';\nA();\n")

	assert.NotContains(t, stripped, "import")
	assert.NotContains(t, stripped, "B")
	assert.Contains(t, stripped, "A();")
}

func TestForm_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "named", FormNamed.String())
	assert.Equal(t, "namespace", FormNamespace.String())
	assert.Equal(t, "default", FormDefault.String())
	assert.Equal(t, "side-effect", FormSideEffect.String())
	assert.Equal(t, "form(9)", Form(9).String())

	text, err := FormDefault.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "default", string(text))
}
