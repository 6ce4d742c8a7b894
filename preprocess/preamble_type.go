// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package preprocess

import "strings"

// IncludeEnableDirective is the directive injected ahead of user source to
// turn on #include support in the external preprocessor.
const IncludeEnableDirective = "#extension GL_GOOGLE_include_directive : enable\n"

// MacroDefinition is one predefined macro carried by a Preamble.
type MacroDefinition struct {
	Name  string
	Value string
}

// Preamble is the synthetic text prepended to user source before
// preprocessing: macro definitions followed by the include-enabling
// directive. The same value drives both preamble construction and
// post-preprocessing cleanup, so the directive text the canonicalizer
// looks for can never drift from the text that was injected.
type Preamble struct {
	text      string
	directive string
}

// NewPreamble builds a preamble from macro definitions, in the given order.
func NewPreamble(defs ...MacroDefinition) Preamble {
	var b strings.Builder
	for _, d := range defs {
		b.WriteString("#define ")
		b.WriteString(d.Name)
		b.WriteString(" ")
		b.WriteString(d.Value)
		b.WriteString("\n")
	}
	b.WriteString(IncludeEnableDirective)
	return Preamble{text: b.String(), directive: IncludeEnableDirective}
}

// Text is the full preamble text to prepend before preprocessing.
func (p Preamble) Text() string { return p.text }

// Directive is the exact injected include-enabling directive line.
func (p Preamble) Directive() string { return p.directive }

// Cleanup removes this preamble's residue from preprocessed text.
// See CleanupPreamble.
func (p Preamble) Cleanup(preprocessed, tag string, numIncludes int, isForNextLine bool) string {
	return CleanupPreamble(preprocessed, tag, p.directive, numIncludes, isForNextLine)
}
