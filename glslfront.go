// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glslfront drives an external GLSL front-end toolchain.
//
// It owns the text plumbing around the toolchain: a synthetic preamble
// (predefined macros plus a directive enabling #include support) is
// injected ahead of every compilation unit, the injection's residue is
// scrubbed from the preprocessor's output, and when the caller has not
// pinned a shader stage it is deduced from #pragma shader_stage
// annotations in the preprocessed text. Actual preprocessing, parsing,
// validation and SPIR-V generation happen behind the frontend.Frontend
// interface.
//
// Example usage:
//
//	c := glslfront.NewCompiler()
//	c.AddMacroDefinition("MAX_LIGHTS", "4")
//	err := c.Compile(fe, glslfront.Input{
//	    Source: source,
//	    Tag:    "shadow.vert",
//	}, &binary, os.Stderr)
//
// A Compiler is not safe for concurrent use; compile independent units on
// separate Compilers.
package glslfront

import (
	"sort"

	"github.com/gogpu/glslfront/preprocess"
)

// Compiler holds the settings shared by a batch of compilations: the
// predefined macro table, the default (or forced) version/profile, and the
// output modes. The zero value is not usable; call NewCompiler.
type Compiler struct {
	macros map[string]string

	defaultVersion      preprocess.Version
	forceVersionProfile bool

	preprocessOnly    bool
	disassemble       bool
	warningsAsErrors  bool
	suppressWarnings  bool
	generateDebugInfo bool

	totalWarnings int
	totalErrors   int
}

// NewCompiler returns a Compiler with GLSL's default version and profile
// (110, no profile) and no predefined macros.
func NewCompiler() *Compiler {
	return &Compiler{
		macros:         make(map[string]string),
		defaultVersion: preprocess.Version{Number: 110, Profile: preprocess.ProfileNone},
	}
}

// AddMacroDefinition predefines macro as value for every compilation unit.
// Redefining a macro replaces its value.
func (c *Compiler) AddMacroDefinition(macro, value string) {
	c.macros[macro] = value
}

// SetForcedVersionProfile makes every unit compile as the given version and
// profile, overriding any #version directive found in source.
func (c *Compiler) SetForcedVersionProfile(version int, profile preprocess.Profile) {
	c.defaultVersion = preprocess.Version{Number: version, Profile: profile}
	c.forceVersionProfile = true
}

// SetDefaultVersionProfile sets the version and profile used when a unit
// has no #version directive, without overriding directives that exist.
func (c *Compiler) SetDefaultVersionProfile(version int, profile preprocess.Profile) {
	c.defaultVersion = preprocess.Version{Number: version, Profile: profile}
}

// SetPreprocessingOnlyMode makes Compile stop after preamble cleanup and
// write the preprocessed text instead of a binary.
func (c *Compiler) SetPreprocessingOnlyMode() { c.preprocessOnly = true }

// SetDisassemblyMode makes Compile write SPIR-V assembly text instead of
// the raw binary.
func (c *Compiler) SetDisassemblyMode() { c.disassemble = true }

// SetWarningsAsErrors promotes front-end warnings to errors.
func (c *Compiler) SetWarningsAsErrors() { c.warningsAsErrors = true }

// SetSuppressWarnings drops front-end warnings from the diagnostic output.
func (c *Compiler) SetSuppressWarnings() { c.suppressWarnings = true }

// SetGenerateDebugInfo requests source-level debug info in the binary.
func (c *Compiler) SetGenerateDebugInfo() { c.generateDebugInfo = true }

// Preamble builds the synthetic preamble injected ahead of every unit:
// the macro table as #define lines (sorted by name, so output is
// deterministic) followed by the include-enabling directive.
func (c *Compiler) Preamble() preprocess.Preamble {
	names := make([]string, 0, len(c.macros))
	for name := range c.macros {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]preprocess.MacroDefinition, len(names))
	for i, name := range names {
		defs[i] = preprocess.MacroDefinition{Name: name, Value: c.macros[name]}
	}
	return preprocess.NewPreamble(defs...)
}

// DeduceVersionProfile returns the version/profile pair a unit should be
// interpreted with: the forced pair when one is set, otherwise the pair
// found in the preprocessed text, otherwise the compiler's default.
func (c *Compiler) DeduceVersionProfile(preprocessed string) preprocess.Version {
	if c.forceVersionProfile {
		return c.defaultVersion
	}
	if v, ok := preprocess.VersionProfileFromSource(preprocessed); ok {
		return v
	}
	return c.defaultVersion
}
