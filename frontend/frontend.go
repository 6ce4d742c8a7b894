// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package frontend defines the contract between glslfront and the external
// shading-language toolchain that does the heavy lifting: token-level
// preprocessing, GLSL parsing and validation, and SPIR-V generation.
//
// glslfront itself never touches GLSL grammar. It prepares input for a
// Frontend, fixes up the Frontend's preprocessing output, and decides
// which stage to compile; everything past that point happens behind these
// interfaces.
package frontend

import (
	"github.com/gogpu/glslfront/preprocess"
	"github.com/gogpu/glslfront/stage"
)

// IncludeResult is the content resolved for one #include directive.
type IncludeResult struct {
	// Name is the resolved name of the included file, used in #line
	// directives that bracket the expanded content.
	Name string

	// Content is the full text of the included file.
	Content string
}

// IncludeResolver locates the content of #include directives on behalf of
// the preprocessor and reports how many directives it expanded. The
// expanded count feeds preamble cleanup: when it is zero the injected
// include-enabling directive is removed from the output entirely.
//
// Implementations are not required to be safe for concurrent use; each
// compilation gets its own resolver.
type IncludeResolver interface {
	// Resolve returns the content for the include named name, requested
	// from the file requester at the given inclusion depth.
	Resolve(name, requester string, depth int) (IncludeResult, error)

	// ExpandedCount reports how many #include directives have been
	// expanded through this resolver so far.
	ExpandedCount() int
}

// CompileOptions carries the compiler driver's settings into the
// toolchain's parse/link/codegen stages.
type CompileOptions struct {
	// DefaultVersion applies when the source has no #version directive,
	// or unconditionally when ForceVersionProfile is set.
	DefaultVersion preprocess.Version

	// ForceVersionProfile makes DefaultVersion override any #version
	// directive found in source.
	ForceVersionProfile bool

	// GenerateDebugInfo requests source-level debug info in the binary.
	GenerateDebugInfo bool

	// Resolver handles #include directives during parsing.
	Resolver IncludeResolver
}

// Frontend is the narrow call contract to an external GLSL toolchain
// (glslang or an equivalent).
//
// Both Preprocess and Compile return the toolchain's info log alongside
// their result. The log may carry warnings even on success; the caller is
// responsible for filtering and counting it. A non-nil error means the
// toolchain could not run at all (as opposed to the shader being invalid,
// which is conveyed through ERROR lines in the log).
type Frontend interface {
	// Preprocess expands macros and #include directives in source, with
	// preamble prepended ahead of it. tag names the compilation unit in
	// the log.
	Preprocess(tag, source, preamble string, resolver IncludeResolver) (text, infoLog string, err error)

	// Compile parses, links and generates a SPIR-V binary for a single
	// shader of the given stage, with preamble prepended as in Preprocess.
	Compile(s stage.Stage, tag, source, preamble string, opts CompileOptions) (words []uint32, infoLog string, err error)

	// Disassemble renders a SPIR-V binary as human-readable assembly.
	Disassemble(words []uint32) (string, error)
}
