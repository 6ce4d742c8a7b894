// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslfront

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/gogpu/glslfront/frontend"
	"github.com/gogpu/glslfront/preprocess"
	"github.com/gogpu/glslfront/stage"
)

// Input is one compilation unit.
type Input struct {
	// Source is the shader text.
	Source string

	// Tag names the compilation unit in diagnostics and synthesized #line
	// directives, typically the file name.
	Tag string

	// Stage pins the shader stage. Leave it Unknown to deduce the stage
	// from a #pragma shader_stage annotation, then from StageCallback.
	Stage stage.Stage

	// StageCallback is consulted when neither Stage nor an annotation
	// decides the stage. It may write its own diagnostics to the error
	// writer passed to Compile, and returns stage.Unknown to give up.
	StageCallback func(errOut io.Writer, tag string) stage.Stage

	// Resolver handles #include directives; it may be nil when the source
	// is known to have none.
	Resolver frontend.IncludeResolver
}

// Compile runs the full pipeline for one compilation unit: preprocess with
// the synthetic preamble injected, clean the injection's residue out of the
// output, resolve the shader stage, then hand off to the front-end for
// parsing and code generation. The result written to out is the SPIR-V
// binary, its disassembly, or the cleaned preprocessed text, depending on
// the compiler's mode. User-facing diagnostics go to errOut; the returned
// error summarizes why compilation stopped.
func (c *Compiler) Compile(fe frontend.Frontend, in Input, out, errOut io.Writer) error {
	used := in.Stage
	pre := c.Preamble()

	// Preprocess up front when the output is preprocessed text, or when
	// the stage is still unknown and must be read out of the preprocessed
	// source.
	if c.preprocessOnly || used == stage.Unknown {
		text, infoLog, err := fe.Preprocess(in.Tag, in.Source, pre.Text(), in.Resolver)
		if err != nil {
			return fmt.Errorf("preprocess %s: %w", in.Tag, err)
		}
		// Warnings surface again during the real parse; keep this pass quiet.
		if !c.filterMessages(errOut, infoLog, true) {
			return fmt.Errorf("preprocessing %s failed", in.Tag)
		}

		version := c.DeduceVersionProfile(text)
		isForNextLine := preprocess.LineDirectiveIsForNextLine(version)
		numIncludes := 0
		if in.Resolver != nil {
			numIncludes = in.Resolver.ExpandedCount()
		}
		text = pre.Cleanup(text, in.Tag, numIncludes, isForNextLine)

		if c.preprocessOnly {
			_, err := io.WriteString(out, text)
			return err
		}

		st, diags := preprocess.StageFromSource(in.Tag, text, isForNextLine)
		if diags != "" {
			io.WriteString(errOut, diags) //nolint:errcheck // diagnostics are best effort
			c.totalErrors += strings.Count(diags, "\n")
			return fmt.Errorf("invalid 'shader_stage' #pragma in %s", in.Tag)
		}
		used = st
		if used == stage.Unknown && in.StageCallback != nil {
			used = in.StageCallback(errOut, in.Tag)
		}
		if used == stage.Unknown {
			return fmt.Errorf("unable to determine shader stage for %s", in.Tag)
		}
	}

	words, infoLog, err := fe.Compile(used, in.Tag, in.Source, pre.Text(), frontend.CompileOptions{
		DefaultVersion:      c.defaultVersion,
		ForceVersionProfile: c.forceVersionProfile,
		GenerateDebugInfo:   c.generateDebugInfo,
		Resolver:            in.Resolver,
	})
	if err != nil {
		return fmt.Errorf("compile %s: %w", in.Tag, err)
	}
	if !c.filterMessages(errOut, infoLog, c.suppressWarnings) {
		return fmt.Errorf("compilation of %s failed", in.Tag)
	}

	if c.disassemble {
		text, err := fe.Disassemble(words)
		if err != nil {
			return fmt.Errorf("disassemble %s: %w", in.Tag, err)
		}
		_, err = io.WriteString(out, text)
		return err
	}
	return writeWords(out, words)
}

// writeWords writes SPIR-V words as a little-endian binary.
func writeWords(w io.Writer, words []uint32) error {
	buf := make([]byte, 4*len(words))
	for i, word := range words {
		binary.LittleEndian.PutUint32(buf[i*4:], word)
	}
	_, err := w.Write(buf)
	return err
}
