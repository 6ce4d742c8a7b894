// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package preprocess contains the text transformations glslfront applies
// around an external GLSL preprocessor.
//
// The compiler driver prepends a synthetic preamble (macro definitions plus
// an #extension directive that turns on #include support) to every
// compilation unit before handing it to the preprocessor. This package
// removes the residue of that injection from the preprocessor's output
// (CleanupPreamble) and deduces the shader stage from #pragma shader_stage
// annotations in the result (StageFromSource).
//
// Both transformations need to know how #line directives are interpreted:
// for the ES profile and for core/compatibility versions 330 and newer, a
// #line directive names the line after it; older versions name the
// directive's own line. LineDirectiveIsForNextLine decides between the two,
// based on the #version directive found by VersionProfileFromSource.
//
// Everything here is a pure function of its inputs. Nothing reads files,
// keeps state between calls, or needs synchronization.
package preprocess
