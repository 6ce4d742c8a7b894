// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package stage

import "strings"

// Stage identifies the pipeline role of a shader.
type Stage int

const (
	// Unknown means the stage has not been determined yet. It is the
	// zero value so an unset Stage is never mistaken for a real one.
	Unknown Stage = iota
	Vertex
	Fragment
	TessControl
	TessEvaluation
	Geometry
	Compute
)

// String returns the canonical lowercase stage name.
func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	case TessControl:
		return "tesscontrol"
	case TessEvaluation:
		return "tesseval"
	case Geometry:
		return "geometry"
	case Compute:
		return "compute"
	}
	return "unknown"
}

// pragmaNames maps the stage names accepted inside a
// `#pragma shader_stage(...)` annotation. Matching is case-sensitive,
// following glslang's behavior.
var pragmaNames = map[string]Stage{
	"vertex":      Vertex,
	"fragment":    Fragment,
	"tesscontrol": TessControl,
	"tesseval":    TessEvaluation,
	"geometry":    Geometry,
	"compute":     Compute,
}

// FromPragmaName maps a stage-pragma name to its Stage.
// Unrecognized names yield Unknown.
func FromPragmaName(name string) Stage {
	return pragmaNames[name]
}

// extensions maps conventional shader file extensions to stages.
var extensions = map[string]Stage{
	".vert": Vertex,
	".frag": Fragment,
	".tesc": TessControl,
	".tese": TessEvaluation,
	".geom": Geometry,
	".comp": Compute,
}

// FromFileName deduces a stage from a file name's extension,
// e.g. "shadow.frag" -> Fragment. Returns Unknown when the extension
// is not a conventional stage extension.
func FromFileName(name string) Stage {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 {
		return Unknown
	}
	return extensions[name[dot:]]
}
