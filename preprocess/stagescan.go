// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package preprocess

import (
	"fmt"
	"strings"

	"github.com/gogpu/glslfront/stage"
)

const (
	pragmaShaderStage   = "#pragma shader_stage"
	lineDirectivePrefix = "#line"
)

// stageAnnotation is one #pragma shader_stage occurrence: the logical line
// it appeared on and the raw stage-name token between the parentheses.
type stageAnnotation struct {
	line int
	name string
}

// StageFromSource deduces the shader stage from #pragma shader_stage
// annotations in preprocessed text. tag names the compilation unit in
// diagnostics. isForNextLine selects the #line directive convention used
// to maintain logical line numbers (see LineDirectiveIsForNextLine).
//
// When the text has no stage annotation at all, it returns stage.Unknown
// with empty diagnostics; the caller decides how to fall back. When
// annotations are present, the stage is returned only if every check
// passes; otherwise stage.Unknown is returned along with all accumulated
// diagnostics:
//
//   - the first annotation must precede any non-preprocessing code;
//   - its stage name must be one of the known stages;
//   - every later annotation must agree with the first.
func StageFromSource(tag, preprocessed string, isForNextLine bool) (stage.Stage, string) {
	lines := strings.Split(preprocessed, "\n")

	var annotations []stageAnnotation
	// Physical lines (1-based) of the first stage pragma and the first
	// non-preprocessing content.
	firstPragmaLine := len(lines) + 1
	firstCodeLine := len(lines) + 1

	logicalLine := 1
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, pragmaShaderStage) {
			name := strings.Trim(line[len(pragmaShaderStage):], "()")
			annotations = append(annotations, stageAnnotation{line: logicalLine, name: name})
			if i+1 < firstPragmaLine {
				firstPragmaLine = i + 1
			}
		} else if line != "" && !strings.HasPrefix(line, "#") {
			if i+1 < firstCodeLine {
				firstCodeLine = i + 1
			}
		}

		// Update the logical line number for the next line. Under the
		// legacy convention a #line directive names its own line, so the
		// next one is the given number plus one.
		if strings.HasPrefix(line, lineDirectivePrefix) {
			logicalLine = parseLeadingInt(line[len(lineDirectivePrefix):])
			if !isForNextLine {
				logicalLine++
			}
		} else {
			logicalLine++
		}
	}

	if len(annotations) == 0 {
		return stage.Unknown, ""
	}

	first := annotations[0]
	var diags strings.Builder

	if firstPragmaLine > firstCodeLine {
		fmt.Fprintf(&diags, "%s:%d: error: '#pragma': the first 'shader_stage' #pragma "+
			"must appear before any non-preprocessing code\n", tag, first.line)
	}

	resolved := stage.FromPragmaName(first.name)
	if resolved == stage.Unknown {
		fmt.Fprintf(&diags, "%s:%d: error: '#pragma': invalid stage for 'shader_stage' "+
			"#pragma: '%s'\n", tag, first.line, first.name)
	}

	for _, a := range annotations[1:] {
		if a.name != first.name {
			fmt.Fprintf(&diags, "%s:%d: error: '#pragma': conflicting stages for "+
				"'shader_stage' #pragma: '%s' (was '%s' at %s:%d)\n",
				tag, a.line, a.name, first.name, tag, first.line)
		}
	}

	if diags.Len() > 0 {
		return stage.Unknown, diags.String()
	}
	return resolved, ""
}
