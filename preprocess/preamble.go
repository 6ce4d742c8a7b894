// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package preprocess

import "strings"

// CleanupPreamble removes the residue of the injected preamble from
// preprocessed shader text, so the result reads as if the original source
// had been preprocessed verbatim with #include support enabled.
//
// The macro definitions in the preamble become empty lines after
// preprocessing; those are dropped. poundExtension is the exact text of
// the injected include-enabling directive (one full line including its
// trailing newline); it is guaranteed to be present because the driver
// always injects it, and its absence is a contract violation. When the
// source expanded no #include directives (numIncludes == 0) the injected
// directive is dropped entirely and the output is byte-for-byte what
// preprocessing the bare source would have produced. Otherwise the
// directive is kept, followed by a synthesized #line directive that resumes
// logical numbering of the main file (named by tag), and any #version
// directive is moved to the very first line with an empty line left at its
// original position to keep physical line counts stable.
//
// isForNextLine selects how the synthesized #line directive is numbered,
// per LineDirectiveIsForNextLine.
func CleanupPreamble(preprocessed, tag, poundExtension string, numIncludes int, isForNextLine bool) string {
	lines := splitLinesKeep(preprocessed)

	var out strings.Builder
	out.Grow(len(preprocessed))

	extensionIndex := len(lines)
	versionIndex := len(lines)
	for i, line := range lines {
		if line == poundExtension {
			if i < extensionIndex {
				extensionIndex = i
			}
		} else if strings.HasPrefix(line, "#version") {
			// Directives are canonicalized in preprocessed text, so a
			// verbatim prefix match is enough.
			versionIndex = i
			if numIncludes > 0 {
				out.WriteString(line)
			}
			break
		}
	}
	if extensionIndex == len(lines) {
		panic("preprocess: injected " + strings.TrimSuffix(poundExtension, "\n") +
			" not found in preprocessed text")
	}

	// Every blank line before the injected directive came from a #define
	// in the preamble. Drop them.
	for i := 0; i < extensionIndex; i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		out.WriteString(lines[i])
	}

	if numIncludes > 0 {
		out.WriteString(poundExtension)
		// Resume logical numbering of the main file's first content line.
		resume := 2
		if isForNextLine {
			resume = 1
		}
		out.WriteString(LineDirective(resume, tag))
	}

	for i := extensionIndex + 1; i < len(lines); i++ {
		if i == versionIndex {
			if numIncludes > 0 {
				// The #version text already went out on line one; keep an
				// empty line here so physical positions don't shift.
				out.WriteString("\n")
			} else {
				out.WriteString(lines[i])
			}
		} else {
			out.WriteString(lines[i])
		}
	}

	return out.String()
}

// splitLinesKeep splits text into lines, each retaining its trailing
// newline when it has one. The concatenation of the result is the input.
func splitLinesKeep(text string) []string {
	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}
