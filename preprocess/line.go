// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package preprocess

import "strconv"

// LineDirectiveIsForNextLine reports whether a #line directive sets the
// logical line number of the line following it. The meaning changed in
// GLSL 330: before that (and outside the ES profile) the directive named
// its own line.
func LineDirectiveIsForNextLine(v Version) bool {
	return v.Profile == ProfileES || v.Number >= 330
}

// LineDirective returns a line-number directive for the given logical line
// and file tag, in the literal form `#line <n> "<tag>"` plus newline.
func LineDirective(line int, tag string) string {
	return "#line " + strconv.Itoa(line) + " \"" + tag + "\"\n"
}

// parseLeadingInt parses an optionally signed decimal integer at the start
// of s, skipping leading spaces and tabs, with atoi semantics: trailing
// text is ignored and 0 is returned when no digits are present.
func parseLeadingInt(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if neg {
		return -n
	}
	return n
}
