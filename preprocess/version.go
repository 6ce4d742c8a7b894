// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package preprocess

import "strings"

// Profile is the profile named by a #version directive.
type Profile int

const (
	// ProfileNone means the directive named no profile (or none was found).
	ProfileNone Profile = iota
	ProfileCore
	ProfileCompatibility
	ProfileES
)

// String returns the profile suffix as it appears in source, "" for none.
func (p Profile) String() string {
	switch p {
	case ProfileCore:
		return "core"
	case ProfileCompatibility:
		return "compatibility"
	case ProfileES:
		return "es"
	}
	return ""
}

// Version is the (number, profile) pair carried by a #version directive.
// The zero value is the "undetected" sentinel.
type Version struct {
	Number  int
	Profile Profile
}

// Detected reports whether v carries a real #version value rather than
// the undetected sentinel.
func (v Version) Detected() bool {
	return v.Number != 0 || v.Profile != ProfileNone
}

// ParseVersionProfile parses the argument of a #version directive with all
// space characters already removed, e.g. "450", "310es", "150compatibility".
// There is no partial success: the whole string must be an integer followed
// by a recognized profile suffix (or nothing), otherwise ok is false and
// the zero Version is returned.
func ParseVersionProfile(s string) (v Version, ok bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		v.Number = v.Number*10 + int(s[i]-'0')
		i++
	}
	if i == 0 {
		return Version{}, false
	}
	switch s[i:] {
	case "":
		v.Profile = ProfileNone
	case "core":
		v.Profile = ProfileCore
	case "compatibility":
		v.Profile = ProfileCompatibility
	case "es":
		v.Profile = ProfileES
	default:
		return Version{}, false
	}
	return v, true
}

// VersionProfileFromSource extracts the version/profile pair from the first
// #version directive in preprocessed source text. It returns the zero
// Version and ok=false when no directive is present or its argument does
// not parse.
//
// Only the space character is stripped from the directive's argument,
// matching how the external preprocessor canonicalizes directives.
func VersionProfileFromSource(text string) (Version, bool) {
	const poundVersion = "#version"
	loc := strings.Index(text, poundVersion)
	if loc < 0 {
		return Version{}, false
	}
	rest := text[loc+len(poundVersion):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return ParseVersionProfile(strings.ReplaceAll(rest, " ", ""))
}
