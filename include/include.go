// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package include provides a filesystem-backed IncludeResolver.
package include

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/gogpu/glslfront/frontend"
)

// MaxDepth is the inclusion depth at which resolution gives up, guarding
// against include cycles.
const MaxDepth = 100

// Resolver resolves #include names against a file system, searching the
// requesting file's directory first and then each search directory in
// order. It counts every successful expansion.
type Resolver struct {
	fsys  fs.FS
	dirs  []string
	count int
}

// NewResolver returns a Resolver over fsys with the given ordered search
// directories.
func NewResolver(fsys fs.FS, dirs ...string) *Resolver {
	return &Resolver{fsys: fsys, dirs: dirs}
}

// Resolve implements frontend.IncludeResolver.
func (r *Resolver) Resolve(name, requester string, depth int) (frontend.IncludeResult, error) {
	if depth > MaxDepth {
		return frontend.IncludeResult{}, fmt.Errorf("include depth exceeds %d resolving %q (cycle?)", MaxDepth, name)
	}

	candidates := make([]string, 0, len(r.dirs)+1)
	if requester != "" {
		candidates = append(candidates, path.Join(path.Dir(requester), name))
	}
	for _, dir := range r.dirs {
		candidates = append(candidates, path.Join(dir, name))
	}
	if len(candidates) == 0 {
		candidates = append(candidates, path.Clean(name))
	}

	for _, c := range candidates {
		data, err := fs.ReadFile(r.fsys, c)
		if err != nil {
			continue
		}
		r.count++
		return frontend.IncludeResult{Name: c, Content: string(data)}, nil
	}
	return frontend.IncludeResult{}, fmt.Errorf("cannot open include file %q (requested from %q)", name, requester)
}

// ExpandedCount implements frontend.IncludeResolver.
func (r *Resolver) ExpandedCount() int {
	return r.count
}

// Dirs returns the ordered search directories.
func (r *Resolver) Dirs() []string {
	return r.dirs
}

// ScanDirectives walks source resolving every #include directive it finds,
// recursing into resolved content, so that r's expanded count reflects the
// expansion an external preprocessor performs on the same input. It is used
// with toolchains that run out of process and cannot call back into the
// resolver themselves.
//
// Directive arguments may be quoted ("name") or bracketed (<name>); both
// resolve the same way.
func ScanDirectives(r frontend.IncludeResolver, requester, source string, depth int) error {
	for _, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#include") {
			continue
		}
		name := parseIncludeName(line[len("#include"):])
		if name == "" {
			continue
		}
		res, err := r.Resolve(name, requester, depth+1)
		if err != nil {
			return err
		}
		if err := ScanDirectives(r, res.Name, res.Content, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// parseIncludeName extracts the file name from the argument of an #include
// directive, stripping surrounding quotes or angle brackets. It returns ""
// when the argument is malformed.
func parseIncludeName(arg string) string {
	arg = strings.TrimSpace(arg)
	if len(arg) < 2 {
		return ""
	}
	switch {
	case arg[0] == '"':
		if end := strings.IndexByte(arg[1:], '"'); end >= 0 {
			return arg[1 : 1+end]
		}
	case arg[0] == '<':
		if end := strings.IndexByte(arg[1:], '>'); end >= 0 {
			return arg[1 : 1+end]
		}
	}
	return ""
}
