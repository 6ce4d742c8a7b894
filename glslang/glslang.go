// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glslang implements frontend.Frontend by driving a glslang
// reference-compiler binary (glslangValidator) out of process.
//
// Because the binary cannot call back into Go, #include directives are
// resolved twice: the binary expands them textually (given the resolver's
// search directories via -I), while the adapter walks the same directives
// through the resolver so its expanded count stays accurate for preamble
// cleanup.
package glslang

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gogpu/glslfront/disasm"
	"github.com/gogpu/glslfront/frontend"
	"github.com/gogpu/glslfront/include"
	"github.com/gogpu/glslfront/stage"
)

// DefaultBin is the binary name used when none is configured.
const DefaultBin = "glslangValidator"

// Validator runs a glslang binary as the external front-end.
type Validator struct {
	// Bin is the glslang binary to invoke, looked up on PATH when not
	// an absolute path.
	Bin string

	// WorkDir receives temporary output files. Defaults to os.TempDir().
	WorkDir string
}

// New returns a Validator using the default binary name.
func New() *Validator {
	return &Validator{Bin: DefaultBin}
}

var stageFlags = map[stage.Stage]string{
	stage.Vertex:         "vert",
	stage.Fragment:       "frag",
	stage.TessControl:    "tesc",
	stage.TessEvaluation: "tese",
	stage.Geometry:       "geom",
	stage.Compute:        "comp",
}

// Preprocess implements frontend.Frontend. The stage passed to the binary
// is irrelevant for preprocessing; vert is used throughout.
func (v *Validator) Preprocess(tag, source, preamble string, resolver frontend.IncludeResolver) (string, string, error) {
	args := []string{"--stdin", "-S", "vert", "-E", "--preamble-text", preamble}
	args = append(args, v.includeArgs(resolver)...)

	stdout, stderr, err := v.run(args, source)
	if err != nil {
		return "", "", fmt.Errorf("glslang: preprocess %s: %w", tag, err)
	}
	if resolver != nil {
		if err := include.ScanDirectives(resolver, tag, source, 0); err != nil {
			return "", fmt.Sprintf("ERROR: %s: '#include' : %v\n", tag, err), nil
		}
	}
	if bytes.Contains(stdout, []byte("ERROR:")) {
		// The binary mixes diagnostics into stdout on failure.
		return "", string(stdout) + string(stderr), nil
	}
	return string(stdout), string(stderr), nil
}

// Compile implements frontend.Frontend, generating a Vulkan-flavor SPIR-V
// binary.
func (v *Validator) Compile(s stage.Stage, tag, source, preamble string, opts frontend.CompileOptions) ([]uint32, string, error) {
	flag, ok := stageFlags[s]
	if !ok {
		return nil, "", fmt.Errorf("glslang: no stage flag for %v", s)
	}

	outPath := filepath.Join(v.workDir(), sanitize(tag)+".spv")
	defer os.Remove(outPath)

	args := []string{"--stdin", "-S", flag, "-V", "--preamble-text", preamble, "-o", outPath}
	if opts.GenerateDebugInfo {
		args = append(args, "-g")
	}
	args = append(args, v.includeArgs(opts.Resolver)...)

	stdout, stderr, err := v.run(args, source)
	infoLog := string(stdout) + string(stderr)
	if err != nil {
		return nil, "", fmt.Errorf("glslang: compile %s: %w", tag, err)
	}
	if strings.Contains(infoLog, "ERROR:") {
		return nil, infoLog, nil
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, infoLog, fmt.Errorf("glslang: reading output for %s: %w", tag, err)
	}
	words, err := bytesToWords(data)
	if err != nil {
		return nil, infoLog, err
	}
	return words, infoLog, nil
}

// Disassemble implements frontend.Frontend using the built-in disassembler,
// so no second external tool is needed.
func (v *Validator) Disassemble(words []uint32) (string, error) {
	return disasm.Disassemble(words)
}

func (v *Validator) run(args []string, stdin string) ([]byte, []byte, error) {
	bin := v.Bin
	if bin == "" {
		bin = DefaultBin
	}
	cmd := exec.Command(bin, args...)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		// Could not run the binary at all.
		return nil, nil, fmt.Errorf("failed to run %v: %w", cmd.Args, err)
	}
	// Nonzero exit means the shader was rejected; the diagnostics in the
	// captured output tell the caller why.
	return stdout.Bytes(), stderr.Bytes(), nil
}

// includeArgs turns the resolver's search directories into -I flags when
// the resolver exposes them.
func (v *Validator) includeArgs(resolver frontend.IncludeResolver) []string {
	type dirLister interface{ Dirs() []string }
	dl, ok := resolver.(dirLister)
	if !ok {
		return nil
	}
	dirs := dl.Dirs()
	args := make([]string, 0, len(dirs))
	for _, d := range dirs {
		args = append(args, "-I"+d)
	}
	return args
}

func (v *Validator) workDir() string {
	if v.WorkDir != "" {
		return v.WorkDir
	}
	return os.TempDir()
}

// sanitize makes a compilation-unit tag safe to use as a file name.
func sanitize(tag string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, tag)
}

func bytesToWords(data []byte) ([]uint32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("glslang: SPIR-V output size %d is not a multiple of 4", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = uint32(data[i*4]) | uint32(data[i*4+1])<<8 |
			uint32(data[i*4+2])<<16 | uint32(data[i*4+3])<<24
	}
	return words, nil
}
