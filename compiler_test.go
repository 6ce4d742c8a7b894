// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslfront

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/gogpu/glslfront/frontend"
	"github.com/gogpu/glslfront/preprocess"
	"github.com/gogpu/glslfront/stage"
)

// fakeFrontend emulates the observable shape of glslang's output: preamble
// #define lines become blank lines in the preprocessed text, the injected
// #extension line passes through verbatim, and #include directives expand
// to the resolved content bracketed by #line directives.
type fakeFrontend struct {
	preprocessCalls int
	preprocessLog   string
	preprocessErr   error

	compileCalls    int
	compileLog      string
	compiledStage   stage.Stage
	compilePreamble string
	words           []uint32

	disassembly string
}

func (f *fakeFrontend) Preprocess(tag, source, preamble string, r frontend.IncludeResolver) (string, string, error) {
	f.preprocessCalls++
	if f.preprocessErr != nil {
		return "", "", f.preprocessErr
	}

	var out strings.Builder
	for _, line := range strings.SplitAfter(preamble, "\n") {
		if strings.HasPrefix(line, "#define") {
			out.WriteString("\n")
		} else {
			out.WriteString(line)
		}
	}
	for i, line := range strings.SplitAfter(source, "\n") {
		name, ok := includeName(line)
		if !ok || r == nil {
			out.WriteString(line)
			continue
		}
		res, err := r.Resolve(name, tag, 1)
		if err != nil {
			return "", fmt.Sprintf("ERROR: %s:%d: '#include' : %v\n", tag, i+1, err), nil
		}
		fmt.Fprintf(&out, "#line 0 %q\n", res.Name)
		out.WriteString(res.Content)
		fmt.Fprintf(&out, "#line %d %q\n", i+1, tag)
	}
	return out.String(), f.preprocessLog, nil
}

func includeName(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "#include") {
		return "", false
	}
	return strings.Trim(strings.TrimSpace(line[len("#include"):]), `"`), true
}

func (f *fakeFrontend) Compile(s stage.Stage, tag, source, preamble string, opts frontend.CompileOptions) ([]uint32, string, error) {
	f.compileCalls++
	f.compiledStage = s
	f.compilePreamble = preamble
	return f.words, f.compileLog, nil
}

func (f *fakeFrontend) Disassemble(words []uint32) (string, error) {
	if f.disassembly == "" {
		return "", errors.New("no disassembly configured")
	}
	return f.disassembly, nil
}

// fakeResolver serves includes from a map and counts expansions.
type fakeResolver struct {
	files map[string]string
	count int
}

func (r *fakeResolver) Resolve(name, requester string, depth int) (frontend.IncludeResult, error) {
	content, ok := r.files[name]
	if !ok {
		return frontend.IncludeResult{}, fmt.Errorf("cannot open include file %q", name)
	}
	r.count++
	return frontend.IncludeResult{Name: name, Content: content}, nil
}

func (r *fakeResolver) ExpandedCount() int { return r.count }

func TestCompilePreprocessOnly(t *testing.T) {
	c := NewCompiler()
	c.AddMacroDefinition("MAX_LIGHTS", "4")
	c.SetPreprocessingOnlyMode()
	fe := &fakeFrontend{}

	var out, errOut bytes.Buffer
	err := c.Compile(fe, Input{
		Source: "#version 450\nvoid main() {}\n",
		Tag:    "shader.vert",
	}, &out, &errOut)
	if err != nil {
		t.Fatalf("Compile failed: %v (diagnostics: %s)", err, errOut.String())
	}

	// With no includes the preamble must leave no trace.
	want := "#version 450\nvoid main() {}\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if fe.compileCalls != 0 {
		t.Errorf("front-end Compile called %d times in preprocess-only mode", fe.compileCalls)
	}
}

func TestCompilePreprocessOnlyWithIncludes(t *testing.T) {
	c := NewCompiler()
	c.SetPreprocessingOnlyMode()
	fe := &fakeFrontend{}
	r := &fakeResolver{files: map[string]string{"lib.glsl": "float helper;\n"}}

	var out, errOut bytes.Buffer
	err := c.Compile(fe, Input{
		Source:   "#version 450\n#include \"lib.glsl\"\nvoid main() {}\n",
		Tag:      "shader.vert",
		Resolver: r,
	}, &out, &errOut)
	if err != nil {
		t.Fatalf("Compile failed: %v (diagnostics: %s)", err, errOut.String())
	}

	text := out.String()
	if !strings.HasPrefix(text, "#version 450\n") {
		t.Errorf("output does not start with the #version line:\n%s", text)
	}
	if !strings.Contains(text, preprocess.IncludeEnableDirective) {
		t.Errorf("output lost the include-enabling directive:\n%s", text)
	}
	if !strings.Contains(text, "#line 1 \"shader.vert\"\n") {
		t.Errorf("output missing the synthesized resume directive:\n%s", text)
	}
	if !strings.Contains(text, "float helper;") {
		t.Errorf("output missing the expanded include:\n%s", text)
	}
}

func TestCompileDeducesStageFromPragma(t *testing.T) {
	c := NewCompiler()
	fe := &fakeFrontend{words: []uint32{0x07230203, 0x00010300, 0, 1, 0}}

	var out, errOut bytes.Buffer
	err := c.Compile(fe, Input{
		Source: "#pragma shader_stage(fragment)\nvoid main() {}\n",
		Tag:    "a.glsl",
	}, &out, &errOut)
	if err != nil {
		t.Fatalf("Compile failed: %v (diagnostics: %s)", err, errOut.String())
	}
	if fe.compiledStage != stage.Fragment {
		t.Errorf("compiled stage = %v, want %v", fe.compiledStage, stage.Fragment)
	}

	// The binary is the words little-endian.
	want := []byte{0x03, 0x02, 0x23, 0x07}
	if !bytes.Equal(out.Bytes()[:4], want) {
		t.Errorf("output starts with % x, want % x", out.Bytes()[:4], want)
	}
	if out.Len() != 4*len(fe.words) {
		t.Errorf("output length = %d, want %d", out.Len(), 4*len(fe.words))
	}
}

func TestCompileForcedStageSkipsPreprocessing(t *testing.T) {
	c := NewCompiler()
	fe := &fakeFrontend{words: []uint32{1}}

	var out, errOut bytes.Buffer
	err := c.Compile(fe, Input{
		Source: "void main() {}\n",
		Tag:    "a.vert",
		Stage:  stage.Vertex,
	}, &out, &errOut)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if fe.preprocessCalls != 0 {
		t.Errorf("Preprocess called %d times with a pinned stage", fe.preprocessCalls)
	}
	if fe.compiledStage != stage.Vertex {
		t.Errorf("compiled stage = %v, want %v", fe.compiledStage, stage.Vertex)
	}
}

func TestCompileStageCallbackFallback(t *testing.T) {
	c := NewCompiler()
	fe := &fakeFrontend{words: []uint32{1}}

	var out, errOut bytes.Buffer
	err := c.Compile(fe, Input{
		Source: "void main() {}\n",
		Tag:    "a.comp",
		StageCallback: func(io.Writer, string) stage.Stage {
			return stage.Compute
		},
	}, &out, &errOut)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if fe.compiledStage != stage.Compute {
		t.Errorf("compiled stage = %v, want %v", fe.compiledStage, stage.Compute)
	}
}

func TestCompileUndeterminedStage(t *testing.T) {
	c := NewCompiler()
	fe := &fakeFrontend{}

	var out, errOut bytes.Buffer
	err := c.Compile(fe, Input{Source: "void main() {}\n", Tag: "a.glsl"}, &out, &errOut)
	if err == nil {
		t.Fatal("Compile succeeded with no way to determine the stage")
	}
	if fe.compileCalls != 0 {
		t.Errorf("front-end Compile called despite unknown stage")
	}
}

func TestCompileConflictingPragmas(t *testing.T) {
	c := NewCompiler()
	fe := &fakeFrontend{}

	var out, errOut bytes.Buffer
	err := c.Compile(fe, Input{
		Source: "#pragma shader_stage(vertex)\n#pragma shader_stage(fragment)\nvoid main() {}\n",
		Tag:    "a.glsl",
	}, &out, &errOut)
	if err == nil {
		t.Fatal("Compile succeeded with conflicting stage pragmas")
	}
	if !strings.Contains(errOut.String(), "conflicting stages") {
		t.Errorf("diagnostics missing conflict message: %q", errOut.String())
	}
	if c.ErrorCount() != 1 {
		t.Errorf("ErrorCount = %d, want 1", c.ErrorCount())
	}
}

func TestCompilePreprocessErrors(t *testing.T) {
	c := NewCompiler()
	fe := &fakeFrontend{preprocessLog: "ERROR: a.glsl:1: '' : bad directive\n"}

	var out, errOut bytes.Buffer
	err := c.Compile(fe, Input{Source: "#bogus\n", Tag: "a.glsl"}, &out, &errOut)
	if err == nil {
		t.Fatal("Compile succeeded despite preprocessor errors")
	}
	if !strings.Contains(errOut.String(), "bad directive") {
		t.Errorf("diagnostics = %q, want the front-end error", errOut.String())
	}
	if c.ErrorCount() != 1 {
		t.Errorf("ErrorCount = %d, want 1", c.ErrorCount())
	}
}

func TestCompileWarningsAsErrors(t *testing.T) {
	c := NewCompiler()
	c.SetWarningsAsErrors()
	fe := &fakeFrontend{words: []uint32{1}, compileLog: "WARNING: a.vert:3: deprecated\n"}

	var out, errOut bytes.Buffer
	err := c.Compile(fe, Input{Source: "void main() {}\n", Tag: "a.vert", Stage: stage.Vertex}, &out, &errOut)
	if err == nil {
		t.Fatal("Compile succeeded with warnings promoted to errors")
	}
	if !strings.HasPrefix(errOut.String(), "ERROR:") {
		t.Errorf("promoted warning not rewritten: %q", errOut.String())
	}
	if c.ErrorCount() != 1 || c.WarningCount() != 0 {
		t.Errorf("counts = %d errors, %d warnings; want 1, 0", c.ErrorCount(), c.WarningCount())
	}
}

func TestCompileDisassemblyMode(t *testing.T) {
	c := NewCompiler()
	c.SetDisassemblyMode()
	fe := &fakeFrontend{words: []uint32{1}, disassembly: "; SPIR-V\nOpCapability Shader\n"}

	var out, errOut bytes.Buffer
	err := c.Compile(fe, Input{Source: "void main() {}\n", Tag: "a.frag", Stage: stage.Fragment}, &out, &errOut)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "; SPIR-V") {
		t.Errorf("output = %q, want disassembly text", out.String())
	}
}

func TestCompilePropagatesFrontendFailure(t *testing.T) {
	c := NewCompiler()
	fe := &fakeFrontend{preprocessErr: errors.New("binary not found")}

	var out, errOut bytes.Buffer
	err := c.Compile(fe, Input{Source: "void main() {}\n", Tag: "a.glsl"}, &out, &errOut)
	if err == nil || !strings.Contains(err.Error(), "binary not found") {
		t.Errorf("err = %v, want wrapped front-end failure", err)
	}
}

func TestPreambleDeterministicOrder(t *testing.T) {
	c := NewCompiler()
	c.AddMacroDefinition("ZED", "1")
	c.AddMacroDefinition("ALPHA", "2")

	want := "#define ALPHA 2\n#define ZED 1\n" + preprocess.IncludeEnableDirective
	if got := c.Preamble().Text(); got != want {
		t.Errorf("Preamble = %q, want %q", got, want)
	}
}

func TestDeduceVersionProfile(t *testing.T) {
	c := NewCompiler()

	// Found in source.
	v := c.DeduceVersionProfile("#version 310 es\n")
	if v != (preprocess.Version{Number: 310, Profile: preprocess.ProfileES}) {
		t.Errorf("deduced %v, want 310 es", v)
	}

	// Falls back to the compiler default.
	c.SetDefaultVersionProfile(450, preprocess.ProfileCore)
	v = c.DeduceVersionProfile("void main() {}\n")
	if v != (preprocess.Version{Number: 450, Profile: preprocess.ProfileCore}) {
		t.Errorf("deduced %v, want the 450 core default", v)
	}

	// Forced pair wins over the source.
	c.SetForcedVersionProfile(100, preprocess.ProfileES)
	v = c.DeduceVersionProfile("#version 450\n")
	if v != (preprocess.Version{Number: 100, Profile: preprocess.ProfileES}) {
		t.Errorf("deduced %v, want the forced 100 es", v)
	}
}

func TestMessageSummary(t *testing.T) {
	c := NewCompiler()
	var sink bytes.Buffer
	c.filterMessages(&sink, "WARNING: w1\nERROR: e1\nERROR: e2\n", false)

	if got := c.MessageSummary(); got != "1 warning and 2 errors generated." {
		t.Errorf("MessageSummary = %q", got)
	}
}
