// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslang

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/gogpu/glslfront/disasm"
	"github.com/gogpu/glslfront/include"
	"github.com/gogpu/glslfront/stage"
)

func TestStageFlags(t *testing.T) {
	tests := []struct {
		s    stage.Stage
		want string
	}{
		{stage.Vertex, "vert"},
		{stage.Fragment, "frag"},
		{stage.TessControl, "tesc"},
		{stage.TessEvaluation, "tese"},
		{stage.Geometry, "geom"},
		{stage.Compute, "comp"},
	}
	for _, tt := range tests {
		if got := stageFlags[tt.s]; got != tt.want {
			t.Errorf("stageFlags[%v] = %q, want %q", tt.s, got, tt.want)
		}
	}
	if _, ok := stageFlags[stage.Unknown]; ok {
		t.Error("stageFlags maps the Unknown stage")
	}
}

func TestSanitize(t *testing.T) {
	if got := sanitize(`shaders/main.vert`); got != "shaders_main.vert" {
		t.Errorf("sanitize = %q", got)
	}
	if got := sanitize(`a:b*c?.frag`); got != "a_b_c_.frag" {
		t.Errorf("sanitize = %q", got)
	}
}

func TestBytesToWords(t *testing.T) {
	words, err := bytesToWords([]byte{0x03, 0x02, 0x23, 0x07, 0x01, 0x00, 0x00, 0x00})
	if err != nil {
		t.Fatalf("bytesToWords failed: %v", err)
	}
	if len(words) != 2 || words[0] != 0x07230203 || words[1] != 1 {
		t.Errorf("words = %#x", words)
	}

	if _, err := bytesToWords([]byte{1, 2, 3}); err == nil {
		t.Error("bytesToWords accepted a truncated binary")
	}
}

func TestIncludeArgs(t *testing.T) {
	v := New()
	r := include.NewResolver(fstest.MapFS{}, "lib", "vendor/shaders")

	args := v.includeArgs(r)
	want := []string{"-Ilib", "-Ivendor/shaders"}
	if len(args) != len(want) {
		t.Fatalf("includeArgs = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("includeArgs[%d] = %q, want %q", i, args[i], want[i])
		}
	}

	if got := v.includeArgs(nil); got != nil {
		t.Errorf("includeArgs(nil) = %v, want nil", got)
	}
}

func TestDisassembleUsesBuiltin(t *testing.T) {
	v := New()
	text, err := v.Disassemble([]uint32{disasm.Magic, 0x00010300, 0, 1, 0})
	if err != nil {
		t.Fatalf("Disassemble failed: %v", err)
	}
	if !strings.HasPrefix(text, "; SPIR-V") {
		t.Errorf("Disassemble output = %q", text)
	}
}
