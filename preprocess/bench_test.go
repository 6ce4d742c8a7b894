// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package preprocess

import (
	"strings"
	"testing"
)

func benchInput() string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(poundExtension)
	b.WriteString("#version 450\n")
	for i := 0; i < 200; i++ {
		b.WriteString("vec4 color = texture(sampler2D(tex, smp), uv);\n")
	}
	return b.String()
}

func BenchmarkCleanupPreamble(b *testing.B) {
	input := benchInput()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		CleanupPreamble(input, "bench.frag", poundExtension, 1, true)
	}
}

func BenchmarkStageFromSource(b *testing.B) {
	input := "#pragma shader_stage(fragment)\n" + benchInput()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		StageFromSource("bench.frag", input, true)
	}
}
