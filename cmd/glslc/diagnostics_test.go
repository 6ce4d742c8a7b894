package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintDiagnosticsKeepsAllLines(t *testing.T) {
	var buf bytes.Buffer
	printDiagnostics(&buf, "ERROR: a.vert:3: '' : undeclared identifier\n"+
		"WARNING: a.vert:7: deprecated\n"+
		"a.glsl:1: error: '#pragma': conflicting stages for 'shader_stage' #pragma\n")

	out := buf.String()
	assert.Contains(t, out, "undeclared identifier")
	assert.Contains(t, out, "deprecated")
	assert.Contains(t, out, "conflicting stages")
}

func TestPrintDiagnosticsEmpty(t *testing.T) {
	var buf bytes.Buffer
	printDiagnostics(&buf, "")
	assert.Empty(t, buf.String())
}
