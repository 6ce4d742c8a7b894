package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
)

// printDiagnostics writes front-end diagnostics with error and warning
// lines colorized. Two shapes appear in practice: glslang's "ERROR: ..."
// prefix and the "file:line: error: ..." form used by stage deduction.
func printDiagnostics(w io.Writer, diags string) {
	for _, line := range strings.Split(strings.TrimRight(diags, "\n"), "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "ERROR:") || strings.Contains(line, ": error:"):
			errorColor.Fprintln(w, line) //nolint:errcheck // best-effort console output
		case strings.HasPrefix(line, "WARNING:") || strings.Contains(line, ": warning:"):
			warningColor.Fprintln(w, line) //nolint:errcheck // best-effort console output
		default:
			fmt.Fprintln(w, line)
		}
	}
}
