// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glslfront

import (
	"fmt"
	"io"
	"strings"
)

// filterMessages scans a front-end info log, counting ERROR: and WARNING:
// lines into the compiler's totals, and writes the surviving lines to w.
// Warnings are dropped when suppressWarnings is set, or rewritten to
// errors when the compiler treats warnings as errors. Lines that are
// neither (glslang status noise) are dropped. It reports whether
// compilation may proceed, i.e. no errors were seen.
func (c *Compiler) filterMessages(w io.Writer, infoLog string, suppressWarnings bool) bool {
	ok := true
	for _, line := range strings.Split(infoLog, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "ERROR:"):
			c.totalErrors++
			ok = false
			fmt.Fprintln(w, line)
		case strings.HasPrefix(line, "WARNING:"):
			if c.warningsAsErrors {
				c.totalErrors++
				ok = false
				fmt.Fprintln(w, "ERROR:"+strings.TrimPrefix(line, "WARNING:"))
			} else {
				c.totalWarnings++
				if !suppressWarnings {
					fmt.Fprintln(w, line)
				}
			}
		}
	}
	return ok
}

// WarningCount is the number of warnings seen across all compilations,
// before any promotion to errors.
func (c *Compiler) WarningCount() int { return c.totalWarnings }

// ErrorCount is the number of errors seen across all compilations.
func (c *Compiler) ErrorCount() int { return c.totalErrors }

// MessageSummary renders the totals in glslang's closing format, e.g.
// "1 warning and 2 errors generated."
func (c *Compiler) MessageSummary() string {
	return fmt.Sprintf("%s and %s generated.",
		plural(c.totalWarnings, "warning"), plural(c.totalErrors, "error"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
