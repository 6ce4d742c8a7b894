// Command glslc is a GLSL to SPIR-V compiler driver.
//
// It reads one GLSL compilation unit, resolves the shader stage (from
// --fshader-stage, a #pragma shader_stage annotation, or the file
// extension), and compiles it through a glslang binary.
//
// Examples:
//
//	glslc shadow.vert                       # compile to shadow.vert.spv
//	glslc -o shadow.spv shadow.vert         # compile to a named file
//	glslc -E shader.glsl                    # preprocess only, to stdout
//	glslc -S --fshader-stage=fragment f.glsl # disassembly of a fragment shader
//
// Project-wide settings (predefined macros, include directories, a forced
// --std) are read from the nearest glslfront.toml above the input file.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gogpu/glslfront"
	"github.com/gogpu/glslfront/glslang"
	"github.com/gogpu/glslfront/include"
	"github.com/gogpu/glslfront/preprocess"
	"github.com/gogpu/glslfront/stage"
)

const glslcVersion = "0.1.0-dev"

var (
	flagOutput      string
	flagStage       string
	flagStd         string
	flagPreprocess  bool
	flagDisassemble bool
	flagDefines     []string
	flagIncludeDirs []string
	flagWerror      bool
	flagNoWarnings  bool
	flagDebugInfo   bool
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:           "glslc [flags] <input>",
	Short:         "GLSL to SPIR-V compiler driver",
	Long:          "glslc compiles a GLSL shader to SPIR-V through an external glslang binary,\ndeducing the shader stage from pragmas or the file extension when not pinned.",
	Version:       glslcVersion,
	Args:          cobra.ExactArgs(1),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	f := rootCmd.Flags()
	f.StringVarP(&flagOutput, "output", "o", "", "output file (default: <input>.spv, or stdout for -E/-S)")
	f.StringVar(&flagStage, "fshader-stage", "", "force the shader stage (vertex|fragment|tesscontrol|tesseval|geometry|compute)")
	f.StringVar(&flagStd, "std", "", "force the GLSL version and profile, e.g. 450core or 310es")
	f.BoolVarP(&flagPreprocess, "preprocess-only", "E", false, "stop after preprocessing and print the result")
	f.BoolVarP(&flagDisassemble, "disassemble", "S", false, "emit SPIR-V assembly text instead of a binary")
	f.StringArrayVarP(&flagDefines, "define", "D", nil, "predefine a macro, NAME or NAME=VALUE (repeatable)")
	f.StringArrayVarP(&flagIncludeDirs, "include-dir", "I", nil, "add a #include search directory (repeatable)")
	f.BoolVar(&flagWerror, "warnings-as-errors", false, "treat warnings as errors")
	f.BoolVarP(&flagNoWarnings, "suppress-warnings", "w", false, "suppress warnings")
	f.BoolVarP(&flagDebugInfo, "debug-info", "g", false, "generate source-level debug info")
	f.BoolVar(&flagVerbose, "verbose", false, "log pipeline details")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "glslc: error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger := newLogger(flagVerbose)
	defer logger.Sync() //nolint:errcheck // stderr sync failures are harmless

	input := args[0]
	source, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	c := glslfront.NewCompiler()
	dirs := make([]string, 0, len(flagIncludeDirs))

	m, found, err := loadManifest(filepath.Dir(input))
	if err != nil {
		return err
	}
	if found {
		logger.Debug("loaded project manifest", zap.String("path", m.Path))
		if err := applyManifest(c, m); err != nil {
			return err
		}
		dirs = append(dirs, m.Config.Compiler.IncludeDirs...)
	}

	for _, def := range flagDefines {
		name, value, _ := strings.Cut(def, "=")
		c.AddMacroDefinition(name, value)
	}
	dirs = append(dirs, flagIncludeDirs...)

	if flagStd != "" {
		v, ok := preprocess.ParseVersionProfile(flagStd)
		if !ok {
			return fmt.Errorf("invalid --std value %q", flagStd)
		}
		c.SetForcedVersionProfile(v.Number, v.Profile)
	}
	if flagPreprocess {
		c.SetPreprocessingOnlyMode()
	}
	if flagDisassemble {
		c.SetDisassemblyMode()
	}
	if flagWerror {
		c.SetWarningsAsErrors()
	}
	if flagNoWarnings {
		c.SetSuppressWarnings()
	}
	if flagDebugInfo {
		c.SetGenerateDebugInfo()
	}

	forced := stage.Unknown
	if flagStage != "" {
		forced = stage.FromPragmaName(flagStage)
		if forced == stage.Unknown {
			return fmt.Errorf("invalid --fshader-stage value %q", flagStage)
		}
	}

	out, closeOut, err := openOutput(input)
	if err != nil {
		return err
	}

	var diags bytes.Buffer
	in := glslfront.Input{
		Source:        string(source),
		Tag:           input,
		Stage:         forced,
		StageCallback: stageFromExtension,
		Resolver:      include.NewResolver(os.DirFS("."), dirs...),
	}
	logger.Debug("compiling",
		zap.String("input", input),
		zap.String("stage", forced.String()),
		zap.Strings("include_dirs", dirs))

	compileErr := c.Compile(glslang.New(), in, out, &diags)
	if err := closeOut(); err != nil && compileErr == nil {
		compileErr = err
	}

	printDiagnostics(os.Stderr, diags.String())
	if c.ErrorCount() > 0 || c.WarningCount() > 0 {
		fmt.Fprintln(os.Stderr, c.MessageSummary())
	}
	return compileErr
}

// stageFromExtension is the last-resort stage deduction, matching the
// conventional .vert/.frag/... extensions.
func stageFromExtension(errOut io.Writer, tag string) stage.Stage {
	if s := stage.FromFileName(tag); s != stage.Unknown {
		return s
	}
	fmt.Fprintf(errOut, "%s: error: unable to determine shader stage; "+
		"use --fshader-stage or a '#pragma shader_stage' annotation\n", tag)
	return stage.Unknown
}

// openOutput picks the destination: -o wins, text modes default to stdout,
// binaries default to <input>.spv.
func openOutput(input string) (io.Writer, func() error, error) {
	path := flagOutput
	if path == "" {
		if flagPreprocess || flagDisassemble {
			return os.Stdout, func() error { return nil }, nil
		}
		path = input + ".spv"
	}
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func newLogger(verbose bool) *zap.Logger {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
