package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/glslfront"
	"github.com/gogpu/glslfront/preprocess"
)

// manifest is a glslfront.toml project file, discovered by walking up from
// the input file's directory.
type manifest struct {
	Path   string
	Config manifestConfig
}

type manifestConfig struct {
	Compiler compilerConfig `toml:"compiler"`
}

type compilerConfig struct {
	// Std forces a GLSL version and profile, same syntax as --std.
	Std string `toml:"std"`

	// IncludeDirs are #include search directories, relative to the
	// working directory.
	IncludeDirs []string `toml:"include_dirs"`

	// Defines predefines macros for every unit.
	Defines map[string]string `toml:"defines"`

	// WarningsAsErrors promotes front-end warnings to errors.
	WarningsAsErrors bool `toml:"warnings_as_errors"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "glslfront.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadManifest(startDir string) (*manifest, bool, error) {
	path, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return nil, false, err
	}
	var cfg manifestConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, false, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return &manifest{Path: path, Config: cfg}, true, nil
}

// applyManifest carries manifest settings onto the compiler. Flags applied
// afterwards override these.
func applyManifest(c *glslfront.Compiler, m *manifest) error {
	cc := m.Config.Compiler

	names := make([]string, 0, len(cc.Defines))
	for name := range cc.Defines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c.AddMacroDefinition(name, cc.Defines[name])
	}

	if cc.Std != "" {
		v, ok := preprocess.ParseVersionProfile(cc.Std)
		if !ok {
			return fmt.Errorf("%s: invalid std value %q", m.Path, cc.Std)
		}
		c.SetForcedVersionProfile(v.Number, v.Profile)
	}
	if cc.WarningsAsErrors {
		c.SetWarningsAsErrors()
	}
	return nil
}
