package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded remake.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the remake.toml schema.
type Config struct {
	Project   ProjectConfig   `toml:"project"`
	Toolchain ToolchainConfig `toml:"toolchain"`
}

// ProjectConfig names the target project and its directories, relative to
// the manifest location unless absolute.
type ProjectConfig struct {
	Name     string `toml:"name"`
	BuildDir string `toml:"build-dir"`
	TestsDir string `toml:"tests-dir"`
}

// ToolchainConfig selects the primary compiler and the bundled header
// checkouts tests compile against.
type ToolchainConfig struct {
	Compiler      string `toml:"compiler"`
	Gtest         string `toml:"gtest"`
	AccessPrivate string `toml:"access-private"`
}

// FindManifest walks up from startDir looking for remake.toml.
func FindManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "remake.toml")
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

// LoadManifest finds and parses the nearest remake.toml above startDir.
// ok is false when no manifest exists.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, true, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

// Context materializes the project layout described by the manifest,
// resolving relative directories against the manifest root and applying
// defaults.
func (m *Manifest) Context() *Context {
	cfg := m.Config.Project
	name := cfg.Name
	if name == "" {
		name = filepath.Base(m.Root)
	}
	return &Context{
		Name:             name,
		Root:             m.Root,
		BuildDir:         m.resolveDir(cfg.BuildDir, "build"),
		TestsDir:         m.resolveDir(cfg.TestsDir, "tests"),
		GtestDir:         m.resolveDir(m.Config.Toolchain.Gtest, "googletest"),
		AccessPrivateDir: m.resolveDir(m.Config.Toolchain.AccessPrivate, "access_private"),
	}
}

func (m *Manifest) resolveDir(dir, fallback string) string {
	if dir == "" {
		dir = fallback
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(m.Root, dir)
}
