package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "remake.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "net")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	want := writeManifest(t, root, "[project]\nname = \"demo\"\n")

	got, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("FindManifest = %q, want %q", got, want)
	}
}

func TestFindManifestReportsAbsence(t *testing.T) {
	_, ok, err := FindManifest(t.TempDir())
	if err != nil {
		t.Fatalf("FindManifest: %v", err)
	}
	if ok {
		t.Fatalf("found a manifest in an empty tree")
	}
}

func TestLoadManifestContext(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[project]
name = "demo"
build-dir = "out"

[toolchain]
compiler = "clang"
gtest = "/opt/googletest"
`)

	m, ok, err := LoadManifest(root)
	if err != nil || !ok {
		t.Fatalf("LoadManifest: ok=%v err=%v", ok, err)
	}
	if m.Config.Toolchain.Compiler != "clang" {
		t.Fatalf("compiler = %q", m.Config.Toolchain.Compiler)
	}

	ctx := m.Context()
	if ctx.Name != "demo" {
		t.Fatalf("name = %q", ctx.Name)
	}
	if ctx.BuildDir != filepath.Join(root, "out") {
		t.Fatalf("build dir = %q", ctx.BuildDir)
	}
	// Unset directories fall back to defaults under the root.
	if ctx.TestsDir != filepath.Join(root, "tests") {
		t.Fatalf("tests dir = %q", ctx.TestsDir)
	}
	if ctx.GtestDir != "/opt/googletest" {
		t.Fatalf("gtest dir = %q", ctx.GtestDir)
	}
	if ctx.AccessPrivateDir != filepath.Join(root, "access_private") {
		t.Fatalf("access-private dir = %q", ctx.AccessPrivateDir)
	}
}

func TestLoadManifestDefaultsName(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "")

	m, ok, err := LoadManifest(root)
	if err != nil || !ok {
		t.Fatalf("LoadManifest: ok=%v err=%v", ok, err)
	}
	if got := m.Context().Name; got != filepath.Base(root) {
		t.Fatalf("name = %q, want directory base", got)
	}
}
