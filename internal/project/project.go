// Package project describes the target project being regenerated: its
// directory layout, the mapping from original artifacts to their recompiled
// counterparts, and file classification helpers shared by the synthesis
// pipeline.
package project

import (
	"path/filepath"
)

// Context carries the directory layout of one target project. All paths are
// absolute.
type Context struct {
	Name             string // project name, used in generated banners
	Root             string // project root directory
	BuildDir         string // original build directory recorded in the databases
	TestsDir         string // directory generated tests are written to
	GtestDir         string // bundled googletest checkout
	AccessPrivateDir string // bundled access_private headers for C++ tests
}

// RemakeBuildDir is the parallel output tree recompiled artifacts land in.
func (c *Context) RemakeBuildDir() string {
	return filepath.Join(c.TestsDir, "remake_build")
}

// DependencyDir holds generated .d/.Td dependency files.
func (c *Context) DependencyDir() string {
	return filepath.Join(c.RemakeBuildDir(), "dependencies")
}

// StubsDir holds the substitute sources injected for isolation.
func (c *Context) StubsDir() string {
	return filepath.Join(c.TestsDir, "stubs")
}

// WrappersDir holds generated wrapper sources for C translation units.
func (c *Context) WrappersDir() string {
	return filepath.Join(c.TestsDir, "wrappers")
}

// TestObjectDir holds compiled test objects.
func (c *Context) TestObjectDir() string {
	return filepath.Join(c.RemakeBuildDir(), "tests")
}

// Rel maps path under the project root; paths outside the root keep their
// base name only, so they still land inside the output tree.
func (c *Context) Rel(path string) string {
	r, err := filepath.Rel(c.Root, path)
	if err != nil || !filepath.IsLocal(r) {
		return filepath.Base(path)
	}
	return r
}

// RecompiledFile maps an original artifact to its location in the parallel
// build tree. Sources map to the object they compile into.
func (c *Context) RecompiledFile(original string) string {
	r := c.Rel(original)
	if IsSourceFile(original) {
		r = AddExtension(r, ".o")
	}
	return filepath.Join(c.RemakeBuildDir(), r)
}

// SourceToStub maps a project source to its stub counterpart:
// src/foo.c -> <stubs>/src/foo_stub.c.
func (c *Context) SourceToStub(source string) string {
	r := c.Rel(source)
	ext := filepath.Ext(r)
	return filepath.Join(c.StubsDir(), RemoveExtension(r)+"_stub"+ext)
}

// StubToSource maps a stub file back to the project source it replaces.
func (c *Context) StubToSource(stub string) string {
	r, err := filepath.Rel(c.StubsDir(), stub)
	if err != nil {
		r = filepath.Base(stub)
	}
	ext := filepath.Ext(r)
	base := RemoveExtension(r)
	if n := len(base) - len("_stub"); n >= 0 && base[n:] == "_stub" {
		base = base[:n]
	}
	return filepath.Join(c.Root, base+ext)
}

// WrapperFile maps a C source to its generated wrapper translation unit.
func (c *Context) WrapperFile(source string) string {
	r := c.Rel(source)
	ext := filepath.Ext(r)
	return filepath.Join(c.WrappersDir(), RemoveExtension(r)+"_wrapper"+ext)
}

// TestFile maps a source under test to its generated test source.
func (c *Context) TestFile(source string) string {
	r := c.Rel(source)
	return filepath.Join(c.TestsDir, RemoveExtension(r)+"_test.cpp")
}
