package project

import "testing"

func testContext() *Context {
	return &Context{
		Name:     "demo",
		Root:     "/proj",
		BuildDir: "/proj/build",
		TestsDir: "/proj/tests",
		GtestDir: "/opt/googletest",
	}
}

func TestRel(t *testing.T) {
	c := testContext()
	cases := []struct {
		in, want string
	}{
		{"/proj/src/a.c", "src/a.c"},
		{"/proj/build/libdemo.a", "build/libdemo.a"},
		// Paths outside the root keep only their base name.
		{"/elsewhere/x.o", "x.o"},
		{"/proj/../other/x.c", "x.c"},
	}
	for _, tc := range cases {
		if got := c.Rel(tc.in); got != tc.want {
			t.Errorf("Rel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRecompiledFile(t *testing.T) {
	c := testContext()
	cases := []struct {
		in, want string
	}{
		{"/proj/build/a.o", "/proj/tests/remake_build/build/a.o"},
		{"/proj/src/a.c", "/proj/tests/remake_build/src/a.c.o"},
		{"/proj/build/libdemo.a", "/proj/tests/remake_build/build/libdemo.a"},
		// Paths outside the root keep only their base name.
		{"/elsewhere/x.o", "/proj/tests/remake_build/x.o"},
	}
	for _, tc := range cases {
		if got := c.RecompiledFile(tc.in); got != tc.want {
			t.Errorf("RecompiledFile(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStubRoundTrip(t *testing.T) {
	c := testContext()
	stub := c.SourceToStub("/proj/src/net/io.c")
	if stub != "/proj/tests/stubs/src/net/io_stub.c" {
		t.Fatalf("SourceToStub = %q", stub)
	}
	if got := c.StubToSource(stub); got != "/proj/src/net/io.c" {
		t.Fatalf("StubToSource = %q", got)
	}
}

func TestWrapperAndTestFiles(t *testing.T) {
	c := testContext()
	if got := c.WrapperFile("/proj/src/a.c"); got != "/proj/tests/wrappers/src/a_wrapper.c" {
		t.Fatalf("WrapperFile = %q", got)
	}
	if got := c.TestFile("/proj/src/a.c"); got != "/proj/tests/src/a_test.cpp" {
		t.Fatalf("TestFile = %q", got)
	}
}

func TestDerivedDirectories(t *testing.T) {
	c := testContext()
	if got := c.RemakeBuildDir(); got != "/proj/tests/remake_build" {
		t.Fatalf("RemakeBuildDir = %q", got)
	}
	if got := c.DependencyDir(); got != "/proj/tests/remake_build/dependencies" {
		t.Fatalf("DependencyDir = %q", got)
	}
	if got := c.TestObjectDir(); got != "/proj/tests/remake_build/tests" {
		t.Fatalf("TestObjectDir = %q", got)
	}
}
