package command

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func compileCommand() *Command {
	return New(
		[]string{"/usr/bin/gcc", "-c", "-O2", "-Iinclude", "src/a.c", "-o", "build/a.o"},
		"/proj", "src/a.c")
}

func TestNewClassifiesOutput(t *testing.T) {
	c := compileCommand()
	if got := c.Output(); got != "build/a.o" {
		t.Fatalf("Output() = %q, want %q", got, "build/a.o")
	}
	if got := c.Tool(); got != "/usr/bin/gcc" {
		t.Fatalf("Tool() = %q, want %q", got, "/usr/bin/gcc")
	}
}

func TestSettersReplaceInPlace(t *testing.T) {
	c := compileCommand()
	c.SetSource("stubs/a_stub.c")
	c.SetOutput("out/a_stub.o")
	c.SetTool("clang")

	want := []string{"-c", "-O2", "-Iinclude", "stubs/a_stub.c", "-o", "out/a_stub.o"}
	if diff := cmp.Diff(want, c.Args()); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if c.Source() != "stubs/a_stub.c" {
		t.Fatalf("Source() = %q", c.Source())
	}
}

func TestSetOutputAppendsWhenMissing(t *testing.T) {
	c := New([]string{"ar", "rcs", "liba.a", "a.o"}, "/proj", "")
	c.SetOutput("out/liba.a")
	want := []string{"rcs", "liba.a", "a.o", "-o", "out/liba.a"}
	if diff := cmp.Diff(want, c.Args()); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestAddFlagsPreserveOrder(t *testing.T) {
	c := New([]string{"gcc", "a.c"}, "/proj", "a.c")
	c.AddFlagsToFront([]string{"-fPIC", "-g"})
	c.AddFlagToEnd("-lm")
	want := []string{"-fPIC", "-g", "a.c", "-lm"}
	if diff := cmp.Diff(want, c.Args()); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveFlagsMatching(t *testing.T) {
	c := New([]string{"gcc", "-ansi", "-std=gnu99", "-fopenmp", "-g", "a.c"}, "/proj", "a.c")
	c.RemoveFlagsMatching(map[string]bool{"-ansi": true, "-std": true, "-fopenmp": true})
	want := []string{"-g", "a.c"}
	if diff := cmp.Diff(want, c.Args()); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveIncludeFlags(t *testing.T) {
	c := New([]string{"gcc", "-Iinclude", "-I", "/other", "-DX=1", "a.c"}, "/proj", "a.c")
	c.RemoveIncludeFlags()
	want := []string{"-DX=1", "a.c"}
	if diff := cmp.Diff(want, c.Args()); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestSetOptimizationLevelReplaces(t *testing.T) {
	c := New([]string{"gcc", "-O2", "-Os", "a.c"}, "/proj", "a.c")
	c.SetOptimizationLevel("-O0")
	want := []string{"a.c", "-O0"}
	if diff := cmp.Diff(want, c.Args()); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestSubstituteInputs(t *testing.T) {
	c := New([]string{"gcc", "-o", "app", "a.o", "b.o"}, "/proj", "")
	c.MarkInputs([]string{"a.o", "b.o"})
	c.SubstituteInputs(map[string]string{"a.o": "out/a.o", "b.o": "out/b_stub.o"})
	want := []string{"-o", "app", "out/a.o", "out/b_stub.o"}
	if diff := cmp.Diff(want, c.Args()); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyCommands(t *testing.T) {
	ar := New([]string{"/usr/bin/ar", "rcs", "liba.a"}, "/proj", "")
	if !ar.IsArchiveCommand() {
		t.Fatalf("ar not recognized as archive command")
	}
	llvmAr := New([]string{"llvm-ar", "rcs", "liba.a"}, "/proj", "")
	if !llvmAr.IsArchiveCommand() {
		t.Fatalf("llvm-ar not recognized as archive command")
	}
	shared := New([]string{"gcc", "-shared", "-o", "libx.so"}, "/proj", "")
	if !shared.IsSharedLibraryCommand() {
		t.Fatalf("-shared not recognized as shared library command")
	}
	if shared.IsArchiveCommand() {
		t.Fatalf("gcc misclassified as archiver")
	}
}

func TestStringWithCD(t *testing.T) {
	c := New([]string{"gcc", "-c", "a.c"}, "/proj/build", "a.c")
	c.AddEnv("C_INCLUDE_PATH", "$EXTRA")
	want := "cd /proj/build && C_INCLUDE_PATH=$EXTRA gcc -c a.c"
	if got := c.StringWithCD(); got != want {
		t.Fatalf("StringWithCD() = %q, want %q", got, want)
	}
}

func TestRewriteArgsDropsEmptied(t *testing.T) {
	c := New([]string{"gcc", "-Wl,--version-script=v.map", "-o", "libx.so"}, "/proj", "")
	c.RewriteArgs(RemoveScriptFlag)
	want := []string{"-o", "libx.so"}
	if diff := cmp.Diff(want, c.Args()); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}
