package compiledb

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"gcc -c a.c -o a.o", []string{"gcc", "-c", "a.c", "-o", "a.o"}},
		{`gcc -DMSG="hello world" a.c`, []string{"gcc", "-DMSG=hello world", "a.c"}},
		{"gcc -DX='1 2'  a.c", []string{"gcc", "-DX=1 2", "a.c"}},
		{"  gcc\ta.c ", []string{"gcc", "a.c"}},
		{`gcc ""`, []string{"gcc", ""}},
		{"", nil},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, splitCommand(tc.in)); diff != "" {
			t.Errorf("splitCommand(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDatabases(t *testing.T) {
	dir := t.TempDir()
	compilePath := writeFile(t, dir, "compile_commands.json", `[
		{
			"directory": "/proj/build",
			"arguments": ["gcc", "-c", "/proj/src/a.c", "-o", "/proj/build/a.o"],
			"file": "/proj/src/a.c",
			"output": "/proj/build/a.o"
		},
		{
			"directory": "/proj/build",
			"command": "gcc -c /proj/src/b.c -o /proj/build/b.o",
			"file": "/proj/src/b.c",
			"output": "/proj/build/b.o"
		}
	]`)
	linkPath := writeFile(t, dir, "link_commands.json", `[
		{
			"directory": "/proj/build",
			"commands": ["ar rcs /proj/build/liba.a /proj/build/a.o /proj/build/b.o"],
			"files": ["/proj/build/a.o", "/proj/build/b.o"],
			"output": "/proj/build/liba.a"
		}
	]`)

	db, err := Load(compilePath, linkPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Lookup by output and by source resolve the same unit.
	byOutput, err := db.ObjectUnit("/proj/build/b.o")
	if err != nil {
		t.Fatalf("ObjectUnit by output: %v", err)
	}
	bySource, err := db.ObjectUnit("/proj/src/b.c")
	if err != nil {
		t.Fatalf("ObjectUnit by source: %v", err)
	}
	if byOutput != bySource {
		t.Fatalf("output and source lookups disagree")
	}
	want := []string{"gcc", "-c", "/proj/src/b.c", "-o", "/proj/build/b.o"}
	if diff := cmp.Diff(want, byOutput.Argv); diff != "" {
		t.Fatalf("argv mismatch (-want +got):\n%s", diff)
	}

	if !db.HasLinkUnit("/proj/build/liba.a") {
		t.Fatalf("link unit missing")
	}
	unit, err := db.LinkUnit("/proj/build/liba.a")
	if err != nil {
		t.Fatalf("LinkUnit: %v", err)
	}
	if len(unit.Files) != 2 {
		t.Fatalf("files = %v", unit.Files)
	}
}

func TestLinkCommandsTagPositionalOutput(t *testing.T) {
	unit := &LinkUnit{
		Output:   "/proj/build/liba.a",
		Files:    []string{"/proj/build/a.o"},
		Dir:      "/proj/build",
		Commands: [][]string{{"ar", "rcs", "/proj/build/liba.a", "/proj/build/a.o"}},
	}
	cmd := unit.LinkCommands()[0]
	if got := cmd.Output(); got != "/proj/build/liba.a" {
		t.Fatalf("Output() = %q", got)
	}
	// SetOutput on an archiver must replace in place, not append -o.
	cmd.SetOutput("/out/liba.a")
	want := []string{"rcs", "/out/liba.a", "/proj/build/a.o"}
	if diff := cmp.Diff(want, cmd.Args()); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownUnitLookups(t *testing.T) {
	db := New(nil, nil)
	if _, err := db.ObjectUnit("/proj/build/a.o"); !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("ObjectUnit err = %v", err)
	}
	if _, err := db.LinkUnit("/proj/build/liba.a"); !errors.Is(err, ErrUnknownUnit) {
		t.Fatalf("LinkUnit err = %v", err)
	}
}

func TestLoadRejectsEmptyEntries(t *testing.T) {
	dir := t.TempDir()
	compilePath := writeFile(t, dir, "compile_commands.json",
		`[{"directory": "/proj", "file": "/proj/a.c", "output": "/proj/a.o"}]`)
	linkPath := writeFile(t, dir, "link_commands.json", `[]`)

	if _, err := Load(compilePath, linkPath); err == nil {
		t.Fatalf("entry without a command accepted")
	}
}
