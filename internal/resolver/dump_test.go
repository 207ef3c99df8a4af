package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"remake/internal/typeinfo"
)

const sampleDump = `{
  "main_file": "/proj/src/a.c",
  "decls": [
    {
      "kind": "struct",
      "name": "handler",
      "id": 11,
      "file": "/proj/src/handler.h",
      "definition": "struct handler { struct reply *(*cb)(int); unsigned long len; };",
      "size_bits": 128,
      "align_bits": 64,
      "fields": [
        {
          "name": "cb",
          "canonical": "struct reply *(*)(int)",
          "size_bits": 64,
          "offset_bits": 0,
          "function_pointer": true,
          "function": {
            "return_canonical": "struct reply *",
            "returns_struct": "reply",
            "params": [{"canonical": "int"}]
          }
        },
        {
          "name": "len",
          "canonical": "unsigned long",
          "size_bits": 64,
          "offset_bits": 64
        }
      ]
    },
    {
      "kind": "enum",
      "name": "mode",
      "id": 12,
      "file": "/proj/src/mode.h",
      "scope": ["app"],
      "align_bits": 32,
      "promoted_size_bits": 32,
      "enumerators": [
        {"name": "MODE_OFF", "value": 0},
        {"name": "MODE_ON", "value": 1}
      ]
    }
  ]
}`

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "types.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	return path
}

func resolveDump(t *testing.T, content string) (*typeinfo.Registry, *ForwardDeclSet) {
	t.Helper()
	oracle, err := LoadDump(writeDump(t, content))
	if err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	registry := typeinfo.NewRegistry(nil)
	forward := NewForwardDeclSet()
	res := New(oracle, registry, forward, nil)
	for _, ref := range oracle.Decls() {
		res.Resolve(ref)
	}
	return registry, forward
}

func TestDumpResolvesStruct(t *testing.T) {
	registry, forward := resolveDump(t, sampleDump)

	info, ok := registry.Struct(11)
	if !ok {
		t.Fatalf("struct 11 not resolved")
	}
	if info.Name != "handler" || info.Size != 16 || info.Alignment != 8 {
		t.Fatalf("struct = %q size=%d align=%d", info.Name, info.Size, info.Alignment)
	}
	if len(info.Fields) != 2 || info.Fields[1].Offset != 8 {
		t.Fatalf("fields = %+v", info.Fields)
	}
	fn, ok := info.FunctionFields["cb"]
	if !ok {
		t.Fatalf("function-pointer field not captured")
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "param1" {
		t.Fatalf("params = %+v", fn.Params)
	}
	// The pointed-to struct must be forward-declared in the main file.
	if diff := cmp.Diff([]string{"reply"}, forward.Required("/proj/src/a.c")); diff != "" {
		t.Fatalf("forward declarations mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpResolvesEnumWithScope(t *testing.T) {
	registry, _ := resolveDump(t, sampleDump)

	info, ok := registry.Enum(12)
	if !ok {
		t.Fatalf("enum 12 not resolved")
	}
	if info.Access != "app" || info.Size != 4 {
		t.Fatalf("enum access=%q size=%d", info.Access, info.Size)
	}
	if entry := info.NamesToEntries["MODE_ON"]; entry.Value != "1" {
		t.Fatalf("MODE_ON = %+v", entry)
	}
	if registry.MaxAlignment() != 8 {
		t.Fatalf("max alignment = %d", registry.MaxAlignment())
	}
}

func TestDumpRejectsUnknownKind(t *testing.T) {
	_, err := LoadDump(writeDump(t, `{"decls": [{"kind": "typedef", "id": 1, "file": "x.h"}]}`))
	if err == nil {
		t.Fatalf("LoadDump accepted an unknown declaration kind")
	}
}

func TestDumpSnapshotRoundTrip(t *testing.T) {
	registry, _ := resolveDump(t, sampleDump)

	path := filepath.Join(t.TempDir(), "types.snapshot")
	if err := registry.SaveSnapshot(path); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	snap, err := typeinfo.LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(snap.Structs) != 1 || len(snap.Enums) != 1 || snap.MaxAlignment != 8 {
		t.Fatalf("snapshot = %d structs, %d enums, max alignment %d",
			len(snap.Structs), len(snap.Enums), snap.MaxAlignment)
	}
}
