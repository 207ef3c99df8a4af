package typeinfo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Snapshot format changes
const snapshotSchemaVersion uint16 = 1

// Snapshot is the on-disk form of a populated registry, consumed by the
// later harness-generation stages.
type Snapshot struct {
	Schema uint16 `msgpack:"schema"`

	Structs []*StructInfo `msgpack:"structs"`
	Unions  []*UnionInfo  `msgpack:"unions"`
	Enums   []*EnumInfo   `msgpack:"enums"`

	MaxAlignment uint64 `msgpack:"max_alignment"`
}

// Snapshot captures the registry contents for serialization.
func (r *Registry) Snapshot() *Snapshot {
	snap := &Snapshot{
		Schema:       snapshotSchemaVersion,
		MaxAlignment: r.maxAlignment,
	}
	for _, info := range r.structs {
		snap.Structs = append(snap.Structs, info)
	}
	for _, info := range r.unions {
		snap.Unions = append(snap.Unions, info)
	}
	for _, info := range r.enums {
		snap.Enums = append(snap.Enums, info)
	}
	return snap
}

// SaveSnapshot serializes the registry to path, writing a temp file first and
// renaming so readers never observe a partial table.
func (r *Registry) SaveSnapshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
		_ = os.Remove(f.Name())
	}()

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(r.Snapshot()); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// LoadSnapshot reads a previously saved registry snapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode type snapshot %s: %w", path, err)
	}
	if snap.Schema != snapshotSchemaVersion {
		return nil, fmt.Errorf("type snapshot %s: schema %d, want %d", path, snap.Schema, snapshotSchemaVersion)
	}
	return &snap, nil
}
