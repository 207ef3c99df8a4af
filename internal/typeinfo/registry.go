package typeinfo

import (
	"remake/internal/trace"
)

// Registry is the process-wide table of resolved tag types. It is written
// during the single AST pass and read-only afterwards. Not safe for
// concurrent mutation.
type Registry struct {
	tracer trace.Tracer

	structs map[TypeID]*StructInfo
	unions  map[TypeID]*UnionInfo
	enums   map[TypeID]*EnumInfo

	maxAlignment uint64
}

// NewRegistry constructs an empty registry reporting through tr.
func NewRegistry(tr trace.Tracer) *Registry {
	if tr == nil {
		tr = trace.Nop
	}
	return &Registry{
		tracer:  tr,
		structs: make(map[TypeID]*StructInfo),
		unions:  make(map[TypeID]*UnionInfo),
		enums:   make(map[TypeID]*EnumInfo),
	}
}

// canBeReplaced reports whether an existing entry name may be upgraded by a
// newly observed name: only an unnamed entry gains a non-empty name.
func canBeReplaced(nameInMap, name string) bool {
	return nameInMap == "" && name != ""
}

type named interface {
	typeName() string
}

// shouldResolve reports whether resolution work for id is worthwhile: either
// no entry exists yet, or the existing entry is unnamed and the new name
// would upgrade it.
func shouldResolve[I named](m map[TypeID]I, id TypeID, name string) bool {
	existing, ok := m[id]
	if !ok {
		return true
	}
	return canBeReplaced(existing.typeName(), name)
}

// merge applies the first-writer-wins-unless-upgradable policy.
func merge[I named](tr trace.Tracer, m map[TypeID]I, id TypeID, info I) {
	existing, ok := m[id]
	if !ok {
		m[id] = info
		return
	}
	tr.Logf(trace.LevelDebug, "type with id=%d already existed", id)
	nameInMap := existing.typeName()
	name := info.typeName()
	switch {
	case canBeReplaced(nameInMap, name):
		m[id] = info
		tr.Logf(trace.LevelDetail, "replace unnamed type with typedef: %s", name)
	case nameInMap != "" && name == "":
		tr.Logf(trace.LevelDebug, "already replaced with typedef: %s", nameInMap)
	case nameInMap != name:
		tr.Logf(trace.LevelWarn, "collision happened between: %q and %q", nameInMap, name)
	}
}

// ShouldResolveStruct reports whether a struct with this id still needs work.
func (r *Registry) ShouldResolveStruct(id TypeID, name string) bool {
	return shouldResolve(r.structs, id, name)
}

// ShouldResolveUnion reports whether a union with this id still needs work.
func (r *Registry) ShouldResolveUnion(id TypeID, name string) bool {
	return shouldResolve(r.unions, id, name)
}

// ShouldResolveEnum reports whether an enum with this id still needs work.
func (r *Registry) ShouldResolveEnum(id TypeID, name string) bool {
	return shouldResolve(r.enums, id, name)
}

// AddStruct merges info into the struct table.
func (r *Registry) AddStruct(info *StructInfo) {
	merge(r.tracer, r.structs, info.ID, info)
	r.ObserveAlignment(info.Alignment)
}

// AddUnion merges info into the union table.
func (r *Registry) AddUnion(info *UnionInfo) {
	merge(r.tracer, r.unions, info.ID, info)
	r.ObserveAlignment(info.Alignment)
}

// AddEnum merges info into the enum table.
func (r *Registry) AddEnum(info *EnumInfo) {
	merge(r.tracer, r.enums, info.ID, info)
	r.ObserveAlignment(info.Alignment)
}

// Struct returns the struct entry for id.
func (r *Registry) Struct(id TypeID) (*StructInfo, bool) {
	info, ok := r.structs[id]
	return info, ok
}

// Union returns the union entry for id.
func (r *Registry) Union(id TypeID) (*UnionInfo, bool) {
	info, ok := r.unions[id]
	return info, ok
}

// Enum returns the enum entry for id.
func (r *Registry) Enum(id TypeID) (*EnumInfo, bool) {
	info, ok := r.enums[id]
	return info, ok
}

// Structs exposes the id-keyed struct table to downstream consumers.
func (r *Registry) Structs() map[TypeID]*StructInfo { return r.structs }

// Unions exposes the id-keyed union table.
func (r *Registry) Unions() map[TypeID]*UnionInfo { return r.unions }

// Enums exposes the id-keyed enum table.
func (r *Registry) Enums() map[TypeID]*EnumInfo { return r.enums }

// ObserveAlignment raises the running maximum alignment; it never decreases.
func (r *Registry) ObserveAlignment(alignment uint64) {
	if alignment > r.maxAlignment {
		r.maxAlignment = alignment
	}
}

// MaxAlignment returns the worst-case alignment observed so far.
func (r *Registry) MaxAlignment() uint64 { return r.maxAlignment }
