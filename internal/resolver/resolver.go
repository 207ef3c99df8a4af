package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"remake/internal/project"
	"remake/internal/trace"
	"remake/internal/typeinfo"
)

// Resolver walks tag declarations and merges them into the shared registry.
type Resolver struct {
	oracle   Oracle
	registry *typeinfo.Registry
	forward  ForwardDecls // may be nil
	tracer   trace.Tracer
}

// New constructs a resolver writing into registry. forward may be nil when
// forward-declaration tracking is not needed.
func New(oracle Oracle, registry *typeinfo.Registry, forward ForwardDecls, tr trace.Tracer) *Resolver {
	if tr == nil {
		tr = trace.Nop
	}
	return &Resolver{oracle: oracle, registry: registry, forward: forward, tracer: tr}
}

// Resolve dispatches a type reference to struct/union/enum handling.
// Non-tag types are ignored.
func (r *Resolver) Resolve(t TypeRef) {
	decl, ok := r.oracle.TagDeclOf(t)
	if !ok {
		return
	}
	name := decl.Name()
	switch decl.Kind() {
	case TagStruct:
		r.resolveStruct(decl, name)
	case TagUnion:
		r.resolveUnion(decl, name)
	case TagEnum:
		r.resolveEnum(decl, name)
	}
}

// bytesOf converts a front-end bit count to bytes.
func bytesOf(bits int64) uint64 {
	b, err := safecast.Conv[uint64](bits / 8)
	if err != nil {
		panic(fmt.Errorf("negative size from front-end: %w", err))
	}
	return b
}

func (r *Resolver) resolveStruct(decl TagDecl, name string) {
	id := decl.CanonicalID()
	if !r.registry.ShouldResolveStruct(id, name) {
		return
	}
	filePath := decl.File()
	if project.IsGtestPath(filePath) {
		return
	}

	info := &typeinfo.StructInfo{
		ID:             id,
		Name:           name,
		FilePath:       filePath,
		Definition:     decl.Definition(),
		FunctionFields: make(map[string]*typeinfo.FunctionInfo),
	}
	for _, f := range decl.Fields() {
		field := typeinfo.Field{
			Name:   f.Name(),
			Type:   f.Type(),
			Size:   bytesOf(f.SizeBits()),
			Offset: bytesOf(f.OffsetBits()),
		}
		if f.IsFunctionPointer() || f.IsFunctionPointerArray() {
			if fnType, ok := f.FunctionType(); ok {
				info.FunctionFields[field.Name] =
					functionPointerDeclaration(fnType, field.Name, f.IsFunctionPointerArray())
				if f.IsFunctionPointer() {
					r.recordForwardDecl(fnType)
				}
			}
		}
		info.Fields = append(info.Fields, field)
	}
	info.Size = bytesOf(decl.SizeBits())
	info.Alignment = bytesOf(decl.AlignBits())

	r.registry.AddStruct(info)
	r.tracer.Logf(trace.LevelDetail, "struct: %s, id: %d, size: %d (%s)",
		info.Name, id, info.Size, info.FilePath)
}

// recordForwardDecl notes that the struct returned (by pointer) from a
// function-pointer field must be forward-declared in the current file when it
// is not declared there yet.
func (r *Resolver) recordForwardDecl(fnType FunctionType) {
	if r.forward == nil {
		return
	}
	structName, ok := fnType.ReturnsPointerToStruct()
	if !ok {
		return
	}
	mainFile := r.oracle.MainFile()
	if !r.forward.IsDeclared(mainFile, structName) {
		r.forward.Require(mainFile, structName)
	}
}

// functionPointerDeclaration builds the signature of a function-pointer
// field. Parameter names are synthesized as param1..paramN since original
// names are not always recorded.
func functionPointerDeclaration(fnType FunctionType, fieldName string, isArray bool) *typeinfo.FunctionInfo {
	info := &typeinfo.FunctionInfo{
		Name:       fieldName,
		ReturnType: fnType.ReturnType(),
		IsArray:    isArray,
	}
	for i, paramType := range fnType.ParamTypes() {
		info.Params = append(info.Params, typeinfo.Param{
			Type: paramType,
			Name: "param" + strconv.Itoa(i+1),
		})
	}
	return info
}

func (r *Resolver) resolveUnion(decl TagDecl, name string) {
	id := decl.CanonicalID()
	if !r.registry.ShouldResolveUnion(id, name) {
		return
	}
	filePath := decl.File()
	if project.IsGtestPath(filePath) {
		return
	}

	info := &typeinfo.UnionInfo{
		ID:         id,
		Name:       name,
		FilePath:   filePath,
		Definition: decl.Definition(),
	}
	for _, f := range decl.Fields() {
		info.Fields = append(info.Fields, typeinfo.Field{
			Name:   f.Name(),
			Type:   f.Type(),
			Size:   bytesOf(f.SizeBits()),
			Offset: bytesOf(f.OffsetBits()),
		})
	}
	info.Size = bytesOf(decl.SizeBits())
	info.Alignment = bytesOf(decl.AlignBits())

	r.registry.AddUnion(info)
	r.tracer.Logf(trace.LevelDetail, "union: %s, id: %d, size: %d (%s)",
		info.Name, id, info.Size, info.FilePath)
}

func (r *Resolver) resolveEnum(decl TagDecl, name string) {
	id := decl.CanonicalID()
	if !r.registry.ShouldResolveEnum(id, name) {
		return
	}

	info := &typeinfo.EnumInfo{
		ID:              id,
		Name:            name,
		FilePath:        decl.File(),
		Definition:      decl.Definition(),
		Access:          enclosingScope(decl),
		Size:            bytesOf(decl.PromotedSizeBits()),
		Alignment:       bytesOf(decl.AlignBits()),
		ValuesToEntries: make(map[string]typeinfo.EnumEntry),
		NamesToEntries:  make(map[string]typeinfo.EnumEntry),
	}
	for _, en := range decl.Enumerators() {
		entry := typeinfo.EnumEntry{
			Name:  en.Name,
			Value: strconv.FormatInt(en.Value, 10),
		}
		info.ValuesToEntries[entry.Value] = entry
		info.NamesToEntries[entry.Name] = entry
	}

	r.registry.AddEnum(info)
	r.tracer.Logf(trace.LevelDetail, "enum: %s, id: %d (%s)", info.Name, id, info.FilePath)
}

// enclosingScope joins the named declaration contexts outside decl with "::",
// outermost first. Empty when decl sits at global scope.
func enclosingScope(decl TagDecl) string {
	scope := decl.Scope()
	if len(scope) == 0 {
		return ""
	}
	parts := make([]string, 0, len(scope))
	for i := len(scope) - 1; i >= 0; i-- {
		parts = append(parts, scope[i])
	}
	return strings.Join(parts, "::")
}
