package resolver

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"remake/internal/typeinfo"
)

// Dump is the serialized walk of one translation unit's tag declarations,
// emitted by the front end as JSON. LoadDump turns it into an Oracle so the
// resolver can populate a registry without the front end in-process.
type Dump struct {
	MainFile string      `json:"main_file"`
	Decls    []*DumpDecl `json:"decls"`
}

// DumpDecl is one struct, union or enum declaration in a dump. Sizes and
// offsets are in bits, matching the front-end's own units.
type DumpDecl struct {
	Kind             string          `json:"kind"` // struct, union or enum
	Name             string          `json:"name,omitempty"`
	ID               typeinfo.TypeID `json:"id"`
	File             string          `json:"file"`
	Definition       string          `json:"definition,omitempty"`
	SizeBits         int64           `json:"size_bits,omitempty"`
	AlignBits        int64           `json:"align_bits,omitempty"`
	Scope            []string        `json:"scope,omitempty"`
	Fields           []*DumpField    `json:"fields,omitempty"`
	PromotedSizeBits int64           `json:"promoted_size_bits,omitempty"`
	Enumerators      []Enumerator    `json:"enumerators,omitempty"`
}

// DumpField is one struct or union member.
type DumpField struct {
	Name                 string        `json:"name"`
	Canonical            string        `json:"canonical"`
	Used                 string        `json:"used,omitempty"` // defaults to Canonical
	SizeBits             int64         `json:"size_bits"`
	OffsetBits           int64         `json:"offset_bits"`
	FunctionPointer      bool          `json:"function_pointer,omitempty"`
	FunctionPointerArray bool          `json:"function_pointer_array,omitempty"`
	Function             *DumpFunction `json:"function,omitempty"`
}

// DumpFunction describes the callee type behind a function-pointer field.
type DumpFunction struct {
	ReturnCanonical string     `json:"return_canonical"`
	ReturnUsed      string     `json:"return_used,omitempty"`
	ReturnsStruct   string     `json:"returns_struct,omitempty"` // set when returning a pointer to a struct
	Params          []DumpType `json:"params,omitempty"`
}

// DumpType pairs the canonical and used spellings of a type.
type DumpType struct {
	Canonical string `json:"canonical"`
	Used      string `json:"used,omitempty"`
}

func (t DumpType) typeinfoType() typeinfo.Type {
	used := t.Used
	if used == "" {
		used = t.Canonical
	}
	return typeinfo.Type{Canonical: t.Canonical, Used: used}
}

var dumpKinds = map[string]TagKind{
	"struct": TagStruct,
	"union":  TagUnion,
	"enum":   TagEnum,
}

// DumpOracle serves Oracle queries from a loaded dump. Type references are
// the dump's own declarations.
type DumpOracle struct {
	dump *Dump
}

// LoadDump parses a front-end dump file into an oracle.
func LoadDump(path string) (*DumpOracle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var dump Dump
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("decode type dump %s: %w", path, err)
	}
	for i, decl := range dump.Decls {
		if _, ok := dumpKinds[decl.Kind]; !ok {
			return nil, fmt.Errorf("type dump %s: decl %d has unknown kind %q", path, i, decl.Kind)
		}
	}
	return &DumpOracle{dump: &dump}, nil
}

// Decls lists every declaration in dump order, ready to feed Resolver.Resolve.
func (o *DumpOracle) Decls() []TypeRef {
	refs := make([]TypeRef, len(o.dump.Decls))
	for i, decl := range o.dump.Decls {
		refs[i] = decl
	}
	return refs
}

func (o *DumpOracle) TagDeclOf(t TypeRef) (TagDecl, bool) {
	decl, ok := t.(*DumpDecl)
	if !ok {
		return nil, false
	}
	return dumpDecl{decl}, true
}

func (o *DumpOracle) MainFile() string {
	return o.dump.MainFile
}

type dumpDecl struct {
	d *DumpDecl
}

func (d dumpDecl) Kind() TagKind                { return dumpKinds[d.d.Kind] }
func (d dumpDecl) Name() string                 { return d.d.Name }
func (d dumpDecl) CanonicalID() typeinfo.TypeID { return d.d.ID }
func (d dumpDecl) File() string                 { return d.d.File }
func (d dumpDecl) Definition() string           { return d.d.Definition }
func (d dumpDecl) SizeBits() int64              { return d.d.SizeBits }
func (d dumpDecl) AlignBits() int64             { return d.d.AlignBits }
func (d dumpDecl) Scope() []string              { return d.d.Scope }
func (d dumpDecl) PromotedSizeBits() int64      { return d.d.PromotedSizeBits }
func (d dumpDecl) Enumerators() []Enumerator    { return d.d.Enumerators }

func (d dumpDecl) Fields() []FieldDecl {
	fields := make([]FieldDecl, len(d.d.Fields))
	for i, f := range d.d.Fields {
		fields[i] = dumpField{f}
	}
	return fields
}

type dumpField struct {
	f *DumpField
}

func (f dumpField) Name() string                 { return f.f.Name }
func (f dumpField) SizeBits() int64              { return f.f.SizeBits }
func (f dumpField) OffsetBits() int64            { return f.f.OffsetBits }
func (f dumpField) IsFunctionPointer() bool      { return f.f.FunctionPointer }
func (f dumpField) IsFunctionPointerArray() bool { return f.f.FunctionPointerArray }

func (f dumpField) Type() typeinfo.Type {
	return DumpType{Canonical: f.f.Canonical, Used: f.f.Used}.typeinfoType()
}

func (f dumpField) FunctionType() (FunctionType, bool) {
	if f.f.Function == nil {
		return nil, false
	}
	return dumpFunction{f.f.Function}, true
}

type dumpFunction struct {
	fn *DumpFunction
}

func (f dumpFunction) ReturnType() typeinfo.Type {
	return DumpType{Canonical: f.fn.ReturnCanonical, Used: f.fn.ReturnUsed}.typeinfoType()
}

func (f dumpFunction) ReturnsPointerToStruct() (string, bool) {
	return f.fn.ReturnsStruct, f.fn.ReturnsStruct != ""
}

func (f dumpFunction) ParamTypes() []typeinfo.Type {
	params := make([]typeinfo.Type, len(f.fn.Params))
	for i, p := range f.fn.Params {
		params[i] = p.typeinfoType()
	}
	return params
}

// ForwardDeclSet is an in-memory ForwardDecls tracker.
type ForwardDeclSet struct {
	required map[string]map[string]bool
}

func NewForwardDeclSet() *ForwardDeclSet {
	return &ForwardDeclSet{required: make(map[string]map[string]bool)}
}

func (s *ForwardDeclSet) IsDeclared(file, structName string) bool {
	return s.required[file][structName]
}

func (s *ForwardDeclSet) Require(file, structName string) {
	if s.required[file] == nil {
		s.required[file] = make(map[string]bool)
	}
	s.required[file][structName] = true
}

// Required lists the structs that must be forward-declared in file, sorted.
func (s *ForwardDeclSet) Required(file string) []string {
	names := make([]string, 0, len(s.required[file]))
	for name := range s.required[file] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
