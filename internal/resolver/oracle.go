// Package resolver converts front-end type declarations into deduplicated
// typeinfo registry entries. The front-end itself is consumed through the
// Oracle interface; the resolver trusts it, since the project it describes
// has already compiled cleanly.
package resolver

import "remake/internal/typeinfo"

// TagKind discriminates the tag declarations the resolver handles.
type TagKind uint8

const (
	TagNone TagKind = iota
	TagStruct
	TagUnion
	TagEnum
)

// TypeRef is an opaque reference into the front-end's type system.
type TypeRef = any

// Oracle abstracts the compiler front-end AST. All size and offset queries
// answer in bits, matching the front-end's own units.
type Oracle interface {
	// TagDeclOf resolves a type reference to the tag declaration it names.
	// ok is false when the type does not refer to a struct, union or enum.
	TagDeclOf(t TypeRef) (TagDecl, bool)

	// MainFile is the path of the translation unit currently being walked.
	MainFile() string
}

// TagDecl is one struct, union or enum declaration.
type TagDecl interface {
	Kind() TagKind
	Name() string // empty for anonymous types

	// CanonicalID is the stable identity of the declaration's own canonical
	// type; aliases of the same underlying type share it.
	CanonicalID() typeinfo.TypeID

	// File is the defining file path, from the spelling location.
	File() string

	// Definition is the verbatim source text of the declaration.
	Definition() string

	SizeBits() int64
	AlignBits() int64

	// Scope lists named enclosing declaration contexts, innermost first.
	// Empty at global scope.
	Scope() []string

	// Fields enumerates struct/union members in declaration order.
	Fields() []FieldDecl

	// PromotedSizeBits is the size of the enum's promoted integer type.
	PromotedSizeBits() int64

	// Enumerators lists enum entries in declaration order.
	Enumerators() []Enumerator
}

// FieldDecl is one member of a struct or union.
type FieldDecl interface {
	Name() string

	// Type pairs the canonical and used spellings of the field type.
	Type() typeinfo.Type

	SizeBits() int64
	OffsetBits() int64

	// IsFunctionPointer reports whether the field is a pointer to function.
	IsFunctionPointer() bool

	// IsFunctionPointerArray reports whether the field is an array of
	// pointers to function.
	IsFunctionPointerArray() bool

	// FunctionType introspects the pointed-to function type; ok is false
	// for non-function fields.
	FunctionType() (FunctionType, bool)
}

// FunctionType describes the callee type behind a function-pointer field.
type FunctionType interface {
	ReturnType() typeinfo.Type

	// ReturnsPointerToStruct names the struct when the return type is a
	// pointer to a structure type.
	ReturnsPointerToStruct() (string, bool)

	// ParamTypes lists parameter types in order. Empty for non-prototyped
	// function types.
	ParamTypes() []typeinfo.Type
}

// Enumerator is a single enum entry. The JSON tags fix its spelling in the
// front-end dump format.
type Enumerator struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// ForwardDecls tracks structs that must gain a forward declaration in a
// given source file before the generated harness can compile.
type ForwardDecls interface {
	// IsDeclared reports whether structName is already declared in file.
	IsDeclared(file, structName string) bool

	// Require records the obligation to forward-declare structName in file.
	Require(file, structName string)
}
