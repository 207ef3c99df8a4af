// Package typeinfo holds the deduplicated registry of struct, union and enum
// descriptions discovered during the whole-project AST pass. Entries are keyed
// by a stable 64-bit identity derived from the canonical type, so two
// spellings of the same underlying type collapse to one record.
package typeinfo

// TypeID identifies a tag type by its canonical form.
type TypeID uint64

// Type pairs the canonical spelling of a type with the spelling actually used
// at the observation site.
type Type struct {
	Canonical string `msgpack:"canonical"`
	Used      string `msgpack:"used"`
}

// Name returns the used spelling, falling back to the canonical one.
func (t Type) Name() string {
	if t.Used != "" {
		return t.Used
	}
	return t.Canonical
}

// Field is one member of a struct or union.
type Field struct {
	Name   string `msgpack:"name"`
	Type   Type   `msgpack:"type"`
	Size   uint64 `msgpack:"size"`   // bytes
	Offset uint64 `msgpack:"offset"` // bytes from the start of the aggregate
}

// Param is a single parameter of a function-pointer signature. Original
// parameter names are not always recorded, so names are synthesized.
type Param struct {
	Type Type   `msgpack:"type"`
	Name string `msgpack:"name"`
}

// FunctionInfo describes a function-pointer field signature.
type FunctionInfo struct {
	Name       string  `msgpack:"name"`
	ReturnType Type    `msgpack:"return_type"`
	Params     []Param `msgpack:"params"`
	IsArray    bool    `msgpack:"is_array"` // field is an array of function pointers
}

// StructInfo describes one struct (or class) definition.
type StructInfo struct {
	ID             TypeID                   `msgpack:"id"`
	Name           string                   `msgpack:"name"` // empty for anonymous types
	FilePath       string                   `msgpack:"file_path"`
	Definition     string                   `msgpack:"definition"` // verbatim source text
	Fields         []Field                  `msgpack:"fields"`
	Size           uint64                   `msgpack:"size"`
	Alignment      uint64                   `msgpack:"alignment"`
	FunctionFields map[string]*FunctionInfo `msgpack:"function_fields"`
}

// UnionInfo describes one union definition.
type UnionInfo struct {
	ID         TypeID  `msgpack:"id"`
	Name       string  `msgpack:"name"`
	FilePath   string  `msgpack:"file_path"`
	Definition string  `msgpack:"definition"`
	Fields     []Field `msgpack:"fields"`
	Size       uint64  `msgpack:"size"`
	Alignment  uint64  `msgpack:"alignment"`
}

// EnumEntry is a single enumerator.
type EnumEntry struct {
	Name  string `msgpack:"name"`
	Value string `msgpack:"value"` // stringified signed value
}

// EnumInfo describes one enum definition.
type EnumInfo struct {
	ID         TypeID `msgpack:"id"`
	Name       string `msgpack:"name"`
	FilePath   string `msgpack:"file_path"`
	Definition string `msgpack:"definition"`
	// Access is the qualified enclosing scope joined with "::",
	// empty when the enum lives at global scope.
	Access          string               `msgpack:"access"`
	Size            uint64               `msgpack:"size"` // promoted integer size, bytes
	Alignment       uint64               `msgpack:"alignment"`
	ValuesToEntries map[string]EnumEntry `msgpack:"values_to_entries"`
	NamesToEntries  map[string]EnumEntry `msgpack:"names_to_entries"`
}

func (s *StructInfo) typeName() string { return s.Name }
func (u *UnionInfo) typeName() string  { return u.Name }
func (e *EnumInfo) typeName() string   { return e.Name }

// compile-time interface checks for the merge policy helpers
var (
	_ named = (*StructInfo)(nil)
	_ named = (*UnionInfo)(nil)
	_ named = (*EnumInfo)(nil)
)
