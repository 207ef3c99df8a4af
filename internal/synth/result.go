package synth

import (
	"path/filepath"

	"remake/internal/project"
)

// Kind classifies how much of a recompiled artifact is stub-replaced code.
// Values combine as a bitmask: a link unit carries the union of its
// constituents' bits.
type Kind uint8

const (
	KindNone     Kind = 0
	KindAllStubs Kind = 1 << 0
	KindNoStubs  Kind = 1 << 1
	kindMixed         = KindAllStubs | KindNoStubs
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAllStubs:
		return "all-stubs"
	case KindNoStubs:
		return "no-stubs"
	case kindMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// Merge combines two kinds; the operation is associative and commutative.
func (k Kind) Merge(other Kind) Kind { return k | other }

// HasStubs reports whether any constituent was stub-replaced.
func (k Kind) HasStubs() bool { return k&KindAllStubs != 0 }

// suffix is the output-name marker for the kind, keeping stub-affected and
// pristine variants of the same artifact from colliding.
func (k Kind) suffix(stubSuffix string) string {
	switch k {
	case KindAllStubs:
		return "_stub"
	case kindMixed:
		if stubSuffix != "" {
			return stubSuffix
		}
		return "_with_stubs"
	default:
		return ""
	}
}

// ApplySuffix inserts the kind marker before the file extension:
// liba.a -> liba_stub.a.
func ApplySuffix(path string, kind Kind, stubSuffix string) string {
	s := kind.suffix(stubSuffix)
	if s == "" {
		return path
	}
	ext := filepath.Ext(path)
	return project.RemoveExtension(path) + s + ext
}

// Result is the memoized outcome of synthesizing one unit file.
type Result struct {
	Output string // recompiled artifact path
	Kind   Kind
}
