// Package toolchain classifies compiler invocations by family and supplies
// the instrumentation flags (coverage, sanitizers) the generated makefile
// injects into recompilation commands.
package toolchain

import (
	"path/filepath"
	"strings"
)

// Family is a compiler family.
type Family uint8

const (
	FamilyUnknown Family = iota
	FamilyGCC
	FamilyClang
)

// String returns the string representation of Family.
func (f Family) String() string {
	switch f {
	case FamilyGCC:
		return "gcc"
	case FamilyClang:
		return "clang"
	default:
		return "unknown"
	}
}

// FamilyOf classifies a compiler by its executable name.
func FamilyOf(compiler string) Family {
	base := filepath.Base(compiler)
	switch {
	case strings.Contains(base, "clang"):
		return FamilyClang
	case strings.Contains(base, "gcc"), strings.Contains(base, "g++"),
		base == "cc", base == "c++":
		return FamilyGCC
	default:
		return FamilyUnknown
	}
}

// ToCXXCompiler maps a C compiler path to its C++ counterpart in the same
// directory.
func ToCXXCompiler(compiler string) string {
	dir, base := filepath.Split(compiler)
	switch {
	case strings.Contains(base, "clang++"), strings.Contains(base, "g++"):
		return compiler
	case strings.Contains(base, "clang"):
		base = strings.Replace(base, "clang", "clang++", 1)
	case strings.Contains(base, "gcc"):
		base = strings.Replace(base, "gcc", "g++", 1)
	case base == "cc":
		base = "c++"
	}
	return dir + base
}

// ToCXXLinker maps a C++ compiler to the driver used for linking test
// binaries; the compiler itself drives the link.
func ToCXXLinker(cxxCompiler string) string {
	return cxxCompiler
}

// Ld is the raw linker used for relocatable (-r) link steps that bypass the
// compiler driver.
const Ld = "ld"

// PthreadFlag returns the threading flag for the family.
func PthreadFlag(f Family) string {
	if f == FamilyClang {
		return "-pthread"
	}
	return "-lpthread"
}

// CoverageCompileFlags returns per-family coverage instrumentation flags for
// compile steps.
func CoverageCompileFlags(f Family) []string {
	if f == FamilyClang {
		return []string{"-fprofile-instr-generate", "-fcoverage-mapping"}
	}
	return []string{"--coverage"}
}

// CoverageLinkFlags returns per-family coverage flags for link steps.
func CoverageLinkFlags(f Family) []string {
	return CoverageCompileFlags(f)
}

// SanitizerCompileFlags returns sanitizer instrumentation for compile steps.
func SanitizerCompileFlags(f Family) []string {
	if f == FamilyClang {
		return []string{"-fsanitize=address,undefined"}
	}
	return []string{"-fsanitize=address", "-fsanitize=undefined"}
}

// SanitizerLinkFlags returns sanitizer runtime linking flags.
func SanitizerLinkFlags(f Family) string {
	if f == FamilyClang {
		return "-fsanitize=address,undefined"
	}
	return "-fsanitize=address -fsanitize=undefined"
}

// SanitizerNeededFlags are required alongside sanitizers for usable reports.
var SanitizerNeededFlags = []string{
	"-g", "-fno-omit-frame-pointer", "-fno-optimize-sibling-calls",
}

// Sanitizer runtime environment exported by the generated run target.
const (
	UBSanOptionsName  = "UBSAN_OPTIONS"
	UBSanOptionsValue = "print_stacktrace=1"
	ASanOptionsName   = "ASAN_OPTIONS"
	ASanOptionsValue  = "allocator_may_return_null=1:detect_leaks=0:symbolize=1"
)

// AsanLibrary names the sanitizer runtime preloaded for the gcc family,
// whose static runtime cannot be preloaded from the test driver otherwise.
const AsanLibrary = "libasan.so"

// UnsupportedTestFlags lists dialect options the harness compiler does not
// accept; they are stripped from recorded commands before reuse.
// See https://gcc.gnu.org/onlinedocs/gcc/Option-Summary.html
var UnsupportedTestFlags = map[string]bool{
	"-ansi":                                   true,
	"-fallow-parameterless-variadic-functions": true,
	"-fallow-single-precision":                 true,
	"-fcond-mismatch":                          true,
	"-ffreestanding":                           true,
	"-fgnu89-inline":                           true,
	"-fhosted":                                 true,
	"-flax-vector-conversions":                 true,
	"-fms-extensions":                          true,
	"-fno-asm":                                 true,
	"-fno-builtin":                             true,
	"-fno-builtin-function":                    true,
	"-fgimple":                                 true,
	"-fopenacc":                                true,
	"-fopenacc-dim":                            true,
	"-fopenacc-kernels":                        true,
	"-fopenmp":                                 true,
	"-fopenmp-simd":                            true,
	"-fpermitted-flt-eval-methods":             true,
	"-fplan9-extensions":                       true,
	"-fsigned-bitfields":                       true,
	"-fsigned-char":                            true,
	"-fsso-struct":                             true,
	"-funsigned-bitfields":                     true,
	"-funsigned-char":                          true,
	"-std":                                     true,
}
