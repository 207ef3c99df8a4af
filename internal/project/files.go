package project

import (
	"path/filepath"
	"strconv"
	"strings"
)

var cxxExtensions = map[string]bool{
	".cc":  true,
	".cpp": true,
	".cxx": true,
	".c++": true,
	".C":   true,
}

// IsSourceFile reports whether path names a C or C++ translation unit.
func IsSourceFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".c" || cxxExtensions[ext]
}

// IsCXXFile reports whether path names a C++ translation unit.
func IsCXXFile(path string) bool {
	return cxxExtensions[filepath.Ext(path)]
}

// IsObjectFile reports whether path names a relocatable object.
func IsObjectFile(path string) bool {
	return filepath.Ext(path) == ".o"
}

// IsStaticLibraryFile reports whether path names a static archive.
func IsStaticLibraryFile(path string) bool {
	return filepath.Ext(path) == ".a"
}

// IsSharedLibraryFile reports whether path names a shared library, including
// versioned names like libx.so.1.2.
func IsSharedLibraryFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasSuffix(base, ".so") {
		return true
	}
	idx := strings.Index(base, ".so.")
	if idx < 0 {
		return false
	}
	for _, part := range strings.Split(base[idx+len(".so."):], ".") {
		if _, err := strconv.Atoi(part); err != nil {
			return false
		}
	}
	return true
}

// IsLibraryFile reports whether path names a static or shared library.
func IsLibraryFile(path string) bool {
	return IsStaticLibraryFile(path) || IsSharedLibraryFile(path)
}

// IsGtestPath reports whether path belongs to the bundled googletest
// checkout rather than user code.
func IsGtestPath(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "googletest" || part == "gtest" {
			return true
		}
	}
	return false
}

// AddExtension appends ext (".o", ".Td", ...) to path, keeping the existing
// extension in place: "dir/a.c" + ".o" -> "dir/a.c.o".
func AddExtension(path, ext string) string {
	return path + ext
}

// RemoveExtension strips the last extension, if any.
func RemoveExtension(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// AddPrefix prepends prefix to the file name component of path.
func AddPrefix(path, prefix string) string {
	dir, base := filepath.Split(path)
	return dir + prefix + base
}

// RemoveSharedLibraryVersion strips trailing version digits from a versioned
// shared library name: libx.so.1.2 -> libx.so.
func RemoveSharedLibraryVersion(path string) string {
	base := filepath.Base(path)
	idx := strings.Index(base, ".so.")
	if idx < 0 {
		return path
	}
	return filepath.Join(filepath.Dir(path), base[:idx+len(".so")])
}

// SharedLibraryName maps an artifact path to its shared-library spelling:
// version suffix stripped, the extension replaced with ".so" and a "lib"
// prefix added when the name does not carry one already.
func SharedLibraryName(path string) string {
	out := RemoveSharedLibraryVersion(path)
	if IsSharedLibraryFile(out) {
		return out
	}
	out = AddExtension(RemoveExtension(out), ".so")
	if !strings.HasPrefix(filepath.Base(out), "lib") {
		out = AddPrefix(out, "lib")
	}
	return out
}

// IsSubPath reports whether child lies under parent.
func IsSubPath(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
