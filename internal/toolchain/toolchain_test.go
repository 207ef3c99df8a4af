package toolchain

import "testing"

func TestFamilyOf(t *testing.T) {
	cases := []struct {
		compiler string
		want     Family
	}{
		{"gcc", FamilyGCC},
		{"/usr/bin/gcc-12", FamilyGCC},
		{"g++", FamilyGCC},
		{"cc", FamilyGCC},
		{"clang", FamilyClang},
		{"/opt/llvm/bin/clang++", FamilyClang},
		{"icc", FamilyUnknown},
	}
	for _, tc := range cases {
		if got := FamilyOf(tc.compiler); got != tc.want {
			t.Errorf("FamilyOf(%q) = %v, want %v", tc.compiler, got, tc.want)
		}
	}
}

func TestToCXXCompiler(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"gcc", "g++"},
		{"/usr/bin/gcc-12", "/usr/bin/g++-12"},
		{"clang", "clang++"},
		{"clang++", "clang++"},
		{"g++", "g++"},
		{"cc", "c++"},
	}
	for _, tc := range cases {
		if got := ToCXXCompiler(tc.in); got != tc.want {
			t.Errorf("ToCXXCompiler(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFamilyFlags(t *testing.T) {
	if PthreadFlag(FamilyClang) != "-pthread" || PthreadFlag(FamilyGCC) != "-lpthread" {
		t.Fatalf("pthread flags broken")
	}
	if len(CoverageCompileFlags(FamilyClang)) != 2 {
		t.Fatalf("clang coverage flags = %v", CoverageCompileFlags(FamilyClang))
	}
	if CoverageCompileFlags(FamilyGCC)[0] != "--coverage" {
		t.Fatalf("gcc coverage flags = %v", CoverageCompileFlags(FamilyGCC))
	}
}

func TestUnsupportedTestFlagsCoverDialectOptions(t *testing.T) {
	for _, flag := range []string{"-ansi", "-fopenmp", "-std"} {
		if !UnsupportedTestFlags[flag] {
			t.Errorf("%s missing from block list", flag)
		}
	}
}
