package command

import "strings"

const wlMarker = "-Wl"

// eraseIfWlOnly empties an argument reduced to a bare -Wl marker.
func eraseIfWlOnly(argument string) string {
	if argument == wlMarker {
		return ""
	}
	return argument
}

// TransformWlToLinkerFlags rewrites -Wl,opt1,opt2 compiler-driver syntax to
// bare linker flags "opt1 opt2". Arguments not led by the marker are left
// untouched.
func TransformWlToLinkerFlags(argument string) string {
	options := strings.Split(argument, ",")
	if len(options) == 0 || options[0] != wlMarker {
		return argument
	}
	return strings.Join(options[1:], " ")
}

// RemoveLinkerFlag drops sub-options starting with flag from a comma-joined
// -Wl argument, re-joining the remainder. A marker left with no sub-options
// is dropped entirely.
func RemoveLinkerFlag(argument, flag string) string {
	options := strings.Split(argument, ",")
	kept := options[:0]
	for _, option := range options {
		if strings.HasPrefix(option, flag) {
			continue
		}
		kept = append(kept, option)
	}
	if len(kept) == len(options) {
		return argument
	}
	return eraseIfWlOnly(strings.Join(kept, ","))
}

// RemoveScriptFlag drops --version-script sub-options.
func RemoveScriptFlag(argument string) string {
	return RemoveLinkerFlag(argument, "--version-script")
}

// RemoveSonameFlag drops -soname together with the name that follows it.
func RemoveSonameFlag(argument string) string {
	options := strings.Split(argument, ",")
	result := make([]string, 0, len(options))
	sonameNext := false
	for _, option := range options {
		if option == "-soname" {
			sonameNext = true
			continue
		}
		if sonameNext {
			sonameNext = false
			continue
		}
		result = append(result, option)
	}
	return eraseIfWlOnly(strings.Join(result, ","))
}
