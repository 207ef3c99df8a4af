package command

import "strings"

// AddFlagToFront inserts one flag before all existing arguments.
func (c *Command) AddFlagToFront(flag string) {
	c.AddFlagsToFront([]string{flag})
}

// AddFlagsToFront inserts flags before all existing arguments, preserving
// their relative order. Flags are not deduplicated.
func (c *Command) AddFlagsToFront(flags []string) {
	if len(flags) == 0 {
		return
	}
	front := make([]Arg, 0, len(flags)+len(c.args))
	for _, f := range flags {
		front = append(front, Arg{Kind: classify(f), Value: f})
	}
	c.args = append(front, c.args...)
}

// AddFlagToEnd appends one flag after all existing arguments.
func (c *Command) AddFlagToEnd(flag string) {
	c.args = append(c.args, Arg{Kind: classify(flag), Value: flag})
}

// RemoveFlag drops arguments exactly equal to flag.
func (c *Command) RemoveFlag(flag string) {
	c.removeIf(func(a Arg) bool { return a.Value == flag })
}

// RemoveFlagsMatching drops every flag named in the block list. An argument
// matches when it equals a listed option or is its "=value" spelling, so
// "-std" also removes "-std=gnu99".
func (c *Command) RemoveFlagsMatching(blocked map[string]bool) {
	c.removeIf(func(a Arg) bool {
		if a.Kind != KindFlag {
			return false
		}
		if blocked[a.Value] {
			return true
		}
		if name, _, ok := strings.Cut(a.Value, "="); ok {
			return blocked[name]
		}
		return false
	})
}

// RemoveIncludeFlags strips all -I flags, in both the joined "-Ipath" and
// split "-I path" spellings.
func (c *Command) RemoveIncludeFlags() {
	out := c.args[:0]
	skipNext := false
	for _, a := range c.args {
		if skipNext {
			skipNext = false
			continue
		}
		if a.Kind == KindFlag && strings.HasPrefix(a.Value, "-I") {
			skipNext = a.Value == "-I"
			continue
		}
		out = append(out, a)
	}
	c.args = out
}

// RemoveIf drops arguments the predicate matches.
func (c *Command) RemoveIf(pred func(value string) bool) {
	c.removeIf(func(a Arg) bool { return pred(a.Value) })
}

func (c *Command) removeIf(pred func(Arg) bool) {
	out := c.args[:0]
	for _, a := range c.args {
		if pred(a) {
			continue
		}
		out = append(out, a)
	}
	c.args = out
}

// SetOptimizationLevel replaces any recorded -O flags with level.
func (c *Command) SetOptimizationLevel(level string) {
	c.removeIf(func(a Arg) bool {
		return a.Kind == KindFlag && strings.HasPrefix(a.Value, "-O")
	})
	c.AddFlagToEnd(level)
}

// SubstituteInputs rewrites arguments equal to an original input path to the
// mapped replacement, keyed by exact string match.
func (c *Command) SubstituteInputs(mapping map[string]string) {
	for i := range c.args {
		if replacement, ok := mapping[c.args[i].Value]; ok {
			c.args[i].Value = replacement
			c.args[i].Kind = KindInput
		}
	}
}

// RewriteArgs applies fn to every argument value, dropping the argument when
// fn returns an empty string. Used for path relativization and linker-flag
// surgery across the whole command line.
func (c *Command) RewriteArgs(fn func(value string) string) {
	for i := range c.args {
		c.args[i].Value = fn(c.args[i].Value)
	}
}

// IsArchiveCommand reports whether the tool is an archiver (ar family).
func (c *Command) IsArchiveCommand() bool {
	base := c.tool
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	return base == "ar" || strings.HasSuffix(base, "-ar")
}

// IsSharedLibraryCommand reports whether the invocation creates a shared
// library.
func (c *Command) IsSharedLibraryCommand() bool {
	for _, a := range c.args {
		if a.Value == "-shared" {
			return true
		}
	}
	return false
}
