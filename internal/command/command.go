// Package command models a single recorded compiler or linker invocation as
// a structured, kind-tagged argument sequence. Rewrites used by the makefile
// synthesis (flag insertion and removal, input substitution, linker-flag
// transforms) are structural operations over that sequence rather than
// string surgery on a joined command line.
package command

import (
	"fmt"
	"strings"
)

// Kind classifies one argument of a recorded invocation.
type Kind uint8

const (
	KindWord   Kind = iota // positional argument, unclassified
	KindFlag               // begins with '-'
	KindLinker             // -Wl,... compiler-driver linker passthrough
	KindInput              // one of the owning unit's input files
	KindOutput             // value of the -o option
)

// Arg is one classified argument.
type Arg struct {
	Kind  Kind
	Value string
}

// Command is one shell invocation: tool, classified arguments, recorded
// working directory and optional environment prefix.
type Command struct {
	tool   string
	args   []Arg
	dir    string
	source string
	env    []string // KEY=VALUE prefixes, in insertion order
}

// New builds a command from a full argv (argv[0] is the tool), its recorded
// working directory and the primary source path (empty for link commands).
func New(argv []string, dir, source string) *Command {
	c := &Command{dir: dir, source: source}
	if len(argv) == 0 {
		return c
	}
	c.tool = argv[0]
	outputNext := false
	for _, word := range argv[1:] {
		kind := classify(word)
		if outputNext {
			kind = KindOutput
			outputNext = false
		} else if word == "-o" {
			outputNext = true
		}
		c.args = append(c.args, Arg{Kind: kind, Value: word})
	}
	return c
}

func classify(word string) Kind {
	switch {
	case strings.HasPrefix(word, "-Wl,"):
		return KindLinker
	case strings.HasPrefix(word, "-"):
		return KindFlag
	default:
		return KindWord
	}
}

// Clone returns a deep copy.
func (c *Command) Clone() *Command {
	dup := *c
	dup.args = append([]Arg(nil), c.args...)
	dup.env = append([]string(nil), c.env...)
	return &dup
}

// Tool returns the compiler/linker/archiver path.
func (c *Command) Tool() string { return c.tool }

// SetTool replaces the tool path.
func (c *Command) SetTool(tool string) { c.tool = tool }

// Dir returns the recorded working directory.
func (c *Command) Dir() string { return c.dir }

// Source returns the primary source path.
func (c *Command) Source() string { return c.source }

// SetSource replaces the primary source path, rewriting the matching
// argument in place.
func (c *Command) SetSource(source string) {
	for i := range c.args {
		if c.args[i].Value == c.source {
			c.args[i].Value = source
			c.args[i].Kind = KindInput
		}
	}
	c.source = source
}

// Output returns the value of the -o option, empty when absent.
func (c *Command) Output() string {
	for i := range c.args {
		if c.args[i].Kind == KindOutput {
			return c.args[i].Value
		}
	}
	return ""
}

// SetOutput replaces the -o value, appending "-o <output>" when the command
// had none.
func (c *Command) SetOutput(output string) {
	for i := range c.args {
		if c.args[i].Kind == KindOutput {
			c.args[i].Value = output
			return
		}
	}
	c.args = append(c.args,
		Arg{Kind: KindFlag, Value: "-o"},
		Arg{Kind: KindOutput, Value: output})
}

// MarkOutput re-tags the argument equal to path as the command's output.
// Archivers name their output positionally, without -o. No-op when an
// output argument already exists.
func (c *Command) MarkOutput(path string) {
	for i := range c.args {
		if c.args[i].Kind == KindOutput {
			return
		}
	}
	for i := range c.args {
		if c.args[i].Value == path {
			c.args[i].Kind = KindOutput
			return
		}
	}
}

// MarkInputs re-tags arguments equal to any of paths as unit inputs.
func (c *Command) MarkInputs(paths []string) {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	for i := range c.args {
		if set[c.args[i].Value] {
			c.args[i].Kind = KindInput
		}
	}
}

// Args renders the argument values in order, dropping arguments emptied by
// earlier rewrites.
func (c *Command) Args() []string {
	out := make([]string, 0, len(c.args))
	for _, a := range c.args {
		if a.Value == "" {
			continue
		}
		out = append(out, a.Value)
	}
	return out
}

// AddEnv adds a KEY=VALUE environment prefix to the rendered command.
func (c *Command) AddEnv(key, value string) {
	c.env = append(c.env, key+"="+value)
}

// String renders the invocation without a directory change.
func (c *Command) String() string {
	parts := make([]string, 0, len(c.args)+len(c.env)+1)
	parts = append(parts, c.env...)
	parts = append(parts, c.tool)
	parts = append(parts, c.Args()...)
	return strings.Join(parts, " ")
}

// StringWithCD renders the invocation prefixed by a change into the recorded
// working directory.
func (c *Command) StringWithCD() string {
	return c.StringWithCDTo(c.dir)
}

// StringWithCDTo renders the invocation prefixed by a change into dir.
func (c *Command) StringWithCDTo(dir string) string {
	return fmt.Sprintf("cd %s && %s", dir, c.String())
}
