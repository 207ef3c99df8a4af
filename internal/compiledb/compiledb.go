// Package compiledb loads the recorded compile and link command databases
// (compile_commands.json and link_commands.json) and answers unit lookups
// for the build-graph synthesis. Every file reachable from a requested root
// must have an entry; a missing one is a fatal lookup failure.
package compiledb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"remake/internal/command"
)

// ErrUnknownUnit reports a unit file with no database entry.
var ErrUnknownUnit = errors.New("no database entry for unit")

// ObjectUnit is one recorded compilation: a source compiled into an object.
type ObjectUnit struct {
	Output string   // recorded object file path
	Source string   // translation unit source path
	Dir    string   // recorded working directory
	Argv   []string // full original invocation
}

// Command materializes the recorded invocation as a mutable command model.
func (u *ObjectUnit) Command() *command.Command {
	return command.New(append([]string(nil), u.Argv...), u.Dir, u.Source)
}

// LinkUnit is one recorded link step: an archive, shared library or
// executable built from constituent files.
type LinkUnit struct {
	Output   string     // linked artifact path
	Files    []string   // constituent objects and libraries
	Dir      string     // recorded working directory
	Commands [][]string // original invocation(s), in execution order
}

// LinkCommands materializes the recorded invocations as command models with
// the unit's files pre-tagged as inputs.
func (u *LinkUnit) LinkCommands() []*command.Command {
	out := make([]*command.Command, 0, len(u.Commands))
	for _, argv := range u.Commands {
		cmd := command.New(append([]string(nil), argv...), u.Dir, "")
		cmd.MarkInputs(u.Files)
		cmd.MarkOutput(u.Output)
		out = append(out, cmd)
	}
	return out
}

// Database indexes object and link units by their recorded paths.
type Database struct {
	objects map[string]*ObjectUnit // keyed by output and by source
	links   map[string]*LinkUnit   // keyed by output
}

// ObjectUnit looks up a compilation unit by object or source path.
func (d *Database) ObjectUnit(path string) (*ObjectUnit, error) {
	if u, ok := d.objects[path]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownUnit, path)
}

// LinkUnit looks up a link unit by its artifact path.
func (d *Database) LinkUnit(path string) (*LinkUnit, error) {
	if u, ok := d.links[path]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownUnit, path)
}

// HasLinkUnit reports whether path is a recorded link artifact.
func (d *Database) HasLinkUnit(path string) bool {
	_, ok := d.links[path]
	return ok
}

// New builds a database from already-decoded units. Used by tests and by
// callers that assemble units programmatically.
func New(objects []*ObjectUnit, links []*LinkUnit) *Database {
	d := &Database{
		objects: make(map[string]*ObjectUnit, 2*len(objects)),
		links:   make(map[string]*LinkUnit, len(links)),
	}
	for _, u := range objects {
		d.objects[u.Output] = u
		if u.Source != "" {
			d.objects[u.Source] = u
		}
	}
	for _, u := range links {
		d.links[u.Output] = u
	}
	return d
}

// compileEntry mirrors one compile_commands.json record.
type compileEntry struct {
	Directory string   `json:"directory"`
	Command   string   `json:"command"`
	Arguments []string `json:"arguments"`
	File      string   `json:"file"`
	Output    string   `json:"output"`
}

// linkEntry mirrors one link_commands.json record.
type linkEntry struct {
	Directory string     `json:"directory"`
	Commands  []string   `json:"commands"`
	Arguments [][]string `json:"arguments"`
	Files     []string   `json:"files"`
	Output    string     `json:"output"`
}

// Load reads both databases, parsing the two files concurrently.
func Load(compilePath, linkPath string) (*Database, error) {
	var (
		objects []*ObjectUnit
		links   []*LinkUnit
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		objects, err = loadObjects(compilePath)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = loadLinks(linkPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return New(objects, links), nil
}

func loadObjects(path string) ([]*ObjectUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []compileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	units := make([]*ObjectUnit, 0, len(entries))
	for _, e := range entries {
		argv := e.Arguments
		if len(argv) == 0 {
			argv = splitCommand(e.Command)
		}
		if len(argv) == 0 {
			return nil, fmt.Errorf("parse %s: entry for %q has no command", path, e.File)
		}
		units = append(units, &ObjectUnit{
			Output: e.Output,
			Source: e.File,
			Dir:    e.Directory,
			Argv:   argv,
		})
	}
	return units, nil
}

func loadLinks(path string) ([]*LinkUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []linkEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	units := make([]*LinkUnit, 0, len(entries))
	for _, e := range entries {
		argvs := e.Arguments
		if len(argvs) == 0 {
			for _, cmd := range e.Commands {
				argvs = append(argvs, splitCommand(cmd))
			}
		}
		if len(argvs) == 0 {
			return nil, fmt.Errorf("parse %s: entry for %q has no commands", path, e.Output)
		}
		units = append(units, &LinkUnit{
			Output:   e.Output,
			Files:    e.Files,
			Dir:      e.Directory,
			Commands: argvs,
		})
	}
	return units, nil
}

// splitCommand breaks a recorded shell command into argv, honoring single
// and double quotes. Recorded databases do not nest quoting deeper than
// this.
func splitCommand(s string) []string {
	var (
		argv    []string
		current []rune
		quote   rune
		started bool
	)
	flush := func() {
		if started {
			argv = append(argv, string(current))
			current = current[:0]
			started = false
		}
	}
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current = append(current, r)
			}
		case r == '\'' || r == '"':
			quote = r
			started = true
		case r == ' ' || r == '\t' || r == '\n':
			flush()
		default:
			current = append(current, r)
			started = true
		}
	}
	flush()
	return argv
}
