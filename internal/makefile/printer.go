// Package makefile is the textual script writer the synthesizer emits into:
// variable, comment and target declarations, plus relative-path rendering
// that substitutes configured absolute prefixes with make variables so the
// generated script is relocatable.
package makefile

import (
	"fmt"
	"sort"
	"strings"
)

// Force is the phony prerequisite used for always-rebuilt targets.
const Force = "FORCE"

type pathVar struct {
	prefix   string
	variable string
}

// Printer accumulates a makefile. It is a plain buffer; the caller owns
// ordering.
type Printer struct {
	sb       strings.Builder
	pathVars []pathVar // longest prefix first
}

// NewPrinter creates a printer substituting the given absolute path prefixes
// with $(VAR) references when rendering paths.
func NewPrinter(pathToVariable map[string]string) *Printer {
	p := &Printer{}
	for prefix, variable := range pathToVariable {
		p.pathVars = append(p.pathVars, pathVar{prefix: prefix, variable: variable})
	}
	sort.Slice(p.pathVars, func(i, j int) bool {
		return len(p.pathVars[i].prefix) > len(p.pathVars[j].prefix)
	})
	return p
}

// RelativePath renders path with its longest registered prefix replaced by
// the matching $(VAR). Unregistered paths render unchanged.
func (p *Printer) RelativePath(path string) string {
	for _, pv := range p.pathVars {
		if path == pv.prefix {
			return "$(" + pv.variable + ")"
		}
		if strings.HasPrefix(path, pv.prefix+"/") {
			return "$(" + pv.variable + ")" + path[len(pv.prefix):]
		}
	}
	return path
}

// DeclareVariable emits NAME = value.
func (p *Printer) DeclareVariable(name, value string) {
	fmt.Fprintf(&p.sb, "%s = %s\n\n", name, value)
}

// DeclareTarget emits one rule with its dependencies and tab-indented
// actions.
func (p *Printer) DeclareTarget(target string, deps, actions []string) {
	fmt.Fprintf(&p.sb, "%s: %s\n", target, strings.Join(deps, " "))
	for _, action := range actions {
		fmt.Fprintf(&p.sb, "\t%s\n", action)
	}
	p.sb.WriteString("\n")
}

// DeclareAction emits a top-level line executed at parse time, such as a
// $(shell mkdir -p ...) directive.
func (p *Printer) DeclareAction(action string) {
	fmt.Fprintf(&p.sb, "%s\n\n", action)
}

// Comment emits a # comment line.
func (p *Printer) Comment(text string) {
	fmt.Fprintf(&p.sb, "# %s\n", text)
}

// Raw emits a line verbatim.
func (p *Printer) Raw(line string) {
	p.sb.WriteString(line)
	p.sb.WriteString("\n")
}

// String returns the accumulated script.
func (p *Printer) String() string {
	return p.sb.String()
}
