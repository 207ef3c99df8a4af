// Package synth reconstructs a project's build graph from its recorded
// compile and link databases and re-emits it as a self-contained makefile:
// every transitive constituent of a requested link unit gets a rewritten,
// relocatable recompilation command with stub substitution and
// coverage/sanitizer instrumentation applied.
package synth

import (
	"fmt"
	"path/filepath"

	"remake/internal/command"
	"remake/internal/compiledb"
	"remake/internal/makefile"
	"remake/internal/project"
	"remake/internal/toolchain"
	"remake/internal/trace"
)

const (
	stubObjectFilesName = "STUB_OBJECT_FILES"
	stubObjectFiles     = "$(STUB_OBJECT_FILES)"

	fpicFlag         = "-fPIC"
	staticFlag       = "-static"
	sharedFlag       = "-shared"
	relocateFlag     = "-r"
	optimizationFlag = "-O0"
)

// Options configures a Synthesizer.
type Options struct {
	Project  *project.Context
	Database *compiledb.Database

	// Primary is the project's primary C compiler.
	Primary string

	// StubSources is the set of project sources replaced by stubs.
	StubSources map[string]bool

	// ExeToLib links executables as shared libraries instead of relocatable
	// objects, for roots explicitly requested to act as libraries.
	ExeToLib bool

	Tracer trace.Tracer
}

// Synthesizer walks link units depth-first and emits the regenerated build
// script. Single-threaded; all state is unguarded.
type Synthesizer struct {
	printer *makefile.Printer
	ctx     *project.Context
	db      *compiledb.Database
	tracer  trace.Tracer

	primaryCompiler string
	primaryCXX      string
	cxxLinker       string
	primaryFamily   toolchain.Family
	cxxFamily       toolchain.Family

	pthreadFlag        string
	coverageLinkFlags  string
	sanitizerLinkFlags string

	buildDir string
	depDir   string

	stubSources map[string]bool
	exeToLib    bool

	cache        *cache
	compiled     map[string]bool // compile targets already declared, by rendered output
	artifacts    []string
	sharedOutput string // last executable/shared-library output, "" before one exists
}

// New constructs a synthesizer and emits the script preamble: path
// variables, output directories, the FORCE target and the gtest support
// objects.
func New(opts Options) *Synthesizer {
	tr := opts.Tracer
	if tr == nil {
		tr = trace.Nop
	}
	ctx := opts.Project
	primaryCXX := toolchain.ToCXXCompiler(opts.Primary)
	s := &Synthesizer{
		ctx:    ctx,
		db:     opts.Database,
		tracer: tr,

		primaryCompiler: opts.Primary,
		primaryCXX:      primaryCXX,
		cxxLinker:       toolchain.ToCXXLinker(primaryCXX),
		primaryFamily:   toolchain.FamilyOf(opts.Primary),
		cxxFamily:       toolchain.FamilyOf(primaryCXX),

		buildDir: ctx.RemakeBuildDir(),
		depDir:   ctx.DependencyDir(),

		stubSources: opts.StubSources,
		exeToLib:    opts.ExeToLib,
		cache:       newCache(),
		compiled:    make(map[string]bool),
	}
	s.pthreadFlag = toolchain.PthreadFlag(s.cxxFamily)
	s.coverageLinkFlags = joinFlags(toolchain.CoverageLinkFlags(s.cxxFamily))
	s.sanitizerLinkFlags = toolchain.SanitizerLinkFlags(s.cxxFamily)

	s.printer = makefile.NewPrinter(map[string]string{
		s.buildDir:   "BUILD_DIR",
		ctx.Root:     "PROJECT_DIR",
		ctx.GtestDir: "GTEST_DIR",
	})
	s.init()
	return s
}

func joinFlags(flags []string) string {
	out := ""
	for i, f := range flags {
		if i > 0 {
			out += " "
		}
		out += f
	}
	return out
}

func (s *Synthesizer) init() {
	p := s.printer
	p.Comment(s.ctx.Name + " test harness build, generated by remake")
	p.DeclareVariable("PROJECT_DIR", s.ctx.Root)
	p.DeclareVariable("BUILD_DIR", s.buildDir)
	p.DeclareVariable("GTEST_DIR", s.ctx.GtestDir)

	p.DeclareAction(fmt.Sprintf("$(shell mkdir -p %s >/dev/null)", s.rel(s.buildDir)))
	p.DeclareAction(fmt.Sprintf("$(shell mkdir -p %s >/dev/null)", s.rel(s.depDir)))
	p.DeclareTarget(makefile.Force, nil, nil)

	s.artifacts = append(s.artifacts, s.rel(s.buildDir), s.rel(s.depDir))

	p.Comment("gtest")
	gtestBuildDir := filepath.Join(s.buildDir, "googletest")
	defaultCmd := command.New(
		[]string{s.rel(s.primaryCXX), "-c", "-std=c++11", fpicFlag, "default.c"},
		s.rel(s.buildDir), "default.c")
	s.gtestObjectTarget(defaultCmd, gtestBuildDir, "gtest-all.cc", "GTEST_ALL")
	s.gtestObjectTarget(defaultCmd, gtestBuildDir, "gtest_main.cc", "GTEST_MAIN")
	p.Comment("/gtest")
}

// gtestObjectTarget emits the compile target for one googletest support
// source and binds its object to a make variable.
func (s *Synthesizer) gtestObjectTarget(defaultCmd *command.Command, gtestBuildDir, sourceName, variable string) {
	sourceFile := filepath.Join(s.ctx.GtestDir, "googletest", "src", sourceName)
	objectFile := s.rel(filepath.Join(gtestBuildDir, sourceName+".o"))

	cmd := defaultCmd.Clone()
	cmd.AddFlagsToFront([]string{
		"-I" + s.rel(filepath.Join(s.ctx.GtestDir, "googletest", "include")),
		"-I" + s.rel(filepath.Join(s.ctx.GtestDir, "googletest")),
	})
	cmd.SetSource(s.rel(sourceFile))
	cmd.SetOutput(objectFile)

	s.printer.DeclareTarget(objectFile, []string{cmd.Source()}, []string{cmd.StringWithCD()})
	s.printer.DeclareVariable(variable, objectFile)
	s.artifacts = append(s.artifacts, objectFile)
}

// rel renders a path with registered prefixes replaced by make variables.
func (s *Synthesizer) rel(path string) string {
	return s.printer.RelativePath(path)
}

// relativize rewrites absolute arguments (bare or behind -I) to their
// variable-relative rendering.
func (s *Synthesizer) relativize(argument string) string {
	if filepath.IsAbs(argument) {
		return s.rel(argument)
	}
	if len(argument) > 2 && argument[:2] == "-I" {
		return "-I" + s.rel(argument[2:])
	}
	return argument
}

// temporaryDependencyFile is the .Td path dependency output is written to
// before the atomic move.
func (s *Synthesizer) temporaryDependencyFile(source string) string {
	rel := s.ctx.Rel(source)
	return s.rel(filepath.Join(s.depDir, project.AddExtension(rel, ".Td")))
}

// dependencyFile is the final .d path included by the generated script.
func (s *Synthesizer) dependencyFile(source string) string {
	rel := s.ctx.Rel(source)
	return s.rel(filepath.Join(s.depDir, project.AddExtension(rel, ".d")))
}

// addCompileTarget emits one compile rule recompiling sourcePath into
// target with instrumentation and dependency generation applied. A target
// requested both through the link graph and through AddStubs is emitted
// once.
func (s *Synthesizer) addCompileTarget(sourcePath, target string, unit *compiledb.ObjectUnit) {
	if s.compiled[s.rel(target)] {
		return
	}
	s.compiled[s.rel(target)] = true

	cmd := unit.Command()
	family := toolchain.FamilyOf(cmd.Tool())
	cmd.SetTool(s.rel(cmd.Tool()))
	cmd.SetSource(s.rel(sourcePath))
	cmd.SetOutput(s.rel(target))

	cmd.RewriteArgs(s.relativize)

	cmd.SetOptimizationLevel(optimizationFlag)
	cmd.AddEnv("C_INCLUDE_PATH", "$REMAKE_LAUNCH_INCLUDE_PATH")
	cmd.AddFlagToFront(fpicFlag)
	cmd.AddFlagsToFront(toolchain.SanitizerNeededFlags)
	cmd.AddFlagsToFront(toolchain.CoverageCompileFlags(s.primaryFamily))
	cmd.AddFlagsToFront(toolchain.SanitizerCompileFlags(family))

	tempDep := s.temporaryDependencyFile(sourcePath)
	depFile := s.dependencyFile(sourcePath)
	cmd.AddFlagToFront(fmt.Sprintf("-MT $@ -MMD -MP -MF %s", tempDep))
	cmd.AddFlagToFront("-iquote" + s.rel(filepath.Dir(unit.Source)))

	actions := []string{
		fmt.Sprintf("mkdir -p %s", filepath.Dir(depFile)),
		cmd.StringWithCDTo(s.rel(unit.Dir)),
		fmt.Sprintf("mv -f %s %s", tempDep, depFile),
	}
	s.printer.DeclareTarget(cmd.Output(), []string{cmd.Source(), depFile}, actions)
	s.artifacts = append(s.artifacts, cmd.Output())
}

// addObjectFile classifies one object's source as stub-replaced or ordinary
// and emits its compile target.
func (s *Synthesizer) addObjectFile(objectFile string) (Result, error) {
	unit, err := s.db.ObjectUnit(objectFile)
	if err != nil {
		return Result{}, err
	}
	source := unit.Source

	var result Result
	var pathToCompile string
	if s.stubSources[source] {
		pathToCompile = s.ctx.SourceToStub(source)
		result = Result{
			Output: s.ctx.RecompiledFile(pathToCompile),
			Kind:   KindAllStubs,
		}
	} else {
		if project.IsCXXFile(source) {
			pathToCompile = source
		} else {
			pathToCompile = s.ctx.WrapperFile(source)
		}
		result = Result{
			Output: s.ctx.RecompiledFile(unit.Output),
			Kind:   KindNoStubs,
		}
	}

	s.addCompileTarget(pathToCompile, result.Output, unit)
	return result, nil
}

// Script returns the generated makefile text emitted so far.
func (s *Synthesizer) Script() string {
	return s.printer.String()
}

// SharedOutput returns the shared artifact tests link against, "" before
// any executable or shared-library unit has been synthesized.
func (s *Synthesizer) SharedOutput() string {
	return s.sharedOutput
}

// Close emits the trailing clean target, the .PRECIOUS dependency pattern
// and the dependency-file includes.
func (s *Synthesizer) Close() {
	p := s.printer
	p.DeclareTarget("clean", nil, []string{
		fmt.Sprintf("rm -rf %s", joinFlags(s.artifacts)),
	})
	depDir := s.rel(s.depDir)
	p.Raw(fmt.Sprintf(".PRECIOUS: %s/%%.d", depDir))
	p.Raw(fmt.Sprintf("%s/%%.d: ;", depDir))
	p.Raw("")
	p.Raw(fmt.Sprintf("-include %s/*.Td %s/*.d", depDir, depDir))
	p.Raw("")
}
