package synth

import (
	"fmt"
	"path/filepath"

	"remake/internal/command"
	"remake/internal/project"
	"remake/internal/toolchain"
	"remake/internal/trace"
)

// AddLinkTargetRecursively expands a top-level link unit into every
// transitive constituent, emitting one target per unit, and returns the
// root's build result. stubSuffix distinguishes outputs of stub-mixed units.
func (s *Synthesizer) AddLinkTargetRecursively(unitFile, stubSuffix string) (Result, error) {
	return s.linkRecursive(unitFile, stubSuffix, false)
}

func (s *Synthesizer) linkRecursive(unitFile, stubSuffix string, hasParent bool) (Result, error) {
	if result, ok := s.cache.get(unitFile); ok {
		s.tracer.Logf(trace.LevelDebug, "cache hit: %s -> %s", unitFile, result.Output)
		return result, nil
	}
	if project.IsObjectFile(unitFile) {
		result, err := s.addObjectFile(unitFile)
		if err != nil {
			return Result{}, err
		}
		return s.cache.finish(unitFile, result), nil
	}

	if err := s.cache.begin(unitFile); err != nil {
		return Result{}, err
	}
	linkUnit, err := s.db.LinkUnit(unitFile)
	if err != nil {
		return Result{}, err
	}
	s.tracer.Logf(trace.LevelDetail, "link unit: %s (%d files)", unitFile, len(linkUnit.Files))

	unitKind := KindNone
	fileMapping := make(map[string]string, len(linkUnit.Files))
	deps := make([]string, 0, len(linkUnit.Files))
	for _, dependency := range linkUnit.Files {
		childResult, err := s.linkRecursive(dependency, stubSuffix, true)
		if err != nil {
			return Result{}, err
		}
		unitKind = unitKind.Merge(childResult.Kind)
		fileMapping[dependency] = childResult.Output
		deps = append(deps, s.rel(childResult.Output))
	}

	isExecutable := !project.IsLibraryFile(unitFile)

	recompiledFile := s.ctx.RecompiledFile(linkUnit.Output)
	if isExecutable && !s.exeToLib {
		// Plain executables relink as relocatable objects so their code can
		// be merged into the test binary later.
		if !project.IsObjectFile(recompiledFile) {
			recompiledFile = project.AddExtension(recompiledFile, ".o")
		}
	} else if project.IsSharedLibraryFile(unitFile) || isExecutable {
		recompiledFile = project.SharedLibraryName(recompiledFile)
	}
	recompiledFile = ApplySuffix(recompiledFile, unitKind, stubSuffix)

	if isExecutable || project.IsSharedLibraryFile(unitFile) {
		s.sharedOutput = recompiledFile
	}

	recompiledRel := s.rel(recompiledFile)
	actions := []string{fmt.Sprintf("rm -f %s", recompiledRel)}
	for _, linkCmd := range linkUnit.LinkCommands() {
		action, extraDeps := s.rewriteLinkCommand(linkCmd, recompiledFile, fileMapping, isExecutable)
		deps = append(deps, extraDeps...)
		actions = append(actions, action)
	}

	s.printer.DeclareTarget(recompiledRel, deps, actions)
	s.artifacts = append(s.artifacts, recompiledRel)

	if !hasParent && project.IsStaticLibraryFile(unitFile) {
		s.addSharedWrapper(linkUnit.Output, recompiledRel, unitKind, stubSuffix)
	}
	return s.cache.finish(unitFile, Result{Output: recompiledFile, Kind: unitKind}), nil
}

// rewriteLinkCommand turns one recorded link invocation into the rewritten
// recipe action for its unit, returning extra target dependencies the
// rewrite introduced (the stub-objects variable).
func (s *Synthesizer) rewriteLinkCommand(linkCmd *command.Command, recompiledFile string,
	fileMapping map[string]string, isExecutable bool) (string, []string) {

	var extraDeps []string

	linkCmd.RemoveFlag(staticFlag)
	linkCmd.SetOutput(recompiledFile)
	linkCmd.SubstituteInputs(fileMapping)

	if !linkCmd.IsArchiveCommand() {
		actsAsLibrary := !isExecutable || s.exeToLib
		if isExecutable && !s.exeToLib {
			// Bypassing the compiler driver: raw ld accepts bare linker
			// flags only.
			linkCmd.SetTool(toolchain.Ld)
			linkCmd.RewriteArgs(command.TransformWlToLinkerFlags)
		}
		var libraryDirFlags []string
		linkCmd.RewriteArgs(func(argument string) string {
			argument = command.RemoveScriptFlag(argument)
			argument = command.RemoveSonameFlag(argument)
			if libPath, ok := libraryAbsolutePath(argument, linkCmd.Dir()); ok {
				if project.IsSubPath(s.ctx.BuildDir, libPath) {
					recompiledDir := filepath.Dir(s.ctx.RecompiledFile(libPath))
					libraryDirFlags = append(libraryDirFlags, "-L"+recompiledDir)
				}
			}
			return argument
		})
		linkCmd.AddFlagsToFront(libraryDirFlags)
		if actsAsLibrary {
			linkCmd.AddFlagsToFront([]string{
				"-Wl,--allow-multiple-definition",
				s.coverageLinkFlags,
				s.sanitizerLinkFlags,
				"-Wl,--whole-archive",
			})
			if linkCmd.IsSharedLibraryCommand() {
				linkCmd.AddFlagToEnd(stubObjectFiles)
				extraDeps = append(extraDeps, stubObjectFiles)
			}
			linkCmd.AddFlagToEnd("-Wl,--no-whole-archive")
			linkCmd.SetOptimizationLevel(optimizationFlag)
		}
		linkCmd.AddFlagToFront("$(LDFLAGS)")
		if isExecutable {
			if s.exeToLib {
				linkCmd.AddFlagToFront(sharedFlag)
			} else {
				linkCmd.AddFlagToFront(relocateFlag)
			}
		}
	}

	linkCmd.SetTool(s.rel(linkCmd.Tool()))
	linkCmd.RewriteArgs(s.relativize)

	action := linkCmd.StringWithCDTo(s.rel(linkCmd.Dir()))
	if isExecutable && !s.exeToLib {
		// The merged object must not clash with the test driver's main.
		action = fmt.Sprintf("%s && objcopy --redefine-sym main=main__ %s",
			action, linkCmd.Output())
	}
	return action, extraDeps
}

// addSharedWrapper emits the secondary shared-library target wrapping a
// parentless static library; tests always link against a shared artifact.
func (s *Synthesizer) addSharedWrapper(originalOutput, recompiledRel string, unitKind Kind, stubSuffix string) {
	shared := ApplySuffix(project.SharedLibraryName(s.ctx.RecompiledFile(originalOutput)), unitKind, stubSuffix)
	s.sharedOutput = shared
	sharedRel := s.rel(shared)

	linkCmd := command.New([]string{
		s.rel(s.primaryCompiler), "$(LDFLAGS)",
		sharedFlag, s.coverageLinkFlags,
		s.sanitizerLinkFlags, "-o",
		sharedRel, "-Wl,--whole-archive",
		recompiledRel, "-Wl,--allow-multiple-definition",
		stubObjectFiles, "-Wl,--no-whole-archive",
	}, s.rel(s.buildDir), "")

	s.printer.DeclareTarget(sharedRel, []string{recompiledRel, stubObjectFiles},
		[]string{linkCmd.StringWithCD()})
	s.artifacts = append(s.artifacts, sharedRel)
}

// libraryAbsolutePath resolves an argument naming a library file to an
// absolute path, against the command's working directory when relative.
func libraryAbsolutePath(argument, dir string) (string, bool) {
	if !project.IsLibraryFile(argument) {
		return "", false
	}
	if filepath.IsAbs(argument) {
		return argument, true
	}
	return filepath.Join(dir, argument), true
}
