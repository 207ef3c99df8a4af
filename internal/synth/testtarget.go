package synth

import (
	"fmt"
	"path/filepath"
	"strings"

	"remake/internal/command"
	"remake/internal/makefile"
	"remake/internal/project"
	"remake/internal/toolchain"
)

// TestExecutablePath is where the test binary for a source under test lands.
func (s *Synthesizer) TestExecutablePath(sourcePath string) string {
	return project.RemoveExtension(project.RemoveExtension(s.ctx.RecompiledFile(sourcePath)))
}

// AddTestTarget emits the compile and link targets for the generated test of
// sourcePath, linking it against the recompiled product of rootPath.
func (s *Synthesizer) AddTestTarget(sourcePath, rootPath string) error {
	unit, err := s.db.ObjectUnit(sourcePath)
	if err != nil {
		return err
	}

	testCmd := unit.Command()
	testCmd.SetTool(s.rel(s.primaryCXX))
	testCmd.SetOptimizationLevel(optimizationFlag)
	testCmd.RemoveFlagsMatching(toolchain.UnsupportedTestFlags)
	testCmd.RemoveIncludeFlags()
	testCmd.AddFlagToFront("-I" + s.rel(filepath.Join(s.ctx.GtestDir, "googletest", "include")))
	if project.IsCXXFile(sourcePath) {
		// Tests of C++ sources reach private members through access_private.
		testCmd.AddFlagToFront("-I" + s.rel(s.ctx.AccessPrivateDir))
	}
	testCmd.AddFlagToFront(fpicFlag)
	testCmd.AddFlagsToFront(toolchain.SanitizerNeededFlags)

	testSource := s.ctx.TestFile(sourcePath)
	testRel, err := filepath.Rel(s.ctx.TestsDir, testSource)
	if err != nil {
		testRel = filepath.Base(testSource)
	}
	testObject := s.rel(filepath.Join(s.ctx.TestObjectDir(), project.AddExtension(testRel, ".o")))
	testCmd.SetOutput(testObject)
	testCmd.SetSource(s.rel(testSource))

	s.printer.DeclareTarget(testObject, []string{testCmd.Source()},
		[]string{testCmd.StringWithCDTo(s.rel(unit.Dir))})
	s.artifacts = append(s.artifacts, testObject)

	rootUnit, err := s.db.LinkUnit(rootPath)
	if err != nil {
		return err
	}
	testExecutable := s.rel(s.TestExecutablePath(sourcePath))

	filesToLink := []string{"$(GTEST_MAIN)", "$(GTEST_ALL)", testObject, s.rel(s.sharedOutput)}
	rootCommands := rootUnit.LinkCommands()
	if rootCommands[0].IsArchiveCommand() {
		// Pure dynamic link: the product is consumed via its shared wrapper.
		argv := []string{
			s.rel(s.cxxLinker), "$(LDFLAGS)",
			s.pthreadFlag, s.coverageLinkFlags,
			s.sanitizerLinkFlags, "-o",
			testExecutable,
		}
		argv = append(argv, filesToLink...)
		argv = append(argv, "-L"+s.rel(filepath.Dir(s.sharedOutput)))
		linkCmd := command.New(argv, s.rel(s.buildDir), "")
		s.printer.DeclareTarget(testExecutable, filesToLink, []string{linkCmd.StringWithCD()})
	} else {
		// Adapt the root's own recorded link step.
		linkCmd := rootCommands[0]
		rootFiles := make(map[string]bool, len(rootUnit.Files))
		for _, f := range rootUnit.Files {
			rootFiles[f] = true
		}
		linkCmd.RemoveIf(func(value string) bool {
			return rootFiles[value] ||
				value == sharedFlag ||
				strings.HasPrefix(value, "-L") ||
				strings.HasPrefix(value, "-l")
		})
		linkCmd.RewriteArgs(func(argument string) string {
			argument = command.RemoveScriptFlag(argument)
			return command.RemoveSonameFlag(argument)
		})
		linkCmd.SetOptimizationLevel(optimizationFlag)
		linkCmd.AddFlagsToFront([]string{s.pthreadFlag, s.coverageLinkFlags, s.sanitizerLinkFlags})

		for _, file := range rootUnit.Files {
			if !project.IsLibraryFile(file) {
				continue
			}
			mapped := file
			if result, ok := s.cache.get(file); ok {
				mapped = result.Output
			}
			filesToLink = append(filesToLink, s.relativize(mapped))
		}
		linkCmd.AddFlagsToFront(filesToLink)
		linkCmd.AddFlagToFront("-L" + s.rel(filepath.Dir(s.sharedOutput)))
		linkCmd.AddFlagToFront("$(LDFLAGS)")

		linkCmd.SetTool(s.rel(s.cxxLinker))
		linkCmd.SetOutput(testExecutable)

		s.printer.DeclareTarget(testExecutable, filesToLink,
			[]string{linkCmd.StringWithCDTo(s.rel(linkCmd.Dir()))})
	}

	s.artifacts = append(s.artifacts, testExecutable)
	return nil
}

// AddTestRunTargets emits the bin, build and run convenience targets for the
// test of sourcePath. The run target exports the sanitizer environment and,
// for the gcc family, preloads the sanitizer runtime.
func (s *Synthesizer) AddTestRunTargets(sourcePath string) {
	testExecutable := s.rel(s.TestExecutablePath(sourcePath))

	coverageBinary := s.sharedOutput
	if !project.IsLibraryFile(coverageBinary) {
		coverageBinary = s.TestExecutablePath(sourcePath)
	}
	s.printer.DeclareTarget("bin", []string{makefile.Force},
		[]string{fmt.Sprintf("echo %s", s.rel(coverageBinary))})

	runCmd := command.New([]string{testExecutable, "$(GTEST_FLAGS)"}, s.rel(s.buildDir), "")
	runCmd.AddEnv("PATH", "$$PATH:$(pwd)")
	if s.primaryFamily == toolchain.FamilyGCC {
		runCmd.AddEnv("LD_PRELOAD", toolchain.AsanLibrary+":${LD_PRELOAD}")
	}
	runCmd.AddEnv(toolchain.UBSanOptionsName, toolchain.UBSanOptionsValue)
	runCmd.AddEnv(toolchain.ASanOptionsName, toolchain.ASanOptionsValue)

	s.printer.DeclareTarget("build", []string{testExecutable}, nil)
	s.printer.DeclareTarget("run", []string{"build"}, []string{runCmd.StringWithCD()})
}
