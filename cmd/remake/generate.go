package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"remake/internal/compiledb"
	"remake/internal/project"
	"remake/internal/synth"
)

const noManifestMessage = "no remake.toml found\nrun remake from inside a project or create a manifest first"

var (
	generateRoot        string
	generateTest        string
	generateCompileDB   string
	generateLinkDB      string
	generateStubSources []string
	generateExeAsLib    bool
	generateOutput      string
	generateStubSuffix  string
)

func init() {
	generateCmd.Flags().StringVar(&generateRoot, "root", "", "top-level link unit to synthesize (artifact path)")
	generateCmd.Flags().StringVar(&generateTest, "test", "", "source file designated as the unit under test")
	generateCmd.Flags().StringVar(&generateCompileDB, "compile-db", "", "compile_commands.json path (default: <build-dir>/compile_commands.json)")
	generateCmd.Flags().StringVar(&generateLinkDB, "link-db", "", "link_commands.json path (default: <build-dir>/link_commands.json)")
	generateCmd.Flags().StringArrayVar(&generateStubSources, "stub-source", nil, "project source replaced by a stub (repeatable)")
	generateCmd.Flags().BoolVar(&generateExeAsLib, "exe-as-lib", false, "link executables as shared libraries instead of relocatable objects")
	generateCmd.Flags().StringVar(&generateOutput, "output", "", "generated makefile path (default: <tests-dir>/remake.mk)")
	generateCmd.Flags().StringVar(&generateStubSuffix, "stub-suffix", "", "output suffix for stub-mixed link units")
	_ = generateCmd.MarkFlagRequired("root")
}

var generateCmd = &cobra.Command{
	Use:   "generate [flags] [path]",
	Short: "Synthesize the recompilation makefile for a link unit",
	Long: `Generate walks the link unit named by --root through the recorded build
databases and writes a makefile recompiling every transitive constituent with
stub substitution and instrumentation applied.`,
	Args: cobra.MaximumNArgs(1),
	RunE: generateExecution,
}

func generateExecution(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}
	manifest, found, err := project.LoadManifest(startDir)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s", noManifestMessage)
	}
	ctx := manifest.Context()

	tracer, err := tracerFromFlags(cmd)
	if err != nil {
		return err
	}

	compileDB := generateCompileDB
	if compileDB == "" {
		compileDB = filepath.Join(ctx.BuildDir, "compile_commands.json")
	}
	linkDB := generateLinkDB
	if linkDB == "" {
		linkDB = filepath.Join(ctx.BuildDir, "link_commands.json")
	}
	db, err := compiledb.Load(compileDB, linkDB)
	if err != nil {
		return err
	}

	compiler := manifest.Config.Toolchain.Compiler
	if compiler == "" {
		compiler = "gcc"
	}

	stubSources := make(map[string]bool, len(generateStubSources))
	stubs := make([]string, 0, len(generateStubSources))
	for _, source := range generateStubSources {
		if !filepath.IsAbs(source) {
			source = filepath.Join(ctx.Root, source)
		}
		stubSources[source] = true
		stubs = append(stubs, ctx.SourceToStub(source))
	}

	s := synth.New(synth.Options{
		Project:     ctx,
		Database:    db,
		Primary:     compiler,
		StubSources: stubSources,
		ExeToLib:    generateExeAsLib,
		Tracer:      tracer,
	})

	rootPath := generateRoot
	if !filepath.IsAbs(rootPath) {
		rootPath = filepath.Join(ctx.Root, rootPath)
	}
	result, err := s.AddLinkTargetRecursively(rootPath, generateStubSuffix)
	if err != nil {
		return err
	}
	if err := s.AddStubs(stubs); err != nil {
		return err
	}
	if generateTest != "" {
		testSource := generateTest
		if !filepath.IsAbs(testSource) {
			testSource = filepath.Join(ctx.Root, testSource)
		}
		if err := s.AddTestTarget(testSource, rootPath); err != nil {
			return err
		}
		s.AddTestRunTargets(testSource)
	}
	s.Close()

	output := generateOutput
	if output == "" {
		output = filepath.Join(ctx.TestsDir, "remake.mk")
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(output, []byte(s.Script()), 0o644); err != nil {
		return err
	}

	accent := color.New(color.FgGreen, color.Bold)
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, kind: %s)\n",
		accent.Sprint("wrote"), output, result.Output, result.Kind)
	return nil
}
