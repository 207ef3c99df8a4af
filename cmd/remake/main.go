// Package main implements the remake CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"remake/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "remake",
	Short: "Build-graph synthesis for C/C++ test harnesses",
	Long: `remake reconstructs a project's build graph from its recorded compile and
link databases and emits a makefile that recompiles the project together with
generated test harnesses, stub objects and sanitizer/coverage instrumentation.`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("trace-level", "off", "trace verbosity (off|error|warn|detail|debug)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
