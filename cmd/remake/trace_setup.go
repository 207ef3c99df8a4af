package main

import (
	"os"

	"github.com/spf13/cobra"

	"remake/internal/trace"
)

// tracerFromFlags builds the tracer selected by --trace-level, writing to
// stderr.
func tracerFromFlags(cmd *cobra.Command) (trace.Tracer, error) {
	levelValue, err := cmd.Flags().GetString("trace-level")
	if err != nil {
		return nil, err
	}
	level, err := trace.ParseLevel(levelValue)
	if err != nil {
		return nil, err
	}
	if level == trace.LevelOff {
		return trace.Nop, nil
	}
	return trace.NewStreamTracer(os.Stderr, level), nil
}
