package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cxxfront/internal/config"
	"cxxfront/internal/trace"
)

// newTracer builds the tracer for the merged [trace] settings. Naming an
// output without a level traces at phase level.
func newTracer(tc config.Trace, ringSize int) (trace.Tracer, error) {
	level, err := trace.ParseLevel(tc.Level)
	if err != nil {
		return nil, err
	}
	if level == trace.LevelOff {
		if tc.Output == "" {
			return trace.Nop, nil
		}
		level = trace.LevelPhase
	}
	mode, err := trace.ParseMode(tc.Mode)
	if err != nil {
		return nil, err
	}
	return trace.New(trace.Config{Level: level, Mode: mode, OutputPath: tc.Output, RingSize: ringSize})
}

// setupTracing attaches the configured tracer to the command and the root
// context. The returned func flushes and closes it.
func setupTracing(cmd *cobra.Command, tc config.Trace) (func(), error) {
	ringSize, err := cmd.Root().PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, err
	}
	tracer, err := newTracer(tc, ringSize)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	return func() {
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: %v\n", err)
		}
	}, nil
}
